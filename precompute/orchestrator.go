// Package precompute sequences the generation stages: seeded synchronous setup,
// then one body at a time handed to an uploader over a single-slot handoff.
package precompute

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/compositor"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

// distortRowWidth is the number of milliseconds per row of the published distort table
const distortRowWidth = 1000

// Orchestrator runs the generation pipeline in the background. The consumer drains
// Results and calls Release after each upload, which lets the producer continue.
type Orchestrator struct {
	settings config.GenerationSettings
	phase    compositor.OctavePhase
	logger   *slog.Logger

	results chan Result
	release chan struct{}
	pending atomic.Bool
	done    atomic.Bool
	assets  atomic.Pointer[Assets]

	group *errgroup.Group
}

// New validates the generation settings and creates an idle orchestrator
func New(settings config.GenerationSettings) (*Orchestrator, error) {
	phase, ok := compositor.ParseOctavePhase(settings.OctavePhase)
	if !ok {
		return nil, fmt.Errorf("unknown octave phase %q", settings.OctavePhase)
	}
	return &Orchestrator{
		settings: settings,
		phase:    phase,
		logger:   slog.With("component", "precompute"),
		results:  make(chan Result),
		release:  make(chan struct{}, 1),
	}, nil
}

// Start launches the producer and the rings worker. It must be called once.
func (o *Orchestrator) Start(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	o.group = g

	rings := make(chan *raster.Image2D, 1)
	g.Go(func() error {
		start := time.Now()
		rings <- compositor.SaturnRings(o.settings.Scaled(o.settings.RingsWidth), o.settings.Seeds.Rings)
		o.logger.Debug("Saturn rings ready", "duration", time.Since(start))
		return nil
	})
	g.Go(func() error {
		return o.produce(gctx, rings)
	})
}

// Results delivers finished rasters; it is closed when the producer stops
func (o *Orchestrator) Results() <-chan Result {
	return o.results
}

// Release acknowledges the last received result and unblocks the producer
func (o *Orchestrator) Release() {
	o.pending.Store(false)
	select {
	case o.release <- struct{}{}:
	default:
	}
}

// HasPendingUpdate reports whether a finished result is waiting for upload
func (o *Orchestrator) HasPendingUpdate() bool {
	return o.pending.Load()
}

// Done reports whether every result, rings included, has been uploaded
func (o *Orchestrator) Done() bool {
	return o.done.Load()
}

// Assets returns the seeded inputs, or nil before the synchronous stages finish
func (o *Orchestrator) Assets() *Assets {
	return o.assets.Load()
}

// Wait blocks until the producer and the rings worker have both returned
func (o *Orchestrator) Wait() error {
	if o.group == nil {
		return nil
	}
	return o.group.Wait()
}

// Run starts the pipeline and uploads every result with up on the calling goroutine
func (o *Orchestrator) Run(ctx context.Context, up Uploader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.Start(ctx)
	for r := range o.results {
		if err := up.Upload(ctx, r); err != nil {
			cancel()
			_ = o.Wait()
			return fmt.Errorf("upload %s: %w", r.Name, err)
		}
		o.Release()
	}
	return o.Wait()
}

func (o *Orchestrator) publish(ctx context.Context, r Result) error {
	o.pending.Store(true)
	select {
	case o.results <- r:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-o.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stage times fn and logs its completion
func (o *Orchestrator) stage(name string, fn func() error) error {
	start := time.Now()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	o.logger.Info("Stage complete", "stage", name, "duration", time.Since(start))
	return nil
}

func (o *Orchestrator) produce(ctx context.Context, rings <-chan *raster.Image2D) (err error) {
	defer close(o.results)
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*core.InvariantError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("precompute: %w", ie)
		}
	}()

	assets, err := o.prepare()
	if err != nil {
		return err
	}
	o.assets.Store(assets)

	for _, r := range []Result{
		{Name: "saturn-bands", Image: assets.Bands},
		{Name: "distort", Image: assets.Distort.Raster(distortRowWidth)},
		{Name: "noise-2d", Image: assets.Noise2D},
		{Name: "noise-3d-hq", Volume: assets.NoiseHQ},
		{Name: "noise-3d-lq", Volume: assets.NoiseLQ},
	} {
		if err := o.publish(ctx, r); err != nil {
			return err
		}
	}

	g := o.settings
	bodySize := g.Scaled(g.BodySize)
	bodies := []struct {
		name  string
		build func() (Result, error)
	}{
		{"space", func() (Result, error) {
			cube, err := assets.Bodies.Space(g.Scaled(g.SpaceSize))
			return Result{Cube: cube}, err
		}},
		{"enceladus-surface", func() (Result, error) {
			img, err := compositor.EnceladusSurface(g.Scaled(g.SurfaceSize), core.NewRandom(g.Seeds.EnceladusSurface))
			return Result{Image: img}, err
		}},
		{"enceladus", func() (Result, error) {
			cube, err := assets.Bodies.Enceladus(bodySize, assets.Crawlers, core.NewRandom(g.Seeds.EnceladusCarve))
			return Result{Cube: cube}, err
		}},
		{"tethys", func() (Result, error) {
			cube, err := assets.Bodies.Tethys(bodySize)
			return Result{Cube: cube}, err
		}},
		{"trail", func() (Result, error) {
			return Result{Cube: compositor.Trail(bodySize, core.NewRandom(g.Seeds.Trail))}, nil
		}},
	}

	for _, body := range bodies {
		var r Result
		if err := o.stage(body.name, func() error {
			var err error
			r, err = body.build()
			return err
		}); err != nil {
			return err
		}
		r.Name = body.name
		if err := o.publish(ctx, r); err != nil {
			return err
		}
	}

	select {
	case img := <-rings:
		if err := o.publish(ctx, Result{Name: "saturn-rings", Image: img}); err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	o.done.Store(true)
	o.logger.Info("Precompute finished")
	return nil
}

// prepare runs the seeded synchronous stages. Seeds and draw order are fixed:
// bands and distort, then the main stream for noise and stars, then the crater
// and crawler seeds.
func (o *Orchestrator) prepare() (*Assets, error) {
	g := o.settings
	a := &Assets{}

	if err := o.stage("tables", func() error {
		var err error
		a.Bands, a.Distort, err = buildTables(g)
		return err
	}); err != nil {
		return nil, err
	}

	rng := core.NewRandom(g.Seeds.Main)
	if err := o.stage("noise", func() error {
		var err error
		a.Noise2D, a.NoiseHQ, a.NoiseLQ, err = buildNoise(g, rng)
		return err
	}); err != nil {
		return nil, err
	}

	bodies := &compositor.Bodies{
		Sampler: compositor.Sampler{Noise2D: a.Noise2D, Noise3D: a.NoiseHQ, Phase: o.phase},
	}
	if err := o.stage("stars", func() error {
		bodies.Stars = buildStars(g.Scaled(g.StarCount), rng)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := o.stage("craters", func() error {
		rng.Seed(g.Seeds.EnceladusCraters)
		bodies.EnceladusCraters = buildEnceladusCraters(rng)
		rng.Seed(g.Seeds.Crawlers)
		a.Crawlers = buildCrawlers(g.Scaled(crawlerCount), rng)
		rng.Seed(g.Seeds.TethysCraters)
		bodies.TethysCraters = buildTethysCraters(rng)
		return nil
	}); err != nil {
		return nil, err
	}

	a.Bodies = bodies
	return a, nil
}
