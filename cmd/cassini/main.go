package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/export"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/logging"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/precompute"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/rendering"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/server"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

func main() {
	// The viewer uploads textures on the thread that opened the window
	runtime.LockOSThread()

	var (
		configPath = flag.String("config", "cassini.yaml", "Settings file")
		scale      = flag.Int("scale", 0, "Divide raster sizes by this factor (overrides settings)")
		viewer     = flag.Bool("viewer", false, "Open the raylib viewer (needs the raylib build tag)")
		strict     = flag.Bool("strict", false, "Abort on invariant violations")
	)
	flag.Parse()

	fmt.Println("=== Cassini Precompute ===")

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if err := settings.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment override: %v", err)
	}
	if *scale > 0 {
		settings.Generation.Scale = *scale
	}
	if *viewer {
		settings.Viewer.Enabled = true
	}
	if *strict {
		settings.Diagnostics.Strict = true
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	logging.Init(settings.Logging)
	if settings.Diagnostics.Strict {
		core.SetPolicy(core.Strict)
	}

	g := settings.Generation
	fmt.Printf("Body cube side: %d\n", g.Scaled(g.BodySize))
	fmt.Printf("Space cube side: %d\n", g.Scaled(g.SpaceSize))
	fmt.Printf("Stars: %d\n", g.Scaled(g.StarCount))
	fmt.Printf("Invariant policy: %s\n", core.CurrentPolicy())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Precompute failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("\nShutting down...")
}

func run(ctx context.Context, settings *config.Settings) error {
	tl, err := timeline.Demo()
	if err != nil {
		return fmt.Errorf("camera track: %w", err)
	}
	slog.Info("Camera track loaded", "scenes", len(tl.Scenes()), "length_ms", tl.Length())

	var uploaders precompute.MultiUploader
	if settings.Export.Enabled {
		w, err := export.NewWriter(settings.Export.Dir, settings.Export.Depth)
		if err != nil {
			return err
		}
		uploaders = append(uploaders, w)
	}

	serveErr := make(chan error, 1)
	if settings.Preview.Enabled {
		hub := server.NewHub(settings.Preview, tl)
		go func() { serveErr <- hub.ListenAndServe(ctx) }()
		uploaders = append(uploaders, hub)
	}
	if len(uploaders) == 0 {
		uploaders = append(uploaders, precompute.UploaderFunc(logResult))
	}

	orch, err := precompute.New(settings.Generation)
	if err != nil {
		return err
	}

	if settings.Viewer.Enabled {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		orch.Start(ctx)
		src := newForwardingSource(ctx, orch, uploaders)
		if err := rendering.NewViewer(settings.Viewer, tl).Run(ctx, src); err != nil {
			return err
		}
		cancel()
		if err := orch.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	if err := orch.Run(ctx, uploaders); err != nil {
		return err
	}

	if settings.Preview.Enabled {
		fmt.Printf("Generation complete, serving previews on %s (Ctrl+C to exit)\n", settings.Preview.Addr)
		return <-serveErr
	}
	return nil
}

// logResult is the fallback sink when neither export nor preview is enabled
func logResult(_ context.Context, r precompute.Result) error {
	attrs := []any{"name", r.Name, "channels", r.Channels()}
	switch {
	case r.Cube != nil:
		lo, hi := r.Cube.MinMax(0)
		attrs = append(attrs, "size", r.Cube.Size(), "min", lo, "max", hi)
	case r.Image != nil:
		lo, hi := r.Image.MinMax(0)
		attrs = append(attrs, "width", r.Image.Width(), "height", r.Image.Height(), "min", lo, "max", hi)
	case r.Volume != nil:
		lo, hi := r.Volume.MinMax(0)
		attrs = append(attrs, "width", r.Volume.Width(), "min", lo, "max", hi)
	}
	slog.Info("Result ready", attrs...)
	return nil
}
