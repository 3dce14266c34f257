package main

import (
	"context"
	"log/slog"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/precompute"
)

// forwardingSource hands each result to the disk and preview sinks before the
// viewer sees it. Sink failures are logged and do not stop the viewer.
type forwardingSource struct {
	orch *precompute.Orchestrator
	out  chan precompute.Result
}

func newForwardingSource(ctx context.Context, orch *precompute.Orchestrator, up precompute.Uploader) *forwardingSource {
	s := &forwardingSource{orch: orch, out: make(chan precompute.Result)}
	go func() {
		defer close(s.out)
		for r := range orch.Results() {
			if err := up.Upload(ctx, r); err != nil {
				slog.Warn("Sink failed", "name", r.Name, "error", err)
			}
			select {
			case s.out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return s
}

func (s *forwardingSource) Results() <-chan precompute.Result { return s.out }
func (s *forwardingSource) Release()                          { s.orch.Release() }
func (s *forwardingSource) Done() bool                        { return s.orch.Done() }
func (s *forwardingSource) Assets() *precompute.Assets        { return s.orch.Assets() }
