package ingestion_engine

import (
	"context"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

// streamBuffer lets the pipeline run a few events ahead of a slow transport.
const streamBuffer = 16

// ProgressStream delivers the events of one run over a channel.
//
// Events is closed when the run ends. Err then returns nil for a run that
// emitted its completion event, and the terminal error otherwise.
type ProgressStream struct {
	events chan models.Progress
	done   chan struct{}
	err    error
}

// Stream starts a run in its own goroutine. Cancel ctx to stop it; the run
// notices before its next embedding or store call.
func (p *Pipeline) Stream(ctx context.Context, src core.DocumentSource, target models.Target) *ProgressStream {
	s := &ProgressStream{
		events: make(chan models.Progress, streamBuffer),
		done:   make(chan struct{}),
	}

	go func() {
		err := p.Run(ctx, src, target, s.send)
		s.err = err
		close(s.events)
		close(s.done)
	}()

	return s
}

func (s *ProgressStream) send(ctx context.Context, ev models.Progress) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events returns the ordered event channel.
func (s *ProgressStream) Events() <-chan models.Progress {
	return s.events
}

// Err blocks until the run has ended and returns its result.
func (s *ProgressStream) Err() error {
	<-s.done
	return s.err
}
