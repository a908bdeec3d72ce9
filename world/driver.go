package world

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// Driver invokes a prepare pipeline at a fixed interval. It is a convenience
// for hosts without their own frame scheduler; hosts that have one should
// call Pipeline.Step directly. The clock is injectable so tests can drive
// steps deterministically.
type Driver struct {
	pipeline *Pipeline
	clock    clock.Clock
	interval time.Duration
	logger   golog.Logger

	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
}

// NewDriver returns a driver stepping the pipeline every interval. A nil
// clock uses the wall clock; a nil logger falls back to the global one.
func NewDriver(pipeline *Pipeline, c clock.Clock, interval time.Duration, logger golog.Logger) (*Driver, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline required")
	}
	if interval <= 0 {
		return nil, errors.Errorf("interval must be positive, got %v", interval)
	}
	if c == nil {
		c = clock.New()
	}
	if logger == nil {
		logger = golog.Global()
	}
	return &Driver{pipeline: pipeline, clock: c, interval: interval, logger: logger}, nil
}

// Start begins stepping in the background until the context is canceled or
// Stop is called. A failed step is logged and does not stop the driver; the
// pipeline is skipped entirely for that tick rather than partially retried.
func (d *Driver) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer d.activeBackgroundWorkers.Done()
		ticker := d.clock.Ticker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := d.pipeline.Step(ctx); err != nil {
					d.logger.Errorw("prepare step failed", "error", err)
				}
			}
		}
	})
}

// Stop halts stepping and waits for the background worker to exit.
func (d *Driver) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.activeBackgroundWorkers.Wait()
}
