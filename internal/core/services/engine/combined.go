package engine

import (
	"sync"

	"github.com/iamNilotpal/rotlog/internal/core/domain"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Combined forwards every call to each of its engines in order.
type Combined struct {
	engines []Engine
}

func NewCombined(engines ...Engine) *Combined {
	kept := make([]Engine, 0, len(engines))
	for _, e := range engines {
		if e != nil {
			kept = append(kept, e)
		}
	}
	return &Combined{engines: kept}
}

func (c *Combined) Write(meta domain.Metadata, items ...any) {
	for _, e := range c.engines {
		e.Write(meta, items...)
	}
}

// Flush flushes all engines concurrently and returns every failure.
func (c *Combined) Flush() error {
	var (
		g   errgroup.Group
		mu  sync.Mutex
		err error
	)

	for _, e := range c.engines {
		g.Go(func() error {
			if ferr := e.Flush(); ferr != nil {
				mu.Lock()
				err = multierr.Append(err, ferr)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return err
}
