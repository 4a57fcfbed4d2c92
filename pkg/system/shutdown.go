// Package system holds process level helpers.
package system

import (
	"context"

	"go.uber.org/multierr"
)

// Shutdown runs every closer in order on a separate goroutine and waits for
// them or for ctx, whichever comes first. Closers keep running after ctx is
// done; their errors are then lost and ctx's error is returned.
func Shutdown(ctx context.Context, closers ...func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Buffered so the goroutine can finish after an early return.
	done := make(chan error, 1)
	go func() {
		var err error
		for _, closeFn := range closers {
			if closeFn != nil {
				err = multierr.Append(err, closeFn())
			}
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
