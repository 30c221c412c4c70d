package notify

import (
	"context"
	"errors"

	"github.com/hammamikhairi/brewcue/internal/domain"
)

var (
	_ domain.NotificationPort = Multi(nil)
	_ domain.Canceler         = Multi(nil)
	_ domain.NotificationPort = NoOp{}
)

// Multi alerts every port in order. One port failing does not stop the rest.
type Multi []domain.NotificationPort

// Alert calls every port and joins their errors.
func (m Multi) Alert(ctx context.Context) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Alert(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CancelPending forwards to every port that supports it.
func (m Multi) CancelPending() {
	for _, p := range m {
		if c, ok := p.(domain.Canceler); ok {
			c.CancelPending()
		}
	}
}

// Wait blocks until every port that plays in the background is quiet.
func (m Multi) Wait() {
	for _, p := range m {
		if w, ok := p.(interface{ Wait() }); ok {
			w.Wait()
		}
	}
}

// NoOp is used when no cue is available.
type NoOp struct{}

// Alert does nothing.
func (NoOp) Alert(context.Context) error { return nil }
