package notify

import (
	"context"
	"io"
	"os"

	"github.com/hammamikhairi/brewcue/internal/domain"
)

var _ domain.NotificationPort = (*Bell)(nil)

// Bell rings the terminal bell. Most terminals flash or buzz on it, which
// makes it the closest thing to a vibration cue.
type Bell struct {
	w io.Writer
}

// NewBell writes to w, or stderr when w is nil.
func NewBell(w io.Writer) *Bell {
	if w == nil {
		w = os.Stderr
	}
	return &Bell{w: w}
}

// Alert writes BEL.
func (b *Bell) Alert(_ context.Context) error {
	_, err := io.WriteString(b.w, "\a")
	return err
}
