// Package notify implements the step-completion cues: an audio chime played
// through oto, the terminal bell, and a fan-out over several ports.
package notify

import (
	"context"
	"sync"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.NotificationPort = (*Chime)(nil)
	_ domain.Canceler         = (*Chime)(nil)
)

// PCMPlayer plays raw PCM. *Player is the production implementation.
type PCMPlayer interface {
	Play(pcm []byte) error
	Stop()
}

// ChimeOption configures a Chime.
type ChimeOption func(*Chime)

// WithSound replaces the synthesised chime with pre-decoded PCM.
func WithSound(pcm []byte) ChimeOption {
	return func(c *Chime) {
		if len(pcm) > 0 {
			c.pcm = pcm
		}
	}
}

// WithVolume scales the synthesised chime, 0 to 1.
func WithVolume(v float64) ChimeOption {
	return func(c *Chime) {
		c.volume = v
	}
}

// Chime plays a short sound on every alert. Playback runs on its own
// goroutine so Alert never blocks the caller. An alert arriving while the
// previous chime still plays is dropped.
type Chime struct {
	player PCMPlayer
	log    *logger.Logger
	pcm    []byte
	volume float64

	mu      sync.Mutex
	playing bool
	wg      sync.WaitGroup
}

// NewChime creates a chime on the given player.
func NewChime(player PCMPlayer, log *logger.Logger, opts ...ChimeOption) *Chime {
	c := &Chime{
		player: player,
		log:    log,
		volume: 0.6,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pcm == nil {
		c.pcm = Synthesize(DefaultChime, c.volume)
	}
	return c
}

// Alert starts the chime and returns immediately.
func (c *Chime) Alert(ctx context.Context) error {
	c.mu.Lock()
	if c.playing {
		c.mu.Unlock()
		c.log.Debug("chime: already playing, alert dropped")
		return nil
	}
	c.playing = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.player.Play(c.pcm); err != nil {
			c.log.Warn("chime: playback failed: %v", err)
		}
		c.mu.Lock()
		c.playing = false
		c.mu.Unlock()
	}()
	return nil
}

// CancelPending stops a chime that is still playing.
func (c *Chime) CancelPending() {
	c.player.Stop()
}

// Wait blocks until any in-flight chime has finished.
func (c *Chime) Wait() {
	c.wg.Wait()
}
