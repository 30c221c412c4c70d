// Package voice provides hands-free brew commands through a local Whisper
// model. Nothing leaves the machine: audio is recorded and transcribed by a
// whisper.cpp binary.
package voice

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

// listenerState represents the Listener's listening mode.
type listenerState int

const (
	// stateDormant scans short clips for the wake word.
	stateDormant listenerState = iota
	// stateListening captures the command after a wake word.
	stateListening
)

// DefaultWakeWords start a command. Whisper mishears the name often, so a
// few spellings are included.
var DefaultWakeWords = []string{
	"hey brew",
	"hey, brew",
	"brew cue",
	"brewcue",
	"brew queue",
	"hey barista",
	"barista",
}

// Option configures the Listener.
type Option func(*Listener)

// WithRecordDuration sets how long each active-listening chunk lasts.
func WithRecordDuration(d time.Duration) Option {
	return func(l *Listener) { l.recordDuration = d }
}

// WithDormantDuration sets how long each wake-word probe recording lasts.
func WithDormantDuration(d time.Duration) Option {
	return func(l *Listener) { l.dormantDuration = d }
}

// WithListenTimeout sets how long the listener stays in active listening
// before giving up and returning to dormant.
func WithListenTimeout(d time.Duration) Option {
	return func(l *Listener) { l.listenTimeout = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) Option {
	return func(l *Listener) { l.tempDir = dir }
}

// WithWakeWords overrides the default wake phrases.
func WithWakeWords(words ...string) Option {
	return func(l *Listener) {
		if len(words) > 0 {
			l.wakeWords = words
		}
	}
}

// WithInterrupt silences a playing chime when the wake word is heard, so
// the command is not drowned out.
func WithInterrupt(c domain.Canceler) Option {
	return func(l *Listener) { l.interrupt = c }
}

// Listener turns speech into text commands.
//
// Lifecycle:
//  1. DORMANT: records short clips and checks for a wake word. Everything
//     else is discarded.
//  2. LISTENING: wake word heard, so record longer chunks and accumulate the
//     command until silence or timeout.
//  3. The accumulated text (minus the wake word) is sent on C and the
//     listener goes back to dormant.
type Listener struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger
	interrupt  domain.Canceler

	wakeWords       []string
	recordDuration  time.Duration
	dormantDuration time.Duration
	listenTimeout   time.Duration
	graceDelay      time.Duration
	errorBackoff    time.Duration

	// record captures and transcribes one clip. Replaced in tests.
	record func(ctx context.Context, d time.Duration) string

	mu     sync.Mutex
	muted  bool
	state  listenerState
	textCh chan string
}

// New creates a wake-word-triggered voice listener.
//
//   - whisperBin: path to the whisper-cli executable
//   - modelPath:  path to the GGML model file
func New(whisperBin, modelPath string, log *logger.Logger, opts ...Option) *Listener {
	l := &Listener{
		whisperBin:      whisperBin,
		modelPath:       modelPath,
		tempDir:         ".brewcue-stt",
		log:             log,
		wakeWords:       DefaultWakeWords,
		recordDuration:  1 * time.Second,
		dormantDuration: 2 * time.Second,
		listenTimeout:   8 * time.Second,
		graceDelay:      300 * time.Millisecond,
		errorBackoff:    2 * time.Second,
		state:           stateDormant,
		textCh:          make(chan string, 8),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.record = l.recordChunk

	if _, err := exec.LookPath(l.whisperBin); err != nil {
		log.Error("voice: whisper binary %q not found in PATH: %v", l.whisperBin, err)
	}
	return l
}

// C returns the channel that receives transcribed commands.
func (l *Listener) C() <-chan string {
	return l.textCh
}

// Mute temporarily disables listening.
func (l *Listener) Mute() {
	l.mu.Lock()
	l.muted = true
	l.mu.Unlock()
	l.log.Debug("voice: muted")
}

// Unmute re-enables listening.
func (l *Listener) Unmute() {
	l.mu.Lock()
	l.muted = false
	l.mu.Unlock()
	l.log.Debug("voice: unmuted")
}

func (l *Listener) isMuted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.muted
}

func (l *Listener) getState() listenerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Listener) setState(s listenerState) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Run starts the listening loop. Blocks until ctx is cancelled.
// Call this in a goroutine.
func (l *Listener) Run(ctx context.Context) {
	l.log.Info("voice: started (dormant=%s, active=%s, timeout=%s, wake=%v)",
		l.dormantDuration, l.recordDuration, l.listenTimeout, l.wakeWords)

	for {
		select {
		case <-ctx.Done():
			l.log.Info("voice: stopped")
			return
		default:
		}

		if l.isMuted() {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
			}
			continue
		}

		switch l.getState() {
		case stateDormant:
			l.doDormant(ctx)
		case stateListening:
			l.doListening(ctx)
		}
	}
}

// doDormant records a short clip and checks it for the wake word.
func (l *Listener) doDormant(ctx context.Context) {
	text := cleanTranscription(l.record(ctx, l.dormantDuration))
	if text == "" {
		return
	}
	l.log.Debug("voice/dormant: heard %q", text)

	rest, ok := stripWakeWord(text, l.wakeWords)
	if !ok {
		return
	}
	l.log.Info("voice: wake word detected in %q", text)

	if l.interrupt != nil {
		l.interrupt.CancelPending()
	}

	// Wake word and command in one breath ("hey brew, skip").
	rest = cleanTranscription(rest)
	if rest != "" && !isPunctuation(rest) {
		l.log.Info("voice: immediate command: %q", rest)
		l.send(ctx, rest)
		return
	}

	l.setState(stateListening)
}

// doListening records chunks until the user stops talking or the listen
// timeout expires, then sends the accumulated text.
func (l *Listener) doListening(ctx context.Context) {
	defer l.setState(stateDormant)
	l.log.Info("voice: listening...")

	select {
	case <-time.After(l.graceDelay):
	case <-ctx.Done():
		return
	}

	parts := l.collect(ctx)
	combined := strings.TrimSpace(strings.Join(parts, " "))
	if combined == "" {
		l.log.Debug("voice: listening ended with no input")
		return
	}

	l.log.Info("voice: heard command: %q", combined)
	l.send(ctx, combined)
}

// collect gathers transcribed chunks. Before the user starts talking more
// silence is tolerated; once they have, a shorter gap ends the command.
func (l *Listener) collect(ctx context.Context) []string {
	const graceEmpty = 3
	const postSpeechEmpty = 1

	deadline := time.After(l.listenTimeout)
	var parts []string
	emptyRuns := 0
	heard := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			l.log.Debug("voice: listen timeout reached")
			return parts
		default:
		}

		chunk := cleanTranscription(l.record(ctx, l.recordDuration))
		if chunk == "" {
			emptyRuns++
			limit := graceEmpty
			if heard {
				limit = postSpeechEmpty
			}
			if emptyRuns >= limit {
				l.log.Debug("voice: silence detected (heard_speech=%v)", heard)
				return parts
			}
			continue
		}

		emptyRuns = 0
		heard = true
		if chunk = removeWakeWords(chunk, l.wakeWords); chunk != "" {
			l.log.Debug("voice/listen: chunk: %q", chunk)
			parts = append(parts, chunk)
		}
	}
}

func (l *Listener) send(ctx context.Context, text string) {
	select {
	case l.textCh <- text:
	case <-ctx.Done():
	}
}

// recordChunk does one recording cycle with the given duration and
// returns the transcribed text.
func (l *Listener) recordChunk(ctx context.Context, duration time.Duration) string {
	var result string
	var wg sync.WaitGroup
	wg.Add(1)

	callback := func(text string) {
		result = text
		wg.Done()
	}

	verbose := l.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(
		l.whisperBin,
		l.modelPath,
		l.tempDir,
		"wav",
		callback,
		verbose,
	)
	if err != nil {
		l.log.Error("voice: transcriber init failed: %v", err)
		l.backoff(ctx)
		return ""
	}

	if err := t.Start(); err != nil {
		l.log.Error("voice: recording start failed: %v", err)
		l.backoff(ctx)
		return ""
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
		t.Stop()
		wg.Wait()
		return ""
	}

	t.Stop()
	wg.Wait()
	return result
}

func (l *Listener) backoff(ctx context.Context) {
	select {
	case <-time.After(l.errorBackoff):
	case <-ctx.Done():
	}
}
