package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/brewcue/internal/config"
	"github.com/hammamikhairi/brewcue/internal/conversation"
	"github.com/hammamikhairi/brewcue/internal/display"
	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/engine"
	"github.com/hammamikhairi/brewcue/internal/logger"
	"github.com/hammamikhairi/brewcue/internal/notify"
	"github.com/hammamikhairi/brewcue/internal/progress"
	"github.com/hammamikhairi/brewcue/internal/timer"
	"github.com/hammamikhairi/brewcue/internal/voice"
)

type brewFlags struct {
	muted   bool
	noSound bool
	voice   bool
}

func (a *app) brewCmd() *cobra.Command {
	var f brewFlags
	cmd := &cobra.Command{
		Use:   "brew [recipe]",
		Short: "Brew a recipe with the guided timer (default: the active recipe)",
		Long: `Brew a recipe with the guided timer. The recipe can be given by its number
in ` + "`brewcue list`" + `, its id, or its title.

Keys: enter start/continue, space pause/resume, s skip, m mute, q quit,
/ to type a command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return a.runBrew(cmd, ref, f)
		},
	}
	cmd.Flags().BoolVar(&f.muted, "muted", false, "start with step alerts muted")
	cmd.Flags().BoolVar(&f.noSound, "no-sound", false, "disable the audio chime (terminal bell still rings)")
	cmd.Flags().BoolVar(&f.voice, "voice", false, "enable voice commands via local Whisper")
	return cmd
}

// runBrew wires the brew screen and blocks until the user quits.
func (a *app) runBrew(cmd *cobra.Command, ref string, f brewFlags) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var (
		r   *domain.Recipe
		err error
	)
	if ref != "" {
		r, err = resolveRecipe(ctx, a.store, ref)
	} else {
		r, err = activeRecipe(ctx, a.store)
		if errors.Is(err, domain.ErrNoActiveRecipe) {
			return errors.New("no recipe selected: pass one to `brewcue brew`, e.g. `brewcue brew 1` (see `brewcue list`)")
		}
	}
	if err != nil {
		return err
	}

	log := a.log
	port := buildPort(a.cfg, f.noSound, log)

	// The announcer prints through the UI, which in turn renders from the
	// supervisor, so the UI is bound after both exist.
	var ui *display.UI
	announcer := conversation.NewCLINotifier(log, func(format string, args ...any) {
		ui.Printf(format, args...)
	})

	supOpts := []timer.Option{
		timer.WithAnnouncer(announcer),
		timer.WithAlmostDoneThreshold(a.cfg.AlmostDone),
	}
	if a.cfg.IdleAfter > 0 {
		supOpts = append(supOpts, timer.WithWatcher(timer.WithIdleAfter(a.cfg.IdleAfter)))
	}
	sup := timer.New(log, supOpts...)
	defer sup.Close()
	ui = display.NewUI(sup)

	loop := &brewLoop{
		sup:    sup,
		store:  a.store,
		parser: conversation.NewKeywordParser(log),
		screen: ui,
		log:    log,
		muted:  f.muted || a.cfg.Muted,
		newSession: func(r *domain.Recipe, muted bool) (*engine.Session, error) {
			return engine.New(r, port, log,
				engine.WithMuted(muted),
				engine.WithReporter(ui),
				engine.WithLabeler(progress.StepLabel),
			)
		},
	}
	events := sup.Subscribe(32)
	if err := loop.load(ctx, r); err != nil {
		return fmt.Errorf("brewing %s: %w", r.Title, err)
	}

	var voiceCh <-chan string
	if f.voice || a.cfg.Voice.Enabled {
		l, err := startVoice(ctx, a.cfg.Voice, port, log)
		if err != nil {
			log.Warn("voice disabled: %v", err)
		} else {
			voiceCh = l.C()
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, display.RenderBanner())
	if voiceCh != nil {
		fmt.Fprintln(out, display.BannerStyle.Render(`  Voice mode on: say "Hey brew" then a command, or use the keys below.`))
	} else {
		fmt.Fprintln(out, display.BannerStyle.Render("  Press ? for help."))
	}
	fmt.Fprintln(out)

	go func() {
		ui.WaitReady()
		loop.run(ctx, ui.InputChan(), voiceCh, events)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
		return err
	}
	cancel()
	if c, ok := port.(interface{ Wait() }); ok {
		c.Wait()
	}
	return nil
}

// buildPort assembles the step alert: the audio chime when a sound device
// is available, plus the terminal bell. Audio failures fall back silently.
func buildPort(cfg config.Config, noSound bool, log *logger.Logger) domain.NotificationPort {
	var ports notify.Multi

	if !noSound {
		if player, err := notify.NewPlayer(log); err != nil {
			log.Warn("audio unavailable, chime disabled: %v", err)
		} else {
			opts := []notify.ChimeOption{notify.WithVolume(cfg.Volume)}
			if cfg.AlertSound != "" {
				pcm, err := notify.LoadWAV(config.ExpandHome(cfg.AlertSound))
				if err != nil {
					log.Warn("alert sound %s: %v (using the built-in chime)", cfg.AlertSound, err)
				} else {
					opts = append(opts, notify.WithSound(pcm))
				}
			}
			ports = append(ports, notify.NewChime(player, log, opts...))
		}
	}
	if cfg.TerminalBell {
		ports = append(ports, notify.NewBell(nil))
	}

	switch len(ports) {
	case 0:
		return notify.NoOp{}
	case 1:
		return ports[0]
	}
	return ports
}

func startVoice(ctx context.Context, vc config.VoiceConfig, port domain.NotificationPort, log *logger.Logger) (*voice.Listener, error) {
	model := config.ExpandHome(vc.Model)
	if !stat(model) {
		return nil, fmt.Errorf("whisper model not found at %s", model)
	}
	tempDir := ".brewcue-stt"
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, err
	}

	opts := []voice.Option{
		voice.WithTempDir(tempDir),
		voice.WithWakeWords(vc.WakeWords...),
	}
	if vc.RecordSecs > 0 {
		opts = append(opts, voice.WithRecordDuration(time.Duration(vc.RecordSecs)*time.Second))
	}
	if c, ok := port.(domain.Canceler); ok {
		opts = append(opts, voice.WithInterrupt(c))
	}

	l := voice.New(vc.WhisperBin, model, log, opts...)
	go l.Run(ctx)
	log.Info("voice input enabled (bin=%s, model=%s)", vc.WhisperBin, model)
	return l, nil
}
