package conversation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		// Continue variants
		{"next", domain.IntentContinue, ""},
		{"done", domain.IntentContinue, ""},
		{"  Continue  ", domain.IntentContinue, ""},

		// Skip
		{"skip", domain.IntentSkip, ""},
		{"Skip this.", domain.IntentSkip, ""},
		{"s", domain.IntentSkip, ""},

		// Pause/Resume
		{"pause", domain.IntentPause, ""},
		{"Hold on!", domain.IntentPause, ""},
		{"resume", domain.IntentResume, ""},
		{"keep going", domain.IntentResume, ""},
		{"space", domain.IntentTogglePause, ""},

		// Mute
		{"mute", domain.IntentMute, ""},
		{"Quiet.", domain.IntentMute, ""},
		{"unmute", domain.IntentUnmute, ""},

		// Status, help, quit
		{"status", domain.IntentStatus, ""},
		{"How long?", domain.IntentStatus, ""},
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},
		{"quit", domain.IntentQuit, ""},
		{"q", domain.IntentQuit, ""},

		// Recipes
		{"list", domain.IntentListRecipes, ""},
		{"recipes", domain.IntentListRecipes, ""},
		{"2", domain.IntentSelectRecipe, "2"},
		{"1.", domain.IntentSelectRecipe, "1"},
		{"select 3", domain.IntentSelectRecipe, "3"},
		{"Brew Counter Culture Chemex.", domain.IntentSelectRecipe, "counter culture chemex"},
		{"start", domain.IntentStart, ""},
		{"Let’s brew", domain.IntentStart, ""},

		// Unknown
		{"", domain.IntentUnknown, ""},
		{"banana", domain.IntentUnknown, "banana"},
		{"select", domain.IntentUnknown, "select"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Fatalf("input %q: expected %s, got %s", tt.input, tt.wantType, intent.Type)
			}
			if intent.Payload != tt.wantPayload {
				t.Fatalf("input %q: expected payload %q, got %q", tt.input, tt.wantPayload, intent.Payload)
			}
		})
	}
}

func TestKeywordParserUsesPhase(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input string
		phase domain.Phase
		want  domain.IntentType
	}{
		{"next", domain.PhaseNotStarted, domain.IntentStart},
		{"next", domain.PhasePaused, domain.IntentResume},
		{"next", domain.PhaseAwaitingManualContinue, domain.IntentContinue},
		{"next", domain.PhaseCountingDown, domain.IntentContinue},
		{"go", domain.PhasePaused, domain.IntentResume},
		{"go", domain.PhaseAwaitingManualContinue, domain.IntentContinue},
		{"pause", domain.PhasePaused, domain.IntentResume},
		{"pause", domain.PhaseCountingDown, domain.IntentPause},
		{"skip", domain.PhasePaused, domain.IntentSkip},
	}

	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.phase.String(), func(t *testing.T) {
			st := &domain.SessionState{Phase: tt.phase}
			intent, err := parser.Parse(ctx, tt.input, st)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, intent.Type)
			}
		})
	}
}

func TestCLINotifier(t *testing.T) {
	var lines []string
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), func(format string, a ...any) {
		lines = append(lines, fmt.Sprintf(format, a...))
	})
	ctx := context.Background()

	_ = n.Notify(ctx, "[Brew] Bloom almost done")
	_ = n.Notify(ctx, "[Watcher] Brew paused")
	_ = n.NotifyUrgent(ctx, "Alert")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], cyan) || !strings.Contains(lines[0], "Bloom almost done") {
		t.Fatalf("unexpected notify line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], yellow) {
		t.Fatalf("expected watcher nudge in yellow, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], red) || !strings.HasSuffix(lines[2], reset) {
		t.Fatalf("unexpected urgent line %q", lines[2])
	}
}
