package display

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/brewcue/internal/domain"
)

type fakeSource struct {
	mu     sync.Mutex
	recipe *domain.Recipe
	state  domain.SessionState
	ok     bool
}

func (f *fakeSource) State() (domain.SessionState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.ok
}

func (f *fakeSource) Recipe() *domain.Recipe {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recipe
}

func testRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:     "r1",
		Title:  "Morning V60",
		Method: "V60",
		Steps: []domain.BrewingStep{
			{Type: domain.StepBloom, Time: domain.Seconds(30), Amount: domain.Grams(50)},
			{Type: domain.StepPour, Time: domain.Seconds(90), Amount: domain.Grams(250)},
		},
	}
}

func brewing(phase domain.Phase, muted bool) *fakeSource {
	return &fakeSource{
		recipe: testRecipe(),
		ok:     true,
		state: domain.SessionState{
			RecipeTitle:      "Morning V60",
			TotalSteps:       2,
			Phase:            phase,
			SecondsRemaining: 20,
			Muted:            muted,
		},
	}
}

func newTestModel(src Source) (model, chan string) {
	ch := make(chan string, 4)
	m := newModel(src, ch, make(chan struct{}), func() *domain.ProgressUpdate { return nil })
	return m, ch
}

func press(m model, msg tea.KeyMsg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func drain(ch chan string) []string {
	var out []string
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

func TestControlKeys(t *testing.T) {
	tests := []struct {
		name  string
		muted bool
		key   tea.KeyMsg
		want  string
	}{
		{"enter continues", false, tea.KeyMsg{Type: tea.KeyEnter}, "continue"},
		{"space toggles", false, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "toggle"},
		{"s skips", false, runes("s"), "skip"},
		{"m mutes", false, runes("m"), "mute"},
		{"m unmutes when muted", true, runes("m"), "unmute"},
		{"q quits", false, runes("q"), "quit"},
		{"? asks for help", false, runes("?"), "help"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ch := newTestModel(brewing(domain.PhaseCountingDown, tt.muted))
			press(m, tt.key)
			got := drain(ch)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("sent %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestUnmappedKeySendsNothing(t *testing.T) {
	m, ch := newTestModel(brewing(domain.PhaseCountingDown, false))
	press(m, runes("x"))
	if got := drain(ch); len(got) != 0 {
		t.Errorf("sent %v, want nothing", got)
	}
}

func TestTypedCommand(t *testing.T) {
	m, ch := newTestModel(brewing(domain.PhasePaused, false))

	m = press(m, runes("/"))
	if !m.typing {
		t.Fatal("expected prompt to open")
	}
	m = press(m, runes("select 2"))
	if got := drain(ch); len(got) != 0 {
		t.Fatalf("typing should not send keys as controls, got %v", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.typing {
		t.Error("prompt should close after enter")
	}
	got := drain(ch)
	if len(got) != 1 || got[0] != "select 2" {
		t.Errorf("sent %v, want [select 2]", got)
	}
}

func TestEscapeCancelsTyping(t *testing.T) {
	m, ch := newTestModel(brewing(domain.PhasePaused, false))
	m = press(m, runes("/"))
	m = press(m, runes("skip"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.typing {
		t.Error("prompt should close on esc")
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want empty", m.input.Value())
	}
	if got := drain(ch); len(got) != 0 {
		t.Errorf("sent %v, want nothing", got)
	}
}

func TestSendNeverBlocks(t *testing.T) {
	m := newModel(brewing(domain.PhaseCountingDown, false), make(chan string), make(chan struct{}),
		func() *domain.ProgressUpdate { return nil })
	press(m, runes("s"))
}

func TestViewWithoutSession(t *testing.T) {
	m, _ := newTestModel(&fakeSource{})
	if !strings.Contains(m.View(), "No brew in progress") {
		t.Errorf("view = %q", m.View())
	}
}

func TestViewShowsBrew(t *testing.T) {
	m, _ := newTestModel(brewing(domain.PhasePaused, true))
	out := m.View()
	for _, want := range []string{"Morning V60", "Step 1 of 2", "Bloom 50g", "0:20", "Paused", "muted", "Next: Pour 250g", "resume", "unmute"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestRefreshPicksUpNewState(t *testing.T) {
	src := brewing(domain.PhaseCountingDown, false)
	m, _ := newTestModel(src)

	src.mu.Lock()
	src.state.Phase = domain.PhaseFinished
	src.mu.Unlock()

	next, _ := m.Update(refreshMsg{})
	if !strings.Contains(next.(model).View(), "Enjoy your coffee!") {
		t.Error("expected finished view after refresh")
	}
}

func TestWindowTitle(t *testing.T) {
	u := NewUI(brewing(domain.PhaseCountingDown, false))
	m := newModel(u.source, u.inputCh, u.readyCh, u.currentActivity)

	if got := m.titleStr(); got != "brewcue" {
		t.Errorf("title before report = %q", got)
	}

	_ = u.ReportProgress(context.Background(), domain.ProgressUpdate{
		RecipeTitle: "Morning V60", StepLabel: "Bloom", StepIndex: 0, TotalSteps: 2, SecondsRemaining: 30,
	})
	if got := m.titleStr(); got != "brewcue · Bloom 0:20 (1/2)" {
		t.Errorf("title = %q", got)
	}

	_ = u.EndActivity(context.Background())
	if got := m.titleStr(); got != "brewcue" {
		t.Errorf("title after end = %q", got)
	}
}

func TestRenderRecipe(t *testing.T) {
	r := testRecipe()
	r.Steps = append(r.Steps, domain.BrewingStep{Type: domain.StepSwirl, Notes: "Give it a gentle swirl."})
	out := RenderRecipe(r)
	for _, want := range []string{"Morning V60", "Bloom 50g", "0:30", "Swirl", "manual", "Give it a gentle swirl.", "Total: 2:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderRecipeList(t *testing.T) {
	list := []domain.RecipeSummary{
		{ID: "a", Title: "Chemex", Method: "Chemex", Steps: 5, TotalTime: 240},
		{ID: "b", Title: "Aeropress", Method: "Aeropress", Steps: 6, TotalTime: 120},
	}
	out := RenderRecipeList(list, "b")
	if !strings.Contains(out, " 1. Chemex") || !strings.Contains(out, " 2. Aeropress") {
		t.Errorf("list = %q", out)
	}
	if !strings.Contains(out, "▸") {
		t.Error("active recipe should be marked")
	}
	if !strings.Contains(RenderRecipeList(nil, ""), "No recipes yet") {
		t.Error("empty list should say so")
	}
}

func TestCentre(t *testing.T) {
	out := centre([]string{"ab", "abcd"}, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "   ab") {
		t.Errorf("centre = %q", out)
	}
}
