// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type renders the brew screen (current step, countdown bar, next
// step and the controls valid right now) at the bottom of the terminal.
// Announcements are printed above it via Program.Println / Printf, so
// concurrent writes never garble the display.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/progress"
)

// Compile-time interface checks.
var (
	_ domain.ProgressReporter = (*UI)(nil)
	_ domain.ActivityEnder    = (*UI)(nil)
)

// Source supplies the brew the screen renders. The timer supervisor
// satisfies it.
type Source interface {
	State() (domain.SessionState, bool)
	Recipe() *domain.Recipe
}

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely call
// [UI.Println], [UI.Printf], [UI.Refresh] and read from [UI.InputChan] at
// any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	source  Source
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool

	mu       sync.Mutex
	activity *domain.ProgressUpdate
}

// NewUI creates the display. Call Run() to start.
func NewUI(source Source) *UI {
	return &UI{
		source:  source,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the brew screen. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the brew screen. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns commands from key presses and the typed prompt.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// PrintChat prints a conversational line.
func (u *UI) PrintChat(text string) {
	u.Println(chatStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintVoice prints a voice-recognised input line.
func (u *UI) PrintVoice(text string) {
	u.Println(secondaryStyle.Render("[voice] ") + primaryStyle.Render(text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("brew") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// ReportProgress records the step for the terminal window title. The title
// itself is refreshed on the next UI tick, so this never blocks.
func (u *UI) ReportProgress(_ context.Context, update domain.ProgressUpdate) error {
	u.mu.Lock()
	u.activity = &update
	u.mu.Unlock()
	return nil
}

// EndActivity resets the window title.
func (u *UI) EndActivity(_ context.Context) error {
	u.mu.Lock()
	u.activity = nil
	u.mu.Unlock()
	return nil
}

func (u *UI) currentActivity() *domain.ProgressUpdate {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.activity == nil {
		return nil
	}
	a := *u.activity
	return &a
}

// Refresh redraws the brew screen now instead of on the next tick. Must not
// be called from inside a supervisor callback.
func (u *UI) Refresh() {
	if u.program != nil && !u.done.Load() {
		u.program.Send(refreshMsg{})
	}
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	m := newModel(u.source, u.inputCh, u.readyCh, u.currentActivity)
	m.echoFn = u.PrintUserInput

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type keyMap struct {
	Enter  key.Binding
	Toggle key.Binding
	Skip   key.Binding
	Mute   key.Binding
	Quit   key.Binding
	Help   key.Binding
	Type   key.Binding
}

var keys = keyMap{
	Enter:  key.NewBinding(key.WithKeys("enter")),
	Toggle: key.NewBinding(key.WithKeys(" ", "space")),
	Skip:   key.NewBinding(key.WithKeys("s")),
	Mute:   key.NewBinding(key.WithKeys("m")),
	Quit:   key.NewBinding(key.WithKeys("q")),
	Help:   key.NewBinding(key.WithKeys("?")),
	Type:   key.NewBinding(key.WithKeys("/", ":")),
}

type model struct {
	source   Source
	activity func() *domain.ProgressUpdate
	input    textinput.Model
	bar      bar.Model
	inputCh  chan<- string
	readyCh  chan struct{}
	echoFn   func(string)

	view   progress.View
	active bool
	typing bool
	width  int
}

type tickMsg time.Time

type refreshMsg struct{}

func newModel(source Source, inputCh chan<- string, readyCh chan struct{}, activity func() *domain.ProgressUpdate) model {
	ti := textinput.New()
	// Plain-text prompt keeps the textinput width math correct.
	ti.Prompt = "brew> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.CharLimit = 200
	ti.Width = 60

	pb := bar.New(bar.WithSolidFill("#fde68a"), bar.WithoutPercentage())
	pb.Width = 40

	m := model{
		source:   source,
		activity: activity,
		input:    ti,
		bar:      pb,
		inputCh:  inputCh,
		readyCh:  readyCh,
		echoFn:   func(string) {},
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateControls(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		const promptLen = 6
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		if w := msg.Width - 16; w > 10 {
			m.bar.Width = min(w, 60)
		}
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(m.titleStr()))

	case refreshMsg:
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateControls handles single-key brew controls while the prompt is
// closed. Keys are sent as the words the parser already understands.
func (m model) updateControls(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Type):
		m.typing = true
		return m, m.input.Focus()
	case key.Matches(msg, keys.Enter):
		m.send("continue")
	case key.Matches(msg, keys.Toggle):
		m.send("toggle")
	case key.Matches(msg, keys.Skip):
		m.send("skip")
	case key.Matches(msg, keys.Mute):
		if m.view.Muted {
			m.send("unmute")
		} else {
			m.send("mute")
		}
	case key.Matches(msg, keys.Quit):
		m.send("quit")
	case key.Matches(msg, keys.Help):
		m.send("help")
	}
	return m, nil
}

func (m model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.typing = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		v := m.input.Value()
		m.input.Reset()
		m.input.Blur()
		m.typing = false
		if strings.TrimSpace(v) == "" {
			return m, nil
		}
		m.send(v)
		// Echo runs outside Update so Println can't deadlock on msgs.
		echoFn := m.echoFn
		return m, func() tea.Msg {
			echoFn(v)
			return nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send hands a command to the app without ever blocking the event loop.
func (m model) send(cmd string) {
	select {
	case m.inputCh <- cmd:
	default:
	}
}

func (m *model) refresh() {
	if m.source == nil {
		m.active = false
		return
	}
	st, ok := m.source.State()
	r := m.source.Recipe()
	if !ok || r == nil {
		m.active = false
		return
	}
	m.view = progress.Project(r, st)
	m.active = true
}

func (m model) titleStr() string {
	a := m.activity()
	if a == nil || !m.active || m.view.Phase == domain.PhaseFinished {
		return "brewcue"
	}
	return fmt.Sprintf("brewcue · %s %s (%d/%d)", a.StepLabel, m.view.Clock, a.StepIndex+1, a.TotalSteps)
}

func (m model) View() string {
	var b strings.Builder

	if m.active {
		b.WriteString(renderBrew(m.view, m.bar))
	} else {
		b.WriteString(secondaryStyle.Render("  No brew in progress."))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.typing {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(secondaryStyle.Render("  / to type a command"))
	}
	return b.String()
}
