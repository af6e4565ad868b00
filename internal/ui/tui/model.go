package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
)

// Reader runs one draw. It is satisfied by *app.TarotService.
type Reader interface {
	Read(ctx context.Context, req domain.ReadingRequest) (domain.ReadingResult, error)
}

type drawDoneMsg struct {
	ticket uint64
	result domain.ReadingResult
	err    error
}

type revealDoneMsg struct{ ticket uint64 }

// Model is the terminal page controller. It owns one SessionState and only
// changes it through the state machine.
type Model struct {
	reader  Reader
	machine domain.Machine
	state   domain.SessionState
	pause   time.Duration
	logger  *slog.Logger

	input    textinput.Model
	spinner  spinner.Model
	areaIdx  int
	cancel   context.CancelFunc
	status   string
	rendered string
	width    int
}

// NewModel builds the UI. A positive pause inserts the reveal transition
// between drawing and result.
func NewModel(reader Reader, machine domain.Machine, pause time.Duration, logger *slog.Logger) Model {
	machine.Reveal = pause > 0

	in := textinput.New()
	in.Placeholder = "What would you like to ask?"
	in.CharLimit = 500
	in.Width = 60
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Moon

	return Model{
		reader:  reader,
		machine: machine,
		state:   domain.NewSessionState("tui", time.Now()),
		pause:   pause,
		logger:  logger,
		input:   in,
		spinner: sp,
	}
}

// State returns the current session state.
func (m Model) State() domain.SessionState { return m.state }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = min(60, max(20, msg.Width-8))
		return m, nil

	case drawDoneMsg:
		return m.onDrawDone(msg)

	case revealDoneMsg:
		m.apply(domain.TransitionElapsed{Ticket: msg.ticket})
		return m, nil

	case spinner.TickMsg:
		if m.state.Phase != domain.PhaseDrawing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopDraw()
			return m, tea.Quit
		}
		switch m.state.Phase {
		case domain.PhaseIntake:
			return m.updateIntake(msg)
		case domain.PhaseDrawing:
			if msg.String() == "esc" {
				m.stopDraw()
				m.apply(domain.CancelDraw{})
			}
		case domain.PhaseTransition:
			if msg.String() == "enter" || msg.String() == " " {
				m.apply(domain.TransitionElapsed{Ticket: m.state.Ticket()})
			}
		case domain.PhaseResult:
			return m.updateResult(msg)
		}
	}
	return m, nil
}

func (m Model) updateIntake(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		err := m.machine.Apply(&m.state, domain.SubmitIntake{
			Question: m.input.Value(),
			Area:     domain.Areas[m.areaIdx],
		})
		if errors.Is(err, domain.ErrEmptyQuestion) {
			m.status = "Please enter your question first"
			return m, nil
		}
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		return m, m.startDraw()
	case "tab":
		m.areaIdx = (m.areaIdx + 1) % len(domain.Areas)
		return m, nil
	case "shift+tab":
		m.areaIdx = (m.areaIdx + len(domain.Areas) - 1) % len(domain.Areas)
		return m, nil
	case "esc":
		m.apply(domain.Reset{})
		m.syncIntake()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a", "enter":
		m.apply(domain.AskAgain{})
		m.syncIntake()
		return m, textinput.Blink
	case "x", "esc":
		m.apply(domain.Reset{})
		m.syncIntake()
		return m, textinput.Blink
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) onDrawDone(msg drawDoneMsg) (tea.Model, tea.Cmd) {
	if msg.ticket != m.state.Ticket() || m.state.Phase != domain.PhaseDrawing {
		m.logger.Debug("discarding stale draw", "ticket", msg.ticket)
		return m, nil
	}
	m.stopDraw()

	if msg.err != nil {
		m.apply(domain.CancelDraw{})
		m.status = "The deck could not be loaded: " + msg.err.Error()
		return m, nil
	}

	if err := m.machine.Apply(&m.state, domain.DrawCompleted{Ticket: msg.ticket, Result: msg.result}); err != nil {
		return m, nil
	}
	m.logger.Info("reading completed",
		"card", msg.result.Card.Name,
		"area", msg.result.Area,
		"origin", msg.result.Interpretation.Origin,
	)
	m.rendered = RenderMarkdown(msg.result.Interpretation.Text, m.contentWidth())

	if m.state.Phase == domain.PhaseTransition {
		ticket := msg.ticket
		return m, tea.Tick(m.pause, func(time.Time) tea.Msg { return revealDoneMsg{ticket: ticket} })
	}
	return m, nil
}

// startDraw runs the pipeline off the UI loop. Exactly one drawDoneMsg comes
// back; it is ignored if the draw was cancelled or replaced meanwhile.
func (m *Model) startDraw() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.rendered = ""

	ticket := m.state.Ticket()
	req := m.state.Request()
	reader := m.reader

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := reader.Read(ctx, req)
		return drawDoneMsg{ticket: ticket, result: res, err: err}
	})
}

func (m *Model) stopDraw() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) apply(ev domain.Event) {
	if err := m.machine.Apply(&m.state, ev); err != nil {
		m.logger.Debug("event rejected", "event", domain.EventName(ev), "phase", m.state.Phase, "error", err)
	}
}

// syncIntake mirrors the kept question and area into the widgets.
func (m *Model) syncIntake() {
	m.input.SetValue(m.state.Question)
	m.input.CursorEnd()
	m.areaIdx = 0
	for i, a := range domain.Areas {
		if a == m.state.Area {
			m.areaIdx = i
		}
	}
	m.rendered = ""
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 76
	}
	return max(20, m.width-6)
}

func (m Model) View() string {
	var body string
	switch m.state.Phase {
	case domain.PhaseIntake:
		body = m.viewIntake()
	case domain.PhaseDrawing:
		body = fmt.Sprintf("%s 正在為您抽牌...\n\n%s", m.spinner.View(), mutedStyle.Render("esc cancel"))
	case domain.PhaseTransition:
		body = m.viewTransition()
	case domain.PhaseResult:
		body = m.viewResult()
	}
	return appStyle.Render(titleStyle.Render("🔮 Tarot Reading") + "\n" + body)
}

func (m Model) viewIntake() string {
	areas := make([]string, len(domain.Areas))
	for i, a := range domain.Areas {
		style := areaStyle
		if i == m.areaIdx {
			style = areaActiveStyle
		}
		areas[i] = style.Render(a.Label())
	}

	var b strings.Builder
	b.WriteString("Ask a question\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, areas...))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("enter draw • tab area • esc clear • ctrl+c quit"))
	return b.String()
}

func (m Model) viewTransition() string {
	p := m.state.Pending()
	if p == nil {
		return ""
	}
	return fmt.Sprintf("\n%s\n\n%s", cardStyle.Render(p.Card.Name), mutedStyle.Render("enter reveal"))
}

func (m Model) viewResult() string {
	r := m.state.LastResult
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(cardStyle.Render(r.Card.Name))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Join(r.Card.Keywords, " · ")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s｜%s", r.Area.Label(), r.Question)))
	b.WriteString("\n\n")
	if m.rendered != "" {
		b.WriteString(m.rendered)
	} else {
		b.WriteString(r.Interpretation.Text)
	}
	b.WriteString("\n\n" + mutedStyle.Render("a ask again • x close • q quit"))
	return b.String()
}

// Run starts the terminal UI and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
