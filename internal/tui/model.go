package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recommender/internal/domain"
	"recommender/internal/service"
)

// TurnHandler is the TUI-facing subset of the recommender service.
type TurnHandler interface {
	HandleTurn(ctx context.Context, query string, history []domain.ConversationTurn) (*service.TurnResult, error)
}

type turnDoneMsg struct {
	query  string
	result *service.TurnResult
	err    error
}

// Model is the Bubble Tea model for the chat screen. It owns the conversation log.
type Model struct {
	ctx      context.Context
	service  TurnHandler
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	history  []domain.ConversationTurn
	pending  string
	matches  []domain.CandidateMatch
	summary  string
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, svc TurnHandler, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What kind of laptop are you looking for?"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:      ctx,
		service:  svc,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		summary:  summary,
		status:   "Ready. Enter to send, Ctrl+C to quit.",
	}
}

// History returns a copy of the conversation so far.
func (m Model) History() []domain.ConversationTurn {
	out := make([]domain.ConversationTurn, len(m.history))
	copy(out, m.history)
	return out
}

// Busy reports whether a turn is in flight.
func (m Model) Busy() bool { return m.pending != "" }

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + summary, status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.refresh()
		return m, nil
	case turnDoneMsg:
		m.pending = ""
		m.input.Focus()
		if msg.err != nil {
			// keep the question so it can be retried by hand
			m.history = append(m.history, domain.ConversationTurn{Role: domain.RoleUser, Content: msg.query})
			m.status = "Error: " + msg.err.Error()
		} else {
			m.history = append(m.history, msg.result.Turns()...)
			m.matches = msg.result.Candidates
			m.status = matchStatus(msg.result.Candidates)
		}
		m.refresh()
		return m, textinput.Blink
	case spinner.TickMsg:
		if !m.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if m.Busy() {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.input.Blur()
			m.pending = q
			m.status = "Thinking..."
			m.refresh()
			return m, tea.Batch(m.spinner.Tick, m.runTurn(q, m.History()))
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) runTurn(query string, history []domain.ConversationTurn) tea.Cmd {
	return func() tea.Msg {
		res, err := m.service.HandleTurn(m.ctx, query, history)
		if err == nil && res == nil {
			err = fmt.Errorf("empty turn for %q", query)
		}
		return turnDoneMsg{query: query, result: res, err: err}
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Product Recommender")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	chat := chatBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + chat + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m Model) renderConversation() string {
	if len(m.history) == 0 && !m.Busy() {
		return "Ask for a recommendation, e.g. \"a light laptop for college under 60000\"."
	}
	wrap := lipgloss.NewStyle().Width(max(10, m.viewport.Width-4))
	var sb strings.Builder
	for _, turn := range m.history {
		sb.WriteString(renderTurn(wrap, turn.Role, turn.Content))
		sb.WriteString("\n\n")
	}
	if m.Busy() {
		sb.WriteString(renderTurn(wrap, domain.RoleUser, m.pending))
		sb.WriteString("\n\n")
		sb.WriteString(m.spinner.View() + " ")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTurn(wrap lipgloss.Style, role domain.Role, content string) string {
	label := userStyle.Render("You")
	if role == domain.RoleAssistant {
		label = assistantStyle.Render("Assistant")
	}
	return label + "\n" + wrap.Render(content)
}

func matchStatus(cands []domain.CandidateMatch) string {
	if len(cands) == 0 {
		return "No matches."
	}
	names := make([]string, 0, len(cands))
	for _, c := range cands {
		names = append(names, fmt.Sprintf("%s (%.2f)", c.Product.Name, c.Score))
	}
	return "Matched: " + strings.Join(names, ", ")
}

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
