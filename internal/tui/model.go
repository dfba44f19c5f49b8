// Package tui is the terminal chat front-end.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const UnavailableResponse = "Sorry, I'm having trouble connecting to my brain."

// Responder answers one user message. Implemented by the API client and the
// local classifier.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type replyMsg struct {
	text string
	err  error
}

// Model is the Bubble Tea model holding the conversation.
type Model struct {
	responder Responder
	title     string
	timeout   time.Duration

	input    textinput.Model
	viewport viewport.Model
	history  []Message
	waiting  bool
	status   string
	ready    bool
}

func New(responder Responder, title string, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What is up?"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		responder: responder,
		title:     title,
		timeout:   timeout,
		input:     ti,
		viewport:  viewport.New(0, 0),
		status:    "Type a message and press Enter. Ctrl+C quits.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) History() []Message { return m.history }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, hh := historyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 + hh // header, status, input box, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil
	case replyMsg:
		m.waiting = false
		text := msg.text
		if msg.err != nil {
			text = UnavailableResponse
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = ""
		}
		m.history = append(m.history, Message{Role: RoleAssistant, Content: text})
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.history = append(m.history, Message{Role: RoleUser, Content: text})
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.refresh()
			return m, m.ask(text)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(text string) tea.Cmd {
	responder, timeout := m.responder, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		reply, err := responder.Respond(ctx, text)
		return replyMsg{text: reply, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render(m.title)
	history := historyBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + history + "\n" + input + "\n" + status
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return statusStyle.Render("No messages yet.")
	}
	var b strings.Builder
	for i, msg := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case RoleUser:
			b.WriteString(userStyle.Render("you"))
		default:
			b.WriteString(botStyle.Render("bot"))
		}
		b.WriteString("  ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)
