// Package tui is a terminal client for the assistant. It drives the same
// conversation state machine as the web widget.
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

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/domain/chat/models"
	"github.com/partselect/partchat/internal/services/conversation"
	"github.com/partselect/partchat/internal/services/render"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title, banner, status, input, validation and help lines
	chromeHeight = 7
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#337778")).Padding(0, 1)
	bannerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	validationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8700"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
)

// resolvedMsg carries the assistant's answer back into the program.
type resolvedMsg struct {
	message models.Message
}

type Model struct {
	ctx      context.Context
	sender   conversation.Sender
	policy   conversation.Policy
	title    string
	marker   string
	style    string
	state    conversation.State
	renderer *render.TerminalRenderer
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	// nextPrompt is the prompt ctrl+p selects next.
	nextPrompt int
}

// New builds the model. style is a glamour standard style name.
func New(ctx context.Context, sender conversation.Sender, widget *config.WidgetConfig, style string) (Model, error) {
	renderer, err := render.NewTerminalRenderer(widget.GreetingMarker, style, defaultWidth)
	if err != nil {
		return Model{}, err
	}

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	m := Model{
		ctx:    ctx,
		sender: sender,
		policy: conversation.Policy{
			MinQueryLength: widget.MinQueryLength,
			Prompts:        append([]string(nil), widget.Prompts...),
		},
		title:    widget.Title,
		marker:   widget.GreetingMarker,
		style:    style,
		state:    conversation.NewState(widget.Greeting),
		renderer: renderer,
		input:    input,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.refresh()
	return m, nil
}

// State returns the conversation as the model currently holds it.
func (m Model) State() conversation.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case resolvedMsg:
		m.apply(conversation.Resolved{Message: msg.message})
		m.input.Focus()
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// Input stays disabled until the answer arrives.
	if m.state.IsLoading {
		return m, nil
	}

	switch msg.String() {
	case "enter":
		req := m.apply(conversation.Submitted{Text: m.input.Value()})
		if req == nil {
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		return m, m.send(req)

	case "ctrl+p":
		if len(m.policy.Prompts) > 0 {
			m.selectPrompt(m.nextPrompt % len(m.policy.Prompts))
		}
		return m, nil
	}

	// Number keys pick a prompt only while nothing has been typed.
	if m.input.Value() == "" && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		if index := int(msg.Runes[0] - '1'); index < len(m.policy.Prompts) {
			m.selectPrompt(index)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.state.Input {
		m.apply(conversation.InputChanged{Text: m.input.Value()})
	}
	return m, cmd
}

func (m *Model) selectPrompt(index int) {
	m.apply(conversation.PromptSelected{Index: index})
	m.input.SetValue(m.state.Input)
	m.input.CursorEnd()
	m.input.Focus()
	m.nextPrompt = index + 1
}

// apply runs ev through the state machine and redraws the history.
func (m *Model) apply(ev conversation.Event) *conversation.Request {
	next, req := conversation.Update(m.state, ev, m.policy)
	m.state = next
	m.refresh()
	return req
}

func (m Model) send(req *conversation.Request) tea.Cmd {
	ctx, sender := m.ctx, m.sender
	return func() tea.Msg {
		return resolvedMsg{message: sender.Send(ctx, req.Query)}
	}
}

func (m *Model) resize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = max(height-chromeHeight, 1)
	m.input.Width = max(width-len(m.input.Prompt)-1, 1)

	if renderer, err := render.NewTerminalRenderer(m.marker, m.style, width); err == nil {
		m.renderer = renderer
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderer.Conversation(m.state.Messages))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.state.BannerError != "" {
		b.WriteString(bannerStyle.Render(m.state.BannerError))
	}
	b.WriteString("\n")

	if m.state.IsLoading {
		b.WriteString(m.spinner.View() + " Waiting for the assistant...")
	}
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.state.ValidationError != "" {
		b.WriteString(validationStyle.Render(m.state.ValidationError))
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	prompts := make([]string, 0, len(m.policy.Prompts))
	for i, p := range m.policy.Prompts {
		prompts = append(prompts, fmt.Sprintf("%d: %s", i+1, p))
	}
	return "enter send | ctrl+p or number prompts | esc quit\n" + strings.Join(prompts, "\n")
}
