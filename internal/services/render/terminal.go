package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/partselect/partchat/internal/domain/chat/models"
)

var (
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFAF"))
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87AF87"))
	errorLabel     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
	partTitle      = lipgloss.NewStyle().Bold(true)
	partDetail     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
)

// TerminalRenderer renders messages as styled terminal text.
type TerminalRenderer struct {
	marker string
	md     *glamour.TermRenderer
}

// NewTerminalRenderer builds a renderer for the named glamour style
// ("dark", "light", "notty", ...) wrapping at width columns.
func NewTerminalRenderer(marker, style string, width int) (*TerminalRenderer, error) {
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &TerminalRenderer{marker: marker, md: md}, nil
}

// Message renders one message with its author label and parts.
func (t *TerminalRenderer) Message(m models.Message) string {
	var b strings.Builder

	switch {
	case m.Role == models.RoleUser:
		b.WriteString(userLabel.Render("You"))
		b.WriteString("\n")
		b.WriteString(m.Content)
		b.WriteString("\n")
		return b.String()
	case m.IsError:
		b.WriteString(errorLabel.Render("Assistant"))
	default:
		b.WriteString(assistantLabel.Render("Assistant"))
	}
	b.WriteString("\n")

	content := ExtractAnswer(m.Content, t.marker)
	out, err := t.md.Render(content)
	if err != nil {
		out = content + "\n"
	}
	b.WriteString(strings.TrimLeft(out, "\n"))

	for _, p := range m.RelevantParts {
		b.WriteString(t.Part(p))
		b.WriteString("\n")
	}
	return b.String()
}

// Part renders a product card as a short block of lines.
func (t *TerminalRenderer) Part(p models.Part) string {
	lines := []string{
		"  * " + partTitle.Render(p.Title) + "  " + FormatPrice(p.Price),
	}
	if p.ImageURL != "" {
		lines = append(lines, "    "+partDetail.Render("image: "+p.ImageURL))
	}
	if p.HasVideo() {
		lines = append(lines, "    "+partDetail.Render("installation video: "+p.InstallationVideoURL))
	}
	return strings.Join(lines, "\n")
}

// Conversation renders every message in order.
func (t *TerminalRenderer) Conversation(msgs []models.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Content == "" {
			continue
		}
		parts = append(parts, t.Message(m))
	}
	return strings.Join(parts, "\n")
}
