package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/services/conversation"
	"github.com/partselect/partchat/internal/services/render"
)

// Run starts the interactive client and blocks until the user quits.
func Run(ctx context.Context, sender conversation.Sender, widget *config.WidgetConfig, style string) error {
	m, err := New(ctx, sender, widget, style)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal client failed: %w", err)
	}
	return nil
}

// Ask sends one query and writes the rendered answer to w. Input that the
// conversation would reject is returned as a *conversation.ValidationError.
func Ask(ctx context.Context, sender conversation.Sender, widget *config.WidgetConfig, style string, width int, query string, w io.Writer) error {
	policy := conversation.Policy{MinQueryLength: widget.MinQueryLength}
	if reason := policy.Validate(query); reason != "" {
		return &conversation.ValidationError{Message: reason}
	}

	renderer, err := render.NewTerminalRenderer(widget.GreetingMarker, style, width)
	if err != nil {
		return err
	}

	answer := sender.Send(ctx, query)
	if _, err := io.WriteString(w, renderer.Message(answer)); err != nil {
		return err
	}
	if answer.IsError {
		return errors.New("the assistant could not be reached")
	}
	return nil
}
