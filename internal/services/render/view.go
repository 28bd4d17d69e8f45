package render

import (
	"bytes"
	"html/template"
	"io"

	"github.com/partselect/partchat/internal/domain/chat/models"
)

// MessageView is a message ready for the widget templates.
type MessageView struct {
	ID      string        `json:"id"`
	Role    models.Role   `json:"role"`
	HTML    template.HTML `json:"html"`
	IsError bool          `json:"is_error"`
	Parts   []models.Part `json:"relevant_parts"`
}

// PageData is everything the widget page shows.
type PageData struct {
	Title           string
	Messages        []MessageView
	Prompts         []string
	Input           string
	Loading         bool
	BannerError     string
	ValidationError string
	MinQueryLength  int
}

// Messages renders every message with content; empty messages are skipped.
func (r *Renderer) Messages(msgs []models.Message) []MessageView {
	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		if m.Content == "" {
			continue
		}
		views = append(views, MessageView{
			ID:      m.ID,
			Role:    m.Role,
			HTML:    r.ContentHTML(m.Role, m.Content),
			IsError: m.IsError,
			Parts:   m.RelevantParts,
		})
	}
	return views
}

// Page writes the full widget page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.pages.ExecuteTemplate(w, "page.html", data)
}

// MessagesFragment renders the conversation list alone, for live updates.
func (r *Renderer) MessagesFragment(views []MessageView, loading bool) (string, error) {
	var buf bytes.Buffer
	err := r.pages.ExecuteTemplate(&buf, "messages", struct {
		Messages []MessageView
		Loading  bool
	}{views, loading})
	return buf.String(), err
}
