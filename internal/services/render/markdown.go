// Package render turns conversation messages into HTML for the widget and
// into styled text for the terminal client.
package render

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/partselect/partchat/internal/domain/chat/models"
)

var paragraphTags = regexp.MustCompile(`</?p>`)

// Renderer holds no per-render state: the same messages always produce the same HTML.
type Renderer struct {
	marker   string
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	pages    *template.Template
}

func NewRenderer(marker string) *Renderer {
	r := &Renderer{
		marker:   marker,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
	r.pages = template.Must(template.New("widget").Funcs(template.FuncMap{
		"price": FormatPrice,
	}).ParseFS(templateFS, "templates/*.html"))
	return r
}

// Marker returns the greeting marker used to extract answers.
func (r *Renderer) Marker() string {
	return r.marker
}

// ContentHTML renders message content as sanitized inline HTML. Assistant
// content goes through ExtractAnswer first. Paragraph tags are removed so the
// text sits flush inside the message bubble.
func (r *Renderer) ContentHTML(role models.Role, content string) template.HTML {
	if role == models.RoleAssistant {
		content = ExtractAnswer(content, r.marker)
	}

	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		log.Warn().Err(err).Msg("Markdown conversion failed, rendering escaped text")
		return template.HTML(template.HTMLEscapeString(content))
	}

	safe := r.policy.SanitizeBytes(buf.Bytes())
	return template.HTML(paragraphTags.ReplaceAll(safe, nil))
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price as dollars with two decimals and digit grouping.
func FormatPrice(p models.Price) string {
	return pricePrinter.Sprintf("$%.2f", p.Float64())
}
