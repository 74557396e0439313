package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
)

//go:embed templates/*
var templatesFS embed.FS

// HTML implements ports.Renderer with escaped HTML markup.
type HTML struct {
	tmpl  *template.Template
	clock clock
}

// NewHTML creates an HTML renderer that shows times in loc (time.Local when nil).
func NewHTML(loc *time.Location) (*HTML, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing html templates: %w", err)
	}
	return &HTML{tmpl: tmpl, clock: newClock(loc)}, nil
}

// Answer renders the answer text and its confidence.
func (h *HTML) Answer(a entities.Answer) (string, error) {
	return h.execute("answer", answer(a))
}

// Actions renders one block per action item.
func (h *HTML) Actions(items []entities.ActionItem) (string, error) {
	if len(items) == 0 {
		return NoActions, nil
	}
	return h.execute("actions", h.clock.actions(items))
}

// Context renders the project summary and its most recent messages.
func (h *HTML) Context(c entities.Context) (string, error) {
	if len(c.Messages) == 0 {
		return NoMessages, nil
	}
	return h.execute("context", h.clock.context(c))
}

// Projects renders the project list.
func (h *HTML) Projects(ids []string) (string, error) {
	return h.execute("projects", ids)
}

// Error renders "Error: <message>" escaped.
func (h *HTML) Error(err error) string {
	return template.HTMLEscapeString("Error: " + err.Error())
}

func (h *HTML) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
