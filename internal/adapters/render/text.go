package render

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
)

// Text implements ports.Renderer with plain text for terminals.
type Text struct {
	tmpl  *template.Template
	clock clock
}

// NewText creates a text renderer that shows times in loc (time.Local when nil).
func NewText(loc *time.Location) (*Text, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parsing text templates: %w", err)
	}
	return &Text{tmpl: tmpl, clock: newClock(loc)}, nil
}

func (t *Text) Answer(a entities.Answer) (string, error) {
	return t.execute("answer", answer(a))
}

func (t *Text) Actions(items []entities.ActionItem) (string, error) {
	if len(items) == 0 {
		return NoActions, nil
	}
	return t.execute("actions", t.clock.actions(items))
}

func (t *Text) Context(c entities.Context) (string, error) {
	if len(c.Messages) == 0 {
		return NoMessages, nil
	}
	return t.execute("context", t.clock.context(c))
}

func (t *Text) Projects(ids []string) (string, error) {
	return t.execute("projects", ids)
}

func (t *Text) Error(err error) string {
	return "Error: " + err.Error()
}

func (t *Text) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
