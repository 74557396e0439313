package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/0xcro3dile/buddy-go/internal/adapters/render"
	"github.com/0xcro3dile/buddy-go/internal/adapters/view"
	"github.com/0xcro3dile/buddy-go/internal/domain/ports"
	"github.com/0xcro3dile/buddy-go/internal/domain/usecases"
)

// printRegion writes each new content to w on its own line.
type printRegion struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *printRegion) SetContent(markup string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, strings.TrimRight(markup, "\n"))
}

// printNotifier writes notifications to w, prefixed unless informational.
type printNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func (n *printNotifier) Notify(note ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if note.Level == ports.LevelInfo {
		fmt.Fprintln(n.w, note.Text)
		return
	}
	fmt.Fprintf(n.w, "%s: %s\n", note.Level, note.Text)
}

// terminal binds a usecases.Client to stdout and stderr.
type terminal struct {
	message  *view.Field
	question *view.Field
	project  *view.Field
	client   *usecases.Client
}

func (a *app) newTerminal(stdout, stderr io.Writer) (*terminal, error) {
	renderer, err := render.NewText(time.Local)
	if err != nil {
		return nil, err
	}

	out := &printRegion{w: stdout}
	t := &terminal{
		message:  view.NewField("message"),
		question: view.NewField("question"),
		project:  view.NewField("project"),
	}
	t.project.SetValue(a.cfg.Project)

	t.client = usecases.NewClient(a.backend(), renderer, &printNotifier{w: stderr}, usecases.Bindings{
		MessageInput:   t.message,
		QuestionInput:  t.question,
		ProjectInput:   t.project,
		AnswerOutput:   out,
		ActionsOutput:  out,
		ContextOutput:  out,
		ProjectsOutput: out,
	}, a.logger)
	return t, nil
}
