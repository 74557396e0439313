package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
	"github.com/0xcro3dile/buddy-go/internal/domain/ports"
)

// mockAPI implements ports.BuddyAPI for testing
type mockAPI struct {
	mu sync.Mutex

	submitFn   func(msg entities.Message) (*entities.ProcessResult, error)
	queryFn    func(q entities.Question) (*entities.Answer, error)
	actionsFn  func(projectID string) ([]entities.ActionItem, error)
	contextFn  func(projectID string) (*entities.Context, error)
	projectsFn func() ([]string, error)

	submitted []entities.Message
	questions []entities.Question
	projects  []string // project ids passed to Actions/Context
	calls     int
}

func (m *mockAPI) SubmitMessage(ctx context.Context, msg entities.Message) (*entities.ProcessResult, error) {
	m.mu.Lock()
	m.calls++
	m.submitted = append(m.submitted, msg)
	m.mu.Unlock()
	if m.submitFn != nil {
		return m.submitFn(msg)
	}
	return &entities.ProcessResult{Processed: true}, nil
}

func (m *mockAPI) Query(ctx context.Context, q entities.Question) (*entities.Answer, error) {
	m.mu.Lock()
	m.calls++
	m.questions = append(m.questions, q)
	m.mu.Unlock()
	if m.queryFn != nil {
		return m.queryFn(q)
	}
	return &entities.Answer{Answer: "mocked answer", Confidence: 0.5}, nil
}

func (m *mockAPI) Actions(ctx context.Context, projectID string) ([]entities.ActionItem, error) {
	m.mu.Lock()
	m.calls++
	m.projects = append(m.projects, projectID)
	m.mu.Unlock()
	if m.actionsFn != nil {
		return m.actionsFn(projectID)
	}
	return nil, nil
}

func (m *mockAPI) Context(ctx context.Context, projectID string) (*entities.Context, error) {
	m.mu.Lock()
	m.calls++
	m.projects = append(m.projects, projectID)
	m.mu.Unlock()
	if m.contextFn != nil {
		return m.contextFn(projectID)
	}
	return &entities.Context{ProjectID: projectID}, nil
}

func (m *mockAPI) Projects(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.projectsFn != nil {
		return m.projectsFn()
	}
	return nil, nil
}

// stubRenderer implements ports.Renderer with predictable output
type stubRenderer struct{}

func (stubRenderer) Answer(a entities.Answer) (string, error) {
	return fmt.Sprintf("%s (%s)", a.Answer, a.ConfidencePercent()), nil
}

func (stubRenderer) Actions(items []entities.ActionItem) (string, error) {
	if len(items) == 0 {
		return "none", nil
	}
	var parts []string
	for _, it := range items {
		parts = append(parts, it.Description)
	}
	return strings.Join(parts, ","), nil
}

func (stubRenderer) Context(c entities.Context) (string, error) {
	return fmt.Sprintf("%s:%d", c.ProjectID, len(c.Messages)), nil
}

func (stubRenderer) Projects(ids []string) (string, error) {
	return strings.Join(ids, ","), nil
}

func (stubRenderer) Error(err error) string {
	return "Error: " + err.Error()
}

type memField struct{ v string }

func (f *memField) Value() string     { return f.v }
func (f *memField) SetValue(v string) { f.v = v }

type memRegion struct {
	mu      sync.Mutex
	content string
	writes  int
}

func (r *memRegion) SetContent(markup string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = markup
	r.writes++
}

func (r *memRegion) get() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.content
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []ports.Notification
}

func (n *recordingNotifier) Notify(note ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) last() (ports.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return ports.Notification{}, false
	}
	return n.notes[len(n.notes)-1], true
}

type fixture struct {
	api      *mockAPI
	notifier *recordingNotifier
	message  *memField
	question *memField
	project  *memField
	answer   *memRegion
	actions  *memRegion
	context  *memRegion
	projects *memRegion
	client   *Client
}

func newFixture(api *mockAPI) *fixture {
	f := &fixture{
		api:      api,
		notifier: &recordingNotifier{},
		message:  &memField{},
		question: &memField{},
		project:  &memField{},
		answer:   &memRegion{},
		actions:  &memRegion{},
		context:  &memRegion{},
		projects: &memRegion{},
	}
	f.client = NewClient(api, stubRenderer{}, f.notifier, Bindings{
		MessageInput:   f.message,
		QuestionInput:  f.question,
		ProjectInput:   f.project,
		AnswerOutput:   f.answer,
		ActionsOutput:  f.actions,
		ContextOutput:  f.context,
		ProjectsOutput: f.projects,
	}, nil)
	return f
}
