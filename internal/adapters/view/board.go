package view

import (
	"sync"

	"github.com/0xcro3dile/buddy-go/internal/domain/ports"
	"github.com/0xcro3dile/buddy-go/internal/domain/usecases"
)

// Field and region identifiers, shared with the page script.
const (
	FieldMessage  = "messageInput"
	FieldQuestion = "questionInput"
	FieldProject  = "projectInput"

	RegionAnswer   = "answerOutput"
	RegionActions  = "actionsOutput"
	RegionContext  = "contextOutput"
	RegionProjects = "projectsOutput"
)

// Update kinds.
const (
	KindField        = "field"
	KindRegion       = "region"
	KindNotification = "notification"
)

// Update describes one change on the board.
type Update struct {
	Kind  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
	Level string `json:"level,omitempty"`
}

// State is a snapshot of every field and region.
type State struct {
	Fields  map[string]string `json:"fields"`
	Regions map[string]string `json:"regions"`
}

// Board holds the fields and regions of one UI session and implements ports.Notifier.
type Board struct {
	Message  *Field
	Question *Field
	Project  *Field

	Answer   *Region
	Actions  *Region
	Context  *Region
	Projects *Region

	notes *Notifications

	mu       sync.RWMutex
	onChange func(Update)
}

// NewBoard creates a board with empty fields and regions.
func NewBoard() *Board {
	b := &Board{
		Message:  NewField(FieldMessage),
		Question: NewField(FieldQuestion),
		Project:  NewField(FieldProject),
		Answer:   NewRegion(RegionAnswer),
		Actions:  NewRegion(RegionActions),
		Context:  NewRegion(RegionContext),
		Projects: NewRegion(RegionProjects),
		notes:    NewNotifications(),
	}

	for _, f := range b.fields() {
		f.OnChange(func(name, value string) {
			b.emit(Update{Kind: KindField, Name: name, Value: value})
		})
	}
	for _, r := range b.regions() {
		r.OnChange(func(name, content string) {
			b.emit(Update{Kind: KindRegion, Name: name, Value: content})
		})
	}
	return b
}

// Bindings exposes the board to a usecases.Client.
func (b *Board) Bindings() usecases.Bindings {
	return usecases.Bindings{
		MessageInput:   b.Message,
		QuestionInput:  b.Question,
		ProjectInput:   b.Project,
		AnswerOutput:   b.Answer,
		ActionsOutput:  b.Actions,
		ContextOutput:  b.Context,
		ProjectsOutput: b.Projects,
	}
}

// Field looks up a field by identifier.
func (b *Board) Field(name string) (*Field, bool) {
	for _, f := range b.fields() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Notify implements ports.Notifier.
func (b *Board) Notify(n ports.Notification) {
	b.notes.Notify(n)
	b.emit(Update{Kind: KindNotification, Value: n.Text, Level: n.Level.String()})
}

// Subscribe listens to notifications only.
func (b *Board) Subscribe(buffer int) (<-chan ports.Notification, func()) {
	return b.notes.Subscribe(buffer)
}

// OnChange registers a callback for every field, region and notification update.
// The callback runs on the goroutine that made the change and must not block.
func (b *Board) OnChange(cb func(Update)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = cb
}

// Snapshot returns the current values.
func (b *Board) Snapshot() State {
	s := State{Fields: map[string]string{}, Regions: map[string]string{}}
	for _, f := range b.fields() {
		s.Fields[f.Name()] = f.Value()
	}
	for _, r := range b.regions() {
		s.Regions[r.Name()] = r.Content()
	}
	return s
}

func (b *Board) emit(u Update) {
	b.mu.RLock()
	cb := b.onChange
	b.mu.RUnlock()
	if cb != nil {
		cb(u)
	}
}

func (b *Board) fields() []*Field {
	return []*Field{b.Message, b.Question, b.Project}
}

func (b *Board) regions() []*Region {
	return []*Region{b.Answer, b.Actions, b.Context, b.Projects}
}
