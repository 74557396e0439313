// Package ports defines the boundaries of the buddy client.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
)

// BuddyAPI is the backend that ingests messages and answers questions.
type BuddyAPI interface {
	// SubmitMessage posts a message for processing and action-item extraction.
	SubmitMessage(ctx context.Context, msg entities.Message) (*entities.ProcessResult, error)

	// Query asks a question about a project's conversation.
	Query(ctx context.Context, q entities.Question) (*entities.Answer, error)

	// Actions lists the unresolved action items of a project.
	Actions(ctx context.Context, projectID string) ([]entities.ActionItem, error)

	// Context returns a project's rolling message history.
	Context(ctx context.Context, projectID string) (*entities.Context, error)

	// Projects lists the known project ids.
	Projects(ctx context.Context) ([]string, error)
}

// Renderer turns results into display markup.
type Renderer interface {
	Answer(a entities.Answer) (string, error)
	Actions(items []entities.ActionItem) (string, error)
	Context(c entities.Context) (string, error)
	Projects(ids []string) (string, error)

	// Error renders a failure as "Error: <message>".
	Error(err error) string
}

// Field is an input the user types into.
type Field interface {
	Value() string
	SetValue(v string)
}

// Region is an output area. Content replaces whatever was there.
type Region interface {
	SetContent(markup string)
}

// NotificationLevel classifies a Notification.
type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelWarning
	LevelAlert
)

// String returns the lowercase level name.
func (l NotificationLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelAlert:
		return "alert"
	}
	return "unknown"
}

// Notification is a user-facing notice raised outside any output region.
type Notification struct {
	Level NotificationLevel
	Text  string
}

// Notifier delivers notifications to whatever presentation layer subscribes.
// Notify must not block the caller.
type Notifier interface {
	Notify(n Notification)
}

// DocumentLoader reads documents from the filesystem.
type DocumentLoader interface {
	// Load reads a document from the given path.
	Load(ctx context.Context, path string) (*entities.Document, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
