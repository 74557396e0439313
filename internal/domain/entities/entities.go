// Package entities contains the wire-level shapes exchanged with the buddy backend.
// Nothing here is persisted client-side: values are fetched, rendered and discarded.
package entities

import (
	"strings"
	"time"
)

// DefaultProjectID is used whenever no project is given.
const DefaultProjectID = "default"

// EffectiveProjectID returns the trimmed project id, or DefaultProjectID when it is blank.
func EffectiveProjectID(projectID string) string {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return DefaultProjectID
	}
	return projectID
}

// Message is a free-text message submitted for processing.
type Message struct {
	Content   string
	ProjectID string
}

// ProcessResult is the backend's reply to a submitted message.
type ProcessResult struct {
	MessageID        string `json:"message_id,omitempty"`
	Processed        bool   `json:"processed"`
	ActionItemsFound int    `json:"action_items_found"`
}

// Question is a question about a project's conversation.
type Question struct {
	Question  string `json:"question"`
	ProjectID string `json:"project_id"`
}

// Answer is the backend's reply to a Question.
type Answer struct {
	Answer      string   `json:"answer"`
	ContextUsed []string `json:"context_used,omitempty"`
	Confidence  float64  `json:"confidence"` // 0..1
}

// ConfidencePercent formats the confidence as a percentage with one decimal, e.g. "87.7%".
func (a Answer) ConfidencePercent() string {
	return FormatPercent(a.Confidence)
}

// ActionItem is a task-like statement the backend extracted from messages.
type ActionItem struct {
	Description string    `json:"description"`
	MentionedAt Timestamp `json:"mentioned_at"`
	AssignedTo  string    `json:"assigned_to,omitempty"` // empty when unassigned
	Status      string    `json:"status,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
}

// ContextMessage is one entry in a project's rolling history.
type ContextMessage struct {
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
	ChannelID string    `json:"channel_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
}

// Context is the backend-held history of messages for a project.
type Context struct {
	ProjectID   string           `json:"project_id"`
	LastUpdated Timestamp        `json:"last_updated"`
	Messages    []ContextMessage `json:"messages"`
	Summary     string           `json:"summary,omitempty"`
}

// Health is the backend health probe result.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// Document represents a text file picked up from the inbox.
type Document struct {
	ID        string
	Name      string
	Path      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
