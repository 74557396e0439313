// Package usecases - client.go drives the four user-triggered request/render cycles.
package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
	"github.com/0xcro3dile/buddy-go/internal/domain/ports"
)

// User-facing texts.
const (
	msgEnterMessage   = "Please enter a message"
	msgEnterQuestion  = "Please enter a question"
	msgNotProcessed   = "Message was not processed."
	prefixSubmitError = "Error submitting message: "
)

// Bindings are the fields and regions a Client reads from and writes to.
// ProjectsOutput is optional.
type Bindings struct {
	MessageInput   ports.Field
	QuestionInput  ports.Field
	ProjectInput   ports.Field
	AnswerOutput   ports.Region
	ActionsOutput  ports.Region
	ContextOutput  ports.Region
	ProjectsOutput ports.Region
}

// Client reads inputs, validates them, calls the backend and renders the outcome.
// It keeps no state between calls; operations may run concurrently and each
// region shows whichever response arrived last.
type Client struct {
	api      ports.BuddyAPI
	renderer ports.Renderer
	notifier ports.Notifier
	b        Bindings
	logger   *slog.Logger
}

// NewClient creates a Client with injected dependencies.
func NewClient(
	api ports.BuddyAPI,
	renderer ports.Renderer,
	notifier ports.Notifier,
	b Bindings,
	logger *slog.Logger,
) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:      api,
		renderer: renderer,
		notifier: notifier,
		b:        b,
		logger:   logger,
	}
}

// WithBindings returns a Client that shares c's backend, renderer and
// notifier but reads and writes b.
func (c *Client) WithBindings(b Bindings) *Client {
	cp := *c
	cp.b = b
	return &cp
}

// SubmitMessage sends the message input to the backend.
func (c *Client) SubmitMessage(ctx context.Context) error {
	content := c.b.MessageInput.Value()
	projectID := c.projectID()

	if strings.TrimSpace(content) == "" {
		c.notify(ports.LevelAlert, msgEnterMessage)
		return &ValidationError{Field: "content", Message: msgEnterMessage}
	}

	result, err := c.api.SubmitMessage(ctx, entities.Message{Content: content, ProjectID: projectID})
	if err != nil {
		c.logger.Warn("submit message failed", "project_id", projectID, "error", err)
		c.notify(ports.LevelAlert, prefixSubmitError+err.Error())
		return err
	}

	if !result.Processed {
		c.logger.Info("message not processed", "project_id", projectID)
		c.notify(ports.LevelWarning, msgNotProcessed)
		return nil
	}

	c.notify(ports.LevelInfo, fmt.Sprintf("Message processed! Found %d action items.", result.ActionItemsFound))
	c.b.MessageInput.SetValue("")
	return nil
}

// AskQuestion sends the question input and renders the answer.
func (c *Client) AskQuestion(ctx context.Context) error {
	question := c.b.QuestionInput.Value()
	projectID := c.projectID()

	if strings.TrimSpace(question) == "" {
		c.notify(ports.LevelAlert, msgEnterQuestion)
		return &ValidationError{Field: "question", Message: msgEnterQuestion}
	}

	answer, err := c.api.Query(ctx, entities.Question{Question: question, ProjectID: projectID})
	if err != nil {
		return c.fail(c.b.AnswerOutput, "query", err)
	}

	markup, err := c.renderer.Answer(*answer)
	if err != nil {
		return c.fail(c.b.AnswerOutput, "query", err)
	}
	c.b.AnswerOutput.SetContent(markup)
	c.b.QuestionInput.SetValue("")
	return nil
}

// LoadActions renders the project's unresolved action items.
func (c *Client) LoadActions(ctx context.Context) error {
	items, err := c.api.Actions(ctx, c.projectID())
	if err != nil {
		return c.fail(c.b.ActionsOutput, "actions", err)
	}

	markup, err := c.renderer.Actions(items)
	if err != nil {
		return c.fail(c.b.ActionsOutput, "actions", err)
	}
	c.b.ActionsOutput.SetContent(markup)
	return nil
}

// LoadContext renders the project's recent conversation.
func (c *Client) LoadContext(ctx context.Context) error {
	history, err := c.api.Context(ctx, c.projectID())
	if err != nil {
		return c.fail(c.b.ContextOutput, "context", err)
	}

	markup, err := c.renderer.Context(*history)
	if err != nil {
		return c.fail(c.b.ContextOutput, "context", err)
	}
	c.b.ContextOutput.SetContent(markup)
	return nil
}

// LoadProjects renders the known projects. An empty list shows the default project.
func (c *Client) LoadProjects(ctx context.Context) error {
	out := c.b.ProjectsOutput
	if out == nil {
		out = discardRegion{}
	}

	ids, err := c.api.Projects(ctx)
	if err != nil {
		return c.fail(out, "projects", err)
	}
	if len(ids) == 0 {
		ids = []string{entities.DefaultProjectID}
	}

	markup, err := c.renderer.Projects(ids)
	if err != nil {
		return c.fail(out, "projects", err)
	}
	out.SetContent(markup)
	return nil
}

func (c *Client) projectID() string {
	if c.b.ProjectInput == nil {
		return entities.DefaultProjectID
	}
	return entities.EffectiveProjectID(c.b.ProjectInput.Value())
}

func (c *Client) fail(region ports.Region, op string, err error) error {
	c.logger.Warn("operation failed", "op", op, "error", err)
	region.SetContent(c.renderer.Error(err))
	return err
}

func (c *Client) notify(level ports.NotificationLevel, text string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ports.Notification{Level: level, Text: text})
}

type discardRegion struct{}

func (discardRegion) SetContent(string) {}
