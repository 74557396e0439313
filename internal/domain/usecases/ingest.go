// Package usecases contains the application rules of the buddy client.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
	"github.com/0xcro3dile/buddy-go/internal/domain/ports"
)

// IngestUseCase submits pasted transcripts as individual messages.
type IngestUseCase struct {
	api            ports.BuddyAPI
	maxMessageSize int
	logger         *slog.Logger
}

// IngestReport summarizes one document's submission.
type IngestReport struct {
	Document         string
	Messages         int
	ActionItemsFound int
	Failed           []error
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
func NewIngestUseCase(api ports.BuddyAPI, maxMessageSize int, logger *slog.Logger) *IngestUseCase {
	if maxMessageSize <= 0 {
		maxMessageSize = 2000 // characters
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestUseCase{
		api:            api,
		maxMessageSize: maxMessageSize,
		logger:         logger,
	}
}

// Ingest splits a document into messages and submits each one.
// A failed submission is recorded and the remaining messages are still sent.
func (uc *IngestUseCase) Ingest(ctx context.Context, doc *entities.Document, projectID string) (*IngestReport, error) {
	report := &IngestReport{Document: doc.Name}
	projectID = entities.EffectiveProjectID(projectID)

	for i, content := range uc.splitMessages(doc.Content) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := uc.api.SubmitMessage(ctx, entities.Message{Content: content, ProjectID: projectID})
		if err != nil {
			uc.logger.Warn("inbox message failed", "document", doc.Name, "index", i, "error", err)
			report.Failed = append(report.Failed, fmt.Errorf("message %d: %w", i, err))
			continue
		}

		report.Messages++
		if result.Processed {
			report.ActionItemsFound += result.ActionItemsFound
		}
	}

	uc.logger.Info("document ingested",
		"document", doc.Name,
		"project_id", projectID,
		"messages", report.Messages,
		"action_items", report.ActionItemsFound,
		"failed", len(report.Failed))
	return report, nil
}

// splitMessages breaks content into blank-line separated blocks, then splits
// any block longer than maxMessageSize at a word boundary.
func (uc *IngestUseCase) splitMessages(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var messages []string
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		messages = append(messages, uc.splitLong(block)...)
	}
	return messages
}

func (uc *IngestUseCase) splitLong(block string) []string {
	var parts []string
	for len(block) > uc.maxMessageSize {
		end := uc.maxMessageSize

		// Try to break at word boundary
		if lastSpace := strings.LastIndexAny(block[:end], " \n\t"); lastSpace > 0 {
			end = lastSpace
		} else {
			for end > 0 && !utf8.RuneStart(block[end]) {
				end--
			}
			if end == 0 {
				_, end = utf8.DecodeRuneInString(block)
			}
		}

		if part := strings.TrimSpace(block[:end]); part != "" {
			parts = append(parts, part)
		}
		block = strings.TrimSpace(block[end:])
	}
	if block != "" {
		parts = append(parts, block)
	}
	return parts
}
