// Package usecases - inbox.go submits transcripts dropped into a watched directory.
package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/0xcro3dile/buddy-go/internal/domain/ports"
)

// DefaultSettle is how long a new file must stay quiet before it is read.
const DefaultSettle = 250 * time.Millisecond

// Inbox ingests every file created in a watched directory, once.
type Inbox struct {
	watcher   ports.FileWatcher
	loader    ports.DocumentLoader
	ingest    *IngestUseCase
	projectID string
	settle    time.Duration
	logger    *slog.Logger

	// OnReport, when set, receives every ingest report.
	OnReport func(*IngestReport)
}

// NewInbox creates an Inbox with injected dependencies.
func NewInbox(
	watcher ports.FileWatcher,
	loader ports.DocumentLoader,
	ingest *IngestUseCase,
	projectID string,
	settle time.Duration,
	logger *slog.Logger,
) *Inbox {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Inbox{
		watcher:   watcher,
		loader:    loader,
		ingest:    ingest,
		projectID: projectID,
		settle:    settle,
		logger:    logger,
	}
}

// Run watches dir until ctx is done. A created file is read once writes to it
// have been quiet for the settle period; later edits are not resubmitted.
func (in *Inbox) Run(ctx context.Context, dir string) error {
	events, err := in.watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}
	in.logger.Info("watching inbox", "dir", dir, "project_id", in.projectID)

	var (
		mu      sync.Mutex
		pending = map[string]*time.Timer{}
		wg      sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			if t.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	for ev := range events {
		mu.Lock()
		timer, waiting := pending[ev.Path]
		switch {
		case ev.Operation == ports.FileCreated && !waiting:
			path := ev.Path
			wg.Add(1)
			var t *time.Timer
			t = time.AfterFunc(in.settle, func() {
				defer wg.Done()
				mu.Lock()
				if pending[path] == t {
					delete(pending, path)
				}
				mu.Unlock()
				in.process(ctx, path)
			})
			pending[path] = t
		case ev.Operation == ports.FileModified && waiting:
			if timer.Stop() {
				timer.Reset(in.settle)
			}
		case ev.Operation == ports.FileDeleted && waiting:
			if timer.Stop() {
				wg.Done()
			}
			delete(pending, ev.Path)
		}
		mu.Unlock()
	}
	return nil
}

func (in *Inbox) process(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	doc, err := in.loader.Load(ctx, path)
	if err != nil {
		in.logger.Warn("skipping inbox file", "path", path, "error", err)
		return
	}

	report, err := in.ingest.Ingest(ctx, doc, in.projectID)
	if err != nil {
		in.logger.Warn("inbox ingest interrupted", "path", path, "error", err)
	}
	if report != nil && in.OnReport != nil {
		in.OnReport(report)
	}
}
