package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/0xcro3dile/buddy-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/buddy-go/internal/adapters/loader"
	"github.com/0xcro3dile/buddy-go/internal/adapters/render"
	"github.com/0xcro3dile/buddy-go/internal/adapters/view"
	"github.com/0xcro3dile/buddy-go/internal/domain/ports"
	"github.com/0xcro3dile/buddy-go/internal/domain/usecases"
	"github.com/0xcro3dile/buddy-go/internal/infrastructure/http"
)

// newInbox wires the watcher, loader and ingest usecase. The returned
// function releases the watcher.
func (a *app) newInbox() (*usecases.Inbox, func() error, error) {
	files := loader.NewMultiLoader()
	watcher, err := filewatcher.NewFSNotifyWatcher(files.SupportedExtensions(), a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating watcher: %w", err)
	}
	ingest := usecases.NewIngestUseCase(a.backend(), 0, a.logger)
	inbox := usecases.NewInbox(watcher, files, ingest, a.cfg.Project, 0, a.logger)
	return inbox, watcher.Stop, nil
}

func reportLine(r *usecases.IngestReport) string {
	line := fmt.Sprintf("Ingested %s: %d messages, %d action items found.", r.Document, r.Messages, r.ActionItemsFound)
	if n := len(r.Failed); n > 0 {
		line += fmt.Sprintf(" %d failed.", n)
	}
	return line
}

func printReports(w io.Writer) func(*usecases.IngestReport) {
	return func(r *usecases.IngestReport) {
		fmt.Fprintln(w, reportLine(r))
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Submit text files dropped into a directory",
		Long: `Watch a directory and submit every new text, markdown or log file as
messages. Files are split on blank lines; each block becomes one message.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inbox, stop, err := a.newInbox()
			if err != nil {
				return err
			}
			defer stop()
			inbox.OnReport = printReports(cmd.OutOrStdout())
			return inbox.Run(cmd.Context(), args[0])
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the browser UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("listen") {
				a.cfg.ListenAddr, _ = cmd.Flags().GetString("listen")
			}
			if cmd.Flags().Changed("inbox") {
				a.cfg.InboxDir, _ = cmd.Flags().GetString("inbox")
			}

			renderer, err := render.NewHTML(time.Local)
			if err != nil {
				return err
			}
			board := view.NewBoard()
			board.Project.SetValue(a.cfg.Project)
			client := usecases.NewClient(a.backend(), renderer, board, board.Bindings(), a.logger)
			srv := http.NewServer(board, client, a.cfg.ListenAddr, a.logger)

			var inbox *usecases.Inbox
			if a.cfg.InboxDir != "" {
				var stop func() error
				inbox, stop, err = a.newInbox()
				if err != nil {
					return err
				}
				defer stop()
				inbox.OnReport = func(r *usecases.IngestReport) {
					level := ports.LevelInfo
					if len(r.Failed) > 0 {
						level = ports.LevelWarning
					}
					board.Notify(ports.Notification{Level: level, Text: reportLine(r)})
				}
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return srv.Start(ctx)
			})
			if inbox != nil {
				g.Go(func() error {
					return inbox.Run(ctx, a.cfg.InboxDir)
				})
			}

			notes, cancel := board.Subscribe(32)
			defer cancel()
			g.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					case n := <-notes:
						a.logger.Info("ui notification", "level", n.Level.String(), "text", n.Text)
					}
				}
			})

			return g.Wait()
		},
	}
	cmd.Flags().String("listen", "", "address to listen on (default :8090)")
	cmd.Flags().String("inbox", "", "directory whose new text files are submitted as messages")
	return cmd
}
