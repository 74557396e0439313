package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
)

const shellHelp = `Commands:
  /ask <question>   ask a question about the project
  /actions          list unresolved action items
  /context          show recent context
  /projects         list known projects
  /project <id>     switch project
  /help             show this help
  /quit             leave the shell
Any other line is submitted as a message.`

func (a *app) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session against the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.newTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          shellPrompt(t.project.Value()),
				HistoryFile:     a.cfg.HistoryFile,
				InterruptPrompt: "^C",
				EOFPrompt:       "/quit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("starting shell: %w", err)
			}
			defer rl.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Connected to", a.cfg.ServerURL, "- type /help for commands")

			sh := &shell{t: t, out: cmd.OutOrStdout()}
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
				if sh.handle(cmd.Context(), line) {
					return nil
				}
				rl.SetPrompt(shellPrompt(t.project.Value()))
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		},
	}
}

func shellPrompt(project string) string {
	return "buddy(" + entities.EffectiveProjectID(project) + ")> "
}

// shell dispatches one input line at a time.
type shell struct {
	t   *terminal
	out io.Writer
}

// handle runs line and reports whether the session should end.
// Operation failures are already shown to the user and do not end it.
func (s *shell) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		s.t.message.SetValue(line)
		s.t.client.SubmitMessage(ctx)
		return false
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(s.out, shellHelp)
	case "/ask":
		s.t.question.SetValue(rest)
		s.t.client.AskQuestion(ctx)
	case "/actions":
		s.t.client.LoadActions(ctx)
	case "/context":
		s.t.client.LoadContext(ctx)
	case "/projects":
		s.t.client.LoadProjects(ctx)
	case "/project":
		if rest == "" {
			fmt.Fprintln(s.out, "project:", entities.EffectiveProjectID(s.t.project.Value()))
			return false
		}
		s.t.project.SetValue(rest)
		fmt.Fprintln(s.out, "switched to project", entities.EffectiveProjectID(rest))
	default:
		fmt.Fprintf(s.out, "unknown command %s, type /help\n", name)
	}
	return false
}
