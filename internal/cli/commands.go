package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/buddy-go/internal/domain/usecases"
)

// oneShot builds a command that runs a single client operation.
func (a *app) oneShot(use, short string, args cobra.PositionalArgs, setup func(t *terminal, args []string), op func(*usecases.Client) func(context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.newTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if setup != nil {
				setup(t, args)
			}
			if err := op(t.client)(cmd.Context()); err != nil {
				return &reportedError{err: err}
			}
			return nil
		},
	}
}

func (a *app) sendCmd() *cobra.Command {
	return a.oneShot("send <message...>", "Submit a message for processing",
		cobra.MinimumNArgs(1),
		func(t *terminal, args []string) { t.message.SetValue(strings.Join(args, " ")) },
		func(c *usecases.Client) func(context.Context) error { return c.SubmitMessage },
	)
}

func (a *app) askCmd() *cobra.Command {
	return a.oneShot("ask <question...>", "Ask a question about the project",
		cobra.MinimumNArgs(1),
		func(t *terminal, args []string) { t.question.SetValue(strings.Join(args, " ")) },
		func(c *usecases.Client) func(context.Context) error { return c.AskQuestion },
	)
}

func (a *app) actionsCmd() *cobra.Command {
	return a.oneShot("actions", "List unresolved action items", cobra.NoArgs, nil,
		func(c *usecases.Client) func(context.Context) error { return c.LoadActions },
	)
}

func (a *app) contextCmd() *cobra.Command {
	return a.oneShot("context", "Show the project's recent context", cobra.NoArgs, nil,
		func(c *usecases.Client) func(context.Context) error { return c.LoadContext },
	)
}

func (a *app) projectsCmd() *cobra.Command {
	return a.oneShot("projects", "List known projects", cobra.NoArgs, nil,
		func(c *usecases.Client) func(context.Context) error { return c.LoadProjects },
	)
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.cfg.Timeout <= 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, healthTimeout)
				defer cancel()
			}

			h, err := a.backend().Health(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", a.cfg.ServerURL, h.Status, h.Service)
			return nil
		},
	}
}
