// Package cli wires the buddy commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xcro3dile/buddy-go/internal/adapters/api"
	"github.com/0xcro3dile/buddy-go/internal/config"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *slog.Logger
}

// reportedError marks a failure the user has already been shown.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	var shown *reportedError
	if err != nil && !errors.As(err, &shown) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: slog.Default()}

	root := &cobra.Command{
		Use:   "buddy",
		Short: "Project buddy client - feed team messages, ask questions, track action items",
		Long: `buddy talks to a project-buddy backend. It submits messages for
action-item extraction, asks questions about a project's conversation,
lists unresolved action items and shows the rolling context.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.buddy.yaml)")
	flags.String("server", "", "backend base URL (default http://localhost:8000)")
	flags.String("project", "", "project id (default \"default\")")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Duration("timeout", 0, "per-request timeout, 0 for none")

	root.AddCommand(
		a.sendCmd(),
		a.askCmd(),
		a.actionsCmd(),
		a.contextCmd(),
		a.projectsCmd(),
		a.healthCmd(),
		a.shellCmd(),
		a.watchCmd(),
		a.serveCmd(),
	)
	return root
}

// init loads the config, applies explicit flags on top and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".buddy")
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL, _ = flags.GetString("server")
	}
	if flags.Changed("project") {
		cfg.Project, _ = flags.GetString("project")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if used := a.v.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			a.logger.Debug("using config file", "file", used)
		}
	}
	return nil
}

func (a *app) backend() *api.HTTPClient {
	opts := []api.Option{api.WithLogger(a.logger)}
	if a.cfg.Timeout > 0 {
		opts = append(opts, api.WithTimeout(a.cfg.Timeout))
	}
	return api.NewHTTPClient(a.cfg.ServerURL, opts...)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l}))
}

// healthTimeout bounds the health probe when no timeout is configured.
const healthTimeout = 10 * time.Second
