// Package cli implements accessctl, the operator command line for the access
// API.
package cli

import (
	"access-service/internal/assigner"
	"access-service/internal/client"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options are the process-level hooks; zero values mean the real terminal and
// the rotating log file under ~/.accessctl.
type Options struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Stdin     io.Reader
	LogWriter io.Writer
}

type app struct {
	opts     Options
	cfgFile  string
	output   string
	settings Settings
	started  time.Time
	save     func(token string) (string, error)
}

func (a *app) api() *client.Client {
	return client.NewClient(a.settings.Host, a.settings.Token)
}

func (a *app) assigner() *assigner.Assigner {
	return assigner.New(a.api())
}

func (a *app) requireSession() error {
	if a.settings.Token == "" {
		return ErrLoginRequired
	}
	return nil
}

// requireOrg returns the organization for commands that act on one.
func (a *app) requireOrg() (uuid.UUID, error) {
	if err := a.requireSession(); err != nil {
		return uuid.Nil, err
	}
	return a.settings.OrgID()
}

func NewRootCommand(version string, opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "accessctl",
		Short:         "Manage role assignments in the access API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.started = time.Now()
			if err := a.initLogger(cmd); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return a.loadSettings(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			slog.Info("command finished", "command", cmd.Name(), "duration", time.Since(a.started))
		},
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetIn(opts.Stdin)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ~/.accessctl/config.yaml)")
	flags.String(keyHost, "", "access API base URL")
	flags.String(keyToken, "", "bearer token")
	flags.String(keyOrg, "", "organization ID")
	flags.StringVarP(&a.output, "output", "o", outputTable, "output format: table | json")

	root.AddCommand(
		buildLoginCmd(a),
		buildOrgsCmd(a),
		buildProjectsCmd(a),
		buildRolesCmd(a),
		buildAssignmentsCmd(a),
		buildAssignCmd(a),
		buildUnassignCmd(a),
		buildPreviewCmd(a),
		buildMatrixCmd(a),
	)
	return root
}

// Execute runs accessctl against the real terminal.
func Execute(ctx context.Context, version string) error {
	root := NewRootCommand(version, Options{})
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
	}
	return err
}

func (a *app) loadSettings(cmd *cobra.Command) error {
	v, err := newViper(a.cfgFile)
	if err != nil {
		return err
	}
	for _, key := range []string{keyHost, keyToken, keyOrg} {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(key)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", key, err)
		}
	}

	a.settings = settingsFrom(v)
	a.save = func(token string) (string, error) {
		return saveToken(v, token)
	}
	slog.Debug("settings loaded", "host", a.settings.Host, "org", a.settings.Org, "config", v.ConfigFileUsed())
	return nil
}

func (a *app) initLogger(cmd *cobra.Command) error {
	output := a.opts.LogWriter
	if output == nil {
		dir, err := configDir()
		if err != nil {
			return err
		}
		output = &lumberjack.Logger{
			Filename:   filepath.Join(dir, logFileName),
			MaxSize:    2, // megabytes
			MaxBackups: 0,
			MaxAge:     30, // days
			Compress:   false,
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)
	slog.Info("new run", "version", cmd.Root().Version, "command", cmd.CommandPath())
	return nil
}
