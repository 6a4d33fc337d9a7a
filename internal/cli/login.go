package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

type loginRunner struct {
	app      *app
	email    string
	password string
}

func buildLoginCmd(a *app) *cobra.Command {
	r := &loginRunner{app: a}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		Example: `  # Prompt for the password
  accessctl login --email ada@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&r.email, "email", "", "account email")
	cmd.Flags().StringVar(&r.password, "password", "", "account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (r *loginRunner) Run(ctx context.Context) error {
	password := r.password
	if password == "" {
		fmt.Fprint(r.app.opts.Stdout, "Password: ")
		line, err := bufio.NewReader(r.app.opts.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	api := r.app.api()
	token, err := api.Login(ctx, r.email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	path, err := r.app.save(token)
	if err != nil {
		return err
	}
	slog.Info("logged in", "email", r.email, "config", path)

	fmt.Fprintln(r.app.opts.Stdout, successStyle.Render("Logged in as "+r.email))
	fmt.Fprintln(r.app.opts.Stdout, mutedStyle.Render("token saved to "+path))
	return nil
}
