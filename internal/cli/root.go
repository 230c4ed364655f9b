package cli

import (
	"fmt"
	"os"
	"strings"

	"taskflow-cli/internal/api"
	"taskflow-cli/internal/config"
	"taskflow-cli/internal/format"
	"taskflow-cli/internal/session"
	"taskflow-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Server     string
	PrettyJSON bool

	client *api.Client
	sess   *session.Session
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskflow",
		Short:        "TaskFlow task tracker CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskflow

  # Scriptable commands
  taskflow auth signin --email you@example.com --password secret
  taskflow tasks list --status active --priority high --search milk
  taskflow tasks add --title "Buy milk" --priority high
  taskflow tasks done 42
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("TASKFLOW_SERVER", ""), "Server base URL (default: configured server, then http://localhost:8000)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client, sess, err := app.connect()
	if err != nil {
		return err
	}
	return tui.Run(client, sess)
}

// connect builds the shared API client and session for this invocation.
// Server resolution: --server / TASKFLOW_SERVER, then the config file,
// then the built-in default.
func (app *App) connect() (*api.Client, *session.Session, error) {
	if app.client != nil {
		return app.client, app.sess, nil
	}

	server := app.Server
	if server == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		server = cfg.ServerURL
	}

	client, err := api.New(server)
	if err != nil {
		return nil, nil, err
	}

	// Session cookie persistence is best-effort; a missing home dir just
	// means every invocation has to sign in again.
	cookiePath, err := config.SessionPath()
	if err != nil {
		cookiePath = ""
	}

	app.client = client
	app.sess = session.New(client, cookiePath)
	return app.client, app.sess, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
