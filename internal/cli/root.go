package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/sprintdesk/internal/app"
	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/config"
	"github.com/alexanderramin/sprintdesk/internal/db"
)

// App holds what every command needs. Core and Config are filled in by the
// root command's pre-run unless a caller injects them (tests, the shell).
type App struct {
	Config *config.Config
	Core   *app.App

	// LogOutput receives the process logger. stdout is reserved for the MCP
	// transport, so it defaults to stderr.
	LogOutput io.Writer

	// IsInteractive reports whether stdout is a terminal.
	IsInteractive func() bool

	configPath string
	opened     bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// setup loads configuration and opens the database once per process.
func (a *App) setup() error {
	if a.Core != nil {
		return nil
	}
	if a.Config == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.Config = cfg
	}

	out := a.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := a.Config.Log.NewLogger(out)

	conn, err := db.OpenDB(a.Config.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.Core = app.New(conn, app.Options{
		Logger:         logger,
		TasksPerColumn: a.Config.Board.TasksPerColumn,
		BacklogLimit:   a.Config.Board.BacklogLimit,
		LogUseCases:    logger.Enabled(context.Background(), slog.LevelDebug),
	})
	a.opened = true
	return nil
}

// Close releases the database when this App opened it.
func (a *App) Close() error {
	if !a.opened || a.Core == nil {
		return nil
	}
	a.opened = false
	return a.Core.DB.Close()
}

// NewRootCmd creates the top-level "sprintdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sprintdesk",
		Short: "Kanban and Scrum boards behind chat tools",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (toml, yaml or json)")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newCallCmd(a),
		newToolsCmd(a),
		newBoardCmd(a),
		newUserCmd(a),
		newShellCmd(a),
	)

	return root
}

// bindContextFlags registers --user, --space and --sprint, which fill in
// identifiers a tool call leaves out.
func bindContextFlags(fs *pflag.FlagSet, v *chatctx.Values) {
	fs.StringVar(&v.UserID, "user", "", "default user_id for tool calls")
	fs.StringVar(&v.SpaceID, "space", "", "default space_id for tool calls")
	fs.StringVar(&v.SprintID, "sprint", "", "default sprint_id for tool calls")
}
