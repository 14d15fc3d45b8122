package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/httpapi"
	"github.com/alexanderramin/sprintdesk/internal/mcpserver"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a tool server",
	}
	cmd.AddCommand(newServeMCPCmd(a), newServeHTTPCmd(a))
	return cmd
}

func newServeMCPCmd(a *App) *cobra.Command {
	var defaults chatctx.Values

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tool catalog over MCP on stdio",
		Long: `Serve every tool over the Model Context Protocol on stdin/stdout.
The --user, --space and --sprint flags fill in identifiers a call leaves out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.Core.Logger.Info("serving mcp on stdio", slog.Int("tools", len(toolNames())))
			return mcpserver.ServeStdio(mcpserver.New(a.Core.Dispatcher, defaults))
		},
	}

	bindContextFlags(cmd.Flags(), &defaults)

	return cmd
}

func newServeHTTPCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve context lookups and tool calls over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.httpAddr()
			}
			logger := a.Core.Logger

			srv := httpapi.New(httpapi.Deps{
				Context:    a.Core.Context,
				Dispatcher: a.Core.Dispatcher,
			}, logger)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Engine(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", slog.String("addr", httpServer.Addr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				if err != nil {
					logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
					return err
				}
			case <-quit:
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Error("failed to shutdown server", slog.String("error", err.Error()))
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config http.addr)")

	return cmd
}

func (a *App) httpAddr() string {
	if a.Config != nil && a.Config.HTTP.Addr != "" {
		return a.Config.HTTP.Addr
	}
	return ":8080"
}
