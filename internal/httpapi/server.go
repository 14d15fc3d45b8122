// Package httpapi serves the context lookups chat agents use and an HTTP
// front for the tool dispatcher.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sprintdesk/internal/dispatch"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

// Deps are the services the handlers read from.
type Deps struct {
	Context    service.ContextService
	Dispatcher *dispatch.Dispatcher
}

// Server provides HTTP handlers for context lookups and tool calls.
type Server struct {
	engine *gin.Engine
	deps   Deps
	logger *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))

	srv := &Server{
		engine: router,
		deps:   deps,
		logger: logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		ctx := api.Group("/context")
		{
			ctx.GET("/current-user", s.handleCurrentUser)
			ctx.GET("/default-workspace", s.handleDefaultWorkspace)
			ctx.GET("/active-sprint", s.handleActiveSprint)
			ctx.GET("/workspace-metadata", s.handleWorkspaceMetadata)
			ctx.GET("/available-users", s.handleAvailableUsers)
			ctx.GET("/column-by-name", s.handleColumnByName)
			ctx.PUT("/session", s.handleSaveSession)
			ctx.POST("/format", s.handleFormatContext)
		}

		tools := api.Group("/tools")
		{
			tools.GET("", s.handleListTools)
			tools.POST("/:name", s.handleCallTool)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps domain sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("request rejected", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func requireQuery(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return "", false
	}
	return v, true
}
