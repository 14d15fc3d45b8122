package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/dispatch"
)

type toolRequest struct {
	Arguments map[string]any  `json:"arguments"`
	Context   *chatctx.Values `json:"context"`
	Message   string          `json:"message"`
}

func (s *Server) handleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": dispatch.Catalog()})
}

// handleCallTool runs one tool. Context comes from the request object, or
// failing that from a [CONTEXT: ...] header on message.
func (s *Server) handleCallTool(c *gin.Context) {
	name := c.Param("name")
	spec, ok := dispatch.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"text": "Unknown tool: " + name})
		return
	}

	var req toolRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("decoding tool request: %w", err))
			return
		}
	}

	values := chatctx.Values{}
	if req.Context != nil {
		values = *req.Context
	} else if req.Message != "" {
		values, _ = chatctx.Parse(req.Message)
	}
	args := values.Merge(req.Arguments, spec.FillsFromContext)

	c.JSON(http.StatusOK, gin.H{"text": s.deps.Dispatcher.Call(c.Request.Context(), name, args)})
}
