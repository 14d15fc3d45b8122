// Package mcpserver exposes the tool catalog over the Model Context Protocol
// on stdio.
package mcpserver

import (
	"context"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/dispatch"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

const contextParam = "context"

const instructions = "Tools for Kanban and Scrum workspaces. Backlog items are referenced as #N " +
	"within a workspace. Pass a [CONTEXT: space_id='..', user_id='..', sprint_id='..'] header in " +
	"the optional context argument to fill in identifiers you were not given."

// ToolHandler serves one catalog tool.
type ToolHandler struct {
	spec       dispatch.ToolSpec
	dispatcher *dispatch.Dispatcher
	defaults   chatctx.Values
}

// NewToolHandler creates a handler for spec. defaults fill arguments the
// caller leaves out, after any per-call context header.
func NewToolHandler(spec dispatch.ToolSpec, d *dispatch.Dispatcher, defaults chatctx.Values) *ToolHandler {
	return &ToolHandler{spec: spec, dispatcher: d, defaults: defaults}
}

// Definition returns the MCP schema built from the catalog entry.
func (h *ToolHandler) Definition() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(h.spec.Description)}
	for _, p := range h.spec.Params {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		switch p.Kind {
		case dispatch.KindNumber:
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	opts = append(opts, mcp.WithString(contextParam,
		mcp.Description("Optional [CONTEXT: ...] header carrying space_id, user_id and sprint_id"),
	))
	return mcp.NewTool(h.spec.Name, opts...)
}

// Handle runs the tool. Failures come back as text, never as a protocol error.
func (h *ToolHandler) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if header, ok := args[contextParam].(string); ok {
		values, _ := chatctx.Parse(header)
		args = values.Merge(args, h.spec.FillsFromContext)
	}
	args = h.defaults.Merge(args, h.spec.FillsFromContext)
	delete(args, contextParam)
	return mcp.NewToolResultText(h.dispatcher.Call(ctx, h.spec.Name, args)), nil
}

func handlers(d *dispatch.Dispatcher, defaults chatctx.Values) []*ToolHandler {
	catalog := dispatch.Catalog()
	out := make([]*ToolHandler, 0, len(catalog))
	for _, spec := range catalog {
		out = append(out, NewToolHandler(spec, d, defaults))
	}
	return out
}

// New creates the MCP server with every catalog tool registered.
func New(d *dispatch.Dispatcher, defaults chatctx.Values) *server.MCPServer {
	s := server.NewMCPServer(
		"sprintdesk",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, h := range handlers(d, defaults) {
		s.AddTool(h.Definition(), h.Handle)
	}
	return s
}

// ServeStdio blocks serving s on stdin and stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
