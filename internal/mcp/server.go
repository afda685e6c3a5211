package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/irdeck/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"ir_learn": {
		def:     learnToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLearn },
	},
	"ir_learn_start": {
		def:     learnStartToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLearnStart },
	},
	"ir_learn_stop": {
		def:     learnStopToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLearnStop },
	},
	"ir_save": {
		def:     saveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSave },
	},
	"ir_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"ir_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"ir_delete_all": {
		def:     deleteAllToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDeleteAll },
	},
	"ir_send": {
		def:     sendToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSend },
	},
	"ir_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"ir_status": {
		def:     statusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with irdeck tools registered.
// Tools listed in env.Config.DisabledTools are excluded from registration.
func NewServer(env *ops.Env, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"irdeck",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(env)

	disabled := make(map[string]bool)
	for _, name := range env.Config.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(env *ops.Env, version string) error {
	s := NewServer(env, version)
	return server.ServeStdio(s)
}
