package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"url_copy": {
		def:     copyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCopy },
	},
	"url_format": {
		def:     formatToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFormat },
	},
	"menu_click": {
		def:     menuClickToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMenuClick },
	},
	"menu_state": {
		def:     menuStateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMenuState },
	},
	"shortcuts_audit": {
		def:     shortcutsAuditToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleShortcutsAudit },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
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

// NewServer creates an MCP server with the url-copy tools registered,
// skipping any listed in disabledTools.
func NewServer(h *Handlers, version string, disabledTools []string) *server.MCPServer {
	s := server.NewMCPServer(
		"urlcopy",
		version,
		server.WithToolCapabilities(true),
	)

	disabled := make(map[string]bool, len(disabledTools))
	for _, name := range disabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves s over stdio until stdin closes.
func Run(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
