// Package mcp exposes the control centre to agent tooling over the Model
// Context Protocol, using stdio transport.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aboldguess/Nerfdrone/internal/deck"
)

// KnownTypes lists all valid tool type names.
var KnownTypes = []string{"route", "survey", "finance"}

// toolEntry pairs a tool definition with its type and a handler factory.
type toolEntry struct {
	def     mcp.Tool
	typ     string
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"plan_grid_route": {
		def:     planGridRouteToolDef,
		typ:     "route",
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePlanGridRoute },
	},
	"list_captures": {
		def:     listCapturesToolDef,
		typ:     "survey",
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListCaptures },
	},
	"compare_captures": {
		def:     compareCapturesToolDef,
		typ:     "survey",
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCompareCaptures },
	},
	"annotate_asset": {
		def:     annotateAssetToolDef,
		typ:     "survey",
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAnnotateAsset },
	},
	"survey_metrics": {
		def:     surveyMetricsToolDef,
		typ:     "survey",
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSurveyMetrics },
	},
	"list_transactions": {
		def:     listTransactionsToolDef,
		typ:     "finance",
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListTransactions },
	},
	"duplicate_transaction": {
		def:     duplicateTransactionToolDef,
		typ:     "finance",
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDuplicateTransaction },
	},
	"finance_snapshot": {
		def:     financeSnapshotToolDef,
		typ:     "finance",
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFinanceSnapshot },
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

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// TypeForTool reports the type a tool belongs to, or "" for unknown tools.
func TypeForTool(toolName string) string {
	if entry, ok := toolRegistry[toolName]; ok {
		return entry.typ
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name, entry := range toolRegistry {
		if typeSet[entry.typ] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates an MCP server with the control centre tools registered.
// Tools listed in settings.DisabledTools or belonging to
// settings.DisabledTypes are excluded from registration.
func NewServer(d *deck.Deck, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"nerfdrone",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(d)

	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(d.Settings.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range d.Settings.DisabledTools {
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

// Run starts the MCP server using stdio transport.
func Run(d *deck.Deck, version string) error {
	return server.ServeStdio(NewServer(d, version))
}
