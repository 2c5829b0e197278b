package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/urlcopy/internal/errors"
	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/ops"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/shortcut"
	"github.com/hpungsan/urlcopy/internal/tab"
	"github.com/hpungsan/urlcopy/internal/transform"
)

// localTabID identifies pages passed explicitly to url_copy.
const localTabID = 1

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps       ops.Deps
	indicators *menu.Indicators
	local      tab.Messenger
}

// NewHandlers creates a new Handlers instance. local receives copies of
// explicitly passed URLs; it defaults to deps.Messenger.
func NewHandlers(deps ops.Deps, indicators *menu.Indicators, local tab.Messenger) *Handlers {
	if local == nil {
		local = deps.Messenger
	}
	return &Handlers{deps: deps, indicators: indicators, local: local}
}

// CopyRequest represents the arguments for url_copy.
type CopyRequest struct {
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

// FormatRequest represents the arguments for url_format.
type FormatRequest struct {
	URL          string  `json:"url"`
	Title        string  `json:"title,omitempty"`
	Style        *string `json:"style,omitempty"`
	RemoveParams *bool   `json:"remove_params,omitempty"`
	URLDecoding  *bool   `json:"url_decoding,omitempty"`
}

// MenuClickRequest represents the arguments for menu_click.
type MenuClickRequest struct {
	ID string `json:"id"`
}

// MenuStateResult is returned by menu_state.
type MenuStateResult struct {
	Entries     []menu.Entry `json:"entries"`
	Preferences prefs.Values `json:"preferences"`
}

// HandleCopy handles the url_copy tool call.
func (h *Handlers) HandleCopy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CopyRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	d := h.deps
	if input.URL != "" || input.Title != "" {
		d.Tabs = tab.Static{Tab: &tab.Tab{ID: localTabID, URL: input.URL, Title: input.Title}}
		d.Messenger = h.local
	}

	result, err := ops.Copy(ctx, d)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFormat handles the url_format tool call.
func (h *Handlers) HandleFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FormatRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if input.URL == "" {
		return errorResult(errors.NewInvalidRequest("url is required")), nil
	}

	stored, err := prefs.Snapshot(ctx, h.deps.Store)
	if err != nil {
		return errorResult(err), nil
	}

	in := ops.FormatInput{
		URL:          input.URL,
		Title:        input.Title,
		Style:        stored.Style,
		RemoveParams: stored.RemoveParams,
		URLDecoding:  stored.URLDecoding,
	}
	if input.Style != nil {
		st, ok := transform.ParseStyle(*input.Style)
		if !ok {
			return errorResult(errors.NewInvalidRequest("unknown style: " + *input.Style)), nil
		}
		in.Style = st
	}
	if input.RemoveParams != nil {
		in.RemoveParams = *input.RemoveParams
	}
	if input.URLDecoding != nil {
		in.URLDecoding = *input.URLDecoding
	}

	return successResult(ops.Format(in))
}

// HandleMenuClick handles the menu_click tool call.
func (h *Handlers) HandleMenuClick(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MenuClickRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	result, err := ops.HandleMenuClick(ctx, h.deps, input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleMenuState handles the menu_state tool call.
func (h *Handlers) HandleMenuState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := prefs.Snapshot(ctx, h.deps.Store)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(MenuStateResult{Entries: h.indicators.Snapshot(), Preferences: v})
}

// HandleShortcutsAudit handles the shortcuts_audit tool call.
func (h *Handlers) HandleShortcutsAudit(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(shortcut.Audit(h.deps.Commands))
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var cErr *errors.CopyError
	if stderrors.As(err, &cErr) {
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": cErr.Message,
			"status":  cErr.Status,
		}
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
