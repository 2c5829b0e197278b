package mcp

import "github.com/mark3labs/mcp-go/mcp"

var copyToolDef = mcp.NewTool("url_copy",
	mcp.WithDescription("Copy the active tab's URL using the stored copy style and cleaning flags. "+
		"Pass url (and optionally title) to copy that page to the local clipboard instead of the active tab."),
	mcp.WithString("url", mcp.Description("URL to copy instead of the active tab's")),
	mcp.WithString("title", mcp.Description("Page title used by the title, markdown and backlog styles")),
)

var formatToolDef = mcp.NewTool("url_format",
	mcp.WithDescription("Format a URL and title without copying. Unset options use the stored preferences."),
	mcp.WithString("url", mcp.Required(), mcp.Description("URL to format")),
	mcp.WithString("title", mcp.Description("Page title")),
	mcp.WithString("style",
		mcp.Description("Copy style"),
		mcp.Enum("plain-url", "title-url", "markdown-url", "backlog-url"),
	),
	mcp.WithBoolean("remove_params", mcp.Description("Strip tracking query strings from known retail URLs")),
	mcp.WithBoolean("url_decoding", mcp.Description("Decode percent-escapes")),
)

var menuClickToolDef = mcp.NewTool("menu_click",
	mcp.WithDescription("Click a copy menu entry: select a copy style or flip a cleaning flag."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Menu entry id"),
		mcp.Enum("plain-url", "title-url", "markdown-url", "backlog-url", "remove-params", "url-decoding"),
	),
)

var menuStateToolDef = mcp.NewTool("menu_state",
	mcp.WithDescription("Show the copy menu entries and stored preferences."),
)

var shortcutsAuditToolDef = mcp.NewTool("shortcuts_audit",
	mcp.WithDescription("List keyboard commands that have no shortcut assigned."),
)
