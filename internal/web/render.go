package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/urlcopy/internal/errors"
	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/shortcut"
	"github.com/hpungsan/urlcopy/internal/tab"
	"github.com/hpungsan/urlcopy/internal/transform"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
}

// StylePreview is one copy style applied to the preview tab.
type StylePreview struct {
	Style        transform.Style
	Label        string
	Message      tab.Message
	RenderedHTML template.HTML // set for markdown only
}

// OptionsPageData is the template data for the options page.
type OptionsPageData struct {
	PageData
	Shortcuts shortcut.Report
	// SettingsURL is the shortcut settings link. html/template rejects its
	// chrome:// scheme unless it is marked as trusted.
	SettingsURL template.URL
	Menu        []menu.Entry
	PreviewTab  tab.Tab
	Previews    []StylePreview
	Pages       []tab.Tab
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	logger    *slog.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	funcMap := template.FuncMap{
		"isType": func(e menu.Entry, t string) bool { return string(e.Type) == t },
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"options": "options.html",
		"error":   "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{templates: templates, version: version, logger: logger}
}

// renderPage renders a named page template with the given data and status.
func (r *Renderer) renderPage(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("template not found", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderErrorPage renders the HTML error page for err.
func (r *Renderer) renderErrorPage(w http.ResponseWriter, err error) {
	cErr := errors.As(err)
	r.renderPage(w, cErr.Status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", cErr.Status),
			Version: r.version,
		},
		StatusCode: cErr.Status,
		Message:    cErr.Message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderJSONError writes err as {"error": {...}} with the error's status.
func renderJSONError(w http.ResponseWriter, err error) {
	cErr := errors.As(err)
	body := map[string]any{
		"code":    string(cErr.Code),
		"message": cErr.Message,
		"status":  cErr.Status,
	}
	if len(cErr.Details) > 0 {
		body["details"] = cErr.Details
	}
	renderJSON(w, cErr.Status, map[string]any{"error": body})
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
