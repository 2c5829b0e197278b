package web

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/ops"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/shortcut"
	"github.com/hpungsan/urlcopy/internal/tab"
	"github.com/hpungsan/urlcopy/internal/transform"
)

// samplePreviewTab is shown when no page is connected.
var samplePreviewTab = tab.Tab{Title: "Example Title", URL: "https://www.example.com"}

var styleLabels = map[transform.Style]string{
	transform.StylePlain:    "Plain URL",
	transform.StyleTitle:    "Title URL",
	transform.StyleMarkdown: "Markdown URL",
	transform.StyleBacklog:  "Backlog URL",
}

// TabLister lists connected pages for the options page.
type TabLister interface {
	Tabs() []tab.Tab
}

// Handlers contains HTTP route handlers.
type Handlers struct {
	deps       ops.Deps
	indicators *menu.Indicators
	pages      TabLister
	renderer   *Renderer
	logger     *slog.Logger
}

// HandleOptions handles GET /: the options page.
func (h *Handlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	v, err := prefs.Snapshot(r.Context(), h.deps.Store)
	if err != nil {
		h.renderer.renderErrorPage(w, err)
		return
	}

	var pages []tab.Tab
	if h.pages != nil {
		pages = h.pages.Tabs()
	}
	preview := samplePreviewTab
	if len(pages) > 0 && pages[0].URL != "" {
		preview = pages[0]
	}

	previews := make([]StylePreview, 0, len(transform.Styles()))
	for _, st := range transform.Styles() {
		out := ops.Format(ops.FormatInput{
			URL:          preview.URL,
			Title:        preview.Title,
			Style:        st,
			RemoveParams: v.RemoveParams,
			URLDecoding:  v.URLDecoding,
		})
		p := StylePreview{Style: st, Label: styleLabels[st], Message: out.Message}
		if st == transform.StyleMarkdown && out.Message.Type == tab.MessageCopy {
			p.RenderedHTML = renderMarkdown(out.Message.Text)
		}
		previews = append(previews, p)
	}

	h.renderer.renderPage(w, http.StatusOK, "options", OptionsPageData{
		PageData: PageData{
			Title:   "url-copy options",
			Version: h.renderer.version,
		},
		Shortcuts:   shortcut.Audit(h.deps.Commands),
		SettingsURL: template.URL(shortcut.SettingsURL),
		Menu:        h.indicators.Snapshot(),
		PreviewTab:  preview,
		Previews:    previews,
		Pages:       pages,
	})
}

// HandleAction handles POST /api/action: copies the active tab.
func (h *Handlers) HandleAction(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Copy(r.Context(), h.deps)
	if err != nil {
		renderJSONError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleMenu handles GET /api/menu.
func (h *Handlers) HandleMenu(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{"entries": h.indicators.Snapshot()})
}

// HandleMenuClick handles POST /api/menu/{id}.
func (h *Handlers) HandleMenuClick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := ops.HandleMenuClick(r.Context(), h.deps, id)
	if err != nil {
		renderJSONError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{
		"click":   out,
		"entries": h.indicators.Snapshot(),
	})
}

// HandlePreferences handles GET /api/preferences.
func (h *Handlers) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	v, err := prefs.Snapshot(r.Context(), h.deps.Store)
	if err != nil {
		renderJSONError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, v)
}

// HandleShortcuts handles GET /api/shortcuts.
func (h *Handlers) HandleShortcuts(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, shortcut.Audit(h.deps.Commands))
}
