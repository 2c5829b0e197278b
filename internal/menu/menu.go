// Package menu defines the copy menu catalog and the indicator set that
// mirrors the preference store.
package menu

import (
	"fmt"
	"sync"

	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/transform"
)

type Type string

const (
	TypeNormal   Type = "normal"
	TypeRadio    Type = "radio"
	TypeCheckbox Type = "checkbox"
)

// ParentID is the id of the entry that groups the style radios.
const ParentID = "copy-style"

// Entry is one menu entry. Checked is meaningful for radio and checkbox entries only.
type Entry struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parent_id,omitempty"`
	Title    string   `json:"title"`
	Type     Type     `json:"type"`
	Contexts []string `json:"contexts"`
	Checked  bool     `json:"checked"`
}

// Registrar receives menu changes.
type Registrar interface {
	RemoveAll() error
	Create(e Entry) error
	Update(id string, checked bool) error
}

var styleTitles = map[transform.Style]string{
	transform.StylePlain:    "Plain URL",
	transform.StyleTitle:    "Title URL",
	transform.StyleMarkdown: "Markdown URL",
	transform.StyleBacklog:  "Backlog URL",
}

var toggleTitles = map[string]string{
	prefs.KeyRemoveParams: "Remove Params",
	prefs.KeyURLDecoding:  "URL Decoding",
}

// Catalog returns the seven entries in creation order, checked per v.
func Catalog(v prefs.Values) []Entry {
	all := []string{"all"}
	entries := []Entry{
		{ID: ParentID, Title: "Copy Style", Type: TypeNormal, Contexts: all},
	}
	for _, st := range transform.Styles() {
		entries = append(entries, Entry{
			ID:       string(st),
			ParentID: ParentID,
			Title:    styleTitles[st],
			Type:     TypeRadio,
			Contexts: all,
			Checked:  st == v.Style,
		})
	}
	entries = append(entries,
		Entry{ID: prefs.KeyRemoveParams, Title: toggleTitles[prefs.KeyRemoveParams], Type: TypeCheckbox, Contexts: all, Checked: v.RemoveParams},
		Entry{ID: prefs.KeyURLDecoding, Title: toggleTitles[prefs.KeyURLDecoding], Type: TypeCheckbox, Contexts: all, Checked: v.URLDecoding},
	)
	return entries
}

// IsStyle reports whether id is one of the radio entries.
func IsStyle(id string) bool {
	_, ok := transform.ParseStyle(id)
	return ok
}

// IsToggle reports whether id is one of the checkbox entries.
func IsToggle(id string) bool {
	_, ok := toggleTitles[id]
	return ok
}

// Indicators is an in-memory Registrar that remembers creation order.
type Indicators struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
}

func NewIndicators() *Indicators {
	return &Indicators{entries: make(map[string]Entry)}
}

func (in *Indicators) RemoveAll() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.order = nil
	in.entries = make(map[string]Entry)
	return nil
}

func (in *Indicators) Create(e Entry) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, exists := in.entries[e.ID]; exists {
		return fmt.Errorf("menu entry %q already exists", e.ID)
	}
	in.order = append(in.order, e.ID)
	in.entries[e.ID] = e
	return nil
}

// Update sets the checked state of id. Checking a radio unchecks its siblings.
func (in *Indicators) Update(id string, checked bool) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	e, ok := in.entries[id]
	if !ok {
		return fmt.Errorf("menu entry %q not found", id)
	}
	if e.Type == TypeRadio && checked {
		for sibID, sib := range in.entries {
			if sib.Type == TypeRadio && sib.ParentID == e.ParentID && sibID != id {
				sib.Checked = false
				in.entries[sibID] = sib
			}
		}
	}
	e.Checked = checked
	in.entries[id] = e
	return nil
}

// Snapshot returns a copy of the entries in creation order.
func (in *Indicators) Snapshot() []Entry {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]Entry, 0, len(in.order))
	for _, id := range in.order {
		out = append(out, in.entries[id])
	}
	return out
}

// Checked reports the checked state of id and whether it exists.
func (in *Indicators) Checked(id string) (bool, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	e, ok := in.entries[id]
	return e.Checked, ok
}
