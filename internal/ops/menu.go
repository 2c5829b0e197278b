package ops

import (
	"context"

	"github.com/hpungsan/urlcopy/internal/errors"
	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/transform"
)

// MenuClickOutput describes the state change made by a menu click.
type MenuClickOutput struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // "style" or "toggle"
	Checked bool   `json:"checked"`
}

// HandleMenuClick dispatches a click on entry id.
func HandleMenuClick(ctx context.Context, d Deps, id string) (*MenuClickOutput, error) {
	switch {
	case menu.IsStyle(id):
		if err := SelectStyle(ctx, d, id); err != nil {
			return nil, err
		}
		return &MenuClickOutput{ID: id, Kind: "style", Checked: true}, nil
	case menu.IsToggle(id):
		v, err := Toggle(ctx, d, id)
		if err != nil {
			return nil, err
		}
		return &MenuClickOutput{ID: id, Kind: "toggle", Checked: v}, nil
	default:
		d.log().Warn("unknown menu item", "menu_item_id", id)
		return nil, errors.NewUnknownMenuItem(id)
	}
}

// SelectStyle makes newID the only checked style and persists it.
// Selecting the current style re-checks it without writing.
func SelectStyle(ctx context.Context, d Deps, newID string) error {
	if !menu.IsStyle(newID) {
		d.log().Warn("unknown menu item", "menu_item_id", newID)
		return errors.NewUnknownMenuItem(newID)
	}

	current, ok, err := prefs.GetString(ctx, d.Store, prefs.KeyCopyStyle)
	if err != nil {
		d.log().Error("failed to read copy style", "error", err)
		return err
	}
	if !ok || current == "" {
		current = string(transform.DefaultStyle)
	}

	if newID == current {
		d.updateIndicator(current, true)
		return nil
	}

	d.updateIndicator(current, false)
	d.updateIndicator(newID, true)

	if err := d.Store.Set(ctx, prefs.KeyCopyStyle, newID); err != nil {
		d.log().Error("failed to save copy style", "copy_style_id", newID, "error", err)
		d.updateIndicator(newID, false)
		d.updateIndicator(current, true)
		return err
	}
	return nil
}

// Toggle flips a boolean flag and returns its new value.
func Toggle(ctx context.Context, d Deps, flag string) (bool, error) {
	if !menu.IsToggle(flag) {
		d.log().Warn("unknown menu item", "menu_item_id", flag)
		return false, errors.NewUnknownMenuItem(flag)
	}

	v, ok, err := prefs.GetBool(ctx, d.Store, flag)
	if err != nil {
		d.log().Error("failed to read flag", "flag", flag, "error", err)
		return false, err
	}
	if !ok {
		d.log().Warn("missing value for flag", "flag", flag)
		return false, errors.NewMissingValue(flag)
	}

	next := !v
	if err := d.Store.Set(ctx, flag, next); err != nil {
		d.log().Error("failed to save flag", "flag", flag, "error", err)
		return false, err
	}
	d.updateIndicator(flag, next)
	return next, nil
}

// Initialize persists the default preferences and builds the menu from them.
// Nothing is built if persisting fails.
func Initialize(ctx context.Context, d Deps) error {
	for _, p := range prefs.Defaults() {
		if err := d.Store.Set(ctx, p.Key, p.Value); err != nil {
			d.log().Error("failed to initialize storage", "key", p.Key, "error", err)
			return err
		}
	}
	return buildMenu(d, prefs.Values{Style: transform.DefaultStyle, RemoveParams: true, URLDecoding: true})
}

// Restore rebuilds the menu from the stored preferences. Keys that were
// never stored get their defaults persisted first, so every indicator
// mirrors a stored value.
func Restore(ctx context.Context, d Deps) error {
	for _, p := range prefs.Defaults() {
		_, ok, err := d.Store.Get(ctx, p.Key)
		if err != nil {
			d.log().Error("failed to read preferences", "error", err)
			return err
		}
		if ok {
			continue
		}
		if err := d.Store.Set(ctx, p.Key, p.Value); err != nil {
			d.log().Error("failed to initialize storage", "key", p.Key, "error", err)
			return err
		}
	}

	v, err := prefs.Snapshot(ctx, d.Store)
	if err != nil {
		d.log().Error("failed to read preferences", "error", err)
		return err
	}
	return buildMenu(d, v)
}

// SyncIndicators re-applies the stored preferences to an already built menu.
func SyncIndicators(ctx context.Context, d Deps) error {
	v, err := prefs.Snapshot(ctx, d.Store)
	if err != nil {
		d.log().Error("failed to read preferences", "error", err)
		return err
	}
	for _, e := range menu.Catalog(v) {
		if e.Type == menu.TypeNormal {
			continue
		}
		if err := d.Menus.Update(e.ID, e.Checked); err != nil {
			return errors.NewInternal(err)
		}
	}
	return nil
}

// WatchStore keeps the menu in sync with changes made outside this process.
func WatchStore(ctx context.Context, d Deps) (unwatch func()) {
	resync := func(any) {
		if err := SyncIndicators(ctx, d); err != nil {
			d.log().Warn("menu sync failed", "error", err)
		}
	}
	stops := []func(){
		d.Store.Watch(prefs.KeyCopyStyle, resync),
		d.Store.Watch(prefs.KeyRemoveParams, resync),
		d.Store.Watch(prefs.KeyURLDecoding, resync),
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

func buildMenu(d Deps, v prefs.Values) error {
	if err := d.Menus.RemoveAll(); err != nil {
		return errors.NewInternal(err)
	}
	for _, e := range menu.Catalog(v) {
		if err := d.Menus.Create(e); err != nil {
			d.log().Error("failed to create menu entry", "menu_item_id", e.ID, "error", err)
			return errors.NewInternal(err)
		}
	}
	return nil
}

func (d Deps) updateIndicator(id string, checked bool) {
	if err := d.Menus.Update(id, checked); err != nil {
		d.log().Warn("failed to update menu entry", "menu_item_id", id, "error", err)
	}
}
