// Package ops implements the copy orchestrator and the menu selection state
// machine on top of the preference store, menu and tab capabilities.
package ops

import (
	"context"
	"log/slog"

	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/shortcut"
	"github.com/hpungsan/urlcopy/internal/tab"
)

// OptionsOpener shows the options page to the user.
type OptionsOpener interface {
	OpenOptions(ctx context.Context) error
}

// Deps are the collaborators shared by every operation. Options may be nil.
type Deps struct {
	Store     prefs.Store
	Menus     menu.Registrar
	Tabs      tab.Querier
	Messenger tab.Messenger
	Commands  []shortcut.Command
	Options   OptionsOpener
	Logger    *slog.Logger
}

func (d Deps) log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
