package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/urlcopy/internal/errors"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/shortcut"
)

// Reason is why the installed handler runs.
type Reason string

const (
	ReasonInstall Reason = "install"
	ReasonUpdate  Reason = "update"
	ReasonStartup Reason = "startup"
)

// HandleInstalled sets up preferences and the menu. A fresh install audits
// the shortcut catalog first and opens the options page if any is missing.
func HandleInstalled(ctx context.Context, d Deps, reason Reason) error {
	switch reason {
	case ReasonInstall:
		if missing := shortcut.FindMissing(d.Commands); len(missing) > 0 {
			d.log().Warn("keyboard shortcuts missing", "commands", missing)
			if d.Options != nil {
				if err := d.Options.OpenOptions(ctx); err != nil {
					d.log().Warn("failed to open options page", "error", err)
				}
			}
		}
		return Initialize(ctx, d)
	case ReasonUpdate, ReasonStartup:
		return Restore(ctx, d)
	default:
		return errors.NewInvalidRequest(fmt.Sprintf("unknown install reason: %q", reason))
	}
}

// DetectReason returns ReasonInstall when no copy style has been stored yet.
func DetectReason(ctx context.Context, d Deps) (Reason, error) {
	_, ok, err := d.Store.Get(ctx, prefs.KeyCopyStyle)
	if err != nil {
		return "", err
	}
	if !ok {
		return ReasonInstall, nil
	}
	return ReasonStartup, nil
}
