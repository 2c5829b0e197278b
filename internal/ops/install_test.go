package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/urlcopy/internal/errors"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/shortcut"
)

func TestHandleInstalled_OpensOptionsOnlyWhenShortcutMissing(t *testing.T) {
	tests := []struct {
		name      string
		commands  []shortcut.Command
		wantCalls int
	}{
		{"all assigned", shortcut.DefaultCommands(), 0},
		{"one missing", []shortcut.Command{{Name: "_execute_action"}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			opener := &fakeOpener{}
			env.deps.Options = opener
			env.deps.Commands = tt.commands

			if err := HandleInstalled(context.Background(), env.deps, ReasonInstall); err != nil {
				t.Fatalf("HandleInstalled failed: %v", err)
			}
			if opener.calls != tt.wantCalls {
				t.Errorf("OpenOptions calls = %d, want %d", opener.calls, tt.wantCalls)
			}
			if len(env.menus.Snapshot()) != 7 {
				t.Error("menu not initialized")
			}
		})
	}
}

func TestHandleInstalled_OpenerFailureStillInitializes(t *testing.T) {
	env := newTestEnv(t, nil)
	env.deps.Options = &fakeOpener{err: errBoom}
	env.deps.Commands = []shortcut.Command{{Name: "x"}}

	if err := HandleInstalled(context.Background(), env.deps, ReasonInstall); err != nil {
		t.Fatalf("HandleInstalled failed: %v", err)
	}
	if len(env.store.sets) != 3 {
		t.Errorf("sets = %+v", env.store.sets)
	}
}

func TestHandleInstalled_StartupRestores(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.seed(t,
		prefs.Pair{Key: prefs.KeyCopyStyle, Value: "title-url"},
		prefs.Pair{Key: prefs.KeyRemoveParams, Value: false},
		prefs.Pair{Key: prefs.KeyURLDecoding, Value: true},
	)

	if err := HandleInstalled(context.Background(), env.deps, ReasonStartup); err != nil {
		t.Fatalf("HandleInstalled failed: %v", err)
	}
	if len(env.store.sets) != 0 {
		t.Errorf("startup wrote preferences: %+v", env.store.sets)
	}
	if !checked(t, env, "title-url") {
		t.Error("title-url not checked after restore")
	}
}

func TestHandleInstalled_UnknownReason(t *testing.T) {
	env := newTestEnv(t, nil)
	err := HandleInstalled(context.Background(), env.deps, Reason("reinstall"))
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestDetectReason(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	reason, err := DetectReason(ctx, env.deps)
	if err != nil || reason != ReasonInstall {
		t.Fatalf("DetectReason = %q, %v; want install", reason, err)
	}

	env.store.seed(t, prefs.Pair{Key: prefs.KeyCopyStyle, Value: "plain-url"})
	reason, err = DetectReason(ctx, env.deps)
	if err != nil || reason != ReasonStartup {
		t.Fatalf("DetectReason = %q, %v; want startup", reason, err)
	}
}
