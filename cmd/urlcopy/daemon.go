package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/hpungsan/urlcopy/internal/bridge"
	"github.com/hpungsan/urlcopy/internal/clipboard"
	"github.com/hpungsan/urlcopy/internal/mcp"
	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/ops"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/web"
)

// daemon is the long-running core: browser pages connect through the hub
// and the menu follows the SQLite preference store.
type daemon struct {
	rt         *runtime
	hub        *bridge.Hub
	store      *prefs.SQLStore
	indicators *menu.Indicators
	deps       ops.Deps
}

func newDaemon(rt *runtime) *daemon {
	hub := bridge.NewHub(rt.logger)
	store := prefs.NewSQLStore(rt.db)
	indicators := menu.NewIndicators()

	deps := ops.Deps{
		Store:     store,
		Menus:     indicators,
		Tabs:      hub,
		Messenger: hub,
		Commands:  rt.cfg.Commands,
		Options:   optionsOpener(rt),
		Logger:    rt.logger,
	}
	return &daemon{rt: rt, hub: hub, store: store, indicators: indicators, deps: deps}
}

// optionsOpener returns nil when the config disables opening the options page.
func optionsOpener(rt *runtime) ops.OptionsOpener {
	if !rt.cfg.ShouldOpenOptions() {
		return nil
	}
	return web.BrowserOpener{URL: "http://" + rt.cfg.Addr() + "/"}
}

// start runs the install handler and keeps the menu in sync with writes
// from other processes until ctx is cancelled.
func (d *daemon) start(ctx context.Context) (stop func(), err error) {
	reason, err := ops.DetectReason(ctx, d.deps)
	if err != nil {
		return nil, err
	}
	d.rt.logger.Info("starting", "reason", reason)
	if err := ops.HandleInstalled(ctx, d.deps, reason); err != nil {
		return nil, err
	}

	unwatch := ops.WatchStore(ctx, d.deps)
	go func() {
		if err := d.store.WatchFiles(ctx, d.rt.baseDir, d.rt.logger); err != nil {
			d.rt.logger.Warn("preference file watch stopped", "error", err)
		}
	}()
	return unwatch, nil
}

func (d *daemon) server() (*http.Server, error) {
	return web.NewServer(web.Options{
		Deps:       d.deps,
		Indicators: d.indicators,
		Bridge:     d.hub,
		Pages:      d.hub,
		Version:    Version,
		Addr:       d.rt.cfg.Addr(),
		Logger:     d.rt.logger,
	})
}

// runServe blocks serving the options page and the page bridge.
func runServe(ctx context.Context, rt *runtime) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d := newDaemon(rt)
	stop, err := d.start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	srv, err := d.server()
	if err != nil {
		return err
	}
	if err := web.Run(ctx, srv, rt.logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// runMCP serves MCP over stdio with the daemon running in the background.
// Explicit URLs passed to url_copy land on the system clipboard.
func runMCP(rt *runtime) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := newDaemon(rt)
	stop, err := d.start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	srv, err := d.server()
	if err != nil {
		return err
	}
	go func() {
		if err := web.Run(ctx, srv, rt.logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.logger.Warn("options server stopped", "error", err)
		}
	}()

	if unknown := mcp.ValidateDisabledTools(rt.cfg.DisabledTools); len(unknown) > 0 {
		rt.logger.Warn("unknown tools in disabled_tools", "tools", unknown, "valid", mcp.AllToolNames())
	}

	h := mcp.NewHandlers(d.deps, d.indicators, clipboard.NewSink())
	return mcp.Run(mcp.NewServer(h, Version, rt.cfg.DisabledTools))
}
