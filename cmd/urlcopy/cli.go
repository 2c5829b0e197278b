package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/urlcopy/internal/clipboard"
	"github.com/hpungsan/urlcopy/internal/errors"
	"github.com/hpungsan/urlcopy/internal/menu"
	"github.com/hpungsan/urlcopy/internal/ops"
	"github.com/hpungsan/urlcopy/internal/prefs"
	"github.com/hpungsan/urlcopy/internal/shortcut"
	"github.com/hpungsan/urlcopy/internal/tab"
	"github.com/hpungsan/urlcopy/internal/transform"
)

// cliTabID identifies the page described by --url/--title.
const cliTabID = 1

// newCLIApp creates the CLI application with all commands.
// rt may be nil when only help or version output is needed.
func newCLIApp(rt *runtime) *cli.App {
	app := &cli.App{
		Name:    "urlcopy",
		Usage:   "Copy the current URL, cleaned and formatted",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(rt),
			copyCmd(rt),
			formatCmd(rt),
			menuCmd(rt),
			prefsCmd(rt),
			installCmd(rt),
			shortcutsCmd(rt),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// cliDeps wires the core for a one-shot run against the persisted store.
func cliDeps(rt *runtime, page *tab.Tab, messenger tab.Messenger) (ops.Deps, *menu.Indicators) {
	indicators := menu.NewIndicators()
	return ops.Deps{
		Store:     prefs.NewSQLStore(rt.db),
		Menus:     indicators,
		Tabs:      tab.Static{Tab: page},
		Messenger: messenger,
		Commands:  rt.cfg.Commands,
		Logger:    rt.logger,
	}, indicators
}

// prepareMenu builds the menu, initializing preferences on first use.
func prepareMenu(ctx context.Context, d ops.Deps) error {
	reason, err := ops.DetectReason(ctx, d)
	if err != nil {
		return err
	}
	if reason == ops.ReasonInstall {
		return ops.Initialize(ctx, d)
	}
	return ops.Restore(ctx, d)
}

func serveCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the daemon (options page, menu API and page bridge)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("bind") {
				rt.cfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				rt.cfg.Port = c.Int("port")
			}
			if err := runServe(c.Context, rt); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// copyCmd creates the copy command.
func copyCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "copy",
		Usage: "Copy a URL to the clipboard using the stored style (URL via --url or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Page URL"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Page title"},
			&cli.BoolFlag{Name: "stdout", Usage: "Print the text instead of writing the clipboard"},
		},
		Action: func(c *cli.Context) error {
			rawURL := c.String("url")
			if rawURL == "" && stdinHasData() {
				in, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				rawURL = in
			}
			if rawURL == "" {
				return outputError(errors.NewInvalidRequest("url is required (--url or stdin)"))
			}

			sink := clipboard.NewSink()
			if c.Bool("stdout") {
				sink.Write = func(text string) error {
					_, err := fmt.Fprintln(os.Stdout, text)
					return err
				}
				sink.Out = io.Discard
			}

			page := &tab.Tab{ID: cliTabID, URL: rawURL, Title: c.String("title")}
			d, _ := cliDeps(rt, page, sink)
			output, err := ops.Copy(c.Context, d)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("stdout") {
				return nil
			}
			return outputJSON(output)
		},
	}
}

// formatCmd creates the format command.
func formatCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Show the text a copy would produce, without touching the clipboard",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Page title"},
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Copy style (defaults to the stored style)"},
			&cli.BoolFlag{Name: "remove-params", Usage: "Strip tracking parameters (defaults to the stored toggle)"},
			&cli.BoolFlag{Name: "url-decoding", Usage: "Decode percent-escapes (defaults to the stored toggle)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("url argument is required"))
			}

			stored, err := prefs.Snapshot(c.Context, prefs.NewSQLStore(rt.db))
			if err != nil {
				return outputError(err)
			}

			input := ops.FormatInput{
				URL:          c.Args().First(),
				Title:        c.String("title"),
				Style:        stored.Style,
				RemoveParams: stored.RemoveParams,
				URLDecoding:  stored.URLDecoding,
			}
			if c.IsSet("style") {
				style, ok := transform.ParseStyle(c.String("style"))
				if !ok {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown style: %q", c.String("style"))))
				}
				input.Style = style
			}
			if c.IsSet("remove-params") {
				input.RemoveParams = c.Bool("remove-params")
			}
			if c.IsSet("url-decoding") {
				input.URLDecoding = c.Bool("url-decoding")
			}

			return outputJSON(ops.Format(input))
		},
	}
}

// menuCmd creates the menu command and its subcommands.
func menuCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "menu",
		Usage: "Inspect or click menu entries",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List menu entries and their checked state",
				Action: func(c *cli.Context) error {
					d, indicators := cliDeps(rt, nil, nil)
					if err := prepareMenu(c.Context, d); err != nil {
						return outputError(err)
					}
					return outputJSON(indicators.Snapshot())
				},
			},
			{
				Name:      "click",
				Usage:     "Click a menu entry (a copy style or a toggle)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("menu entry id is required"))
					}
					d, _ := cliDeps(rt, nil, nil)
					if err := prepareMenu(c.Context, d); err != nil {
						return outputError(err)
					}
					output, err := ops.HandleMenuClick(c.Context, d, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// resetOutput reports what prefs reset removed and the defaults it wrote.
type resetOutput struct {
	Cleared     []string     `json:"cleared"`
	Preferences prefs.Values `json:"preferences"`
	Menu        []menu.Entry `json:"menu"`
}

func prefsCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Show the stored preferences",
		Action: func(c *cli.Context) error {
			v, err := prefs.Snapshot(c.Context, prefs.NewSQLStore(rt.db))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(v)
		},
		Subcommands: []*cli.Command{
			{
				Name:  "reset",
				Usage: "Delete every stored preference and write the defaults again",
				Action: func(c *cli.Context) error {
					store := prefs.NewSQLStore(rt.db)
					cleared, err := store.Clear(c.Context)
					if err != nil {
						return outputError(err)
					}

					d, indicators := cliDeps(rt, nil, nil)
					d.Store = store
					if err := ops.Initialize(c.Context, d); err != nil {
						return outputError(err)
					}
					v, err := prefs.Snapshot(c.Context, store)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(resetOutput{Cleared: cleared, Preferences: v, Menu: indicators.Snapshot()})
				},
			},
		},
	}
}

// installOutput reports what the installed handler did.
type installOutput struct {
	Reason ops.Reason      `json:"reason"`
	Menu   []menu.Entry    `json:"menu"`
	Audit  shortcut.Report `json:"shortcuts"`
}

// installCmd creates the install command.
func installCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Run the installed handler (install, update or startup)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "reason", Aliases: []string{"r"}, Usage: "install|update|startup (detected when omitted)"},
			&cli.BoolFlag{Name: "no-open", Usage: "Never open the options page"},
		},
		Action: func(c *cli.Context) error {
			d, indicators := cliDeps(rt, nil, nil)
			if !c.Bool("no-open") {
				d.Options = optionsOpener(rt)
			}

			reason := ops.Reason(c.String("reason"))
			if reason == "" {
				detected, err := ops.DetectReason(c.Context, d)
				if err != nil {
					return outputError(err)
				}
				reason = detected
			}

			if err := ops.HandleInstalled(c.Context, d, reason); err != nil {
				return outputError(err)
			}
			return outputJSON(installOutput{
				Reason: reason,
				Menu:   indicators.Snapshot(),
				Audit:  shortcut.Audit(rt.cfg.Commands),
			})
		},
	}
}

func shortcutsCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "shortcuts",
		Usage: "Audit the keyboard command catalog for missing shortcuts",
		Action: func(_ *cli.Context) error {
			return outputJSON(shortcut.Audit(rt.cfg.Commands))
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var copyErr *errors.CopyError
	if stderrors.As(err, &copyErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", copyErr.Code, copyErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
