package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hpungsan/urlcopy/internal/config"
	"github.com/hpungsan/urlcopy/internal/db"
	"github.com/hpungsan/urlcopy/internal/logging"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "copy": true, "format": true,
	"menu": true, "prefs": true, "install": true, "shortcuts": true,
	"help": true,
}

// runtime is what every command needs once startup has finished.
type runtime struct {
	db      *sql.DB
	cfg     *config.Config
	baseDir string
	logger  *slog.Logger
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// logMode picks daemon logging for the long-running entry points.
func logMode() logging.Mode {
	if !isCLIMode() || os.Args[1] == "serve" {
		return logging.ModeDaemon
	}
	return logging.ModeCLI
}

func printBanner() {
	fmt.Println(`
              _
   _   _ _ __| | ___ ___  _ __  _   _
  | | | | '__| |/ __/ _ \| '_ \| | | |
  | |_| | |  | | (_| (_) | |_) | |_| |
   \__,_|_|  |_|\___\___/| .__/ \__, |
                         |_|    |___/

  Copy the current URL, cleaned and formatted

  Usage: urlcopy <command> [options]
         urlcopy --help

  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// --help/--version need neither config nor database.
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, config.DirName)

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	logger, closeLog, err := logging.Init(cfg.Logging, logging.InitOptions{
		Version: Version,
		Mode:    logMode(),
		LogDir:  filepath.Join(baseDir, "logs"),
	})
	if err != nil {
		fatal("failed to initialize logging: %v", err)
	}
	defer func() { _ = closeLog() }()

	database, err := db.Init(baseDir)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	rt := &runtime{db: database, cfg: cfg, baseDir: baseDir, logger: logger}

	if isCLIMode() {
		app := newCLIApp(rt)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal: don't start the MCP server.
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'urlcopy --help' for usage.\n")
		os.Exit(1)
	}

	if err := runMCP(rt); err != nil {
		logger.Error("mcp server stopped", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
