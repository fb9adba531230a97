package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/contentvault/internal/config"
	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/db"
	"github.com/hpungsan/contentvault/internal/fetch"
	"github.com/hpungsan/contentvault/internal/logging"
	"github.com/hpungsan/contentvault/internal/mcp"
	"github.com/hpungsan/contentvault/internal/notion"
	"github.com/hpungsan/contentvault/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "mcp": true,
	"list": true, "add": true, "update": true, "archive": true,
	"preview": true, "page-id": true, "markdown": true,
	"help": true,
}

// deps are the collaborators shared by every command.
type deps struct {
	backend  content.Backend
	markdown ops.MarkdownSource
	cfg      *config.Config
	logger   *logrus.Logger
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
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

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  __   __          _ _
  \ \ / /_ _ _   _| | |_
   \ V / _' | | | | | __|
    \_/\__,_|\__,_|_|\__|

  Personal content triage

  Usage: vault <command> [options]
         vault serve
         vault --help

  MCP server mode requires piped input.`)
}

// loadConfig merges global and project config files, the .env file in
// workDir, and the process environment.
func loadConfig(baseDir, workDir string, lookup func(string) (string, bool)) (*config.Config, error) {
	cfg, err := config.LoadWithRepo(baseDir, workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.LoadEnvFile(filepath.Join(workDir, ".env")); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg = config.ApplyEnv(cfg, lookup)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newBackend opens the configured content store. The returned func
// releases its resources.
func newBackend(cfg *config.Config, baseDir string, logger *logrus.Logger) (content.Backend, func() error, error) {
	if cfg.Backend == config.BackendLocal {
		database, err := db.Init(baseDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		db.ConfigurePool(database, cfg)
		return db.NewStore(database), database.Close, nil
	}

	if cfg.NotionToken == "" {
		logger.Warn("NOTION_TOKEN is not set; Notion requests will fail")
	}
	client := notion.New(notion.Options{
		Token:      cfg.NotionToken,
		DatabaseID: cfg.NotionDatabaseID,
		BaseURL:    cfg.NotionAPIURL,
		Version:    cfg.NotionVersion,
		Timeout:    cfg.HTTPTimeout(),
		CacheTTL:   cfg.PreviewCacheTTL(),
	})
	return client, func() error { return nil }, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before loading config (no backend needed)
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
	workDir, err := os.Getwd()
	if err != nil {
		fatal("could not determine working directory: %v", err)
	}

	baseDir := filepath.Join(homeDir, ".contentvault")

	cfg, err := loadConfig(baseDir, workDir, os.LookupEnv)
	if err != nil {
		fatal("%v", err)
	}

	// Logs go to stderr in every mode; stdout carries command output or MCP traffic.
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fatal("%v", err)
	}

	backend, closeBackend, err := newBackend(cfg, baseDir, logger)
	if err != nil {
		fatal("%v", err)
	}
	defer closeBackend()

	d := &deps{
		backend:  backend,
		markdown: fetch.New(cfg.HTTPTimeout()),
		cfg:      cfg,
		logger:   logger,
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(d)
		if err := app.Run(os.Args); err != nil {
			closeBackend()
			fatal("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'vault --help' for usage.\n")
		closeBackend()
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := runMCP(d); err != nil {
		closeBackend()
		fatal("%v", err)
	}
}

// runMCP serves the MCP tools over stdio.
func runMCP(d *deps) error {
	if unknown := mcp.ValidateDisabledTools(d.cfg.DisabledTools); len(unknown) > 0 {
		d.logger.Warnf("unknown tools in disabled_tools: %v", unknown)
	}
	return mcp.Run(d.backend, d.markdown, d.cfg, d.logger, Version)
}
