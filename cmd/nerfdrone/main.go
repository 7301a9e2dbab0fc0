package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aboldguess/Nerfdrone/internal/config"
	"github.com/aboldguess/Nerfdrone/internal/deck"
	"github.com/aboldguess/Nerfdrone/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "mcp": true, "plan": true, "captures": true,
	"metrics": true, "compare": true, "transactions": true,
	"duplicate": true, "snapshot": true, "classify": true,
	"export": true, "help": true,
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
  Nerfdrone
  Drone photogrammetry control centre

  Usage: nerfdrone <command> [options]
         nerfdrone serve
         nerfdrone --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before settings load (no deck needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load settings: %v\n", err)
		os.Exit(1)
	}

	if unknown := mcp.ValidateDisabledTools(settings.DisabledTools); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "error: unknown tools in NERFDRONE_DISABLED_TOOLS: %s\n", strings.Join(unknown, ", "))
		os.Exit(1)
	}
	if unknown := mcp.ValidateDisabledTypes(settings.DisabledTypes); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "error: unknown types in NERFDRONE_DISABLED_TYPES: %s\n", strings.Join(unknown, ", "))
		os.Exit(1)
	}

	d, err := deck.New(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to assemble control centre: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(d)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'nerfdrone --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(d, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
