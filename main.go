package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aura/internal/app"
	"aura/internal/config"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "mcp":
		return runMCP(cfg, rest)
	case "export":
		return runExport(cfg, rest)
	case "status":
		return runStatus(cfg, rest)
	case "version", "-version", "--version", "-v":
		fmt.Printf("aura %s\n", version)
		return 0
	case "help", "-help", "--help", "-h":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "aura - page builder session with undo/redo\n\n")
	fmt.Fprintf(os.Stderr, "Usage: aura <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  mcp       Serve the session over MCP on stdin/stdout\n")
	fmt.Fprintf(os.Stderr, "  export    Write the persisted document as HTML\n")
	fmt.Fprintf(os.Stderr, "  status    Print block count and history summary\n")
	fmt.Fprintf(os.Stderr, "  version   Print the version\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment: %s, %s, %s, %s, %s\n",
		config.EnvDataDir, config.EnvStoreURL, config.EnvSessionKey, config.EnvHistoryCap, config.EnvPersistHistory)
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  aura mcp                                 Serve the default sqlite session\n")
	fmt.Fprintf(os.Stderr, "  aura mcp -store postgres://u:p@db/aura   Serve a session stored in Postgres\n")
	fmt.Fprintf(os.Stderr, "  aura export -o site/index.html -watch    Re-export on every edit\n")
	fmt.Fprintf(os.Stderr, "  aura export -cron '0 * * * *'            Publish hourly\n")
}

// sessionFlags registers the flags every command shares.
func sessionFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.StoreURL, "store", cfg.StoreURL, "Store URL (sqlite path, file://, memory://, postgres://, mysql://, mongodb://)")
	fs.StringVar(&cfg.SessionKey, "key", cfg.SessionKey, "Session key the document is stored under")
	fs.IntVar(&cfg.HistoryCap, "history-cap", cfg.HistoryCap, "Maximum undo history length")
	fs.BoolVar(&cfg.PersistHistory, "persist-history", cfg.PersistHistory, "Store the undo history with the document")
}

func runMCP(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	sessionFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	// stdout carries the protocol, keep logs on stderr.
	log.SetOutput(os.Stderr)
	if err := app.ServeMCP(cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runExport(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	sessionFlags(fs, &cfg)
	out := fs.String("o", "", "Output file (default <data>/export/index.html)")
	watch := fs.Bool("watch", false, "Re-export whenever the document changes")
	cronExpr := fs.String("cron", "", "Re-export on a cron schedule, e.g. '*/15 * * * *' or '@hourly'")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *watch && *cronExpr != "" {
		fmt.Fprintln(os.Stderr, "Error: -watch and -cron are mutually exclusive")
		return 2
	}
	if *out == "" {
		*out = cfg.ExportPath()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(cfg)
	if err := a.Startup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Shutdown(context.Background())

	if err := a.Export(ctx, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var err error
	switch {
	case *watch:
		err = a.WatchExport(ctx, *out)
	case *cronExpr != "":
		err = a.ScheduleExport(ctx, *cronExpr, *out)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runStatus(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	sessionFlags(fs, &cfg)
	asJSON := fs.Bool("json", false, "Print as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	log.SetOutput(os.Stderr)

	ctx := context.Background()
	a := app.New(cfg)
	if err := a.Startup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Shutdown(ctx)

	st := a.Status()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Printf("session:  %s\n", cfg.SessionKey)
	fmt.Printf("blocks:   %d\n", st.Blocks)
	fmt.Printf("history:  entry %d of %d (undo: %t, redo: %t)\n", st.Cursor+1, st.Length, st.CanUndo, st.CanRedo)
	return 0
}
