package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lotas/onehandle/internal/applog"
	"github.com/lotas/onehandle/internal/config"
	"github.com/lotas/onehandle/internal/domain"
	"github.com/lotas/onehandle/internal/export"
	"github.com/lotas/onehandle/internal/favorites"
	"github.com/lotas/onehandle/internal/source"
	"github.com/lotas/onehandle/internal/tabs"
	"github.com/lotas/onehandle/internal/tui"
	"github.com/lotas/onehandle/internal/types"
)

func main() {
	cfg := config.Load()
	applog.Init(cfg.LogDir)
	defer applog.Close()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "export":
			runExport(cfg, os.Args[2:])
			return
		case "copy":
			runCopy(cfg, os.Args[2:])
			return
		case "favorites":
			runFavorites(cfg, os.Args[2:])
			return
		case "help", "--help", "-h":
			printHelp()
			return
		}
	}

	runTUI(cfg, os.Args[1:])
}

func runTUI(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("onehandle", flag.ExitOnError)
	srcName := fs.String("source", cfg.Source, "Tab source: extension, firefox or cdp")
	port := fs.Int("port", cfg.Port, "WebSocket port for the extension source")
	fs.Parse(args)
	cfg.Source = *srcName
	cfg.Port = *port

	src, err := newSource(cfg)
	if err != nil {
		fatal(err)
	}

	store, closeStore, err := newStore(cfg)
	if err != nil {
		fatal(err)
	}
	defer closeStore()

	model := tui.NewModel(src, store, export.SystemClipboard{}, export.DirSaver{Dir: cfg.ExportDir})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fatal(err)
	}
}

func runExport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	srcName := fs.String("source", cfg.Source, "Tab source: extension, firefox or cdp")
	out := fs.String("out", cfg.ExportDir, "Directory the archive is saved into")
	port := fs.Int("port", cfg.Port, "WebSocket port for the extension source")
	fs.Parse(args)
	cfg.Source = *srcName
	cfg.Port = *port

	groups, err := loadGroups(cfg)
	if err != nil {
		fatal(err)
	}

	if err := export.DownloadAllTabs(groups, export.DirSaver{Dir: *out}); err != nil {
		fatal(fmt.Errorf("export: %w", err))
	}
	n := len(export.Flatten(groups))
	fmt.Printf("Exported %d tabs to %s\n", n, *out+"/"+export.ArchiveName)
}

func runCopy(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	srcName := fs.String("source", cfg.Source, "Tab source: extension, firefox or cdp")
	port := fs.Int("port", cfg.Port, "WebSocket port for the extension source")
	fs.Parse(args)
	cfg.Source = *srcName
	cfg.Port = *port

	groups, err := loadGroups(cfg)
	if err != nil {
		fatal(err)
	}

	if !export.CopyAllURLs(groups, export.SystemClipboard{}) {
		fmt.Fprintln(os.Stderr, "Clipboard unavailable.")
		os.Exit(1)
	}
	fmt.Printf("Copied %d URLs to clipboard.\n", len(export.Flatten(groups)))
}

func runFavorites(cfg *config.Config, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: onehandle favorites list|add <url>|remove <url>")
		os.Exit(1)
	}

	store, closeStore, err := newStore(cfg)
	if err != nil {
		fatal(err)
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch args[0] {
	case "list":
		favs := store.List(ctx)
		if len(favs) == 0 {
			fmt.Println("No favorites.")
			return
		}
		for _, f := range favs {
			fmt.Printf("%s\t%s\t%s\n", f.Title, f.URL, f.Domain)
		}

	case "add":
		fs := flag.NewFlagSet("favorites add", flag.ExitOnError)
		title := fs.String("title", "", "Title to store with the favorite")
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: onehandle favorites add <url> [--title t]")
			os.Exit(1)
		}
		url := args[1]
		fs.Parse(args[2:])
		if *title == "" {
			*title = url
		}
		favs := store.Add(ctx, favorites.Candidate{
			URL:     url,
			Title:   *title,
			Favicon: domain.FaviconFallback(url),
			Domain:  domain.Parse(url),
		})
		fmt.Printf("%d favorites.\n", len(favs))

	case "remove":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: onehandle favorites remove <url>")
			os.Exit(1)
		}
		favs := store.Remove(ctx, args[1])
		fmt.Printf("%d favorites.\n", len(favs))

	default:
		fmt.Fprintf(os.Stderr, "Unknown favorites command %q\n", args[0])
		os.Exit(1)
	}
}

// loadGroups reads one snapshot and groups it. Unlike the popup path,
// source failures are reported here, not degraded to empty.
func loadGroups(cfg *config.Config) ([]types.WindowGroup, error) {
	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if srv, ok := src.(*source.ExtensionServer); ok {
		go srv.ListenAndServe(ctx)
		if err := waitForExtension(ctx, srv); err != nil {
			return nil, err
		}
	}

	snap, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read tabs: %w", err)
	}
	return tabs.Group(tabs.Normalize(snap.Tabs), snap.FocusedWindowID), nil
}

func waitForExtension(ctx context.Context, srv *source.ExtensionServer) error {
	fmt.Fprintf(os.Stderr, "Waiting for extension on port %d...\n", srv.Port())
	for {
		if srv.Connected() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("no extension connected on port %d", srv.Port())
		case <-time.After(200 * time.Millisecond):
		}
	}
}

func newSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source {
	case "extension":
		return source.NewExtensionServer(cfg.Port), nil
	case "firefox":
		return source.NewFirefoxSource(cfg.ProfileDir), nil
	case "cdp":
		return source.NewCDPSource(cfg.CDPURL), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want extension, firefox or cdp)", cfg.Source)
	}
}

func newStore(cfg *config.Config) (*favorites.Store, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		backend, err := favorites.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return favorites.NewStore(backend), func() { backend.Close() }, nil
	case "redis":
		backend, err := favorites.OpenRedis(cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis backend: %w", err)
		}
		return favorites.NewStore(backend), func() { backend.Close() }, nil
	case "memory":
		return favorites.NewStore(favorites.NewMemoryBackend()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want sqlite, redis or memory)", cfg.Backend)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printHelp() {
	fmt.Print(strings.TrimLeft(`
onehandle — browser tab inventory, favorites and export

Usage:
  onehandle                       Start the TUI (default)
    --source <name>               Tab source: extension, firefox, cdp
    --port <n>                    WebSocket port for the extension source

  onehandle export                Export all tabs as CSV+XLSX+PDF in onehandle.zip
    --source <name>               Tab source
    --out <dir>                   Output directory (default: current)
    --port <n>                    WebSocket port for the extension source

  onehandle copy                  Copy all tab URLs to the clipboard

  onehandle favorites list        List favorites
  onehandle favorites add <url> [--title t]
  onehandle favorites remove <url>

Environment:
  ONEHANDLE_SOURCE, ONEHANDLE_PORT, ONEHANDLE_PROFILE_DIR, ONEHANDLE_CDP_URL,
  ONEHANDLE_BACKEND (sqlite|redis|memory), ONEHANDLE_DB_PATH,
  ONEHANDLE_REDIS_ADDR, ONEHANDLE_EXPORT_DIR, ONEHANDLE_LOG_DIR.
  A .env file in the working directory is read if present.
`, "\n"))
}
