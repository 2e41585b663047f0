// Package main is the entry point for the handwashing dashboard.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/config"
	"github.com/j-veylop/handwash-dashboard-tui/internal/logger"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/tabs/devices"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/tabs/distribution"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/tabs/events"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/handwash-dashboard-tui/internal/version"
)

type mode int

const (
	modeTUI mode = iota
	modeHelp
	modeVersion
	modeExport
)

type options struct {
	exportDir string
	mode      mode
}

var errUsage = errors.New("usage error")

// parseArgs reads the command line. Only one flag is accepted.
func parseArgs(args []string) (options, error) {
	if len(args) == 0 {
		return options{mode: modeTUI}, nil
	}

	switch args[0] {
	case "-h", "--help":
		return options{mode: modeHelp}, nil
	case "-v", "--version":
		return options{mode: modeVersion}, nil
	case "--export":
		if len(args) < 2 || args[1] == "" {
			return options{}, fmt.Errorf("%w: --export needs a directory", errUsage)
		}
		return options{mode: modeExport, exportDir: args[1]}, nil
	default:
		return options{}, fmt.Errorf("%w: unknown flag %q", errUsage, args[0])
	}
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	switch opts.mode {
	case modeVersion:
		fmt.Println(version.Info())
		return
	case modeHelp:
		printUsage(os.Stdout)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svcManager, err := services.NewManager(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	if opts.mode == modeExport {
		return exportReport(ctx, svcManager, opts.exportDir, os.Stdout)
	}
	return runTUI(ctx, svcManager, cfg)
}

// exportReport runs a single pass and writes its report without a terminal UI.
func exportReport(ctx context.Context, mgr *services.Manager, dir string, out io.Writer) error {
	result := mgr.RunPass(ctx)
	for _, d := range result.Devices {
		if d.ReadError != nil {
			fmt.Fprintf(out, "warning: %s\n", app.DescribeError(d.ReadError))
		}
	}
	if result.Err != nil {
		return fmt.Errorf("refresh failed: %s", app.DescribeError(result.Err))
	}

	files, err := mgr.Export(dir)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	return nil
}

func runTUI(ctx context.Context, mgr *services.Manager, cfg *config.Config) error {
	model := app.NewModel(mgr)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state),
		events.New(state),
		distribution.New(state),
		devices.New(state),
		info.New(state, cfg),
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// printUsage prints the command-line usage information.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, `hwd - handwashing session dashboard and LED toggle control

Usage:
  hwd [flag]

Flags:
  -h, --help        Show this help message
  -v, --version     Show version information
  --export <dir>    Run one refresh and write report.xlsx and histogram PNGs to dir

Keyboard Shortcuts:
  1-5             Switch between tabs (Dashboard, Events, Distribution, Devices, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Space/Enter     Toggle the selected unit's LEDs
  r               Refresh data
  e               Export the last report
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  STORE_BACKEND                  firebase (default) or file
  FIREBASE_DB_URL                Realtime Database URL
  FIREBASE_CREDENTIALS_FILE      Service account key file
  FIREBASE_SERVICE_ACCOUNT_JSON  Service account key as JSON
  STORE_FILE                     Database export used by the file backend
  EVENTS_PATH                    Path of the session records (default: handwashing)
  DEVICE_PATH                    Path of the LED toggles (default: LED)
  DEVICE_UNITS                   Comma separated unit list (default: 1,2,3,4,5)
  REMOTE_TIMEOUT                 Timeout for remote calls (default: 8s)
  REFRESH_INTERVAL               Auto refresh interval, 0 disables it
  HISTOGRAM_BIN_WIDTH            Histogram bin width in seconds (default: 2)
  HISTOGRAM_BIN_MAX              Histogram upper edge in seconds (default: 30)
  EXPORT_DIR                     Export directory (default: export)
  DATABASE_PATH                  SQLite audit database path
  AUDIT_RETENTION                How long audit rows are kept (default: 720h)
  LOG_PATH, LOG_LEVEL            Log file and level (default: info)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/hwd/.env
  - ~/.hwd/.env
  - Parent directory`)
}
