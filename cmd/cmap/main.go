package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/congressmap/internal/datasource"
	"github.com/vanderheijden86/congressmap/pkg/config"
	"github.com/vanderheijden86/congressmap/pkg/debug"
	"github.com/vanderheijden86/congressmap/pkg/metrics"
	"github.com/vanderheijden86/congressmap/pkg/render"
	"github.com/vanderheijden86/congressmap/pkg/ui"
	"github.com/vanderheijden86/congressmap/pkg/version"
	"github.com/vanderheijden86/congressmap/pkg/watcher"
)

// Replaced in tests.
var (
	stdoutIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
	runWizard = func(cfg config.Config) (config.Config, error) {
		return config.NewWizard(cfg).Run()
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cmap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", config.ConfigPath(), "Config file (YAML)")
	geoPath := fs.String("geo", "", "GeoJSON FeatureCollection of states (overrides config)")
	congressPath := fs.String("congress", "", "Congress data, JSON or SQLite (overrides config)")
	selectFlag := fs.String("select", "", "Comma-separated member ids to select")
	keep := fs.Bool("keep", false, "Clicks add to the selection instead of replacing it")
	exportPath := fs.String("export", "", "Write a snapshot (.svg, .png, .json, .sqlite) and exit")
	format := fs.String("format", "", "Snapshot format (svg, png, json, sqlite); inferred from -export when empty")
	title := fs.String("title", "", "Snapshot caption")
	noLegend := fs.Bool("no-legend", false, "Omit the party legend from snapshots")
	width := fs.Float64("width", 0, "Map width (overrides config)")
	height := fs.Float64("height", 0, "Map height (overrides config)")
	scale := fs.Float64("scale", 0, "Projection scale (overrides config)")
	noWatch := fs.Bool("no-watch", false, "Do not reload the congress file when it changes")
	saveConfig := fs.Bool("save-config", false, "Write the effective configuration to -config and exit")
	initFlag := fs.Bool("init", false, "Answer a few questions and write -config")
	timings := fs.Bool("timings", false, "Print timing metrics after an export")
	cpuProfile := fs.String("cpu-profile", "", "Write CPU profile to file")
	versionFlag := fs.Bool("version", false, "Show version")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cmap [options]")
		fmt.Fprintln(stderr, "\nA congressional agreement map for the terminal.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "cmap %s\n", version.Version)
		return 0
	}

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
	}

	// CLI flags override the config file
	if *geoPath != "" {
		cfg.Data.Geography = *geoPath
	}
	if *congressPath != "" {
		cfg.Data.Congress = *congressPath
	}
	if *width > 0 {
		cfg.Map.Width = *width
	}
	if *height > 0 {
		cfg.Map.Height = *height
	}
	if *scale > 0 {
		cfg.Map.Scale = *scale
	}
	if *keep {
		cfg.UI.KeepSelection = true
	}
	if *format != "" {
		cfg.Export.Format = strings.ToLower(*format)
	}
	if *title != "" {
		cfg.Export.Title = *title
	}
	if *noLegend {
		off := false
		cfg.Export.Legend = &off
	}
	if *noWatch {
		off := false
		cfg.Data.Watch = &off
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if *initFlag {
		next, err := runWizard(cfg)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(stderr, "Setup cancelled")
			} else {
				fmt.Fprintf(stderr, "Error: %v\n", err)
			}
			return 1
		}
		cfg = next
	}

	if *saveConfig || *initFlag {
		if err := config.SaveTo(cfg, *configPath); err != nil {
			fmt.Fprintf(stderr, "Error saving config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Saved config to %s\n", *configPath)
		return 0
	}

	headless := *exportPath != ""
	if !headless && !stdoutIsTerminal() {
		fmt.Fprintln(stderr, "Error: stdout is not a terminal; use -export to write a snapshot")
		return 2
	}

	bundle, err := datasource.Load(ctx, cfg.Data.Geography, cfg.Data.Congress)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading data: %v\n", err)
		return 1
	}

	session := ui.NewSession(bundle.Features, bundle.Congress, cfg.ViewOptions())
	if ids := parseSelection(*selectFlag); len(ids) > 0 {
		session.Select(ids, cfg.UI.KeepSelection)
	}

	renderOpts := render.Options{
		Title:   cfg.Export.Title,
		Legend:  cfg.LegendEnabled(),
		Tooltip: true,
	}

	if headless {
		exportFormat := *format
		if exportFormat == "" && ui.ExportFormat(*exportPath) == "" {
			exportFormat = cfg.Export.Format
		}
		if err := session.Export(*exportPath, exportFormat, renderOpts); err != nil {
			fmt.Fprintf(stderr, "Error exporting: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote %s (%d states, %d selected)\n",
			*exportPath, len(session.View().Shapes()), len(session.Congress().SelectedMembers()))
		if *timings {
			printTimings(stdout)
		}
		return 0
	}

	opts := ui.Options{
		CongressPath:  cfg.Data.Congress,
		ExportFormat:  cfg.Export.Format,
		Render:        renderOpts,
		KeepSelection: cfg.UI.KeepSelection,
	}
	if cfg.WatchEnabled() {
		w, err := watcher.NewWatcher(cfg.Data.Congress,
			watcher.WithOnError(func(err error) {
				debug.Log("watch %s: %v", cfg.Data.Congress, err)
			}),
		)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Warning: live reload disabled: %v\n", err)
		} else {
			defer w.Stop()
			opts.Watcher = w
		}
	}

	if debug.Enabled() {
		defer startDebugLog(stderr)()
	}
	if err := runTUIProgram(ctx, ui.NewModel(session, opts)); err != nil {
		fmt.Fprintf(stderr, "Error running congress map: %v\n", err)
		return 1
	}
	return 0
}

// parseSelection splits a comma-separated id list, dropping blanks.
func parseSelection(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func printTimings(w io.Writer) {
	stats := metrics.AllTimingStats()
	if len(stats) == 0 {
		fmt.Fprintln(w, "No timings recorded")
		return
	}
	fmt.Fprintf(w, "%-16s %8s %10s %10s %10s\n", "metric", "count", "total_ms", "avg_ms", "max_ms")
	for _, s := range stats {
		fmt.Fprintf(w, "%-16s %8d %10.3f %10.3f %10.3f\n", s.Name, s.Count, s.TotalMs, s.AvgMs, s.MaxMs)
	}
}

// debugLogPath is where CMAP_DEBUG output goes while the TUI runs.
// CMAP_DEBUG_LOG overrides it.
func debugLogPath() string {
	if p := os.Getenv("CMAP_DEBUG_LOG"); p != "" {
		return p
	}
	return filepath.Join(config.ConfigDir(), "debug.log")
}

// startDebugLog points debug output at a file, since stderr is hidden
// behind the alt screen. The returned func restores stderr.
func startDebugLog(stderr io.Writer) func() {
	path := debugLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(stderr, "Warning: debug log: %v\n", err)
		return func() {}
	}
	f, err := tea.LogToFile(path, "cmap")
	if err != nil {
		fmt.Fprintf(stderr, "Warning: debug log: %v\n", err)
		return func() {}
	}
	debug.SetOutput(f)
	fmt.Fprintf(stderr, "Debug log: %s\n", path)
	return func() {
		debug.SetOutput(stderr)
		f.Close()
	}
}

func runTUIProgram(ctx context.Context, m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		select {
		case <-runDone:
			return
		case <-ctx.Done():
		}

		p.Quit()

		select {
		case <-runDone:
		case <-time.After(5 * time.Second):
			p.Kill()
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
