package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/fleetops/pingtop/client"
	"github.com/fleetops/pingtop/config"
	"github.com/fleetops/pingtop/engine"
	"github.com/fleetops/pingtop/model"
	"github.com/fleetops/pingtop/ui"
)

// Version is set at build time via ldflags.
var Version = "0.3.0"

var log = logger.GetOrCreate("cmd")

func printUsage() {
	fmt.Fprintf(os.Stderr, `pingtop v%s — live dashboard for the vehicle ping telemetry feed

Usage:
  pingtop [OPTIONS] [INTERVAL]

Modes:
  (default)         Interactive TUI (bubbletea, fullscreen, mouse enabled)
  -json             Single JSON poll result to stdout, then exit
  -version          Print version and exit

Options:
  -config FILE      Config file path (default: ~/.config/pingtop/pingtop.toml)
  -url URL          Telemetry API base URL (default: http://127.0.0.1:3000)
  -interval N       Poll interval in seconds (default: 10)
  -range NAME       Initial time range: 30m, 1h, 4h, 12h, 24h, all (default: 4h)
  -min-rank N       Minimum anomaly rank for the unit board, 0-100 (default: 90)
  -max-units N      Maximum unit charts on the board (default: 12)
  -no-mouse         Disable mouse support (no drag zoom, hover, or legend clicks)
  -log-level LVL    Log level pattern, e.g. *:DEBUG (default: *:INFO)

Positional:
  INTERVAL          First positional arg sets interval: pingtop 5 = pingtop -interval 5

Examples:
  pingtop                              TUI against the local feed, 10s refresh
  pingtop 30                           TUI, 30s refresh
  pingtop -url http://feed:3000        TUI against a remote feed
  pingtop -range 24h -min-rank 95      Start on the 24h range, strict board
  pingtop -json | jq '.anomalies[0]'   One poll, machine readable
  pingtop -no-mouse                    Keyboard only
  pingtop -version
`, Version)
}

// Run parses flags, merges them over the config file, and starts the app.
func Run() error {
	var (
		configPath  string
		baseURL     string
		intervalSec int
		rangeName   string
		minRank     int
		maxUnits    int
		noMouse     bool
		logLevel    string
		jsonMode    bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Config file path")
	flag.StringVar(&baseURL, "url", "", "Telemetry API base URL")
	flag.IntVar(&intervalSec, "interval", 0, "Poll interval in seconds")
	flag.StringVar(&rangeName, "range", "", "Initial time range (30m, 1h, 4h, 12h, 24h, all)")
	flag.IntVar(&minRank, "min-rank", -1, "Minimum anomaly rank (0-100)")
	flag.IntVar(&maxUnits, "max-units", 0, "Maximum unit charts on the board")
	flag.BoolVar(&noMouse, "no-mouse", false, "Disable mouse support")
	flag.StringVar(&logLevel, "log-level", "*:INFO", "Log level pattern")
	flag.BoolVar(&jsonMode, "json", false, "Output a single poll result as JSON and exit")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		fmt.Printf("pingtop v%s\n", Version)
		return nil
	}

	if err := logger.SetLogLevel(logLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	if configPath == "" {
		configPath = config.Path()
	}
	cfg := config.Load(configPath)

	// Flags override the file only when given on the command line, so a
	// zero flag never clobbers a configured value.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.API.BaseURL = baseURL
		case "interval":
			cfg.Poll.IntervalInSeconds = uint32(intervalSec)
		case "range":
			cfg.UI.DefaultRange = rangeName
		case "min-rank":
			cfg.Poll.MinRank = minRank
		case "max-units":
			cfg.UI.MaxUnitCharts = maxUnits
		case "no-mouse":
			cfg.UI.Mouse = !noMouse
		}
	})

	// Support positional arg for interval: `pingtop 5` = `pingtop -interval 5`
	if args := flag.Args(); len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			cfg.Poll.IntervalInSeconds = uint32(n)
		}
	}

	if cfg.Poll.IntervalInSeconds < 1 {
		cfg.Poll.IntervalInSeconds = 1
	}
	if cfg.Poll.MinRank < 0 || cfg.Poll.MinRank > 100 {
		fmt.Fprintf(os.Stderr, "Error: min-rank must be within 0-100, got %d\n\n", cfg.Poll.MinRank)
		printUsage()
		os.Exit(1)
	}

	rng, err := model.ParseRange(cfg.UI.DefaultRange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	api := client.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutInSeconds)*time.Second)
	fetcher, err := engine.NewFetcher(api, cfg.Poll.MinRank)
	if err != nil {
		return err
	}

	if jsonMode {
		return runJSON(fetcher, rng)
	}

	log.Info("starting", "url", cfg.API.BaseURL, "interval", cfg.Poll.IntervalInSeconds, "range", rng.String())

	m := ui.NewModel(ui.Params{
		Fetcher:      fetcher,
		History:      api,
		Interval:     time.Duration(cfg.Poll.IntervalInSeconds) * time.Second,
		MaxUnits:     cfg.UI.MaxUnitCharts,
		Mouse:        cfg.UI.Mouse,
		DefaultRange: rng,
		Version:      Version,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)
	_, err = p.Run()
	return err
}

// runJSON performs one poll and prints the result, for scripting.
func runJSON(fetcher *engine.Fetcher, rng model.TimeRange) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res := fetcher.Poll(ctx, rng)
	if res.StatsErr != nil {
		return res.StatsErr
	}
	if res.AnomaliesErr != nil {
		return res.AnomaliesErr
	}

	data := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"range":     rng.String(),
		"stats":     res.Stats,
		"anomalies": res.Anomalies,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
