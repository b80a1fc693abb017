// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command nets is a live dashboard of the host's TCP and UDP sockets.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"grimm.is/nets/internal/config"
	"grimm.is/nets/internal/errors"
	"grimm.is/nets/internal/logging"
	"grimm.is/nets/internal/metrics"
	"grimm.is/nets/internal/netstat"
	"grimm.is/nets/internal/tui"
	"grimm.is/nets/internal/view"
)

// newSource builds the snapshot source for a configured name.
var newSource = func(name string) (view.Source, error) {
	return netstat.NewSnapshotter(name)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "nets: %v\n", err)
		os.Exit(1)
	}
}

// options are the command-line flags.
type options struct {
	configPath    string
	interval      string
	source        string
	tab           string
	filter        string
	regex         bool
	once          bool
	showHelp      bool
	logFile       string
	logLevel      string
	logJSON       bool
	metricsListen string
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	opts := &options{}
	flags := flag.NewFlagSet("nets", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (HCL, YAML or JSON)")
	flags.StringVar(&opts.interval, "interval", "", "Refresh interval, e.g. 500ms or 2s")
	flags.StringVar(&opts.source, "source", "", "Snapshot source: auto, procfs, netlink, gopsutil")
	flags.StringVar(&opts.tab, "tab", "", "Initial tab: all, tcp, udp")
	flags.StringVar(&opts.filter, "filter", "", "Initial filter text")
	flags.BoolVar(&opts.regex, "regex", false, "Treat filter text as a regular expression")
	flags.BoolVar(&opts.once, "once", false, "Print one snapshot and exit")
	flags.BoolVar(&opts.showHelp, "show-help", false, "Start with the full key help visible")
	flags.StringVar(&opts.logFile, "log-file", "", "Append logs to this file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")
	flags.StringVar(&opts.metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address")
	if err := flags.Parse(args); err != nil {
		return nil, nil, err
	}
	if flags.NArg() > 0 {
		return nil, nil, errors.Errorf(errors.KindValidation, "unexpected argument %q", flags.Arg(0))
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// loadConfig reads the config file, if any, and lets explicitly set flags
// override it.
func loadConfig(opts *options, set map[string]bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(opts.configPath); err != nil {
			return nil, err
		}
	}

	if set["interval"] {
		cfg.RefreshInterval = opts.interval
	}
	if set["source"] {
		cfg.Source = opts.source
	}
	if set["tab"] {
		cfg.DefaultTab = opts.tab
	}
	if set["show-help"] {
		cfg.ShowHelp = opts.showHelp
	}
	if set["filter"] {
		cfg.Filter.Text = opts.filter
	}
	if set["regex"] {
		cfg.Filter.Regex = opts.regex
	}
	if set["log-file"] {
		cfg.Log.File = opts.logFile
	}
	if set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if set["log-json"] {
		cfg.Log.JSON = opts.logJSON
	}
	if set["metrics-listen"] {
		cfg.Metrics.Listen = opts.metricsListen
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the default logger. The dashboard owns the
// terminal, so without a log file only one-shot mode logs, to stderr.
func setupLogging(cfg *config.Config, once bool, stderr io.Writer) (*logging.Logger, io.Closer, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel()
	logCfg.JSON = cfg.Log.JSON

	var closer io.Closer
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Attr(errors.WrapOS(err, "failed to open log file"), "path", cfg.Log.File)
		}
		logCfg.Output = f
		closer = f
	case once:
		logCfg.Output = stderr
	default:
		logCfg.Output = io.Discard
	}

	logger := logging.New(logCfg)
	logging.SetDefault(logger)
	return logger, closer, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, set, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(opts, set)
	if err != nil {
		return err
	}

	once := opts.once || !isTerminal(stdout)
	logger, closer, err := setupLogging(cfg, once, stderr)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	log := logger.WithComponent("main")

	source, err := newSource(cfg.Source)
	if err != nil {
		return err
	}

	var observer view.Observer
	if cfg.Metrics.Listen != "" {
		m := metrics.NewMetrics()
		srv, err := metrics.NewServer(m, logger.WithComponent("metrics"))
		if err != nil {
			return err
		}
		if err := srv.Start(cfg.Metrics.Listen); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("metrics server shutdown failed")
			}
		}()
		observer = m
	}

	controller, err := view.NewController(source, view.Options{
		Tab:      cfg.DefaultTab,
		Filter:   cfg.Filter.Text,
		Regex:    cfg.Filter.Regex,
		ShowHelp: cfg.ShowHelp,
		Logger:   logger.WithComponent("view"),
		Observer: observer,
	})
	if err != nil {
		return err
	}

	log.Info("starting", "source", cfg.Source, "interval", cfg.Interval().String(), "once", once)

	// Load before the first frame so the table is never drawn empty.
	if err := controller.Refresh(ctx); err != nil {
		if once {
			return err
		}
		log.WithError(err).Warn("initial refresh failed")
	}

	if once {
		return writeSnapshot(stdout, controller.State(), terminalWidth(stdout))
	}

	p := tea.NewProgram(
		tui.NewModel(controller, cfg.Interval()),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(stdout),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, errors.KindInternal, "dashboard failed")
	}
	log.Info("exiting")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
