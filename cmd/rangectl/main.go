package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/config"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/export"
	"github.com/rovshanmuradov/rangewatch/internal/filter"
	"github.com/rovshanmuradov/rangewatch/internal/format"
	"github.com/rovshanmuradov/rangewatch/internal/logger"
	"github.com/rovshanmuradov/rangewatch/internal/metrics"
)

const usage = `usage: rangectl [-config path] [-debug] <command> [flags]

commands:
  symbols    list one page of price ranges
  monitors   list monitors of the configured account
  check      tell whether a symbol is already monitored
  add        create a monitor for a symbol
  edit       change capital, leverage and take profit of a monitor
  toggle     pause or resume a monitor
  delete     delete a monitor
  positions  show the account positions overview
  export     write the symbol page and monitor list to files
  watch      poll the monitor list until interrupted
`

// app bundles what every subcommand needs
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  *api.Client
	ctrl    *dashboard.Controller
	sink    *captureSink
	metrics *metrics.Collector
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.CreatePrettyLogger(*debug || cfg.DebugLogging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	a := newApp(cfg, appLogger)
	if err := a.run(rootCtx, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		appLogger.Error("Command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, appLogger *zap.Logger) *app {
	collector := metrics.NewCollector()
	client := api.NewClient(api.Options{
		BaseURL:  cfg.BaseURL,
		ServerID: cfg.ServerID,
		Token:    cfg.Token,
		Timeout:  cfg.RequestTimeout,
		Observer: collector,
	}, appLogger)

	sink := newCaptureSink(appLogger.Named("notice"))
	ctrl := dashboard.New(client, sink, dashboard.Options{
		AccountID: cfg.AccountID,
		ServerID:  cfg.ServerID,
		Strategy:  cfg.StrategyType(),
		PerPage:   cfg.PerPage,
	}, appLogger)

	return &app{cfg: cfg, logger: appLogger, client: client, ctrl: ctrl, sink: sink, metrics: collector}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "symbols":
		return a.symbols(ctx, args)
	case "monitors":
		return a.monitors(ctx)
	case "check":
		if len(args) != 1 {
			return errors.New("check takes exactly one symbol")
		}
		return a.ctrl.Dispatch(ctx, dashboard.CheckMonitorCommand{Symbol: args[0]})
	case "add":
		return a.add(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "toggle":
		return a.mutate(ctx, "toggle", args, func(id int64) dashboard.Command {
			return dashboard.ToggleMonitorCommand{ID: id}
		})
	case "delete":
		return a.mutate(ctx, "delete", args, func(id int64) dashboard.Command {
			return dashboard.DeleteMonitorCommand{ID: id}
		})
	case "positions":
		return a.positions(ctx)
	case "export":
		return a.export(ctx, args)
	case "watch":
		return a.watch(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// filterFlags registers the filter inputs on fs
func filterFlags(fs *flag.FlagSet) *filter.Input {
	in := &filter.Input{}
	fs.StringVar(&in.MinAmplitude, "min-amplitude", "", "Minimum amplitude, percent")
	fs.StringVar(&in.MaxAmplitude, "max-amplitude", "", "Maximum amplitude, percent")
	fs.StringVar(&in.MinPosition, "min-position", "", "Minimum position in range, percent")
	fs.StringVar(&in.MaxPosition, "max-position", "", "Maximum position in range, percent")
	fs.StringVar(&in.MinVolume, "min-volume", "", "Minimum 24h volume, millions")
	fs.StringVar(&in.MaxVolume, "max-volume", "", "Maximum 24h volume, millions")
	fs.StringVar(&in.Symbol, "symbol", "", "Symbol substring")
	return in
}

// loadSymbols applies in and moves to page
func (a *app) loadSymbols(ctx context.Context, in filter.Input, page int) (*dashboard.SymbolView, error) {
	if err := a.ctrl.ApplyFilter(ctx, in); err != nil {
		return nil, err
	}
	if page > 1 {
		moved, err := a.ctrl.ChangePage(ctx, page)
		if err != nil {
			return nil, err
		}
		if !moved {
			return nil, fmt.Errorf("page %d is out of range", page)
		}
	}
	view, msg := a.sink.Symbols()
	if view == nil {
		return nil, errors.New(msg)
	}
	return view, nil
}

func (a *app) symbols(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("symbols", flag.ContinueOnError)
	in := filterFlags(fs)
	page := fs.Int("page", 1, "Page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view, err := a.loadSymbols(ctx, *in, *page)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(view.Rows))
	for _, r := range view.Rows {
		rows = append(rows, []string{
			r.Symbol,
			format.Price(float64(r.LastPrice)),
			format.Price(float64(r.HighPrice20d)),
			format.Price(float64(r.LowPrice20d)),
			format.Percent(float64(r.Amplitude)),
			format.Percent(float64(r.PositionRatio)),
			format.Volume(float64(r.Volume24h)),
			format.DateTime(r.UpdateTime),
		})
	}
	printTable([]string{"Symbol", "Last", "High 20d", "Low 20d", "Amplitude", "Position", "Vol 24h", "Updated"}, rows)
	if view.Pager.Empty() {
		fmt.Println("No symbols match the filter")
		return nil
	}
	fmt.Printf("page %d of %d · %d rows\n", view.Pager.Current, view.Pager.TotalPages, view.Pager.Total)
	return nil
}

func (a *app) loadMonitors(ctx context.Context) ([]api.MonitorEntry, error) {
	if err := a.ctrl.Dispatch(ctx, dashboard.LoadMonitorsCommand{}); err != nil {
		return nil, err
	}
	entries, _ := a.sink.Monitors()
	return entries, nil
}

func (a *app) monitors(ctx context.Context) error {
	entries, err := a.loadMonitors(ctx)
	if err != nil {
		return err
	}
	printMonitors(entries)
	return nil
}

func printMonitors(entries []api.MonitorEntry) {
	rows := make([][]string, 0, len(entries))
	for _, m := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.Symbol,
			format.StatusText(m.Status),
			format.Active(m.IsActive),
			format.DirectionText(m.PositionSide),
			format.Money(float64(m.AllocatedMoney)),
			format.Leverage(m.Leverage),
			format.Money(float64(m.TakeProfit)),
			format.Price(float64(m.LastPrice)),
			format.Percent(float64(m.Amplitude)),
			format.Percent(float64(m.PositionRatio)),
			format.DateTime(m.SyncTime),
		})
	}
	printTable([]string{"ID", "Symbol", "Status", "State", "Side", "Capital", "Lev", "TP", "Last", "Amp", "Pos", "Synced"}, rows)
}

func monitorFormFlags(fs *flag.FlagSet) *dashboard.MonitorForm {
	form := dashboard.DefaultMonitorForm()
	fs.StringVar(&form.AllocatedMoney, "money", form.AllocatedMoney, "Allocated capital")
	fs.StringVar(&form.Leverage, "leverage", form.Leverage, "Leverage, whole number")
	fs.StringVar(&form.TakeProfit, "take-profit", form.TakeProfit, "Take profit")
	return &form
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	form := monitorFormFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("add takes exactly one symbol")
	}
	return a.ctrl.Dispatch(ctx, dashboard.CreateMonitorCommand{Symbol: fs.Arg(0), Form: *form})
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	money := fs.String("money", "", "Allocated capital (unchanged when empty)")
	leverage := fs.String("leverage", "", "Leverage (unchanged when empty)")
	takeProfit := fs.String("take-profit", "", "Take profit (unchanged when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs)
	if err != nil {
		return err
	}

	entry, err := a.ctrl.LoadMonitor(ctx, id)
	if err != nil {
		return err
	}
	form := dashboard.FormFromEntry(*entry)
	if *money != "" {
		form.AllocatedMoney = *money
	}
	if *leverage != "" {
		form.Leverage = *leverage
	}
	if *takeProfit != "" {
		form.TakeProfit = *takeProfit
	}
	return a.ctrl.Dispatch(ctx, dashboard.EditMonitorCommand{ID: id, Form: form})
}

func (a *app) mutate(ctx context.Context, name string, args []string, build func(int64) dashboard.Command) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs)
	if err != nil {
		return err
	}
	return a.ctrl.Dispatch(ctx, build(id))
}

func parseID(fs *flag.FlagSet) (int64, error) {
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("%s takes exactly one monitor id", fs.Name())
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid monitor id %q", fs.Arg(0))
	}
	return id, nil
}

func (a *app) positions(ctx context.Context) error {
	positions, err := a.client.Positions(ctx, a.cfg.AccountID)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		selected := ""
		if p.IsSelected {
			selected = "✓"
		}
		rows = append(rows, []string{
			p.Symbol,
			p.Name,
			selected,
			format.Money(float64(p.Money)),
			format.Percent(float64(p.Discount)),
		})
	}
	printTable([]string{"Symbol", "Name", "Selected", "Money", "Discount"}, rows)
	return nil
}

// export loads the symbol page and the monitor list in parallel and writes both
func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	in := filterFlags(fs)
	page := fs.Int("page", 1, "Page number")
	formatName := fs.String("format", "csv", "Output format: csv or json")
	dir := fs.String("dir", a.cfg.ExportDir, "Output directory")
	onlyActive := fs.Bool("active", false, "Only export active monitors")
	if err := fs.Parse(args); err != nil {
		return err
	}

	exportFormat, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	opts := export.ExportOptions{Format: exportFormat, OutputDir: *dir, OnlyActive: *onlyActive}
	exporter := export.NewExporter(a.logger)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view, err := a.loadSymbols(gCtx, *in, *page)
		if err != nil {
			return fmt.Errorf("symbols: %w", err)
		}
		path, err := exporter.ExportSymbols(view.Rows, opts)
		if err != nil {
			return err
		}
		fmt.Println("symbols  →", path)
		return nil
	})
	g.Go(func() error {
		entries, err := a.loadMonitors(gCtx)
		if err != nil {
			return fmt.Errorf("monitors: %w", err)
		}
		path, err := exporter.ExportMonitors(entries, opts)
		if err != nil {
			return err
		}
		fmt.Println("monitors →", path)
		return nil
	})
	return g.Wait()
}

// watch logs a summary of the monitor list after every poll until
// interrupted, optionally serving the collected metrics.
func (a *app) watch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	metricsAddr := fs.String("metrics-addr", a.cfg.MetricsAddr, "Serve /metrics on this address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	if *metricsAddr != "" {
		g.Go(func() error {
			return a.metrics.Serve(gCtx, *metricsAddr, a.logger.Named("metrics"))
		})
	}

	poller := dashboard.NewPoller(a.ctrl, a.cfg.PollInterval, a.logger)
	poller.SetObserver(a.metrics)
	a.sink.OnMonitors(func(entries []api.MonitorEntry) {
		a.metrics.ObserveMonitors(entries)
		counts := map[api.MonitorStatus]int{}
		active := 0
		for _, e := range entries {
			counts[e.Status.Normalize()]++
			if e.IsActive {
				active++
			}
		}
		a.logger.Info("Monitor list refreshed",
			zap.Int("total", len(entries)),
			zap.Int("active", active),
			zap.Int("waiting", counts[api.StatusWaiting]),
			zap.Int("opened", counts[api.StatusOpened]),
			zap.Int("closed", counts[api.StatusClosed]))
	})

	if _, err := a.loadMonitors(gCtx); err != nil {
		a.logger.Warn("Initial monitor load failed", zap.Error(err))
	}
	a.logger.Info("Watching monitors", zap.Duration("interval", poller.Interval()))
	g.Go(func() error {
		poller.Run(gCtx)
		return nil
	})
	return g.Wait()
}

func printTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Println(strings.TrimRight(t.String(), "\n"))
}
