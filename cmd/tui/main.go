package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/config"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/export"
	"github.com/rovshanmuradov/rangewatch/internal/logger"
	"github.com/rovshanmuradov/rangewatch/internal/metrics"
	"github.com/rovshanmuradov/rangewatch/internal/ui"
	"github.com/rovshanmuradov/rangewatch/internal/ui/router"
	"github.com/rovshanmuradov/rangewatch/internal/ui/screen"
	"github.com/rovshanmuradov/rangewatch/internal/ui/state"
)

// AppModel represents the main TUI application model
type AppModel struct {
	svc    *ui.Services
	router *router.Router
	width  int
	height int
}

// NewAppModel creates a new application model
func NewAppModel(svc *ui.Services) *AppModel {
	return &AppModel{
		svc:    svc,
		router: router.New(screen.NewMainMenuScreen(svc)),
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.router.Init(),
		ui.ListenBus(),
		m.svc.Dispatch(dashboard.BootstrapCommand{}),
	)
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Bus messages are unwrapped and the single listener re-armed
	if bus, ok := msg.(ui.BusMsg); ok {
		msg = bus.Msg
		cmds = append(cmds, ui.ListenBus())
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case ui.RouterMsg:
		cmds = append(cmds, m.handleNavigation(msg))
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.router, cmd = m.router.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleNavigation handles navigation to different screens
func (m *AppModel) handleNavigation(msg ui.RouterMsg) tea.Cmd {
	var newScreen router.Screen

	switch msg.To {
	case ui.RouteMainMenu:
		// Going home drops the stack
		m.router.Clear()
		return nil
	case ui.RouteSymbols:
		newScreen = screen.NewSymbolsScreen(m.svc)
	case ui.RouteMonitors:
		newScreen = screen.NewMonitorsScreen(m.svc)
	case ui.RouteMonitorDialog:
		newScreen = screen.NewMonitorDialogScreen(m.svc, msg.Monitor, msg.Symbol)
	case ui.RouteLogs:
		newScreen = screen.NewLogsScreen(m.svc)
	default:
		return nil
	}

	return m.router.Push(newScreen)
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	return m.router.View()
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The alt screen owns stdout, so logs go to the file and the logs screen
	tuiLogger, err := logger.CreateTUILogger(cfg.LogFile, logger.DefaultBufferSize, cfg.DebugLogging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer tuiLogger.Close()
	appLogger := tuiLogger.Logger

	appLogger.Info("Starting range monitor TUI",
		zap.String("base_url", cfg.BaseURL),
		zap.String("account_id", cfg.AccountID),
		zap.String("strategy", string(cfg.StrategyType())))

	collector := metrics.NewCollector()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := collector.Serve(rootCtx, cfg.MetricsAddr, appLogger.Named("metrics")); err != nil {
				appLogger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	client := api.NewClient(api.Options{
		BaseURL:  cfg.BaseURL,
		ServerID: cfg.ServerID,
		Token:    cfg.Token,
		Timeout:  cfg.RequestTimeout,
		Observer: collector,
	}, appLogger)

	cache := state.NewViewCache()
	sender := ui.NewUpdateSender(ui.Bus, appLogger.Named("ui"))
	defer sender.Close()

	ctrl := dashboard.New(client, ui.NewBusSink(sender, cache), dashboard.Options{
		AccountID: cfg.AccountID,
		ServerID:  cfg.ServerID,
		Strategy:  cfg.StrategyType(),
		PerPage:   cfg.PerPage,
	}, appLogger)

	poller := dashboard.NewPoller(ctrl, cfg.PollInterval, appLogger)
	poller.SetObserver(collector)

	svc := &ui.Services{
		Ctx:        rootCtx,
		Controller: ctrl,
		Poller:     poller,
		Exporter:   export.NewExporter(appLogger),
		ExportDir:  cfg.ExportDir,
		Cache:      cache,
		Logs:       tuiLogger.Buffer,
		Logger:     appLogger.Named("ui"),
	}

	program := tea.NewProgram(
		ui.NewSafeModel(NewAppModel(svc), appLogger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(rootCtx),
	)

	if _, err := program.Run(); err != nil && rootCtx.Err() == nil {
		appLogger.Error("TUI application failed", zap.Error(err))
	}

	appLogger.Info("Shutting down TUI application")
}
