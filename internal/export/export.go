package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/format"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format       ExportFormat
	OutputDir    string
	SymbolFilter string            // Only rows whose symbol contains this text
	StatusFilter api.MonitorStatus // Monitors only
	OnlyActive   bool              // Monitors only
}

// Exporter writes the current symbol page or monitor list to disk
type Exporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates a new exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

var symbolHeaders = []string{
	"symbol", "last_price", "high_price_20d", "low_price_20d",
	"amplitude", "position_ratio", "volume_24h", "update_time",
}

var monitorHeaders = []string{
	"id", "symbol", "status", "active", "direction", "allocated_money",
	"leverage", "take_profit", "last_price", "amplitude", "position_ratio", "sync_time",
}

// ExportSymbols exports price range rows
func (e *Exporter) ExportSymbols(rows []api.SymbolRow, options ExportOptions) (string, error) {
	var filtered []api.SymbolRow
	for _, row := range rows {
		if matchSymbol(row.Symbol, options.SymbolFilter) {
			filtered = append(filtered, row)
		}
	}
	if len(filtered) == 0 {
		return "", fmt.Errorf("no symbols match the export criteria")
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Symbol < filtered[j].Symbol
	})

	records := make([][]string, 0, len(filtered))
	for _, row := range filtered {
		records = append(records, []string{
			row.Symbol,
			format.Price(float64(row.LastPrice)),
			format.Price(float64(row.HighPrice20d)),
			format.Price(float64(row.LowPrice20d)),
			format.Percent(float64(row.Amplitude)),
			format.Percent(float64(row.PositionRatio)),
			decimal.NewFromFloat(float64(row.Volume24h)).StringFixed(2),
			row.UpdateTime,
		})
	}

	payload := struct {
		ExportTime  time.Time       `json:"export_time"`
		SymbolCount int             `json:"symbol_count"`
		Symbols     []api.SymbolRow `json:"symbols"`
	}{
		ExportTime:  e.now(),
		SymbolCount: len(filtered),
		Symbols:     filtered,
	}

	return e.write("symbols", options, symbolHeaders, records, payload)
}

// ExportMonitors exports monitor entries with a status summary
func (e *Exporter) ExportMonitors(entries []api.MonitorEntry, options ExportOptions) (string, error) {
	filtered := e.filterMonitors(entries, options)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no monitors match the export criteria")
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ID < filtered[j].ID
	})

	records := make([][]string, 0, len(filtered))
	for _, m := range filtered {
		records = append(records, []string{
			strconv.FormatInt(m.ID, 10),
			m.Symbol,
			string(m.Status.Normalize()),
			strconv.FormatBool(m.IsActive),
			format.DirectionText(m.PositionSide),
			format.Money(float64(m.AllocatedMoney)),
			strconv.Itoa(m.Leverage),
			decimal.NewFromFloat(float64(m.TakeProfit)).String(),
			format.Price(float64(m.LastPrice)),
			format.Percent(float64(m.Amplitude)),
			format.Percent(float64(m.PositionRatio)),
			m.SyncTime,
		})
	}

	payload := struct {
		ExportTime   time.Time          `json:"export_time"`
		MonitorCount int                `json:"monitor_count"`
		Monitors     []api.MonitorEntry `json:"monitors"`
		Summary      ExportSummary      `json:"summary"`
	}{
		ExportTime:   e.now(),
		MonitorCount: len(filtered),
		Monitors:     filtered,
		Summary:      calculateSummary(filtered),
	}

	return e.write("monitors", options, monitorHeaders, records, payload)
}

// filterMonitors applies filters to the monitor list
func (e *Exporter) filterMonitors(entries []api.MonitorEntry, options ExportOptions) []api.MonitorEntry {
	var filtered []api.MonitorEntry
	status := options.StatusFilter.Normalize()

	for _, m := range entries {
		if !matchSymbol(m.Symbol, options.SymbolFilter) {
			continue
		}
		if status != "" && m.Status.Normalize() != status {
			continue
		}
		if options.OnlyActive && !m.IsActive {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

func matchSymbol(symbol, filter string) bool {
	filter = strings.ToUpper(strings.TrimSpace(filter))
	return filter == "" || strings.Contains(strings.ToUpper(symbol), filter)
}

func (e *Exporter) write(kind string, options ExportOptions, headers []string, records [][]string, payload interface{}) (string, error) {
	filename := e.generateFilename(kind, options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if options.OutputDir != "" {
		if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = exportToCSV(outputPath, headers, records)
	case FormatJSON:
		err = exportToJSON(outputPath, payload)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	e.logger.Info("Export written",
		zap.String("kind", kind),
		zap.String("file", outputPath),
		zap.Int("count", len(records)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// generateFilename creates a filename based on export options
func (e *Exporter) generateFilename(kind string, options ExportOptions) string {
	timestamp := e.now().Format("20060102_150405")

	prefix := kind
	if options.StatusFilter != "" {
		prefix += "_" + strings.ToLower(string(options.StatusFilter))
	}
	if options.SymbolFilter != "" {
		prefix += "_" + strings.ToUpper(strings.TrimSpace(options.SymbolFilter))
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func exportToCSV(outputPath string, headers []string, records [][]string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func exportToJSON(outputPath string, payload interface{}) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportSummary contains summary statistics for exported monitors
type ExportSummary struct {
	TotalMonitors  int     `json:"total_monitors"`
	ActiveCount    int     `json:"active_count"`
	WaitingCount   int     `json:"waiting_count"`
	OpenedCount    int     `json:"opened_count"`
	ClosedCount    int     `json:"closed_count"`
	LongCount      int     `json:"long_count"`
	ShortCount     int     `json:"short_count"`
	TotalAllocated string  `json:"total_allocated"`
	AvgLeverage    float64 `json:"avg_leverage"`
}

// calculateSummary calculates summary statistics for the export
func calculateSummary(entries []api.MonitorEntry) ExportSummary {
	summary := ExportSummary{TotalMonitors: len(entries)}
	allocated := decimal.Zero
	leverage := 0

	for _, m := range entries {
		if m.IsActive {
			summary.ActiveCount++
		}
		switch m.Status.Normalize() {
		case api.StatusWaiting:
			summary.WaitingCount++
		case api.StatusOpened:
			summary.OpenedCount++
		case api.StatusClosed:
			summary.ClosedCount++
		}
		switch strings.ToUpper(m.PositionSide) {
		case "LONG":
			summary.LongCount++
		case "SHORT":
			summary.ShortCount++
		}
		allocated = allocated.Add(decimal.NewFromFloat(float64(m.AllocatedMoney)))
		leverage += m.Leverage
	}

	summary.TotalAllocated = allocated.StringFixed(2)
	if len(entries) > 0 {
		summary.AvgLeverage = float64(leverage) / float64(len(entries))
	}
	return summary
}
