package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

func newTestExporter() *Exporter {
	e := NewExporter(zap.NewNop())
	e.now = func() time.Time { return time.Date(2024, 5, 1, 10, 2, 3, 0, time.UTC) }
	return e
}

func generateTestMonitors() []api.MonitorEntry {
	return []api.MonitorEntry{
		{ID: 3, Symbol: "ETHUSDT", AllocatedMoney: 50.25, Leverage: 5, TakeProfit: 20, Status: api.StatusOpened, IsActive: true, PositionSide: "SHORT"},
		{ID: 1, Symbol: "BTCUSDT", AllocatedMoney: 100, Leverage: 3, TakeProfit: 50, Status: api.StatusWaiting, IsActive: true},
		{ID: 2, Symbol: "SOLUSDT", AllocatedMoney: 10, Leverage: 1, TakeProfit: 5, Status: api.StatusClosed, PositionSide: "LONG"},
	}
}

func TestExportMonitorsCSV(t *testing.T) {
	exporter := newTestExporter()
	tempDir := t.TempDir()

	outputPath, err := exporter.ExportMonitors(generateTestMonitors(), ExportOptions{
		Format:    FormatCSV,
		OutputDir: tempDir,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "monitors_20240501_100203.csv"), outputPath)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, monitorHeaders, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "BTCUSDT", records[1][1])
	assert.Equal(t, "WAITING", records[1][2])
	assert.Equal(t, "100.00", records[1][5])
	assert.Equal(t, "Short", records[3][4])
}

func TestExportMonitorsJSONSummary(t *testing.T) {
	exporter := newTestExporter()
	tempDir := t.TempDir()

	outputPath, err := exporter.ExportMonitors(generateTestMonitors(), ExportOptions{
		Format:    FormatJSON,
		OutputDir: tempDir,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var payload struct {
		MonitorCount int                `json:"monitor_count"`
		Monitors     []api.MonitorEntry `json:"monitors"`
		Summary      ExportSummary      `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, 3, payload.MonitorCount)
	assert.Equal(t, int64(1), payload.Monitors[0].ID)

	s := payload.Summary
	assert.Equal(t, 3, s.TotalMonitors)
	assert.Equal(t, 2, s.ActiveCount)
	assert.Equal(t, 1, s.WaitingCount)
	assert.Equal(t, 1, s.OpenedCount)
	assert.Equal(t, 1, s.ClosedCount)
	assert.Equal(t, 1, s.LongCount)
	assert.Equal(t, 1, s.ShortCount)
	assert.Equal(t, "160.25", s.TotalAllocated)
	assert.InDelta(t, 3.0, s.AvgLeverage, 1e-9)
}

func TestExportMonitorsFilters(t *testing.T) {
	exporter := newTestExporter()
	tempDir := t.TempDir()

	outputPath, err := exporter.ExportMonitors(generateTestMonitors(), ExportOptions{
		Format:       FormatCSV,
		OutputDir:    tempDir,
		StatusFilter: "waiting",
		OnlyActive:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "monitors_waiting_20240501_100203.csv", filepath.Base(outputPath))

	_, err = exporter.ExportMonitors(generateTestMonitors(), ExportOptions{
		Format:       FormatCSV,
		OutputDir:    tempDir,
		StatusFilter: api.StatusClosed,
		OnlyActive:   true,
	})
	assert.Error(t, err)
}

func TestExportSymbols(t *testing.T) {
	exporter := newTestExporter()
	tempDir := t.TempDir()
	rows := []api.SymbolRow{
		{Symbol: "SOLUSDT", LastPrice: 150.5, Amplitude: 0.25, PositionRatio: 0.5, Volume24h: 1_000_000},
		{Symbol: "BTCUSDT", LastPrice: 65000, Amplitude: 0.1, PositionRatio: 0.9, Volume24h: 2_000_000_000},
	}

	outputPath, err := exporter.ExportSymbols(rows, ExportOptions{Format: FormatCSV, OutputDir: tempDir, SymbolFilter: "usdt"})
	require.NoError(t, err)
	assert.Equal(t, "symbols_USDT_20240501_100203.csv", filepath.Base(outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"BTCUSDT", "65000.0000", "0.0000", "0.0000", "10.00%", "90.00%", "2000000000.00", ""}, records[1])

	_, err = exporter.ExportSymbols(rows, ExportOptions{Format: FormatCSV, OutputDir: tempDir, SymbolFilter: "doge"})
	assert.Error(t, err)
}

func TestExportUnsupportedFormat(t *testing.T) {
	exporter := newTestExporter()
	_, err := exporter.ExportMonitors(generateTestMonitors(), ExportOptions{Format: "xml", OutputDir: t.TempDir()})
	assert.Error(t, err)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
}
