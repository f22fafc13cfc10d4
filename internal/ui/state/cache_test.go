package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rovshanmuradov/rangewatch/internal/api"
	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/pagination"
)

func TestViewCacheConcurrentAccess(t *testing.T) {
	cache := NewViewCache()

	var wg sync.WaitGroup
	numGoroutines := 10
	updatesPerGoroutine := 50

	// Concurrent writes
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < updatesPerGoroutine; j++ {
				cache.SetMonitors([]api.MonitorEntry{{ID: int64(j + 1), Symbol: fmt.Sprintf("SYM%d", id)}})
				cache.SetSymbols(dashboard.SymbolView{Pager: pagination.New(j, 30, 1)})
				cache.PushNotice(dashboard.Notice{Message: fmt.Sprintf("notice %d/%d", id, j)})
			}
		}(i)
	}

	// Concurrent reads
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < updatesPerGoroutine; j++ {
				_ = cache.Monitors()
				_ = cache.Symbols()
				_, _ = cache.LastNotice()
			}
		}()
	}

	wg.Wait()

	reads, writes := cache.GetStats()
	if reads != uint64(numGoroutines*updatesPerGoroutine*3) {
		t.Errorf("Unexpected read count: %d", reads)
	}
	if writes != uint64(numGoroutines*updatesPerGoroutine*3) {
		t.Errorf("Unexpected write count: %d", writes)
	}
	if got := len(cache.Notices()); got != maxNotices {
		t.Errorf("Expected notice history capped at %d, got %d", maxNotices, got)
	}
}

func TestViewCacheMonitorsCopy(t *testing.T) {
	cache := NewViewCache()

	entries := []api.MonitorEntry{{ID: 1, Symbol: "BTCUSDT"}, {ID: 2, Symbol: "ETHUSDT"}}
	cache.SetMonitors(entries)
	entries[0].Symbol = "changed by caller"

	snapshot := cache.Monitors()
	if !snapshot.Loaded || len(snapshot.Entries) != 2 {
		t.Fatalf("Unexpected snapshot: %+v", snapshot)
	}
	if snapshot.Entries[0].Symbol != "BTCUSDT" {
		t.Error("Caller modification affected cache")
	}

	snapshot.Entries[1].Symbol = "changed by reader"
	if cache.Monitors().Entries[1].Symbol != "ETHUSDT" {
		t.Error("Snapshot modification affected cache")
	}
}

func TestViewCacheErrorsKeepData(t *testing.T) {
	cache := NewViewCache()

	cache.SetSymbols(dashboard.SymbolView{Rows: []api.SymbolRow{{Symbol: "BTCUSDT"}}})
	cache.SetSymbolsError("Network error, please try again")

	symbols := cache.Symbols()
	if len(symbols.View.Rows) != 1 || symbols.Error == "" {
		t.Errorf("Expected rows kept with error set, got %+v", symbols)
	}

	cache.ResetSymbols()
	symbols = cache.Symbols()
	if symbols.Loaded || len(symbols.View.Rows) != 0 || symbols.Error != "" {
		t.Errorf("Expected reset snapshot, got %+v", symbols)
	}

	cache.SetMonitors([]api.MonitorEntry{{ID: 1}})
	cache.SetMonitorsError("502 Bad Gateway")
	monitors := cache.Monitors()
	if len(monitors.Entries) != 1 || monitors.Error != "502 Bad Gateway" {
		t.Errorf("Expected entries kept with error set, got %+v", monitors)
	}
}

func TestViewCacheLastNotice(t *testing.T) {
	cache := NewViewCache()
	if _, ok := cache.LastNotice(); ok {
		t.Error("Expected no notice in empty cache")
	}

	cache.PushNotice(dashboard.Notice{Level: dashboard.NoticeWarning, Message: "first"})
	cache.PushNotice(dashboard.Notice{Level: dashboard.NoticeSuccess, Message: "second"})

	n, ok := cache.LastNotice()
	if !ok || n.Message != "second" || n.Level != dashboard.NoticeSuccess {
		t.Errorf("Unexpected last notice: %+v", n)
	}
}
