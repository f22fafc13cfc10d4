package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

// fakeAPI is an in-memory monitor service speaking the REST contract.
type fakeAPI struct {
	mu       sync.Mutex
	nextID   int64
	monitors map[int64]*api.MonitorEntry
	symbols  []api.SymbolRow
	queries  []string

	listMonitorCalls atomic.Int32
	saveCalls        atomic.Int32
	updateCalls      atomic.Int32
	checkCalls       atomic.Int32
	deleteCalls      atomic.Int32

	// monitorGate, when set, blocks list-monitor requests until closed.
	monitorGate chan struct{}
	// monitorStarted receives once per list-monitor request.
	monitorStarted chan struct{}
	failMonitors   atomic.Bool
	failSymbols    int
	lastSave       map[string]interface{}
	lastUpdate     map[string]interface{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1, monitors: map[int64]*api.MonitorEntry{}}
}

func (f *fakeAPI) client(t *testing.T) *api.Client {
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return api.NewClient(api.Options{BaseURL: srv.URL, ServerID: "srv"}, zap.NewNop())
}

func (f *fakeAPI) add(e api.MonitorEntry) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID
	f.nextID++
	f.monitors[e.ID] = &e
	return e.ID
}

func (f *fakeAPI) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/price_ranges":
		f.listSymbols(w, r)
	case strings.HasPrefix(path, "/api/monitor_symbols/"), strings.HasPrefix(path, "/api/oscillation_monitor_symbols/"):
		f.listMonitors(w)
	case strings.HasPrefix(path, "/api/check_monitor_symbol/"):
		f.checkCalls.Add(1)
		parts := strings.Split(path, "/")
		symbol := parts[len(parts)-1]
		f.mu.Lock()
		exists := false
		for _, m := range f.monitors {
			if m.Symbol == symbol {
				exists = true
			}
		}
		f.mu.Unlock()
		f.writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
	case path == "/api/save_monitor_symbols", path == "/api/save_oscillation_monitor":
		f.save(w, r)
	case strings.HasPrefix(path, "/api/monitor/"):
		f.monitor(w, r)
	default:
		f.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (f *fakeAPI) listSymbols(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries = append(f.queries, r.URL.RawQuery)
	fail := f.failSymbols
	rows := f.symbols
	f.mu.Unlock()

	switch fail {
	case http.StatusOK:
		f.writeJSON(w, http.StatusOK, map[string]string{"status": "error", "message": "bad filter"})
		return
	case 0:
	default:
		f.writeJSON(w, fail, map[string]string{"error": "boom"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	start := (page - 1) * perPage
	var out []api.SymbolRow
	if start >= 0 && start < len(rows) {
		end := start + perPage
		if end > len(rows) {
			end = len(rows)
		}
		out = rows[start:end]
	}
	if out == nil {
		out = []api.SymbolRow{}
	}
	f.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": out, "total": len(rows)})
}

func (f *fakeAPI) listMonitors(w http.ResponseWriter) {
	f.listMonitorCalls.Add(1)
	if f.monitorStarted != nil {
		f.monitorStarted <- struct{}{}
	}
	if f.monitorGate != nil {
		<-f.monitorGate
	}
	if f.failMonitors.Load() {
		f.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db down"})
		return
	}
	f.mu.Lock()
	out := make([]api.MonitorEntry, 0, len(f.monitors))
	for id := int64(1); id < f.nextID; id++ {
		if m, ok := f.monitors[id]; ok {
			out = append(out, *m)
		}
	}
	f.mu.Unlock()
	f.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": out})
}

func (f *fakeAPI) save(w http.ResponseWriter, r *http.Request) {
	f.saveCalls.Add(1)
	var body struct {
		AccountID    string `json:"accountId"`
		StrategyType string `json:"strategy_type"`
		Symbols      []struct {
			Symbol         string  `json:"symbol"`
			AllocatedMoney float64 `json:"allocated_money"`
			Leverage       int     `json:"leverage"`
			TakeProfit     float64 `json:"take_profit"`
		} `json:"symbols"`
	}
	raw := map[string]interface{}{}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil {
		f.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	buf, _ := json.Marshal(raw)
	_ = json.Unmarshal(buf, &body)

	f.mu.Lock()
	f.lastSave = raw
	f.mu.Unlock()

	for _, s := range body.Symbols {
		f.add(api.MonitorEntry{
			Symbol:         s.Symbol,
			AllocatedMoney: api.Float(s.AllocatedMoney),
			Leverage:       s.Leverage,
			TakeProfit:     api.Float(s.TakeProfit),
			Status:         api.StatusWaiting,
			IsActive:       true,
		})
	}
	f.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Saved"})
}

func (f *fakeAPI) monitor(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/monitor/")
	deletePath := strings.HasSuffix(rest, "/delete")
	rest = strings.TrimSuffix(rest, "/delete")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		f.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad id"})
		return
	}

	f.mu.Lock()
	entry, ok := f.monitors[id]
	f.mu.Unlock()
	if !ok {
		f.writeJSON(w, http.StatusNotFound, map[string]string{"message": "Monitor not found"})
		return
	}

	switch {
	case r.Method == http.MethodGet:
		f.mu.Lock()
		copied := *entry
		f.mu.Unlock()
		f.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "monitor": copied})
	case r.Method == http.MethodPut:
		f.updateCalls.Add(1)
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.lastUpdate = body
		if v, ok := body["allocated_money"].(float64); ok {
			entry.AllocatedMoney = api.Float(v)
		}
		if v, ok := body["leverage"].(float64); ok {
			entry.Leverage = int(v)
		}
		if v, ok := body["take_profit"].(float64); ok {
			entry.TakeProfit = api.Float(v)
		}
		if v, ok := body["is_active"].(bool); ok {
			entry.IsActive = v
		}
		f.mu.Unlock()
		f.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Updated"})
	case r.Method == http.MethodDelete || (r.Method == http.MethodPost && deletePath):
		f.deleteCalls.Add(1)
		f.mu.Lock()
		delete(f.monitors, id)
		f.mu.Unlock()
		if deletePath {
			f.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Deleted"})
			return
		}
		f.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Deleted"})
	default:
		f.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method"})
	}
}

func (f *fakeAPI) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

// recordingSink captures everything the controller renders.
type recordingSink struct {
	mu            sync.Mutex
	resets        int
	views         []SymbolView
	symbolErrors  []string
	monitorLists  [][]api.MonitorEntry
	monitorErrors []string
	notices       []Notice
}

func (s *recordingSink) ResetSymbols() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
}

func (s *recordingSink) ShowSymbols(v SymbolView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, v)
}

func (s *recordingSink) ShowSymbolsError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbolErrors = append(s.symbolErrors, msg)
}

func (s *recordingSink) ShowMonitors(entries []api.MonitorEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitorLists = append(s.monitorLists, entries)
}

func (s *recordingSink) ShowMonitorsError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitorErrors = append(s.monitorErrors, msg)
}

func (s *recordingSink) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

func (s *recordingSink) lastNotice() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notices) == 0 {
		return Notice{}
	}
	return s.notices[len(s.notices)-1]
}

func (s *recordingSink) lastMonitors() []api.MonitorEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.monitorLists) == 0 {
		return nil
	}
	return s.monitorLists[len(s.monitorLists)-1]
}

func symbolRows(n int) []api.SymbolRow {
	rows := make([]api.SymbolRow, n)
	for i := range rows {
		rows[i] = api.SymbolRow{Symbol: "SYM" + strconv.Itoa(i), LastPrice: api.Float(i + 1)}
	}
	return rows
}

func newTestController(t *testing.T, f *fakeAPI) (*Controller, *recordingSink) {
	sink := &recordingSink{}
	ctrl := New(f.client(t), sink, Options{
		AccountID: "acct",
		ServerID:  "srv",
		Strategy:  api.StrategyBreakthrough,
		PerPage:   30,
	}, zap.NewNop())
	return ctrl, sink
}
