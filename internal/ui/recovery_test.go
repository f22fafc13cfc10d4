package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockModel is a test UI model
type mockModel struct {
	panicOnInit   bool
	panicOnUpdate bool
	panicOnView   bool
	updateCount   int
	returnCmd     tea.Cmd
}

func (m *mockModel) Init() tea.Cmd {
	if m.panicOnInit {
		panic("init panic test")
	}
	return nil
}

func (m *mockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.updateCount++
	if m.panicOnUpdate {
		panic("update panic test")
	}
	return m, m.returnCmd
}

func (m *mockModel) View() string {
	if m.panicOnView {
		panic("view panic test")
	}
	return "Test UI"
}

func TestSafeModelPassesThrough(t *testing.T) {
	inner := &mockModel{}
	sm := NewSafeModel(inner, zap.NewNop())

	if cmd := sm.Init(); cmd != nil {
		t.Error("expected nil init cmd")
	}
	model, _ := sm.Update(tea.KeyMsg{})
	if model != sm {
		t.Error("Update must return the wrapper")
	}
	if inner.updateCount != 1 {
		t.Errorf("expected 1 update, got %d", inner.updateCount)
	}
	if v := sm.View(); v != "Test UI" {
		t.Errorf("unexpected view %q", v)
	}
}

func TestSafeModelRecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	sm := NewSafeModel(&mockModel{panicOnInit: true, panicOnUpdate: true, panicOnView: true}, zap.New(core))

	if cmd := sm.Init(); cmd != nil {
		t.Error("expected nil cmd after init panic")
	}
	if _, cmd := sm.Update(tea.KeyMsg{}); cmd != nil {
		t.Error("expected nil cmd after update panic")
	}
	if v := sm.View(); v == "" || v == "Test UI" {
		t.Errorf("expected crash notice, got %q", v)
	}

	if got := logs.Len(); got != 3 {
		t.Errorf("expected 3 logged panics, got %d", got)
	}
}

func TestSafeModelRearmsBusListenerAfterPanic(t *testing.T) {
	sm := NewSafeModel(&mockModel{panicOnUpdate: true}, zap.NewNop())

	_, cmd := sm.Update(BusMsg{Msg: NoticeMsg{}})
	if cmd == nil {
		t.Fatal("expected the bus listener to be re-armed")
	}

	Bus <- SymbolsResetMsg{}
	msg := cmd()
	if wrapped, ok := msg.(BusMsg); !ok {
		t.Errorf("expected BusMsg, got %T", msg)
	} else if _, ok := wrapped.Msg.(SymbolsResetMsg); !ok {
		t.Errorf("unexpected payload %T", wrapped.Msg)
	}
}
