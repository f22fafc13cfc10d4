package router

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/rangewatch/internal/ui"
)

type stubScreen struct {
	name      string
	inits     int
	msgs      []tea.Msg
	width     int
	height    int
	captureEs bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.msgs = append(s.msgs, msg)
	return s, nil
}

func (s *stubScreen) View() string { return s.name }

func (s *stubScreen) SetSize(width, height int) {
	s.width, s.height = width, height
}

func (s *stubScreen) CapturesKey(msg tea.KeyMsg) bool {
	return s.captureEs
}

func TestPushPopKeepsStateBelow(t *testing.T) {
	root := &stubScreen{name: "root"}
	r := New(root)
	r.SetSize(100, 40)

	child := &stubScreen{name: "child"}
	r.Push(child)

	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "child", r.View())
	assert.Equal(t, 1, child.inits)
	assert.Equal(t, 100, child.width)

	r.Pop()
	assert.Equal(t, "root", r.View())
	assert.Equal(t, 0, root.inits, "pop must not re-init the screen below")

	r.Pop()
	assert.Equal(t, 1, r.Depth(), "root screen is never popped")
}

func TestKeysGoToTopDataToAll(t *testing.T) {
	root := &stubScreen{name: "root"}
	child := &stubScreen{name: "child"}
	r := New(root)
	r.Push(child)

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Empty(t, root.msgs)
	require.Len(t, child.msgs, 1)

	r.Update(ui.MonitorsLoadedMsg{})
	assert.Len(t, root.msgs, 1)
	assert.Len(t, child.msgs, 2)
}

func TestEscPopsUnlessCaptured(t *testing.T) {
	root := &stubScreen{name: "root"}
	child := &stubScreen{name: "child", captureEs: true}
	r := New(root)
	r.Push(child)

	esc := tea.KeyMsg{Type: tea.KeyEsc}
	r.Update(esc)
	assert.Equal(t, 2, r.Depth())
	assert.Len(t, child.msgs, 1)

	child.captureEs = false
	r.Update(esc)
	assert.Equal(t, 1, r.Depth())
}

func TestBackMsgAndWindowSize(t *testing.T) {
	root := &stubScreen{name: "root"}
	child := &stubScreen{name: "child"}
	r := New(root)
	r.Push(child)

	r.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, 80, root.width)
	assert.Equal(t, 24, child.height)

	r.Update(ui.BackMsg{})
	assert.Equal(t, "root", r.View())
}

func TestReplaceAndClear(t *testing.T) {
	r := New(&stubScreen{name: "root"})
	r.Push(&stubScreen{name: "a"})
	r.Push(&stubScreen{name: "b"})

	c := &stubScreen{name: "c"}
	r.Replace(c)
	assert.Equal(t, "c", r.View())
	assert.Equal(t, 1, c.inits)
	assert.Equal(t, 3, r.Depth())

	r.Clear()
	assert.Equal(t, "root", r.View())
	assert.False(t, r.CanGoBack())
}
