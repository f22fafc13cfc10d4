package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// FormField represents a single text field
type FormField struct {
	Name        string
	Label       string
	Placeholder string
	Error       string

	input textinput.Model
}

// Form is a vertical or inline group of text inputs with per-field errors.
// Validation belongs to the caller; the form only displays the result.
type Form struct {
	fields     []FormField
	focusIndex int
	focused    bool
	inline     bool
	inputWidth int

	// Styling
	labelStyle   lipgloss.Style
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewForm creates a new form component
func NewForm() *Form {
	palette := style.DefaultPalette()

	return &Form{
		focused:    true,
		inputWidth: 20,

		labelStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true),

		inputStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		focusedStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary),

		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error),
	}
}

// AddField adds a text field to the form
func (f *Form) AddField(name, label, placeholder string) *Form {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = f.inputWidth
	ti.CharLimit = 32

	f.fields = append(f.fields, FormField{
		Name:        name,
		Label:       label,
		Placeholder: placeholder,
		input:       ti,
	})
	if len(f.fields) == 1 && f.focused {
		f.fields[0].input.Focus()
	}
	return f
}

// SetInline lays the fields out side by side
func (f *Form) SetInline(inline bool) *Form {
	f.inline = inline
	return f
}

// SetInputWidth sets the width of every input
func (f *Form) SetInputWidth(width int) *Form {
	f.inputWidth = width
	for i := range f.fields {
		f.fields[i].input.Width = width
	}
	return f
}

// SetValue sets the value of a field
func (f *Form) SetValue(name, value string) *Form {
	if field := f.field(name); field != nil {
		field.input.SetValue(value)
	}
	return f
}

// Value returns the trimmed value of a field
func (f *Form) Value(name string) string {
	if field := f.field(name); field != nil {
		return strings.TrimSpace(field.input.Value())
	}
	return ""
}

// SetError shows err under the named field. Unknown names are ignored.
func (f *Form) SetError(name, err string) *Form {
	if field := f.field(name); field != nil {
		field.Error = err
	}
	return f
}

// ClearErrors removes all field errors
func (f *Form) ClearErrors() *Form {
	for i := range f.fields {
		f.fields[i].Error = ""
	}
	return f
}

// Reset clears all values and errors and focuses the first field
func (f *Form) Reset() *Form {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
		f.fields[i].Error = ""
	}
	f.setFocusIndex(0)
	return f
}

// Focus activates keyboard input
func (f *Form) Focus() {
	f.focused = true
	f.setFocusIndex(f.focusIndex)
}

// Blur stops keyboard input
func (f *Form) Blur() {
	f.focused = false
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
}

// Focused reports whether the form takes keyboard input
func (f *Form) Focused() bool {
	return f.focused
}

// Update handles focus movement and forwards keys to the focused input
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if !f.focused || len(f.fields) == 0 {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			f.setFocusIndex((f.focusIndex + 1) % len(f.fields))
			return f, nil
		case "shift+tab", "up":
			f.setFocusIndex((f.focusIndex - 1 + len(f.fields)) % len(f.fields))
			return f, nil
		}
	}

	field := &f.fields[f.focusIndex]
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		field.Error = ""
	}
	return f, cmd
}

func (f *Form) setFocusIndex(index int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].input.Blur()
	f.focusIndex = index
	if f.focused {
		f.fields[f.focusIndex].input.Focus()
	}
}

func (f *Form) field(name string) *FormField {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return &f.fields[i]
		}
	}
	return nil
}

// View renders the form
func (f *Form) View() string {
	blocks := make([]string, 0, len(f.fields))

	for i, field := range f.fields {
		boxStyle := f.inputStyle
		if f.focused && i == f.focusIndex {
			boxStyle = f.focusedStyle
		}

		parts := []string{
			f.labelStyle.Render(field.Label),
			boxStyle.Render(field.input.View()),
		}
		if field.Error != "" {
			parts = append(parts, f.errorStyle.Render("⚠ "+field.Error))
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	if f.inline {
		return lipgloss.JoinHorizontal(lipgloss.Top, spaced(blocks)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func spaced(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}
