package style

import "github.com/charmbracelet/lipgloss"

var palette = DefaultPalette()

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(0, 0, 1, 0)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true)
)

// Layout styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 1)

	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 1)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(palette.Secondary).
			Padding(1, 3)
)

// Status line styles
var (
	InfoStyle    = lipgloss.NewStyle().Foreground(palette.Info)
	SuccessStyle = lipgloss.NewStyle().Foreground(palette.Success).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(palette.Warning).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(palette.Error).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(palette.TextMuted)
)

// NoticeStyle picks the status line style for a notice level name
// ("info", "success", "warning", "error").
func NoticeStyle(level string) lipgloss.Style {
	switch level {
	case "success":
		return SuccessStyle
	case "warning":
		return WarningStyle
	case "error":
		return ErrorStyle
	default:
		return InfoStyle
	}
}
