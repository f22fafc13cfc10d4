package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rangewatch/internal/dashboard"
	"github.com/rovshanmuradov/rangewatch/internal/ui"
	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// header renders the screen title with the account context underneath
func header(svc *ui.Services, title string) string {
	opts := svc.Controller.Options()
	sub := fmt.Sprintf("account %s · server %s · %s", orDash(opts.AccountID), orDash(opts.ServerID), opts.Strategy)
	return lipgloss.JoinVertical(lipgloss.Left,
		style.TitleStyle.Render(title),
		style.SubtitleStyle.Render(sub),
	)
}

// noticeLine renders the latest controller notice, or nothing
func noticeLine(svc *ui.Services) string {
	n, ok := svc.Cache.LastNotice()
	if !ok {
		return ""
	}
	return renderNotice(n)
}

func renderNotice(n dashboard.Notice) string {
	text := n.Message
	if n.Title != "" {
		text = n.Title + ": " + n.Message
	}
	return style.NoticeStyle(n.Level.String()).Render(noticeIcon(n.Level) + " " + text)
}

func noticeIcon(level dashboard.NoticeLevel) string {
	switch level {
	case dashboard.NoticeSuccess:
		return "✓"
	case dashboard.NoticeWarning:
		return "⚠"
	case dashboard.NoticeError:
		return "✗"
	default:
		return "•"
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// joinNonEmpty stacks the non-empty parts vertically
func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, kept...)
}
