package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rangewatch/internal/pagination"
	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// PaginationBar renders a pagination.Pager as
// "‹ 1 … 5 6 [7] 8 9 … 10 ›  300 rows".
type PaginationBar struct {
	pager pagination.Pager

	pageStyle     lipgloss.Style
	currentStyle  lipgloss.Style
	disabledStyle lipgloss.Style
	infoStyle     lipgloss.Style
}

// NewPaginationBar creates an empty bar
func NewPaginationBar() *PaginationBar {
	palette := style.DefaultPalette()

	return &PaginationBar{
		pageStyle: lipgloss.NewStyle().
			Foreground(palette.TextSecondary),
		currentStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Bold(true),
		disabledStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
		infoStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true),
	}
}

// SetPager replaces the pager being rendered
func (p *PaginationBar) SetPager(pager pagination.Pager) *PaginationBar {
	p.pager = pager
	return p
}

// Items returns the unstyled tokens of the bar in order
func (p *PaginationBar) Items() []string {
	pg := p.pager
	if pg.Empty() {
		return nil
	}

	items := []string{"‹"}
	if pg.ShowFirst() {
		items = append(items, "1")
	}
	if pg.LeadingEllipsis() {
		items = append(items, "…")
	}
	for _, n := range pg.Pages() {
		if n == pg.Current {
			items = append(items, fmt.Sprintf("[%d]", n))
		} else {
			items = append(items, fmt.Sprint(n))
		}
	}
	if pg.TrailingEllipsis() {
		items = append(items, "…")
	}
	if pg.ShowLast() {
		items = append(items, fmt.Sprint(pg.TotalPages))
	}
	return append(items, "›")
}

// View renders the bar
func (p *PaginationBar) View() string {
	items := p.Items()
	if len(items) == 0 {
		return p.infoStyle.Render("No results")
	}

	rendered := make([]string, 0, len(items))
	for i, item := range items {
		switch {
		case i == 0:
			rendered = append(rendered, p.arrow(item, p.pager.HasPrev()))
		case i == len(items)-1:
			rendered = append(rendered, p.arrow(item, p.pager.HasNext()))
		case strings.HasPrefix(item, "["):
			rendered = append(rendered, p.currentStyle.Render(" "+strings.Trim(item, "[]")+" "))
		case item == "…":
			rendered = append(rendered, p.disabledStyle.Render(item))
		default:
			rendered = append(rendered, p.pageStyle.Render(item))
		}
	}

	info := p.infoStyle.Render(fmt.Sprintf("  page %d of %d · %d rows", p.pager.Current, p.pager.TotalPages, p.pager.Total))
	return strings.Join(rendered, " ") + info
}

func (p *PaginationBar) arrow(s string, enabled bool) string {
	if enabled {
		return p.pageStyle.Render(s)
	}
	return p.disabledStyle.Render(s)
}
