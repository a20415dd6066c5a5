package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	windowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

func (m Model) View() string {
	if m.loading {
		return "\n  Loading tabs…\n"
	}

	var b strings.Builder
	b.WriteString(renderNavbar(m.view, [2]int{m.tabCount(), len(m.favs)}, m.width))
	b.WriteString("\n\n")

	if m.view == ViewTabs {
		b.WriteString(" " + m.tabSearch.View() + "\n\n")
		b.WriteString(m.renderTabs())
	} else {
		b.WriteString(" " + m.favSearch.View() + "\n\n")
		b.WriteString(m.renderFavorites())
	}

	b.WriteString("\n" + m.renderFooter())
	return b.String()
}

func (m Model) tabCount() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.Tabs)
	}
	return n
}

func (m Model) renderTabs() string {
	if len(m.filteredGroups) == 0 {
		return dimStyle.Render("  no tabs") + "\n"
	}

	var b strings.Builder
	i := 0
	for _, g := range m.filteredGroups {
		header := fmt.Sprintf("Window %d (%d)", g.WindowID, len(g.Tabs))
		b.WriteString(" " + windowStyle.Render(header))
		if g.Focused {
			b.WriteString(" " + focusedStyle.Render("● focused"))
		}
		b.WriteString("\n")

		for _, tab := range g.Tabs {
			marker := "  "
			if m.favSet[tab.URL] {
				marker = starStyle.Render("★ ")
			}
			line := fmt.Sprintf("%s%s  %s", marker, tab.Title, dimStyle.Render(tab.Domain+" · "+relativeTime(tab.LastAccessed)))
			if i == m.tabCursor {
				b.WriteString(" " + cursorStyle.Render("> ") + line + "\n")
			} else {
				b.WriteString("   " + line + "\n")
			}
			i++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFavorites() string {
	if len(m.filteredFavs) == 0 {
		return dimStyle.Render("  no favorites") + "\n"
	}

	var b strings.Builder
	for i, f := range m.filteredFavs {
		line := fmt.Sprintf("%s  %s", f.Title, dimStyle.Render(f.Domain+" · added "+relativeTime(f.AddedAt)))
		if i == m.favCursor {
			b.WriteString(" " + cursorStyle.Render("> ") + line + "\n")
		} else {
			b.WriteString("   " + line + "\n")
		}
	}
	return b.String()
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return " " + statusStyle.Render(m.status)
	}
	hints := "↑↓/jk navigate · tab view · / search · f star · c copy urls · d download · r reload · q quit"
	if m.view == ViewFavorites {
		hints = "↑↓/jk navigate · tab view · / search · x remove · c copy urls · d download · r reload · q quit"
	}
	return " " + dimStyle.Render(hints)
}

// relativeTime renders a unix-millisecond timestamp relative to now.
func relativeTime(ms int64) string {
	if ms == 0 {
		return "unknown"
	}
	d := time.Since(time.UnixMilli(ms))
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
