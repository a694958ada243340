package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette(Colors{
	Accent:  "#7D56F4",
	Removed: "#04B575",
	Failure: "#FF0000",
	Notice:  "#FFA500",
	Muted:   "#626262",
})

// Colors names the hex foreground for each role on the watchlist screen.
type Colors struct {
	Accent  string // headings, spinner, selected card
	Removed string
	Failure string
	Notice  string
	Muted   string // empty state, pending removals
}

// Palette holds the watchlist's [lipgloss.Style] per role.
type Palette struct {
	heading lipgloss.Style
	card    lipgloss.Style
	removed lipgloss.Style
	failure lipgloss.Style
	notice  lipgloss.Style
	muted   lipgloss.Style
}

func NewPalette(c Colors) *Palette {
	return &Palette{
		heading: bold(c.Accent).MarginBottom(1),
		card:    bold(c.Accent).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color(c.Accent)).Padding(0, 0, 0, 1),
		removed: bold(c.Removed),
		failure: bold(c.Failure),
		notice:  fg(c.Notice),
		muted:   fg(c.Muted).Italic(true),
	}
}

// cardDelegate renders movie cards with the selected card in the accent color.
func cardDelegate(p *Palette) list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = p.card
	d.Styles.SelectedDesc = p.card.Bold(false)
	return d
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func bold(color string) lipgloss.Style {
	return fg(color).Bold(true)
}
