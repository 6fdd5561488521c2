package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	purple = "#7D56F4"
	green  = "#04B575"
	red    = "#FF0000"
	orange = "#FFA500"
	grey   = "#626262"
)

var styles = NewPalette(purple, green, red, orange, grey)

// Palette holds the styles for the page: headings, status lines and buttons.
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	button  lipgloss.Style
	focused lipgloss.Style
}

// NewPalette builds a Palette from the title, success, error, warning and muted colors.
//
// The focused button reuses the title color in reverse video.
func NewPalette(title, success, failure, warning, muted string) *Palette {
	return &Palette{
		title:   NewBold(title).MarginBottom(1),
		ok:      NewBold(success),
		err:     NewBold(failure),
		warn:    NewStyle(warning),
		help:    NewEm(muted),
		button:  NewStyle(muted).Padding(0, 1),
		focused: NewBold(title).Reverse(true).Padding(0, 1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
