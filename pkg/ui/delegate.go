package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/congressmap/pkg/mapview"
)

// StateDelegate renders state items in the list.
// Layout: [marker] [swatch] [name...] [score]
type StateDelegate struct {
	Theme Theme
}

func (d StateDelegate) Height() int {
	return 1
}

func (d StateDelegate) Spacing() int {
	return 0
}

func (d StateDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d StateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(StateItem)
	if !ok {
		return
	}

	t := d.Theme
	width := m.Width()
	if width <= 0 {
		width = 40
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge
	width--

	marker := " "
	if i.Class == mapview.SelectionState {
		marker = t.Marker.Render("▌")
	}

	abbrev := i.Abbrev
	if abbrev == "" {
		abbrev = "--"
	}
	swatch := t.Swatch(i.Fill).Render(fmt.Sprintf(" %-2s ", abbrev))

	score := "   -"
	if i.HasScore {
		score = percent(i.Agreement)
	}

	// marker(1) + space + swatch(4) + space + name + space + score(4)
	nameWidth := width - 1 - 1 - 4 - 1 - 1 - 4
	name := padRight(truncate(i.Name, nameWidth), nameWidth)
	if index == m.Index() {
		name = t.Selected.Render(name)
	}

	fmt.Fprintf(w, "%s %s %s %s", marker, swatch, name, t.MutedText.Render(score))
}
