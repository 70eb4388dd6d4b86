package ui

import (
	"image/color"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/mapview"
)

// StateItem is one row of the state list.
type StateItem struct {
	Name      string
	Abbrev    string
	Fill      color.RGBA
	Class     mapview.Class
	Agreement float64
	HasScore  bool
	Members   int
}

// FilterValue matches on the full name and the abbreviation.
func (i StateItem) FilterValue() string {
	return strings.TrimSpace(i.Name + " " + i.Abbrev)
}

// Title implements list.DefaultItem.
func (i StateItem) Title() string { return i.Name }

// Description implements list.DefaultItem.
func (i StateItem) Description() string { return i.Abbrev }

// stateItems lists the view's shapes alphabetically so the cursor stays put
// while draw order changes.
func stateItems(v *mapview.View, c *congress.Congress) []list.Item {
	shapes := v.Shapes()
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].Name < shapes[j].Name })

	items := make([]list.Item, 0, len(shapes))
	for _, s := range shapes {
		it := StateItem{Name: s.Name, Fill: s.Fill, Class: s.Class}
		if abbrev, ok := c.StateAbbrev(s.Name); ok {
			it.Abbrev = abbrev
			it.Agreement, it.HasScore = c.StateAgreementPercent(abbrev)
			ids, _ := c.Delegation(abbrev)
			it.Members = len(ids)
		}
		items = append(items, it)
	}
	return items
}
