package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Congress map

Each state is shaded by how often its delegation agrees with the selected
members. The hue mixes party colors by agreement; saturation follows the
state's overall agreement. States with no data stay white.

## Keys

| Key | Action |
| --- | --- |
| ↑/k ↓/j | hover a state and show its delegation |
| enter | select the hovered delegation |
| t | toggle keep selection (add instead of replace) |
| c | clear selection |
| e | export snapshot (svg, png, json or sqlite) |
| y | copy the tooltip to the clipboard |
| / | filter states |
| ? | close this help |
| q | quit |

## Colors

- **Republican** crimson
- **Democrat** blue
- **Independent** gold
`

// renderHelp renders the help page for the given width. Falls back to the
// raw markdown when glamour cannot render.
func renderHelp(width int) string {
	wrap := width - 4
	if wrap < 40 {
		wrap = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	// Strip trailing whitespace/newlines that glamour adds
	return strings.TrimRight(out, " \n\r\t")
}
