package mapview

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vanderheijden86/congressmap/pkg/debug"
)

// Transition properties.
const (
	PropertyFill    = "fill"
	PropertyOpacity = "fill-opacity"
)

// Hover fade level.
const hoverOpacity = 0.5

// Tooltip offsets from the pointer.
const (
	tooltipOffsetX = 10
	tooltipOffsetY = -20 - 15
)

// Transition is a fire-and-forget animation of one style property.
type Transition struct {
	Shape    string
	Property string
	From     string
	To       string
	Duration time.Duration
}

// Tooltip is the single shared floating label.
type Tooltip struct {
	Hidden    bool
	Left, Top float64
	Lines     []string
}

// HTML joins the lines with <br> separators.
func (t Tooltip) HTML() string {
	return strings.Join(t.Lines, "<br>")
}

// Tooltip returns the current tooltip state.
func (v *View) Tooltip() Tooltip {
	t := v.tooltip
	t.Lines = append([]string(nil), t.Lines...)
	return t
}

// Click makes the state's delegation the selection, or adds it to the
// selection when keep is set, then announces the change. Unknown states
// leave the selection untouched and emit nothing.
func (v *View) Click(name string, keep bool) bool {
	ids, ok := v.delegation(name)
	if !ok {
		return false
	}
	if !keep {
		v.model.ClearMembers()
	}
	v.model.AddMember(ids...)
	debug.Log("mapview: click %s keep=%v adds %v", name, keep, ids)
	if v.dispatch != nil {
		v.dispatch.SelectionChanged()
	}
	return true
}

// HoverEnter fades the shape, fills and positions the tooltip at pointer
// (x, y) and announces the hovered delegation. It returns the fade
// transition, if one started. A state without a delegation is left as is.
func (v *View) HoverEnter(name string, x, y float64) (Transition, bool) {
	s, ok := v.byName[name]
	if !ok {
		return Transition{}, false
	}
	ids, ok := v.delegation(name)
	if !ok {
		debug.Log("mapview: hover on %s has no delegation", name)
		return Transition{}, false
	}
	v.hovered = name
	tr := v.fade(s, hoverOpacity)

	v.tooltip = Tooltip{
		Left:  x + tooltipOffsetX,
		Top:   y + tooltipOffsetY,
		Lines: v.TooltipLines(ids),
	}
	if v.dispatch != nil {
		v.dispatch.MembersHovered(ids)
	}
	return tr, true
}

// HoverExit restores the shape, hides the tooltip and announces the exit.
func (v *View) HoverExit(name string) (Transition, bool) {
	v.tooltip.Hidden = true
	if v.hovered == name {
		v.hovered = ""
	}
	if v.dispatch != nil {
		v.dispatch.MembersUnhovered()
	}
	s, ok := v.byName[name]
	if !ok {
		return Transition{}, false
	}
	return v.fade(s, 1), true
}

func (v *View) fade(s *Shape, to float64) Transition {
	tr := Transition{
		Shape:    s.Name,
		Property: PropertyOpacity,
		From:     formatOpacity(s.Opacity),
		To:       formatOpacity(to),
		Duration: v.opts.HoverDuration,
	}
	s.Opacity = to
	return tr
}

func formatOpacity(o float64) string {
	return fmt.Sprintf("%g", o)
}

// TooltipLines formats one line per member: "ID (P-ST): NN%". Members with
// no record are skipped; a missing agreement score shows as 0%.
func (v *View) TooltipLines(ids []string) []string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		m, ok := v.model.Member(id)
		if !ok {
			debug.Log("mapview: tooltip skips unknown member %s", id)
			continue
		}
		score, _ := v.model.MemberAgreementPercent(id)
		lines = append(lines, fmt.Sprintf("%s (%s-%s): %d%%", id, m.Party, m.State, int(math.Round(100*score))))
	}
	return lines
}

// OnClick implements Handlers using the view's keep-selection toggle.
func (v *View) OnClick(state string) { v.Click(state, v.keepSelection) }

// OnHoverEnter implements Handlers.
func (v *View) OnHoverEnter(state string, x, y float64) { v.HoverEnter(state, x, y) }

// OnHoverExit implements Handlers.
func (v *View) OnHoverExit(state string) { v.HoverExit(state) }

var _ Handlers = (*View)(nil)
