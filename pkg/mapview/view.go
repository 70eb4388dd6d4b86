// Package mapview binds geography features to interactive state shapes and
// keeps their class, draw order and fill in sync with the congress
// selection.
//
// The view never mutates the selection directly: clicks go through the
// model's ClearMembers/AddMember and are announced on the dispatcher.
package mapview

import (
	"image/color"
	"sort"
	"time"

	"github.com/vanderheijden86/congressmap/pkg/debug"
	"github.com/vanderheijden86/congressmap/pkg/geo"
	"github.com/vanderheijden86/congressmap/pkg/mapcolor"
	"github.com/vanderheijden86/congressmap/pkg/metrics"
)

// Model is the congress context the view reads and, on click, mutates.
type Model interface {
	mapcolor.Context
	StateAbbrev(fullName string) (string, bool)
	IsSelected(id string) bool
	ClearMembers()
	AddMember(ids ...string)
}

// Dispatcher receives the view's outgoing events.
type Dispatcher interface {
	SelectionChanged()
	MembersHovered(ids []string)
	MembersUnhovered()
}

// Handlers is what a rendering surface calls on pointer input. State is the
// feature's full name.
type Handlers interface {
	OnClick(state string)
	OnHoverEnter(state string, x, y float64)
	OnHoverExit(state string)
}

// Class is a shape's interaction state.
type Class string

const (
	NormalState    Class = "normalState"
	SelectionState Class = "selectionState"
)

// Options sizes the drawing surface.
type Options struct {
	Width, Height float64
	MarginTop     float64
	MarginBottom  float64
	MarginLeft    float64
	MarginRight   float64
	Scale         float64

	FillDuration  time.Duration
	HoverDuration time.Duration
}

// DefaultOptions matches the classic 960x500 continental layout.
func DefaultOptions() Options {
	return Options{
		Width:         960,
		Height:        500,
		Scale:         1000,
		FillDuration:  350 * time.Millisecond,
		HoverDuration: 250 * time.Millisecond,
	}
}

// OuterWidth is the surface width including margins.
func (o Options) OuterWidth() float64 { return o.Width + o.MarginLeft + o.MarginRight }

// OuterHeight is the surface height including margins.
func (o Options) OuterHeight() float64 { return o.Height + o.MarginTop + o.MarginBottom }

// Projection returns the composite Albers projection centered on the inner
// drawing area.
func (o Options) Projection() *geo.AlbersUSA {
	return geo.NewAlbersUSA(o.Scale, o.Width/2, o.Height/2)
}

// Shape is one state's rendered path.
type Shape struct {
	Name  string
	Index int // position in the source feature list
	Path  string
	Rings []geo.Ring

	Class   Class
	Fill    color.RGBA
	Opacity float64

	bounds geo.Bounds
}

// FillHex is the shape's fill as "#rrggbb".
func (s *Shape) FillHex() string {
	return mapcolor.Hex(s.Fill)
}

// Center is the middle of the shape's bounding box in inner surface
// coordinates. Shapes with no projected points report ok == false.
func (s *Shape) Center() (x, y float64, ok bool) {
	if s.bounds.Empty() {
		return 0, 0, false
	}
	return (s.bounds.MinX + s.bounds.MaxX) / 2, (s.bounds.MinY + s.bounds.MaxY) / 2, true
}

// View is the interactive map. Not safe for concurrent use.
type View struct {
	opts     Options
	model    Model
	dispatch Dispatcher

	shapes []*Shape // draw order
	byName map[string]*Shape

	tooltip       Tooltip
	keepSelection bool
	hovered       string
}

// New builds one shape per feature and runs the first Update.
func New(features []geo.Feature, m Model, d Dispatcher, opts Options) *View {
	if opts.FillDuration <= 0 {
		opts.FillDuration = DefaultOptions().FillDuration
	}
	if opts.HoverDuration <= 0 {
		opts.HoverDuration = DefaultOptions().HoverDuration
	}
	proj := opts.Projection()

	v := &View{
		opts:     opts,
		model:    m,
		dispatch: d,
		byName:   make(map[string]*Shape, len(features)),
		tooltip:  Tooltip{Hidden: true},
	}
	for i, f := range features {
		rings := geo.ProjectGeometry(f.Geometry, proj)
		s := &Shape{
			Name:    f.Name,
			Index:   i,
			Path:    geo.PathData(rings),
			Rings:   rings,
			Class:   NormalState,
			Fill:    mapcolor.White,
			Opacity: 1,
			bounds:  geo.RingBounds(rings),
		}
		v.shapes = append(v.shapes, s)
		v.byName[f.Name] = s
	}
	v.Update()
	return v
}

// Options returns the surface options.
func (v *View) Options() Options { return v.opts }

// SetModel swaps the congress context, e.g. after a reload, and re-runs
// Update.
func (v *View) SetModel(m Model) []Transition {
	v.model = m
	return v.Update()
}

// KeepSelection reports whether clicks add to the selection instead of
// replacing it.
func (v *View) KeepSelection() bool { return v.keepSelection }

// SetKeepSelection sets the keep-selection toggle.
func (v *View) SetKeepSelection(keep bool) { v.keepSelection = keep }

// Shapes returns the shapes in draw order.
func (v *View) Shapes() []*Shape {
	return append([]*Shape(nil), v.shapes...)
}

// Shape looks up a shape by feature name.
func (v *View) Shape(name string) (*Shape, bool) {
	s, ok := v.byName[name]
	return s, ok
}

// ShapeAt returns the top-most shape containing surface point (x, y), in
// inner (margin-free) coordinates.
func (v *View) ShapeAt(x, y float64) (*Shape, bool) {
	for i := len(v.shapes) - 1; i >= 0; i-- {
		s := v.shapes[i]
		if s.bounds.Empty() || !s.bounds.Contains(x, y) {
			continue
		}
		if geo.Contains(s.Rings, x, y) {
			return s, true
		}
	}
	return nil, false
}

// Hovered returns the name of the shape under the pointer, if any.
func (v *View) Hovered() string { return v.hovered }

// Abbrev resolves a feature name to its state abbreviation.
func (v *View) Abbrev(name string) (string, bool) {
	return v.model.StateAbbrev(name)
}

// delegation resolves a feature name to its delegation. Any missing link
// yields ok == false.
func (v *View) delegation(name string) ([]string, bool) {
	abbrev, ok := v.model.StateAbbrev(name)
	if !ok {
		debug.Log("mapview: no abbreviation for %q", name)
		return nil, false
	}
	ids, ok := v.model.Delegation(abbrev)
	if !ok {
		debug.Log("mapview: no delegation for %s", abbrev)
		return nil, false
	}
	return ids, true
}

// Classify returns selectionState when any delegation member is selected.
func (v *View) Classify(name string) Class {
	ids, ok := v.delegation(name)
	if !ok {
		return NormalState
	}
	for _, id := range ids {
		if v.model.IsSelected(id) {
			return SelectionState
		}
	}
	return NormalState
}

func (c Class) sortKey() int {
	if c == SelectionState {
		return 1
	}
	return 0
}

// Update re-evaluates class, draw order and fill for every shape and
// returns the fill transitions it started. Calling it again without an
// intervening change starts none.
func (v *View) Update() []Transition {
	defer metrics.Timer(metrics.ViewUpdate)()

	var started []Transition
	for _, s := range v.shapes {
		s.Class = v.Classify(s.Name)

		fill := mapcolor.White
		if abbrev, ok := v.model.StateAbbrev(s.Name); ok {
			fill = mapcolor.StateColor(v.model, abbrev)
		}
		if fill != s.Fill {
			started = append(started, Transition{
				Shape:    s.Name,
				Property: PropertyFill,
				From:     mapcolor.Hex(s.Fill),
				To:       mapcolor.Hex(fill),
				Duration: v.opts.FillDuration,
			})
			s.Fill = fill
		}
	}

	sort.SliceStable(v.shapes, func(i, j int) bool {
		ki, kj := v.shapes[i].Class.sortKey(), v.shapes[j].Class.sortKey()
		if ki != kj {
			return ki < kj
		}
		return v.shapes[i].Index < v.shapes[j].Index
	})

	debug.LogIf(len(started) > 0, "mapview: update recolored %d shapes", len(started))
	return started
}
