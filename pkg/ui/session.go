package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/congressmap/internal/datasource"
	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/debug"
	"github.com/vanderheijden86/congressmap/pkg/dispatch"
	"github.com/vanderheijden86/congressmap/pkg/export"
	"github.com/vanderheijden86/congressmap/pkg/geo"
	"github.com/vanderheijden86/congressmap/pkg/mapview"
	"github.com/vanderheijden86/congressmap/pkg/render"
)

// Session owns the congress context, the map view and the dispatcher that
// ties them together. Selection changes recompute agreement before the view
// recolors.
type Session struct {
	cong    *congress.Congress
	view    *mapview.View
	disp    *dispatch.Dispatcher
	hovered []string
}

// NewSession builds the view over features and wires the dispatcher.
func NewSession(features []geo.Feature, cong *congress.Congress, opts mapview.Options) *Session {
	s := &Session{cong: cong, disp: dispatch.New()}
	cong.RecomputeAgreement()
	s.view = mapview.New(features, cong, s.disp, opts)

	s.disp.OnSelectionChanged("agreement", func() { s.cong.RecomputeAgreement() })
	s.disp.OnSelectionChanged("map", func() { s.view.Update() })
	s.disp.OnMembersHovered("session", func(ids []string) { s.hovered = ids })
	s.disp.OnMembersUnhovered("session", func() { s.hovered = nil })
	return s
}

// View returns the map view.
func (s *Session) View() *mapview.View { return s.view }

// Congress returns the current congress context.
func (s *Session) Congress() *congress.Congress { return s.cong }

// Dispatcher returns the event hub.
func (s *Session) Dispatcher() *dispatch.Dispatcher { return s.disp }

// Hovered returns the delegation under the pointer, if any.
func (s *Session) Hovered() []string { return append([]string(nil), s.hovered...) }

// Select adds ids to the selection, replacing it unless keep is set, and
// announces the change.
func (s *Session) Select(ids []string, keep bool) {
	if !keep {
		s.cong.ClearMembers()
	}
	s.cong.AddMember(ids...)
	s.disp.SelectionChanged()
}

// Clear empties the selection.
func (s *Session) Clear() {
	s.cong.ClearMembers()
	s.disp.SelectionChanged()
}

// Reload swaps in freshly loaded congress data, carrying the current
// selection over. Selected ids missing from next are dropped.
func (s *Session) Reload(next *congress.Congress) datasource.SourceDiff {
	diff := datasource.Diff(s.cong, next)

	next.ClearMembers()
	next.AddMember(s.cong.SelectedMembers()...)
	next.RecomputeAgreement()

	s.cong = next
	s.view.SetModel(next)
	debug.Log("ui: reloaded congress: %s", diff.Summary())
	return diff
}

// ExportFormat infers the export format from a path's extension: svg, png,
// json or sqlite. Unknown extensions return "".
func ExportFormat(path string) string {
	if f := render.Format(path); f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return ""
	}
}

// Export writes the current map to path. An empty format is inferred from
// the extension.
func (s *Session) Export(path, format string, opts render.Options) error {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		format = ExportFormat(path)
	}

	switch format {
	case "svg", "png":
		return render.Save(path, format, s.view, opts)
	case "json":
		return export.SaveJSON(path, s.view, s.cong)
	case "sqlite":
		e := export.NewSQLiteExporter(s.view, s.cong)
		e.Votes = s.cong.Votes()
		return e.Export(path)
	default:
		return fmt.Errorf("unsupported export format %q for %s", format, path)
	}
}
