package ui

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/congressmap/internal/datasource"
	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/dispatch"
	"github.com/vanderheijden86/congressmap/pkg/export"
	"github.com/vanderheijden86/congressmap/pkg/mapcolor"
	"github.com/vanderheijden86/congressmap/pkg/mapview"
	"github.com/vanderheijden86/congressmap/pkg/render"
	"github.com/vanderheijden86/congressmap/pkg/testutil"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(testutil.Features(), testutil.Congress(), mapview.DefaultOptions())
}

// votingData adds roll calls so selections change agreement:
// selecting Shelby gives AL .75 and VT .25, and PA has no votes.
func votingData() congress.Data {
	d := testutil.CongressData()
	d.Votes = map[string]map[string]congress.Position{
		"Shelby":   {"rc1": congress.Yea, "rc2": congress.Yea},
		"Sessions": {"rc1": congress.Yea, "rc2": congress.Nay},
		"Leahy":    {"rc1": congress.Nay, "rc2": congress.Nay},
		"Sanders":  {"rc1": congress.Nay, "rc2": congress.Yea},
	}
	return d
}

func TestNewSession_ListenerOrder(t *testing.T) {
	s := newTestSession(t)

	got := s.Dispatcher().Listeners()[dispatch.SelectionChanged]
	if want := []string{"agreement", "map"}; !reflect.DeepEqual(got, want) {
		t.Errorf("selection listeners = %v, want %v", got, want)
	}
}

func TestSession_SelectRecolors(t *testing.T) {
	s := newTestSession(t)

	s.Select([]string{"Casey"}, false)

	pa, _ := s.View().Shape("Pennsylvania")
	if pa.Class != mapview.SelectionState {
		t.Errorf("Pennsylvania class = %s, want selectionState", pa.Class)
	}
	testutil.AssertFill(t, s.View(), "Pennsylvania", mapcolor.Hex(mapcolor.Blend(0.5, mapcolor.Share{R: 1}).RGB()))

	s.Select([]string{"Shelby"}, true)
	if got := s.Congress().SelectedMembers(); !reflect.DeepEqual(got, []string{"Casey", "Shelby"}) {
		t.Errorf("kept selection = %v", got)
	}

	s.Clear()
	if got := s.Congress().SelectedMembers(); len(got) != 0 {
		t.Errorf("selection after Clear = %v", got)
	}
	if pa.Class != mapview.NormalState {
		t.Errorf("Pennsylvania class after Clear = %s", pa.Class)
	}
}

func TestSession_SelectRecomputesAgreement(t *testing.T) {
	s := NewSession(testutil.Features(), congress.New(votingData()), mapview.DefaultOptions())

	s.Select([]string{"Shelby"}, false)

	c := s.Congress()
	if got, _ := c.StateAgreementPercent("AL"); got != 0.75 {
		t.Errorf("AL agreement = %v, want 0.75", got)
	}
	if got, _ := c.StateAgreementPercent("VT"); got != 0.25 {
		t.Errorf("VT agreement = %v, want 0.25", got)
	}
	if _, ok := c.StateAgreementPercent("PA"); ok {
		t.Error("PA has no votes and should have no agreement")
	}

	// Only Sessions is unselected in AL.
	testutil.AssertFill(t, s.View(), "Alabama", mapcolor.Hex(mapcolor.Blend(0.75, mapcolor.Share{R: 1}).RGB()))
	testutil.AssertFill(t, s.View(), "Pennsylvania", "#ffffff")

	// Clearing the selection brings back the supplied scores.
	s.Clear()
	if got, _ := c.StateAgreementPercent("PA"); got != 0.5 {
		t.Errorf("PA agreement after clear = %v, want baseline 0.5", got)
	}
}

func TestSession_TracksHover(t *testing.T) {
	s := newTestSession(t)

	s.View().HoverEnter("Vermont", 1, 2)
	if got := s.Hovered(); !reflect.DeepEqual(got, []string{"Leahy", "Sanders"}) {
		t.Errorf("hovered = %v", got)
	}
	s.View().HoverExit("Vermont")
	if got := s.Hovered(); got != nil {
		t.Errorf("hovered after exit = %v", got)
	}
}

func TestSession_ReloadKeepsSelection(t *testing.T) {
	s := newTestSession(t)
	s.Select([]string{"Sanders", "Casey"}, false)

	d := testutil.CongressData()
	delete(d.Members, "Casey")
	d.Members["Fetterman"] = congress.Legislator{Name: "John Fetterman", Party: congress.Democrat, State: "PA"}
	d.StateAgreement["VT"] = 0

	diff := s.Reload(congress.New(d))

	if !reflect.DeepEqual(diff.Added, []string{"Fetterman"}) || !reflect.DeepEqual(diff.Removed, []string{"Casey"}) {
		t.Errorf("diff = %+v", diff)
	}
	if got := s.Congress().SelectedMembers(); !reflect.DeepEqual(got, []string{"Sanders"}) {
		t.Errorf("selection after reload = %v, want [Sanders]", got)
	}
	testutil.AssertFill(t, s.View(), "Vermont", "#ffffff")
	testutil.AssertClass(t, s.View(), "Vermont", mapview.SelectionState)
	testutil.AssertClass(t, s.View(), "Pennsylvania", mapview.NormalState)
}

func TestExportFormat(t *testing.T) {
	tests := map[string]string{
		"map.svg":        "svg",
		"MAP.PNG":        "png",
		"out/state.json": "json",
		"x.sqlite":       "sqlite",
		"x.sqlite3":      "sqlite",
		"x.db":           "sqlite",
		"x.gif":          "",
		"noext":          "",
	}
	for path, want := range tests {
		if got := ExportFormat(path); got != want {
			t.Errorf("ExportFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSession_Export(t *testing.T) {
	s := newTestSession(t)
	s.Select([]string{"Leahy"}, false)
	dir := t.TempDir()

	for _, name := range []string{"map.svg", "map.png", "map.json", "map.sqlite"} {
		path := filepath.Join(dir, name)
		if err := s.Export(path, "", render.DefaultOptions()); err != nil {
			t.Fatalf("Export(%s): %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "map.json"))
	if err != nil {
		t.Fatal(err)
	}
	var doc export.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode json export: %v", err)
	}
	if !reflect.DeepEqual(doc.Meta.Selected, []string{"Leahy"}) {
		t.Errorf("json selected = %v", doc.Meta.Selected)
	}

	back, _, err := datasource.LoadCongress(filepath.Join(dir, "map.sqlite"))
	if err != nil {
		t.Fatalf("read sqlite export: %v", err)
	}
	if !back.IsSelected("Leahy") || back.IsSelected("Sanders") {
		t.Errorf("sqlite selection = %v", back.SelectedMembers())
	}
}

func TestSession_ExportUnknownFormat(t *testing.T) {
	s := newTestSession(t)
	if err := s.Export(filepath.Join(t.TempDir(), "map.gif"), "", render.DefaultOptions()); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := s.Export(filepath.Join(t.TempDir(), "map.out"), "json", render.DefaultOptions()); err != nil {
		t.Errorf("explicit format should override extension: %v", err)
	}
}

func TestSession_ReopenedSQLiteExportClearsToSuppliedScores(t *testing.T) {
	s := NewSession(testutil.Features(), congress.New(votingData()), mapview.DefaultOptions())
	s.Select([]string{"Shelby"}, false)

	path := filepath.Join(t.TempDir(), "map.sqlite")
	if err := s.Export(path, "", render.DefaultOptions()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	back, _, err := datasource.LoadCongress(path)
	if err != nil {
		t.Fatalf("reopen export: %v", err)
	}
	if !reflect.DeepEqual(back.Votes(), s.Congress().Votes()) {
		t.Errorf("votes = %v, want %v", back.Votes(), s.Congress().Votes())
	}
	reopened := NewSession(testutil.Features(), back, mapview.DefaultOptions())

	s.Clear()
	reopened.Clear()
	for _, st := range []string{"AL", "VT", "PA"} {
		want, _ := s.Congress().StateAgreementPercent(st)
		if got, ok := back.StateAgreementPercent(st); !ok || got != want {
			t.Errorf("%s after clear = %v (ok %v), want %v", st, got, ok, want)
		}
	}
	for _, name := range []string{"Alabama", "Vermont", "Pennsylvania"} {
		want, _ := s.View().Shape(name)
		testutil.AssertFill(t, reopened.View(), name, want.FillHex())
	}
}
