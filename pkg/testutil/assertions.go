package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/congressmap/pkg/mapview"
)

// AssertSelectedDrawnLast verifies every selectionState shape comes after
// every normalState shape.
func AssertSelectedDrawnLast(t *testing.T, shapes []*mapview.Shape) {
	t.Helper()
	seenSelected := false
	for i, s := range shapes {
		switch s.Class {
		case mapview.SelectionState:
			seenSelected = true
		case mapview.NormalState:
			if seenSelected {
				t.Errorf("normal shape %q at position %d is drawn after a selected shape", s.Name, i)
			}
		}
	}
}

// AssertClass verifies a shape's interaction class.
func AssertClass(t *testing.T, v *mapview.View, name string, want mapview.Class) {
	t.Helper()
	s, ok := v.Shape(name)
	if !ok {
		t.Fatalf("shape %q not found", name)
	}
	if s.Class != want {
		t.Errorf("%s class = %s, want %s", name, s.Class, want)
	}
}

// AssertFill verifies a shape's fill color.
func AssertFill(t *testing.T, v *mapview.View, name, want string) {
	t.Helper()
	s, ok := v.Shape(name)
	if !ok {
		t.Fatalf("shape %q not found", name)
	}
	if got := s.FillHex(); got != want {
		t.Errorf("%s fill = %s, want %s", name, got, want)
	}
}

// ShapeState is a comparable summary of one shape.
type ShapeState struct {
	Name  string
	Class mapview.Class
	Fill  string
}

// Snapshot summarizes the shapes in draw order.
func Snapshot(v *mapview.View) []ShapeState {
	shapes := v.Shapes()
	out := make([]ShapeState, len(shapes))
	for i, s := range shapes {
		out[i] = ShapeState{Name: s.Name, Class: s.Class, Fill: s.FillHex()}
	}
	return out
}

// AssertJSONEqual compares two values after JSON round-tripping.
// Useful for comparing structs that may have different Go representations
// but equivalent JSON forms.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Skipf("golden file does not exist: %s (run with GENERATE_GOLDEN=1 to create it)", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")

		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s",
					i+1, expLine, actLine)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}

// WriteFile writes content under dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
