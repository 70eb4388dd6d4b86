package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/congressmap/pkg/mapview"
	"github.com/vanderheijden86/congressmap/pkg/version"
)

// BuildDocument assembles the JSON export for the current view.
func BuildDocument(v *mapview.View, src Source, now time.Time) Document {
	states := StateRecords(v, src)
	members := MemberRecords(src)
	selected := src.SelectedMembers()
	if selected == nil {
		selected = []string{}
	}
	return Document{
		Meta: Meta{
			Version:     version.Version,
			GeneratedAt: now.UTC(),
			StateCount:  len(states),
			MemberCount: len(members),
			Selected:    selected,
		},
		States:  states,
		Members: members,
	}
}

// WriteJSON writes the export document as indented JSON.
func WriteJSON(w io.Writer, v *mapview.View, src Source) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildDocument(v, src, time.Now())); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// SaveJSON writes the export document to path.
func SaveJSON(path string, v *mapview.View, src Source) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, v, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
