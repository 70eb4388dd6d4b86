// Package datasource resolves and loads the map's inputs: the geography
// feature collection and the congress data, which may come from a JSON
// document or a SQLite database.
package datasource

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeJSON is a congress JSON document
	SourceTypeJSON SourceType = "json"
	// SourceTypeSQLite is a SQLite database in the export schema
	SourceTypeSQLite SourceType = "sqlite"
)

// sqliteHeader is the magic prefix of every SQLite 3 database file.
var sqliteHeader = []byte("SQLite format 3\x00")

// DataSource represents a congress data file
type DataSource struct {
	Type    SourceType `json:"type"`
	Path    string     `json:"path"`
	ModTime time.Time  `json:"mod_time"`
	Size    int64      `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, mod=%s, %d bytes)",
		s.Path, s.Type, s.ModTime.Format(time.RFC3339), s.Size)
}

// Detect stats path and classifies it by extension, sniffing the file header
// when the extension is not conclusive.
func Detect(path string) (DataSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%s is a directory", path)
	}
	src := DataSource{Path: path, ModTime: info.ModTime(), Size: info.Size()}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		src.Type = SourceTypeJSON
		return src, nil
	case ".sqlite", ".sqlite3", ".db":
		src.Type = SourceTypeSQLite
		return src, nil
	}

	isSQLite, err := sniffSQLite(path)
	if err != nil {
		return DataSource{}, err
	}
	src.Type = SourceTypeJSON
	if isSQLite {
		src.Type = SourceTypeSQLite
	}
	return src, nil
}

func sniffSQLite(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, len(sqliteHeader))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return bytes.Equal(head[:n], sqliteHeader), nil
}
