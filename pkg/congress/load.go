package congress

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Load reads a congress JSON document from path.
func Load(path string) (*Congress, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open congress data: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads a congress JSON document from r.
func Decode(r io.Reader) (*Congress, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode congress data: %w", err)
	}
	if len(d.Members) == 0 {
		return nil, fmt.Errorf("decode congress data: no members")
	}
	c := New(d)
	c.RecomputeAgreement()
	return c, nil
}

// Encode writes the current model as indented JSON.
func (c *Congress) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Snapshot())
}
