// Package testutil provides deterministic congress and geography fixtures
// plus assertions shared by the package tests.
package testutil

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/geo"
)

// Box is a rectangular fake state in longitude/latitude degrees.
type Box struct {
	Name                     string
	West, South, East, North float64
}

// Ring returns the box outline, closed.
func (b Box) Ring() geo.Ring {
	return geo.Ring{
		{b.West, b.North},
		{b.East, b.North},
		{b.East, b.South},
		{b.West, b.South},
		{b.West, b.North},
	}
}

// Feature returns the box as a single-polygon feature.
func (b Box) Feature() geo.Feature {
	return geo.Feature{
		Name:       b.Name,
		Properties: map[string]any{"name": b.Name},
		Geometry:   geo.Geometry{Type: "Polygon", Polygons: []geo.Polygon{{b.Ring()}}},
	}
}

// Boxes are non-overlapping rectangles inside the lower 48 panel.
// "Atlantis" has no abbreviation and "Wyoming" has no delegation.
var Boxes = []Box{
	{Name: "Alabama", West: -88, South: 31, East: -85, North: 35},
	{Name: "Vermont", West: -73.4, South: 42.7, East: -71.5, North: 45},
	{Name: "Pennsylvania", West: -80.5, South: 39.7, East: -75, North: 42},
	{Name: "Wyoming", West: -111, South: 41, East: -104, North: 45},
	{Name: "Atlantis", West: -100, South: 31, East: -98, North: 33},
}

// Features returns the fixture boxes as features, in Boxes order.
func Features() []geo.Feature {
	out := make([]geo.Feature, len(Boxes))
	for i, b := range Boxes {
		out[i] = b.Feature()
	}
	return out
}

// FeatureCollectionJSON encodes boxes as a GeoJSON FeatureCollection.
func FeatureCollectionJSON(boxes []Box) string {
	type geometry struct {
		Type        string        `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	type feature struct {
		Type       string            `json:"type"`
		Properties map[string]string `json:"properties"`
		Geometry   geometry          `json:"geometry"`
	}
	fc := struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}{Type: "FeatureCollection"}

	for _, b := range boxes {
		ring := b.Ring()
		coords := make([][2]float64, len(ring))
		for i, p := range ring {
			coords[i] = p
		}
		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			Properties: map[string]string{"name": b.Name},
			Geometry:   geometry{Type: "Polygon", Coordinates: [][][2]float64{coords}},
		})
	}
	data, err := json.Marshal(fc)
	if err != nil {
		panic(fmt.Sprintf("marshal fixture geojson: %v", err))
	}
	return string(data)
}

// CongressData is a small delegation set matching Boxes:
//
//	AL: two Republicans
//	VT: an independent and a Democrat
//	PA: a Republican and a Democrat
//	WY: abbreviation only, no members
func CongressData() congress.Data {
	return congress.Data{
		Members: map[string]congress.Legislator{
			"Shelby":   {Name: "Richard Shelby", Party: congress.Republican, State: "AL"},
			"Sessions": {Name: "Jeff Sessions", Party: congress.Republican, State: "AL"},
			"Sanders":  {Name: "Bernard Sanders", Party: congress.Independent, State: "VT"},
			"Leahy":    {Name: "Patrick Leahy", Party: congress.Democrat, State: "VT"},
			"Toomey":   {Name: "Pat Toomey", Party: congress.Republican, State: "PA"},
			"Casey":    {Name: "Bob Casey", Party: congress.Democrat, State: "PA"},
		},
		StateFullAbbrev: map[string]string{
			"Alabama":      "AL",
			"Vermont":      "VT",
			"Pennsylvania": "PA",
			"Wyoming":      "WY",
		},
		MemberAgreement: map[string]float64{
			"Shelby": 1, "Sessions": 0.9,
			"Sanders": 0.2, "Leahy": 0.4,
			"Toomey": 1, "Casey": 0,
		},
		StateAgreement: map[string]float64{
			"AL": 0.95, "VT": 0.3, "PA": 0.5,
		},
	}
}

// Congress returns a fresh model built from CongressData.
func Congress() *congress.Congress {
	return congress.New(CongressData())
}

// GeneratorConfig controls random congress generation.
type GeneratorConfig struct {
	Seed      int64 // Random seed for determinism
	States    int   // Number of states (max 26)
	PerState  int   // Members per state
	RollCalls int   // Roll calls recorded per member
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{Seed: 42, States: 10, PerState: 2, RollCalls: 20}
}

// GenerateCongress builds a deterministic random congress with vote
// records. State abbreviations are "SA", "SB", ... and full names
// "State A", "State B", ...
func GenerateCongress(cfg GeneratorConfig) congress.Data {
	rng := rand.New(rand.NewSource(cfg.Seed))
	parties := []congress.Party{congress.Republican, congress.Democrat, congress.Independent}
	positions := []congress.Position{congress.Yea, congress.Nay, congress.NotVoting}

	d := congress.Data{
		Members:         make(map[string]congress.Legislator),
		StateFullAbbrev: make(map[string]string),
		Votes:           make(map[string]map[string]congress.Position),
	}
	states := cfg.States
	if states > 26 {
		states = 26
	}
	for s := 0; s < states; s++ {
		letter := string(rune('A' + s))
		abbrev := "S" + letter
		d.StateFullAbbrev["State "+letter] = abbrev
		for m := 0; m < cfg.PerState; m++ {
			id := fmt.Sprintf("%s-%d", strings.ToLower(abbrev), m)
			d.Members[id] = congress.Legislator{
				Name:  "Member " + id,
				Party: parties[rng.Intn(len(parties))],
				State: abbrev,
			}
			rolls := make(map[string]congress.Position, cfg.RollCalls)
			for rc := 0; rc < cfg.RollCalls; rc++ {
				rolls[fmt.Sprintf("rc%03d", rc)] = positions[rng.Intn(len(positions))]
			}
			d.Votes[id] = rolls
		}
	}
	return d
}

// StateNames returns the sorted full names of a generated congress.
func StateNames(d congress.Data) []string {
	names := make([]string, 0, len(d.StateFullAbbrev))
	for name := range d.StateFullAbbrev {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GridFeatures lays out one box per name on a grid inside the lower 48.
func GridFeatures(names []string) []geo.Feature {
	out := make([]geo.Feature, len(names))
	for i, name := range names {
		col, row := i%6, i/6
		b := Box{
			Name:  name,
			West:  -120 + float64(col)*8,
			East:  -114 + float64(col)*8,
			North: 47 - float64(row)*4,
			South: 44 - float64(row)*4,
		}
		out[i] = b.Feature()
	}
	return out
}
