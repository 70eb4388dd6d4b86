// Package export writes the current map state as machine-readable data: a
// JSON document of state and member records, or a SQLite database for
// ad-hoc querying.
package export

import (
	"sort"
	"time"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/mapview"
)

// Source is the congress context an export reads.
type Source interface {
	MemberIDs() []string
	Member(id string) (congress.Legislator, bool)
	Delegation(state string) ([]string, bool)
	StateAbbrev(fullName string) (string, bool)
	IsSelected(id string) bool
	SelectedMembers() []string
	MemberAgreementPercent(id string) (float64, bool)
	StateAgreementPercent(state string) (float64, bool)
	BaselineMemberAgreement(id string) (float64, bool)
	BaselineStateAgreement(state string) (float64, bool)
}

// StateRecord is one drawn state. Agreement is the score for the current
// selection; BaseAgreement is the supplied score it falls back to.
type StateRecord struct {
	Name          string   `json:"name"`
	Abbrev        string   `json:"abbrev,omitempty"`
	Class         string   `json:"class"`
	Fill          string   `json:"fill"`
	Agreement     *float64 `json:"agreement,omitempty"`
	BaseAgreement *float64 `json:"base_agreement,omitempty"`
	DrawOrder     int      `json:"draw_order"`
	Members       []string `json:"members,omitempty"`
}

// MemberRecord is one legislator with its seat in the delegation.
type MemberRecord struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	Party         string   `json:"party"`
	State         string   `json:"state"`
	Seat          int      `json:"seat"`
	Agreement     *float64 `json:"agreement,omitempty"`
	BaseAgreement *float64 `json:"base_agreement,omitempty"`
	Selected      bool     `json:"selected"`
}

// Meta describes the export.
type Meta struct {
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	StateCount  int       `json:"state_count"`
	MemberCount int       `json:"member_count"`
	Selected    []string  `json:"selected"`
}

// Document is the JSON export.
type Document struct {
	Meta    Meta           `json:"meta"`
	States  []StateRecord  `json:"states"`
	Members []MemberRecord `json:"members"`
}

// StateRecords lists the view's shapes in draw order.
func StateRecords(v *mapview.View, src Source) []StateRecord {
	shapes := v.Shapes()
	out := make([]StateRecord, 0, len(shapes))
	for i, s := range shapes {
		rec := StateRecord{
			Name:      s.Name,
			Class:     string(s.Class),
			Fill:      s.FillHex(),
			DrawOrder: i,
		}
		if abbrev, ok := src.StateAbbrev(s.Name); ok {
			rec.Abbrev = abbrev
			if score, ok := src.StateAgreementPercent(abbrev); ok {
				rec.Agreement = &score
			}
			if base, ok := src.BaselineStateAgreement(abbrev); ok {
				rec.BaseAgreement = &base
			}
			if ids, ok := src.Delegation(abbrev); ok {
				rec.Members = append([]string(nil), ids...)
			}
		}
		out = append(out, rec)
	}
	return out
}

// MemberRecords lists every member, sorted by state then seat.
func MemberRecords(src Source) []MemberRecord {
	ids := src.MemberIDs()
	out := make([]MemberRecord, 0, len(ids))
	for _, id := range ids {
		m, ok := src.Member(id)
		if !ok {
			continue
		}
		rec := MemberRecord{
			ID:       id,
			Name:     m.Name,
			Party:    string(m.Party),
			State:    m.State,
			Seat:     seat(src, m.State, id),
			Selected: src.IsSelected(id),
		}
		if score, ok := src.MemberAgreementPercent(id); ok {
			rec.Agreement = &score
		}
		if base, ok := src.BaselineMemberAgreement(id); ok {
			rec.BaseAgreement = &base
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Seat < out[j].Seat
	})
	return out
}

// seat is the member's 1-based position in its delegation, or 0.
func seat(src Source, state, id string) int {
	ids, ok := src.Delegation(state)
	if !ok {
		return 0
	}
	for i, other := range ids {
		if other == id {
			return i + 1
		}
	}
	return 0
}
