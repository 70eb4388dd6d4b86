package datasource

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vanderheijden86/congressmap/pkg/congress"
)

// Congress is the read side of a congress model a diff compares.
type Congress interface {
	MemberIDs() []string
	Member(id string) (congress.Legislator, bool)
	MemberAgreementPercent(id string) (float64, bool)
}

// SourceDiff represents differences between two loads of the congress data
type SourceDiff struct {
	// Added contains member IDs present only in the new data
	Added []string
	// Removed contains member IDs present only in the old data
	Removed []string
	// Moved contains members whose party or state changed
	Moved []MemberDifference
	// Rescored contains members whose agreement changed
	Rescored []string
	// CountA is the number of members in the old data
	CountA int
	// CountB is the number of members in the new data
	CountB int
}

// MemberDifference is a party or state change for a single member
type MemberDifference struct {
	ID     string `json:"id"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// HasChanges returns true if the two loads differ
func (d SourceDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Moved) > 0 || len(d.Rescored) > 0
}

// Summary returns a one-line description of the changes
func (d SourceDiff) Summary() string {
	if !d.HasChanges() {
		return fmt.Sprintf("no changes (%d members)", d.CountB)
	}
	var parts []string
	if len(d.Added) > 0 {
		parts = append(parts, fmt.Sprintf("+%d members", len(d.Added)))
	}
	if len(d.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("-%d members", len(d.Removed)))
	}
	if len(d.Moved) > 0 {
		parts = append(parts, fmt.Sprintf("%d moved", len(d.Moved)))
	}
	if len(d.Rescored) > 0 {
		parts = append(parts, fmt.Sprintf("%d rescored", len(d.Rescored)))
	}
	return strings.Join(parts, ", ")
}

const scoreEpsilon = 1e-9

// Diff compares two congress loads.
func Diff(a, b Congress) SourceDiff {
	idsA, idsB := a.MemberIDs(), b.MemberIDs()
	d := SourceDiff{CountA: len(idsA), CountB: len(idsB)}

	inB := make(map[string]bool, len(idsB))
	for _, id := range idsB {
		inB[id] = true
	}

	for _, id := range idsA {
		if !inB[id] {
			d.Removed = append(d.Removed, id)
			continue
		}
		delete(inB, id)

		ma, _ := a.Member(id)
		mb, _ := b.Member(id)
		if before, after := seatLabel(ma), seatLabel(mb); before != after {
			d.Moved = append(d.Moved, MemberDifference{ID: id, Before: before, After: after})
		}

		sa, okA := a.MemberAgreementPercent(id)
		sb, okB := b.MemberAgreementPercent(id)
		if okA != okB || math.Abs(sa-sb) > scoreEpsilon {
			d.Rescored = append(d.Rescored, id)
		}
	}
	for id := range inB {
		d.Added = append(d.Added, id)
	}
	sort.Strings(d.Added)
	return d
}

func seatLabel(m congress.Legislator) string {
	return fmt.Sprintf("%s-%s", m.Party, m.State)
}
