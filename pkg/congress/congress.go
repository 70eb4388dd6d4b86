// Package congress holds the legislator data model the map is bound to:
// members, state delegations, the user's selection, and per-member and
// per-state agreement with that selection.
//
// All lookups return (value, ok) so callers can substitute defaults for
// missing data instead of failing.
package congress

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnknownMember is returned when an operation names a legislator that is
// not part of the loaded data.
var ErrUnknownMember = errors.New("unknown member")

// Party is a legislator's party category.
type Party string

const (
	Republican  Party = "R"
	Democrat    Party = "D"
	Independent Party = "I"
)

// ParseParty normalizes a party label. Anything other than a Republican or
// Democratic label is treated as independent/other.
func ParseParty(s string) Party {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "R", "REP", "REPUBLICAN":
		return Republican
	case "D", "DEM", "DEMOCRAT", "DEMOCRATIC":
		return Democrat
	default:
		return Independent
	}
}

// Parties lists the party categories in display order.
func Parties() []Party {
	return []Party{Republican, Democrat, Independent}
}

// Legislator is a single member of congress.
type Legislator struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Party Party  `json:"party"`
	State string `json:"state"`
}

// Data is the serialized form of a congress model.
type Data struct {
	Members         map[string]Legislator          `json:"members"`
	Delegations     map[string][]string            `json:"delegations,omitempty"`
	StateFullAbbrev map[string]string              `json:"state_full_abbrev,omitempty"`
	MemberAgreement map[string]float64             `json:"member_agreement,omitempty"`
	StateAgreement  map[string]float64             `json:"state_agreement,omitempty"`
	Votes           map[string]map[string]Position `json:"votes,omitempty"`
	Selected        []string                       `json:"selected,omitempty"`
}

// Congress is the shared data context. It is not safe for concurrent use;
// the UI event loop owns it.
type Congress struct {
	members         map[string]Legislator
	memberIDs       []string
	delegations     map[string][]string
	stateFullAbbrev map[string]string

	memberAgreement map[string]float64
	stateAgreement  map[string]float64
	baseMember      map[string]float64
	baseState       map[string]float64

	votes map[string]map[string]Position

	selected      map[string]struct{}
	selectedOrder []string
}

// New builds a Congress from serialized data. Delegations are derived from
// member home states when the data carries none.
func New(d Data) *Congress {
	c := &Congress{
		members:         make(map[string]Legislator, len(d.Members)),
		delegations:     make(map[string][]string),
		stateFullAbbrev: make(map[string]string, len(d.StateFullAbbrev)),
		memberAgreement: make(map[string]float64, len(d.MemberAgreement)),
		stateAgreement:  make(map[string]float64, len(d.StateAgreement)),
		baseMember:      make(map[string]float64, len(d.MemberAgreement)),
		baseState:       make(map[string]float64, len(d.StateAgreement)),
		votes:           make(map[string]map[string]Position, len(d.Votes)),
		selected:        make(map[string]struct{}),
	}

	for id, m := range d.Members {
		m.ID = id
		m.Party = ParseParty(string(m.Party))
		m.State = strings.ToUpper(strings.TrimSpace(m.State))
		c.members[id] = m
		c.memberIDs = append(c.memberIDs, id)
	}
	sort.Strings(c.memberIDs)

	if len(d.Delegations) > 0 {
		for st, ids := range d.Delegations {
			c.delegations[strings.ToUpper(st)] = append([]string(nil), ids...)
		}
	} else {
		for _, id := range c.memberIDs {
			st := c.members[id].State
			if st == "" {
				continue
			}
			c.delegations[st] = append(c.delegations[st], id)
		}
	}

	for name, abbrev := range d.StateFullAbbrev {
		c.stateFullAbbrev[name] = strings.ToUpper(abbrev)
	}
	for id, v := range d.MemberAgreement {
		c.baseMember[id] = v
		c.memberAgreement[id] = v
	}
	for st, v := range d.StateAgreement {
		st = strings.ToUpper(st)
		c.baseState[st] = v
		c.stateAgreement[st] = v
	}
	for id, rolls := range d.Votes {
		norm := make(map[string]Position, len(rolls))
		for rc, p := range rolls {
			norm[rc] = ParsePosition(string(p))
		}
		c.votes[id] = norm
	}

	c.AddMember(d.Selected...)
	return c
}

// Member returns the legislator with the given id.
func (c *Congress) Member(id string) (Legislator, bool) {
	m, ok := c.members[id]
	return m, ok
}

// MemberIDs returns all legislator ids in sorted order.
func (c *Congress) MemberIDs() []string {
	return append([]string(nil), c.memberIDs...)
}

// Delegation returns the ordered delegation for a state abbreviation.
func (c *Congress) Delegation(state string) ([]string, bool) {
	ids, ok := c.delegations[strings.ToUpper(state)]
	return ids, ok
}

// States returns the abbreviations of all states with a recorded delegation.
func (c *Congress) States() []string {
	out := make([]string, 0, len(c.delegations))
	for st := range c.delegations {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// StateAbbrev maps a full state name (as used by geography features) to its
// two-letter abbreviation.
func (c *Congress) StateAbbrev(fullName string) (string, bool) {
	abbrev, ok := c.stateFullAbbrev[fullName]
	return abbrev, ok
}

// StateNames returns the full-name -> abbreviation table.
func (c *Congress) StateNames() map[string]string {
	out := make(map[string]string, len(c.stateFullAbbrev))
	for k, v := range c.stateFullAbbrev {
		out[k] = v
	}
	return out
}

// MemberAgreementPercent returns a member's agreement with the selection in [0,1].
func (c *Congress) MemberAgreementPercent(id string) (float64, bool) {
	v, ok := c.memberAgreement[id]
	return v, ok
}

// StateAgreementPercent returns the aggregate agreement of a state's
// delegation with the selection in [0,1].
func (c *Congress) StateAgreementPercent(state string) (float64, bool) {
	v, ok := c.stateAgreement[strings.ToUpper(state)]
	return v, ok
}

// BaselineMemberAgreement returns the member's supplied agreement score, the
// value shown when no selection drives a recompute.
func (c *Congress) BaselineMemberAgreement(id string) (float64, bool) {
	v, ok := c.baseMember[id]
	return v, ok
}

// BaselineStateAgreement returns the state's supplied agreement score.
func (c *Congress) BaselineStateAgreement(state string) (float64, bool) {
	v, ok := c.baseState[strings.ToUpper(state)]
	return v, ok
}

// Votes returns a copy of the roll-call records, or nil when none are loaded.
func (c *Congress) Votes() map[string]map[string]Position {
	if len(c.votes) == 0 {
		return nil
	}
	out := make(map[string]map[string]Position, len(c.votes))
	for id, rolls := range c.votes {
		cp := make(map[string]Position, len(rolls))
		for rc, p := range rolls {
			cp[rc] = p
		}
		out[id] = cp
	}
	return out
}

// IsSelected reports whether id is in the current selection.
func (c *Congress) IsSelected(id string) bool {
	_, ok := c.selected[id]
	return ok
}

// IsNonSelected reports whether id is a known member outside the selection.
func (c *Congress) IsNonSelected(id string) bool {
	if _, ok := c.members[id]; !ok {
		return false
	}
	return !c.IsSelected(id)
}

// SelectedMembers returns the selection in insertion order.
func (c *Congress) SelectedMembers() []string {
	return append([]string(nil), c.selectedOrder...)
}

// NonSelectedMembers returns every known member outside the selection, sorted.
func (c *Congress) NonSelectedMembers() []string {
	out := make([]string, 0, len(c.memberIDs))
	for _, id := range c.memberIDs {
		if !c.IsSelected(id) {
			out = append(out, id)
		}
	}
	return out
}

// ClearMembers empties the selection.
func (c *Congress) ClearMembers() {
	c.selected = make(map[string]struct{})
	c.selectedOrder = nil
}

// AddMember adds the given legislators to the selection. Unknown ids and ids
// already selected are skipped.
func (c *Congress) AddMember(ids ...string) {
	for _, id := range ids {
		if _, ok := c.members[id]; !ok {
			continue
		}
		if c.IsSelected(id) {
			continue
		}
		c.selected[id] = struct{}{}
		c.selectedOrder = append(c.selectedOrder, id)
	}
}

// RemoveMember drops a legislator from the selection.
func (c *Congress) RemoveMember(id string) error {
	if _, ok := c.members[id]; !ok {
		return ErrUnknownMember
	}
	if !c.IsSelected(id) {
		return nil
	}
	delete(c.selected, id)
	for i, sel := range c.selectedOrder {
		if sel == id {
			c.selectedOrder = append(c.selectedOrder[:i], c.selectedOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Snapshot serializes the model with its selection. Agreement values are
// the supplied baseline, not the scores recomputed for the selection, so a
// decoded snapshot recomputes to the same map.
func (c *Congress) Snapshot() Data {
	d := Data{
		Members:         make(map[string]Legislator, len(c.members)),
		Delegations:     make(map[string][]string, len(c.delegations)),
		StateFullAbbrev: c.StateNames(),
		MemberAgreement: make(map[string]float64, len(c.baseMember)),
		StateAgreement:  make(map[string]float64, len(c.baseState)),
		Votes:           c.Votes(),
		Selected:        c.SelectedMembers(),
	}
	for id, m := range c.members {
		d.Members[id] = m
	}
	for st, ids := range c.delegations {
		d.Delegations[st] = append([]string(nil), ids...)
	}
	for id, v := range c.baseMember {
		d.MemberAgreement[id] = v
	}
	for st, v := range c.baseState {
		d.StateAgreement[st] = v
	}
	return d
}
