package congress

import (
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Position is a recorded vote on a roll call.
type Position string

const (
	Yea       Position = "Yea"
	Nay       Position = "Nay"
	NotVoting Position = "Not Voting"
)

// ParsePosition normalizes the common spellings of a vote.
func ParsePosition(s string) Position {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yea", "aye", "yes", "y":
		return Yea
	case "nay", "no", "n":
		return Nay
	default:
		return NotVoting
	}
}

// Counts reports whether the position takes a side.
func (p Position) Counts() bool {
	return p == Yea || p == Nay
}

// HasVotes reports whether roll-call records are loaded.
func (c *Congress) HasVotes() bool {
	return len(c.votes) > 0
}

// RecomputeAgreement refreshes member and state agreement from roll-call
// records against the current selection.
//
// A member's agreement is the fraction of roll calls, among those where the
// selection has a majority position and the member took a side, on which the
// member voted with that majority. A state's agreement is the mean of its
// delegation's member agreement. Members without any comparable vote have no
// agreement entry.
//
// Without vote records, or with an empty selection, the supplied baseline
// values are restored.
func (c *Congress) RecomputeAgreement() {
	if len(c.votes) == 0 || len(c.selected) == 0 {
		c.restoreBaseline()
		return
	}

	majority := c.selectionMajority()

	member := make(map[string]float64, len(c.members))
	for _, id := range c.memberIDs {
		rolls := c.votes[id]
		var agree, total float64
		for rc, pos := range majority {
			v, ok := rolls[rc]
			if !ok || !v.Counts() {
				continue
			}
			total++
			if v == pos {
				agree++
			}
		}
		if total == 0 {
			continue
		}
		member[id] = agree / total
	}

	state := make(map[string]float64, len(c.delegations))
	for st, ids := range c.delegations {
		vals := make([]float64, 0, len(ids))
		for _, id := range ids {
			if v, ok := member[id]; ok {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		state[st] = stat.Mean(vals, nil)
	}

	c.memberAgreement = member
	c.stateAgreement = state
}

// selectionMajority returns, per roll call, the side most selected members
// took. Ties have no majority.
func (c *Congress) selectionMajority() map[string]Position {
	yea := make(map[string]int)
	nay := make(map[string]int)
	for _, id := range c.selectedOrder {
		for rc, p := range c.votes[id] {
			switch p {
			case Yea:
				yea[rc]++
			case Nay:
				nay[rc]++
			}
		}
	}

	out := make(map[string]Position, len(yea)+len(nay))
	for rc, n := range yea {
		if n > nay[rc] {
			out[rc] = Yea
		}
	}
	for rc, n := range nay {
		if n > yea[rc] {
			out[rc] = Nay
		}
	}
	return out
}

func (c *Congress) restoreBaseline() {
	c.memberAgreement = make(map[string]float64, len(c.baseMember))
	for id, v := range c.baseMember {
		c.memberAgreement[id] = v
	}
	c.stateAgreement = make(map[string]float64, len(c.baseState))
	for st, v := range c.baseState {
		c.stateAgreement[st] = v
	}
}
