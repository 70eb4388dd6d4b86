package mapcolor

import (
	"image/color"
	"math"
	"testing"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"pgregory.net/rapid"
)

func newCongress(members map[string]congress.Legislator, member, state map[string]float64) *congress.Congress {
	return congress.New(congress.Data{
		Members:         members,
		MemberAgreement: member,
		StateAgreement:  state,
	})
}

func TestCMYK_RGB_PartyHues(t *testing.T) {
	tests := []struct {
		name string
		in   CMYK
		want string
	}{
		{"white", CMYK{}, "#ffffff"},
		{"republican", RepublicanCMYK, "#db133b"},
		{"democrat", DemocratCMYK, "#1e8eff"},
		{"independent", IndependentCMYK, "#ffd600"},
		{"black", CMYK{K: 1}, "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hex(tt.in.RGB()); got != tt.want {
				t.Errorf("RGB() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCMYK_RGB_NoBlackOffset(t *testing.T) {
	// K only darkens; no K*255 term is added back to any channel.
	got := CMYK{C: 1, M: 1, Y: 1, K: 0.5}.RGB()
	if got != (color.RGBA{A: 0xff}) {
		t.Errorf("full chroma with half key = %v, want black", got)
	}
}

func TestStateColor_EmptyDelegationIsWhite(t *testing.T) {
	c := newCongress(
		map[string]congress.Legislator{"A": {Party: "R", State: "AL"}},
		map[string]float64{"A": 1},
		map[string]float64{"AL": 1, "WY": 1},
	)
	if got := StateColor(c, "WY"); got != White {
		t.Errorf("state without delegation = %s, want white", Hex(got))
	}
	if got := StateColor(c, "ZZ"); got != White {
		t.Errorf("unknown state = %s, want white", Hex(got))
	}
}

func TestStateColor_AllSelectedIsWhite(t *testing.T) {
	c := newCongress(
		map[string]congress.Legislator{
			"A": {Party: "R", State: "AL"},
			"B": {Party: "D", State: "AL"},
		},
		map[string]float64{"A": 1, "B": 1},
		map[string]float64{"AL": 1},
	)
	c.AddMember("A", "B")
	if got := StateColor(c, "AL"); got != White {
		t.Errorf("fully selected delegation = %s, want white", Hex(got))
	}
}

func TestStateColor_SingleRepublican(t *testing.T) {
	c := newCongress(
		map[string]congress.Legislator{"A": {Party: "R", State: "AL"}},
		map[string]float64{"A": 1},
		map[string]float64{"AL": 1},
	)
	got := StateColor(c, "AL")
	want := RepublicanCMYK.RGB()
	if got != want {
		t.Errorf("StateColor = %s, want %s", Hex(got), Hex(want))
	}
	if got.R != 219 || got.G != 19 || got.B != 59 {
		t.Errorf("StateColor = %v, want (219,19,59)", got)
	}
}

func TestStateColor_MixedDelegationHalfSaturation(t *testing.T) {
	c := newCongress(
		map[string]congress.Legislator{
			"R1": {Party: "R", State: "PA"},
			"D1": {Party: "D", State: "PA"},
		},
		map[string]float64{"R1": 1, "D1": 0},
		map[string]float64{"PA": 0.5},
	)

	share := AgreementShare(c, "PA")
	if share != (Share{R: 1}) {
		t.Fatalf("AgreementShare = %+v, want R:1", share)
	}
	got := StateColorHex(c, "PA")
	if got != "#ed8196" {
		t.Errorf("StateColorHex = %s, want #ed8196", got)
	}
	if want := Blend(0.5, Share{R: 1}).RGB(); Hex(want) != got {
		t.Errorf("Blend(0.5, R) = %s, want %s", Hex(want), got)
	}
}

func TestStateColor_MissingScoresDegradeToWhite(t *testing.T) {
	c := newCongress(
		map[string]congress.Legislator{"A": {Party: "D", State: "VT"}},
		nil,
		map[string]float64{"VT": 1},
	)
	if got := StateColor(c, "VT"); got != White {
		t.Errorf("missing member scores = %s, want white", Hex(got))
	}
}

func TestStateColor_ThreeMemberDelegation(t *testing.T) {
	c := newCongress(
		map[string]congress.Legislator{
			"A": {Party: "R", State: "XX"},
			"B": {Party: "D", State: "XX"},
			"C": {Party: "Green", State: "XX"},
		},
		map[string]float64{"A": 0.5, "B": 0.25, "C": 0.25},
		map[string]float64{"XX": 1},
	)
	share := AgreementShare(c, "XX")
	if math.Abs(share.R-0.5) > 1e-12 || math.Abs(share.D-0.25) > 1e-12 || math.Abs(share.I-0.25) > 1e-12 {
		t.Errorf("AgreementShare = %+v", share)
	}
}

func TestShare_Of(t *testing.T) {
	s := Share{R: 0.2, D: 0.3, I: 0.5}
	if s.Of(congress.Republican) != 0.2 || s.Of(congress.Democrat) != 0.3 || s.Of(congress.Independent) != 0.5 {
		t.Errorf("Of returned wrong components for %+v", s)
	}
}

func TestPartyCMYK(t *testing.T) {
	if PartyCMYK(congress.Republican) != RepublicanCMYK ||
		PartyCMYK(congress.Democrat) != DemocratCMYK ||
		PartyCMYK(congress.Independent) != IndependentCMYK {
		t.Error("PartyCMYK mismatch")
	}
}

func TestBlend_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sat := rapid.Float64Range(0, 1).Draw(t, "sat")
		r := rapid.Float64Range(0, 1).Draw(t, "r")
		d := rapid.Float64Range(0, 1).Draw(t, "d")
		i := rapid.Float64Range(0, 1).Draw(t, "i")

		var share Share
		if sum := r + d + i; sum > 0 {
			share = Share{R: r / sum, D: d / sum, I: i / sum}
		}
		out := Blend(sat, share)
		for _, v := range []float64{out.C, out.M, out.Y, out.K} {
			if v < 0 || v > 1+1e-12 {
				t.Fatalf("component out of range: %+v", out)
			}
		}
		if Blend(0, share).RGB() != White {
			t.Fatalf("zero saturation must be white")
		}
		if Blend(sat, Share{}).RGB() != White {
			t.Fatalf("zero share must be white")
		}
	})
}

func TestAgreementShare_SumsToOneOrZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 5).Draw(t, "n")
		members := make(map[string]congress.Legislator, n)
		scores := make(map[string]float64, n)
		var selected []string
		for k := 0; k < n; k++ {
			id := string(rune('A' + k))
			party := rapid.SampledFrom([]string{"R", "D", "I"}).Draw(t, "party")
			members[id] = congress.Legislator{Party: congress.Party(party), State: "ST"}
			if rapid.Bool().Draw(t, "scored") {
				scores[id] = rapid.Float64Range(0, 1).Draw(t, "score")
			}
			if rapid.Bool().Draw(t, "selected") {
				selected = append(selected, id)
			}
		}
		c := newCongress(members, scores, map[string]float64{"ST": 1})
		c.AddMember(selected...)

		sum := AgreementShare(c, "ST").Sum()
		if sum != 0 && math.Abs(sum-1) > 1e-9 {
			t.Fatalf("share sums to %v", sum)
		}
		if len(selected) == n && sum != 0 {
			t.Fatalf("fully selected delegation has nonzero share %v", sum)
		}
	})
}
