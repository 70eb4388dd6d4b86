// Package mapcolor turns a state's delegation into a display color.
//
// Hue is a subtractive (CMYK) blend of party colors weighted by how much of
// the state's nonselected delegation agrees with the selection; intensity is
// the state's aggregate agreement. A state with no agreeing members renders
// white.
package mapcolor

import (
	"fmt"
	"image/color"
	"math"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/metrics"
)

// Context is the read-only view of the congress model the computation needs.
type Context interface {
	StateAgreementPercent(state string) (float64, bool)
	Delegation(state string) ([]string, bool)
	IsNonSelected(id string) bool
	Member(id string) (congress.Legislator, bool)
	MemberAgreementPercent(id string) (float64, bool)
}

// CMYK is a subtractive color with components in [0,1].
type CMYK struct {
	C, M, Y, K float64
}

// Party weights, calibrated by hand to crimson, dodgerblue and gold.
var (
	RepublicanCMYK  = CMYK{C: 0, M: .91, Y: .73, K: .14}
	DemocratCMYK    = CMYK{C: .88, M: .44, Y: 0, K: 0}
	IndependentCMYK = CMYK{C: 0, M: .16, Y: 1, K: 0}
)

// White is the color of a state with no agreeing delegation.
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// PartyCMYK returns the fixed weight for a party category.
func PartyCMYK(p congress.Party) CMYK {
	switch p {
	case congress.Republican:
		return RepublicanCMYK
	case congress.Democrat:
		return DemocratCMYK
	default:
		return IndependentCMYK
	}
}

// RGB converts to an additive color. Each channel is
// 255 * (1 - chroma) * (1 - K), truncated toward zero.
func (c CMYK) RGB() color.RGBA {
	k := 1 - c.K
	return color.RGBA{
		R: channel(255 * (1 - c.C) * k),
		G: channel(255 * (1 - c.M) * k),
		B: channel(255 * (1 - c.Y) * k),
		A: 0xff,
	}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Trunc(v))
}

// Share is the per-party distribution of agreement among a state's
// nonselected members. It sums to 1, or is all zero.
type Share struct {
	R, D, I float64
}

// Of returns the share for a party category.
func (s Share) Of(p congress.Party) float64 {
	switch p {
	case congress.Republican:
		return s.R
	case congress.Democrat:
		return s.D
	default:
		return s.I
	}
}

// Sum returns R + D + I.
func (s Share) Sum() float64 {
	return s.R + s.D + s.I
}

// AgreementShare sums member agreement per party over the nonselected part
// of a state's delegation and normalizes it. Missing delegations, members or
// scores contribute nothing.
func AgreementShare(ctx Context, state string) Share {
	var acc Share
	ids, ok := ctx.Delegation(state)
	if !ok {
		return acc
	}
	for _, id := range ids {
		if !ctx.IsNonSelected(id) {
			continue
		}
		m, ok := ctx.Member(id)
		if !ok {
			continue
		}
		score, _ := ctx.MemberAgreementPercent(id)
		switch m.Party {
		case congress.Republican:
			acc.R += score
		case congress.Democrat:
			acc.D += score
		default:
			acc.I += score
		}
	}

	total := acc.Sum()
	if total == 0 {
		return Share{}
	}
	return Share{R: acc.R / total, D: acc.D / total, I: acc.I / total}
}

// Blend mixes the party weights by share and scales the result by sat.
func Blend(sat float64, share Share) CMYK {
	r, d, i := RepublicanCMYK, DemocratCMYK, IndependentCMYK
	return CMYK{
		C: sat * (r.C*share.R + d.C*share.D + i.C*share.I),
		M: sat * (r.M*share.R + d.M*share.D + i.M*share.I),
		Y: sat * (r.Y*share.R + d.Y*share.D + i.Y*share.I),
		K: sat * (r.K*share.R + d.K*share.D + i.K*share.I),
	}
}

// StateColor computes the display color for a state abbreviation.
func StateColor(ctx Context, state string) color.RGBA {
	defer metrics.Timer(metrics.ColorCompute)()

	sat, _ := ctx.StateAgreementPercent(state)
	return Blend(sat, AgreementShare(ctx, state)).RGB()
}

// StateColorHex is StateColor formatted as "#rrggbb".
func StateColorHex(ctx Context, state string) string {
	return Hex(StateColor(ctx, state))
}

// Hex formats a color as a CSS hex string.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
