package geo

import (
	"math"
	"strconv"
	"strings"
)

// RingProjector picks the projection for a ring. AlbersUSA implements it so
// inset rings are projected whole by their own panel.
type RingProjector interface {
	ForRing(r Ring) Projection
}

// ProjectGeometry projects every ring of g. Rings with fewer than three
// projectable vertices are dropped.
func ProjectGeometry(g Geometry, proj Projection) []Ring {
	var out []Ring
	for _, poly := range g.Polygons {
		for _, ring := range poly {
			p := proj
			if rp, ok := proj.(RingProjector); ok {
				if p = rp.ForRing(ring); p == nil {
					continue
				}
			}
			projected := make(Ring, 0, len(ring))
			for _, pt := range ring {
				x, y, ok := p.Project(pt[0], pt[1])
				if !ok {
					continue
				}
				projected = append(projected, Point{x, y})
			}
			if len(projected) < 3 {
				continue
			}
			out = append(out, projected)
		}
	}
	return out
}

// PathData formats projected rings as an SVG path "d" attribute.
func PathData(rings []Ring) string {
	var b strings.Builder
	for _, r := range rings {
		for i, pt := range r {
			if i == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			b.WriteString(formatCoord(pt[0]))
			b.WriteByte(',')
			b.WriteString(formatCoord(pt[1]))
		}
		b.WriteByte('Z')
	}
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// Bounds is an axis-aligned box in surface coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty reports whether the box contains no points.
func (b Bounds) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Contains reports whether (x, y) lies inside the box.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// RingBounds returns the bounding box of the rings.
func RingBounds(rings []Ring) Bounds {
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, r := range rings {
		for _, pt := range r {
			b.MinX = math.Min(b.MinX, pt[0])
			b.MinY = math.Min(b.MinY, pt[1])
			b.MaxX = math.Max(b.MaxX, pt[0])
			b.MaxY = math.Max(b.MaxY, pt[1])
		}
	}
	return b
}

// Contains reports whether (x, y) is inside the rings under the even-odd
// rule, which treats holes and multi-part shapes the way SVG fills them.
func Contains(rings []Ring, x, y float64) bool {
	inside := false
	for _, r := range rings {
		n := len(r)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			xi, yi := r[i][0], r[i][1]
			xj, yj := r[j][0], r[j][1]
			if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
				inside = !inside
			}
		}
	}
	return inside
}
