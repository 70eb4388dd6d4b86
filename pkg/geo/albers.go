package geo

import "math"

const radians = math.Pi / 180

// Projection maps longitude/latitude in degrees to surface coordinates.
// ok is false when the point falls outside the projection's domain.
type Projection interface {
	Project(lon, lat float64) (x, y float64, ok bool)
}

// ConicEqualArea is an Albers equal-area conic projection with a longitude
// rotation, a projected center, a scale and a translation.
type ConicEqualArea struct {
	n, c, rho0 float64
	rotate     float64 // radians added to longitude
	scale      float64
	dx, dy     float64

	centerLon, centerLat float64 // radians
	tx, ty               float64
}

// NewConicEqualArea returns a projection with standard parallels phi0 and
// phi1 (degrees), rotated by rotate degrees of longitude and centered on
// (centerLon, centerLat) in the already-rotated frame.
func NewConicEqualArea(phi0, phi1, rotate, centerLon, centerLat float64) *ConicEqualArea {
	s0 := math.Sin(phi0 * radians)
	n := (s0 + math.Sin(phi1*radians)) / 2
	c := 1 + s0*(2*n-s0)
	p := &ConicEqualArea{
		n:         n,
		c:         c,
		rho0:      math.Sqrt(c) / n,
		rotate:    rotate * radians,
		scale:     150,
		centerLon: centerLon * radians,
		centerLat: centerLat * radians,
		tx:        480,
		ty:        250,
	}
	p.reset()
	return p
}

// Scale sets the scale factor.
func (p *ConicEqualArea) Scale(k float64) *ConicEqualArea {
	p.scale = k
	p.reset()
	return p
}

// Translate sets the surface position of the projection center.
func (p *ConicEqualArea) Translate(x, y float64) *ConicEqualArea {
	p.tx, p.ty = x, y
	p.reset()
	return p
}

func (p *ConicEqualArea) reset() {
	cx, cy := p.raw(p.centerLon, p.centerLat)
	p.dx = p.tx - cx*p.scale
	p.dy = p.ty + cy*p.scale
}

func (p *ConicEqualArea) raw(lambda, phi float64) (float64, float64) {
	rho := math.Sqrt(p.c-2*p.n*math.Sin(phi)) / p.n
	lambda *= p.n
	return rho * math.Sin(lambda), p.rho0 - rho*math.Cos(lambda)
}

// Project implements Projection.
func (p *ConicEqualArea) Project(lon, lat float64) (float64, float64, bool) {
	lambda := lon*radians + p.rotate
	switch {
	case lambda > math.Pi:
		lambda -= 2 * math.Pi
	case lambda < -math.Pi:
		lambda += 2 * math.Pi
	}
	x, y := p.raw(lambda, lat*radians)
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	return x*p.scale + p.dx, p.dy - y*p.scale, true
}

type extent struct {
	x0, y0, x1, y1 float64
}

func (e extent) contains(x, y float64) bool {
	return x >= e.x0 && x <= e.x1 && y >= e.y0 && y <= e.y1
}

// AlbersUSA is the composite projection of the lower 48 states with Alaska
// and Hawaii inset in the lower left.
type AlbersUSA struct {
	lower48, alaska, hawaii *ConicEqualArea
	lower48Ext, alaskaExt   extent
	hawaiiExt               extent
}

// NewAlbersUSA builds the composite projection at scale k centered on (x, y).
func NewAlbersUSA(k, x, y float64) *AlbersUSA {
	p := &AlbersUSA{
		lower48: NewConicEqualArea(29.5, 45.5, 96, -0.6, 38.7),
		alaska:  NewConicEqualArea(55, 65, 154, -2, 58.5),
		hawaii:  NewConicEqualArea(8, 18, 157, -3, 19.9),
	}
	p.lower48.Scale(k).Translate(x, y)
	p.alaska.Scale(k*.35).Translate(x-.307*k, y+.201*k)
	p.hawaii.Scale(k).Translate(x-.205*k, y+.212*k)

	const eps = 1e-6
	p.lower48Ext = extent{x - .455*k, y - .238*k, x + .455*k, y + .238*k}
	p.alaskaExt = extent{x - .425*k + eps, y + .120*k + eps, x - .214*k - eps, y + .234*k - eps}
	p.hawaiiExt = extent{x - .214*k + eps, y + .166*k + eps, x - .115*k - eps, y + .234*k - eps}
	return p
}

// Project implements Projection. The lower 48 are tried first, then the
// Alaska and Hawaii insets; a point that lands in none of the three panels
// is outside the domain.
func (p *AlbersUSA) Project(lon, lat float64) (float64, float64, bool) {
	if sub := p.pick(lon, lat); sub != nil {
		return sub.Project(lon, lat)
	}
	return 0, 0, false
}

func (p *AlbersUSA) pick(lon, lat float64) *ConicEqualArea {
	if x, y, ok := p.lower48.Project(lon, lat); ok && p.lower48Ext.contains(x, y) {
		return p.lower48
	}
	if x, y, ok := p.alaska.Project(lon, lat); ok && p.alaskaExt.contains(x, y) {
		return p.alaska
	}
	if x, y, ok := p.hawaii.Project(lon, lat); ok && p.hawaiiExt.contains(x, y) {
		return p.hawaii
	}
	return nil
}

// ForRing returns the panel projection used for a whole ring, chosen by the
// first vertex that falls inside any panel. Projecting a ring with a single
// panel keeps it closed even when some vertices stray past the panel edge.
func (p *AlbersUSA) ForRing(r Ring) Projection {
	for _, pt := range r {
		if sub := p.pick(pt[0], pt[1]); sub != nil {
			return sub
		}
	}
	return nil
}
