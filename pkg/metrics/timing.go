// Package metrics records how long the map's hot paths take: color
// computation, view updates, data loading and rendering. Samples are kept
// in memory with atomic counters. CMAP_METRICS=0 turns collection off.
//
//	defer metrics.Timer(metrics.ViewUpdate)()
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("CMAP_METRICS") != "0")
}

// Enabled reports whether samples are being recorded.
func Enabled() bool { return enabled.Load() }

// SetEnabled turns collection on or off.
func SetEnabled(e bool) { enabled.Store(e) }

// Timing accumulates samples for one operation. It is safe for concurrent
// use; the geography and congress loads record from separate goroutines.
type Timing struct {
	name  string
	count atomic.Int64
	total atomic.Int64 // ns
	max   atomic.Int64 // ns
	min   atomic.Int64 // ns, 0 until the first sample
}

// Record adds one sample.
func (t *Timing) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	t.count.Add(1)
	t.total.Add(ns)
	for cur := t.max.Load(); ns > cur; cur = t.max.Load() {
		if t.max.CompareAndSwap(cur, ns) {
			break
		}
	}
	for cur := t.min.Load(); cur == 0 || ns < cur; cur = t.min.Load() {
		if t.min.CompareAndSwap(cur, ns) {
			break
		}
	}
}

// Stats is a point-in-time summary of a Timing, in milliseconds.
type Stats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Stats summarizes the samples recorded so far.
func (t *Timing) Stats() Stats {
	n, total := t.count.Load(), t.total.Load()
	s := Stats{
		Name:    t.name,
		Count:   n,
		TotalMs: ms(total),
		MaxMs:   ms(t.max.Load()),
		MinMs:   ms(t.min.Load()),
	}
	if n > 0 {
		s.AvgMs = ms(total / n)
	}
	return s
}

// Reset drops all samples.
func (t *Timing) Reset() {
	t.count.Store(0)
	t.total.Store(0)
	t.max.Store(0)
	t.min.Store(0)
}

func ms(ns int64) float64 { return float64(ns) / 1e6 }

// Timer starts timing t and returns the function that stops it.
func Timer(t *Timing) func() {
	if t == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() { t.Record(time.Since(start)) }
}

var registry []*Timing

func register(name string) *Timing {
	t := &Timing{name: name}
	registry = append(registry, t)
	return t
}

// Timed operations, reported in this order.
var (
	ColorCompute  = register("color_compute")
	ViewUpdate    = register("view_update")
	GeoLoad       = register("geo_load")
	CongressLoad  = register("congress_load")
	RenderSVG     = register("render_svg")
	RenderPNG     = register("render_png")
	MinimapRaster = register("minimap_raster")
)

// ResetAll clears every registered timing.
func ResetAll() {
	for _, t := range registry {
		t.Reset()
	}
}

// AllTimingStats returns stats for the timings that have samples.
func AllTimingStats() []Stats {
	out := make([]Stats, 0, len(registry))
	for _, t := range registry {
		if t.count.Load() > 0 {
			out = append(out, t.Stats())
		}
	}
	return out
}
