// Package render draws a map view as a static SVG or PNG snapshot.
//
// Shapes are drawn in the view's draw order inside a group translated by the
// top/left margins, so selected states land on top exactly as they do on an
// interactive surface.
package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/mapcolor"
	"github.com/vanderheijden86/congressmap/pkg/mapview"
	"github.com/vanderheijden86/congressmap/pkg/metrics"
)

// Options controls what goes on the snapshot besides the states.
type Options struct {
	Title   string // optional caption, top-left
	Legend  bool   // party hue legend, top-right
	Tooltip bool   // draw the view's tooltip when visible
}

// DefaultOptions draws the legend and the tooltip.
func DefaultOptions() Options {
	return Options{Legend: true, Tooltip: true}
}

// Format returns the snapshot format for a path: "svg" or "png". Unknown
// extensions return "".
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "svg"
	case ".png":
		return "png"
	default:
		return ""
	}
}

// Save renders the view to path. An empty format is inferred from the
// extension.
func Save(path, format string, v *mapview.View, opts Options) error {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		format = Format(path)
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	write := SVG
	if format == "png" {
		write = PNG
	}
	if err := write(f, v, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var (
	colorStroke  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorText    = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorLight   = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorLegend  = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorOutline = color.RGBA{0x99, 0x99, 0x99, 0xff}
	colorTipBG   = color.RGBA{0x33, 0x33, 0x33, 0xe6}
)

// legendEntry is one row of the legend.
type legendEntry struct {
	Label string
	Mark  string
	Fill  color.RGBA
}

func legendEntries() []legendEntry {
	entries := make([]legendEntry, 0, 4)
	for _, p := range congress.Parties() {
		entries = append(entries, legendEntry{
			Label: partyLabel(p),
			Mark:  string(p),
			Fill:  mapcolor.PartyCMYK(p).RGB(),
		})
	}
	return append(entries, legendEntry{Label: "No agreement", Fill: mapcolor.White})
}

func partyLabel(p congress.Party) string {
	switch p {
	case congress.Republican:
		return "Republican"
	case congress.Democrat:
		return "Democrat"
	default:
		return "Independent"
	}
}

// TextColor picks dark or light text for legibility on bg, by HCL lightness.
func TextColor(bg color.RGBA) color.RGBA {
	c, ok := colorful.MakeColor(bg)
	if !ok {
		return colorText
	}
	_, _, l := c.Hcl()
	if l > 0.6 {
		return colorText
	}
	return colorLight
}

// --- svg -------------------------------------------------------------------

// SVG writes the view as a scalable SVG document whose viewBox is the outer
// surface, anchored top-left.
func SVG(w io.Writer, v *mapview.View, opts Options) error {
	defer metrics.Timer(metrics.RenderSVG)()

	o := v.Options()
	outerW, outerH := o.OuterWidth(), o.OuterHeight()

	canvas := svg.New(w)
	canvas.Startraw(
		fmt.Sprintf(` viewBox="0 0 %s %s"`, num(outerW), num(outerH)),
		` preserveAspectRatio="xMinYMin meet"`,
	)
	canvas.Style("text/css", stateCSS(o))
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", num(o.MarginLeft), num(o.MarginTop)))
	for _, s := range v.Shapes() {
		if s.Path == "" {
			continue
		}
		style := "fill:" + s.FillHex()
		if s.Opacity < 1 {
			style += ";fill-opacity:" + num(s.Opacity)
		}
		canvas.Path(s.Path,
			fmt.Sprintf(`class="%s"`, s.Class),
			fmt.Sprintf(`data-state="%s"`, xmlAttr(s.Name)),
			style,
		)
	}
	canvas.Gend()

	if opts.Title != "" {
		canvas.Text(12, 20, opts.Title, fmt.Sprintf("fill:%s;font-size:14px;font-family:sans-serif;font-weight:bold", mapcolor.Hex(colorText)))
	}
	if opts.Legend {
		legendSVG(canvas, int(outerW))
	}
	if opts.Tooltip {
		if tip, ok := visibleTooltip(v); ok {
			tooltipSVG(canvas, tip)
		}
	}

	canvas.End()
	return nil
}

func stateCSS(o mapview.Options) string {
	return fmt.Sprintf(`
path { stroke: %s; stroke-width: 0.75; transition: fill %dms, fill-opacity %dms; }
path.%s { stroke: %s; stroke-width: 1.5; }
`,
		mapcolor.Hex(colorStroke), o.FillDuration.Milliseconds(), o.HoverDuration.Milliseconds(),
		mapview.SelectionState, mapcolor.Hex(colorText))
}

func legendSVG(canvas *svg.SVG, outerW int) {
	entries := legendEntries()
	boxW, rowH := 150, 18
	boxH := 28 + rowH*len(entries)
	x := outerW - boxW - 12
	y := 12

	canvas.Gid("legend")
	canvas.Roundrect(x, y, boxW, boxH, 8, 8, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", mapcolor.Hex(colorLegend), mapcolor.Hex(colorOutline)))
	canvas.Text(x+10, y+18, "Agreement", fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif;font-weight:bold", mapcolor.Hex(colorText)))
	for i, e := range entries {
		ry := y + 28 + i*rowH
		canvas.Rect(x+10, ry, 14, 14, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", mapcolor.Hex(e.Fill), mapcolor.Hex(colorOutline)))
		if e.Mark != "" {
			canvas.Text(x+17, ry+11, e.Mark, fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace;text-anchor:middle", mapcolor.Hex(TextColor(e.Fill))))
		}
		canvas.Text(x+30, ry+11, e.Label, fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif", mapcolor.Hex(colorText)))
	}
	canvas.Gend()
}

// visibleTooltip returns the view's tooltip moved from inner surface
// coordinates to the outer canvas, or false when nothing is shown.
func visibleTooltip(v *mapview.View) (mapview.Tooltip, bool) {
	tip := v.Tooltip()
	if tip.Hidden || len(tip.Lines) == 0 {
		return tip, false
	}
	o := v.Options()
	tip.Left += o.MarginLeft
	tip.Top += o.MarginTop
	return tip, true
}

func tooltipSVG(canvas *svg.SVG, tip mapview.Tooltip) {
	lineH := 14
	w := 16
	for _, l := range tip.Lines {
		if n := 7*len(l) + 16; n > w {
			w = n
		}
	}
	h := lineH*len(tip.Lines) + 10
	x, y := int(tip.Left), int(tip.Top)

	canvas.Gid("tooltip")
	canvas.Rect(x, y, w, h, fmt.Sprintf("fill:%s;fill-opacity:0.9", mapcolor.Hex(colorTipBG)))
	for i, l := range tip.Lines {
		canvas.Text(x+8, y+16+i*lineH, l, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", mapcolor.Hex(colorLight)))
	}
	canvas.Gend()
}

// --- png -------------------------------------------------------------------

// PNG rasterizes the view at one pixel per surface unit.
func PNG(w io.Writer, v *mapview.View, opts Options) error {
	defer metrics.Timer(metrics.RenderPNG)()

	o := v.Options()
	width, height := int(o.OuterWidth()), int(o.OuterHeight())
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(colorLight)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.Push()
	dc.Translate(o.MarginLeft, o.MarginTop)
	dc.SetFillRuleEvenOdd()
	for _, s := range v.Shapes() {
		if len(s.Rings) == 0 {
			continue
		}
		traceRings(dc, s)
		dc.SetColor(color.NRGBA{R: s.Fill.R, G: s.Fill.G, B: s.Fill.B, A: uint8(255 * s.Opacity)})
		dc.FillPreserve()

		dc.SetColor(colorStroke)
		dc.SetLineWidth(0.75)
		if s.Class == mapview.SelectionState {
			dc.SetColor(colorText)
			dc.SetLineWidth(1.5)
		}
		dc.Stroke()
	}
	dc.Pop()

	if opts.Title != "" {
		dc.SetColor(colorText)
		dc.DrawStringAnchored(opts.Title, 12, 16, 0, 0.5)
	}
	if opts.Legend {
		legendPNG(dc, float64(width))
	}
	if opts.Tooltip {
		if tip, ok := visibleTooltip(v); ok {
			tooltipPNG(dc, tip)
		}
	}

	return dc.EncodePNG(w)
}

func traceRings(dc *gg.Context, s *mapview.Shape) {
	dc.NewSubPath()
	for _, r := range s.Rings {
		for i, p := range r {
			if i == 0 {
				dc.MoveTo(p[0], p[1])
				continue
			}
			dc.LineTo(p[0], p[1])
		}
		dc.ClosePath()
	}
}

func legendPNG(dc *gg.Context, outerW float64) {
	entries := legendEntries()
	boxW, rowH := 150.0, 18.0
	boxH := 28 + rowH*float64(len(entries))
	x := outerW - boxW - 12
	y := 12.0

	dc.SetColor(colorLegend)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 8)
	dc.Fill()
	dc.SetColor(colorOutline)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 8)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Agreement", x+10, y+14, 0, 0.5)
	for i, e := range entries {
		ry := y + 28 + float64(i)*rowH
		dc.SetColor(e.Fill)
		dc.DrawRectangle(x+10, ry, 14, 14)
		dc.Fill()
		dc.SetColor(colorOutline)
		dc.DrawRectangle(x+10, ry, 14, 14)
		dc.Stroke()
		if e.Mark != "" {
			dc.SetColor(TextColor(e.Fill))
			dc.DrawStringAnchored(e.Mark, x+17, ry+7, 0.5, 0.5)
		}
		dc.SetColor(colorText)
		dc.DrawStringAnchored(e.Label, x+30, ry+7, 0, 0.5)
	}
}

func tooltipPNG(dc *gg.Context, tip mapview.Tooltip) {
	lineH := 14.0
	w := 16.0
	for _, l := range tip.Lines {
		if lw, _ := dc.MeasureString(l); lw+16 > w {
			w = lw + 16
		}
	}
	h := lineH*float64(len(tip.Lines)) + 10

	dc.SetColor(colorTipBG)
	dc.DrawRectangle(tip.Left, tip.Top, w, h)
	dc.Fill()
	dc.SetColor(colorLight)
	for i, l := range tip.Lines {
		dc.DrawStringAnchored(l, tip.Left+8, tip.Top+12+float64(i)*lineH, 0, 0.5)
	}
}

// --- helpers ---------------------------------------------------------------

func num(v float64) string {
	return fmt.Sprintf("%g", v)
}

func xmlAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}
