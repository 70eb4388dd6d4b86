package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vanderheijden86/congressmap/pkg/mapview"
	"github.com/vanderheijden86/congressmap/pkg/metrics"
)

// Cell is one terminal cell of the minimap. Each cell shows two map samples
// stacked with a half block; an empty color means no state there.
type Cell struct {
	Top, Bottom      string
	TopName, BotName string
}

var paper = colorful.Color{R: 1, G: 1, B: 1}

// Rasterize samples the view's inner surface on a cols x 2*rows grid and
// returns the shape colors, faded for shapes under the pointer the way the
// map fades them on hover.
func Rasterize(v *mapview.View, cols, rows int) [][]Cell {
	defer metrics.Timer(metrics.MinimapRaster)()

	if cols <= 0 || rows <= 0 {
		return nil
	}
	opts := v.Options()
	dx := opts.Width / float64(cols)
	dy := opts.Height / float64(2*rows)

	sample := func(x, y float64) (string, string) {
		s, ok := v.ShapeAt(x, y)
		if !ok {
			return "", ""
		}
		c, _ := colorful.MakeColor(s.Fill)
		if s.Opacity < 1 {
			c = paper.BlendRgb(c, s.Opacity)
		}
		return c.Hex(), s.Name
	}

	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
		for c := range grid[r] {
			x := (float64(c) + 0.5) * dx
			cell := &grid[r][c]
			cell.Top, cell.TopName = sample(x, (float64(2*r)+0.5)*dy)
			cell.Bottom, cell.BotName = sample(x, (float64(2*r)+1.5)*dy)
		}
	}
	return grid
}

// RenderMinimap draws a rasterized grid with half blocks.
func RenderMinimap(r *lipgloss.Renderer, grid [][]Cell) string {
	var sb strings.Builder
	for i, row := range grid {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			switch {
			case cell.Top != "" && cell.Bottom != "":
				sb.WriteString(r.NewStyle().
					Foreground(lipgloss.Color(cell.Top)).
					Background(lipgloss.Color(cell.Bottom)).
					Render("▀"))
			case cell.Top != "":
				sb.WriteString(r.NewStyle().Foreground(lipgloss.Color(cell.Top)).Render("▀"))
			case cell.Bottom != "":
				sb.WriteString(r.NewStyle().Foreground(lipgloss.Color(cell.Bottom)).Render("▄"))
			default:
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}
