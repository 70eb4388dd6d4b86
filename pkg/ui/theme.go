package ui

import (
	"image/color"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/congressmap/pkg/mapcolor"
	"github.com/vanderheijden86/congressmap/pkg/render"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Palette shared by every view, adaptive to light and dark terminals.
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}
	ColorHigh    = lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

// Theme holds the precomputed styles for one renderer.
type Theme struct {
	Renderer *lipgloss.Renderer

	Base      lipgloss.Style
	Header    lipgloss.Style
	Selected  lipgloss.Style
	Marker    lipgloss.Style
	MutedText lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Tooltip   lipgloss.Style
	Panel     lipgloss.Style
}

// DefaultTheme returns the standard adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{Renderer: r}

	t.Base = r.NewStyle().Foreground(ColorText)
	t.Header = r.NewStyle().
		Background(ColorPrimary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)
	t.Selected = r.NewStyle().
		Background(ColorHigh).
		Bold(true)
	t.Marker = r.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.Status = r.NewStyle().Foreground(ColorSuccess)
	t.Error = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.Tooltip = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ThemeFg("#6272A4")).
		Padding(0, 1)
	t.Panel = r.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorBorder).
		PaddingLeft(1)
	return t
}

// Swatch styles a cell with a fill background and a readable foreground.
func (t Theme) Swatch(fill color.RGBA) lipgloss.Style {
	return t.Renderer.NewStyle().
		Background(lipgloss.Color(mapcolor.Hex(fill))).
		Foreground(lipgloss.Color(mapcolor.Hex(render.TextColor(fill))))
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
