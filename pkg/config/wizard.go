package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Wizard walks the user through the settings that matter on first run and
// produces a validated Config.
type Wizard struct {
	base    Config
	answers wizardAnswers
}

// wizardAnswers holds the raw form values. Numbers stay strings until
// Result so the inputs can show the current value.
type wizardAnswers struct {
	Geography string
	Congress  string
	Watch     bool
	Keep      bool
	Width     string
	Height    string
	Format    string
	Title     string
	Legend    bool
}

// NewWizard seeds the form with base, usually the loaded or default config.
func NewWizard(base Config) *Wizard {
	return &Wizard{
		base: base,
		answers: wizardAnswers{
			Geography: base.Data.Geography,
			Congress:  base.Data.Congress,
			Watch:     base.WatchEnabled(),
			Keep:      base.UI.KeepSelection,
			Width:     strconv.FormatFloat(base.Map.Width, 'g', -1, 64),
			Height:    strconv.FormatFloat(base.Map.Height, 'g', -1, 64),
			Format:    defaultString(base.Export.Format, "svg"),
			Title:     base.Export.Title,
			Legend:    base.LegendEnabled(),
		},
	}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Form builds the three-step form. Without a terminal on stdin it falls back
// to huh's accessible mode, which reads plain lines.
func (w *Wizard) Form() *huh.Form {
	a := &w.answers
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Geography file").
				Description("GeoJSON FeatureCollection of state outlines").
				Value(&a.Geography).
				Validate(nonEmpty("geography file")),
			huh.NewInput().
				Title("Congress data").
				Description("Congress JSON or SQLite file").
				Value(&a.Congress).
				Validate(nonEmpty("congress data")),
			huh.NewConfirm().
				Title("Reload congress data when the file changes?").
				Value(&a.Watch),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Map width").
				Value(&a.Width).
				Validate(positiveNumber),
			huh.NewInput().
				Title("Map height").
				Value(&a.Height).
				Validate(positiveNumber),
			huh.NewConfirm().
				Title("Keep selection on click?").
				Description("Clicking a state adds its delegation instead of replacing the selection").
				Value(&a.Keep),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default export format").
				Options(
					huh.NewOption("SVG (scalable)", "svg"),
					huh.NewOption("PNG (raster)", "png"),
					huh.NewOption("JSON snapshot", "json"),
					huh.NewOption("SQLite snapshot", "sqlite"),
				).
				Value(&a.Format),
			huh.NewInput().
				Title("Export title (optional)").
				Value(&a.Title),
			huh.NewConfirm().
				Title("Draw the party legend on exports?").
				Value(&a.Legend),
		),
	).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run shows the form and returns the resulting config.
func (w *Wizard) Run() (Config, error) {
	if err := w.Form().Run(); err != nil {
		return w.base, err
	}
	return w.Result()
}

// Result applies the current answers on top of the base config.
func (w *Wizard) Result() (Config, error) {
	cfg := w.base
	a := w.answers

	width, err := parsePositive(a.Width)
	if err != nil {
		return w.base, fmt.Errorf("map width: %w", err)
	}
	height, err := parsePositive(a.Height)
	if err != nil {
		return w.base, fmt.Errorf("map height: %w", err)
	}

	cfg.Data.Geography = expandHome(strings.TrimSpace(a.Geography))
	cfg.Data.Congress = expandHome(strings.TrimSpace(a.Congress))
	watch, legend := a.Watch, a.Legend
	cfg.Data.Watch = &watch
	cfg.Export.Legend = &legend
	cfg.UI.KeepSelection = a.Keep
	cfg.Map.Width, cfg.Map.Height = width, height
	cfg.Export.Format = a.Format
	cfg.Export.Title = strings.TrimSpace(a.Title)

	if err := cfg.Validate(); err != nil {
		return w.base, err
	}
	return cfg, nil
}

func nonEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func positiveNumber(s string) error {
	_, err := parsePositive(s)
	return err
}

func parsePositive(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %g", v)
	}
	return v, nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
