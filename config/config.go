// Package config provides configuration loading and management for prcurve.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/prcurve/catalog"
	"github.com/YuminosukeSato/prcurve/curve"
	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"github.com/YuminosukeSato/prcurve/render"
	"github.com/YuminosukeSato/prcurve/style"
)

// Preset names.
const (
	PresetPlotmaker = "plotmaker"
	PresetCompare   = "compare"
)

// Config represents one complete run: where the curves are, how they are
// styled and where the figures go.
type Config struct {
	// Preset is the base the file is overlaid on (default: plotmaker)
	Preset string `yaml:"preset,omitempty"`
	// Schema is the column policy, "strict" or "lenient"
	Schema string `yaml:"schema"`
	// Markers enables the per-index marker cycle
	Markers bool `yaml:"markers"`
	// Workers is the number of concurrent loads (0 = one per CPU)
	Workers int `yaml:"workers"`
	// Families maps a family name to a ramp name, tab: color or #hex.
	// Entries in a file are merged over the preset's.
	Families map[string]string `yaml:"families"`
	// Catalog is the ordered label -> path mapping. A file's catalog
	// replaces the preset's.
	Catalog catalog.Catalog `yaml:"catalog"`
	// Discover is an optional doublestar glob whose matches are appended
	// to Catalog, labelled by file stem.
	Discover string       `yaml:"discover,omitempty"`
	Output   OutputConfig `yaml:"output"`
	Titles   TitlesConfig `yaml:"titles"`

	baseDir string
}

// OutputConfig configures the written figures.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	Format       string `yaml:"format"`
	DPI          int    `yaml:"dpi"`
	AllName      string `yaml:"all_name"`
	FamilyPrefix string `yaml:"family_prefix"`
	// PerFamily writes one figure per family after the combined one
	PerFamily  bool `yaml:"per_family"`
	AllSize    Size `yaml:"all_size"`
	FamilySize Size `yaml:"family_size"`
}

// Size is a figure size in inches.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TitlesConfig holds the figure titles. Family is a format string that
// receives the family name.
type TitlesConfig struct {
	All    string `yaml:"all"`
	Family string `yaml:"family"`
}

var (
	plotmakerFamilies = []string{"KMeans", "KNN", "SVM", "MLP"}
	compareFamilies   = []string{"KMeans", "KNN", "SVM"}
	descriptors       = []string{"ART", "E34", "GFD", "Yang", "Zernike7"}
)

// runCatalog returns family x descriptor labels, grouped by family, with
// sources under curve/.
func runCatalog(families []string) catalog.Catalog {
	var c catalog.Catalog
	for _, f := range families {
		for _, d := range descriptors {
			label := f + catalog.FamilySeparator + d
			// Generated labels are unique.
			_ = c.Add(label, filepath.Join("curve", label+".csv"))
		}
	}
	return c
}

// DefaultConfig returns the plotmaker preset: strict schema, markers, a
// sequential ramp per family and the 20-label catalog.
func DefaultConfig() *Config {
	return &Config{
		Preset:  PresetPlotmaker,
		Schema:  curve.SchemaStrict.String(),
		Markers: true,
		Workers: 1,
		Families: map[string]string{
			"KMeans": "blues",
			"KNN":    "greens",
			"SVM":    "reds",
			"MLP":    "purples",
		},
		Catalog: runCatalog(plotmakerFamilies),
		Output: OutputConfig{
			Dir:          ".",
			Format:       render.FormatPNG,
			DPI:          300,
			AllName:      "Figure_All_Models",
			FamilyPrefix: "Figure_",
			PerFamily:    true,
			AllSize:      Size{Width: 12, Height: 8},
			FamilySize:   Size{Width: 10, Height: 6},
		},
		Titles: TitlesConfig{
			All:    "Combined precision-recall curves for all models",
			Family: "Precision-recall curves for model %s",
		},
	}
}

// compareConfig is the lenient single-figure comparison: flat tableau
// colors, no markers, three families.
func compareConfig() *Config {
	cfg := DefaultConfig()
	cfg.Preset = PresetCompare
	cfg.Schema = curve.SchemaLenient.String()
	cfg.Markers = false
	cfg.Families = map[string]string{
		"KMeans": "tab:blue",
		"KNN":    "tab:orange",
		"SVM":    "tab:green",
	}
	cfg.Catalog = runCatalog(compareFamilies)
	cfg.Output.AllName = "Figure_Comparison"
	cfg.Output.PerFamily = false
	cfg.Output.AllSize = Size{Width: 10, Height: 8}
	cfg.Titles.All = "Comparison of precision-recall curves for different models"
	return cfg
}

// Presets lists the preset names accepted by Preset.
func Presets() []string {
	return []string{PresetCompare, PresetPlotmaker}
}

// Preset returns a fresh copy of the named preset. An empty name is the
// default preset.
func Preset(name string) (*Config, error) {
	switch name {
	case "", PresetPlotmaker:
		return DefaultConfig(), nil
	case PresetCompare:
		return compareConfig(), nil
	default:
		return nil, errors.NewValidationError("preset", fmt.Sprintf("must be one of %v", Presets()), name)
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if _, err := curve.ParseSchemaPolicy(c.Schema); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.NewValidationError("workers", "must not be negative", c.Workers)
	}
	if !render.IsFormat(c.Output.Format) {
		return errors.NewValidationError("output.format", fmt.Sprintf("must be one of %v", render.Formats), c.Output.Format)
	}
	if c.Output.DPI <= 0 {
		return errors.NewValidationError("output.dpi", "must be positive", c.Output.DPI)
	}
	for name, sz := range map[string]Size{"output.all_size": c.Output.AllSize, "output.family_size": c.Output.FamilySize} {
		if sz.Width <= 0 || sz.Height <= 0 {
			return errors.NewValidationError(name, "width and height must be positive", fmt.Sprintf("%vx%v", sz.Width, sz.Height))
		}
	}
	if c.Output.AllName == "" {
		return errors.NewValidationError("output.all_name", "is required", c.Output.AllName)
	}
	for _, family := range c.familyNames() {
		if _, err := style.ParseRamp(c.Families[family]); err != nil {
			return errors.NewValidationError("families."+family, "unknown ramp", c.Families[family])
		}
	}
	if c.Catalog.Len() == 0 && c.Discover == "" {
		return errors.NewValidationError("catalog", "is empty and no discover glob is set", 0)
	}
	return nil
}

// familyNames returns the configured families in a stable order.
func (c *Config) familyNames() []string {
	names := make([]string, 0, len(c.Families))
	for f := range c.Families {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// BaseDir is the directory relative catalog paths and the discover glob
// are resolved against: the config file's directory, or "" for presets.
func (c *Config) BaseDir() string { return c.baseDir }

// SchemaPolicy returns the parsed schema policy.
func (c *Config) SchemaPolicy() (curve.SchemaPolicy, error) {
	return curve.ParseSchemaPolicy(c.Schema)
}

// BuildCatalog returns the run's catalog: the explicit entries in order,
// then discovered files whose label is not already listed.
func (c *Config) BuildCatalog() (*catalog.Catalog, error) {
	out := c.Catalog.Resolve(c.baseDir)
	if c.Discover == "" {
		return out, nil
	}

	pattern := c.Discover
	if c.baseDir != "" && !filepath.IsAbs(pattern) {
		pattern = filepath.Join(c.baseDir, pattern)
	}
	found, err := catalog.Discover(pattern)
	if err != nil {
		return nil, err
	}
	for _, e := range found {
		if _, listed := out.Lookup(e.Label); listed {
			continue
		}
		if err := out.Add(e.Label, e.Path); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Styler builds the immutable styler for the configured families.
func (c *Config) Styler() (*style.Styler, error) {
	ramps := make(map[string]style.Ramp, len(c.Families))
	for _, family := range c.familyNames() {
		r, err := style.ParseRamp(c.Families[family])
		if err != nil {
			return nil, errors.NewValidationError("families."+family, "unknown ramp", c.Families[family])
		}
		ramps[family] = r
	}
	return style.NewStyler(ramps, c.Markers), nil
}

// Layout converts the output section into a render.Layout.
func (c *Config) Layout() render.Layout {
	l := render.DefaultLayout()
	l.Dir = c.Output.Dir
	l.AllName = c.Output.AllName
	l.FamilyPrefix = c.Output.FamilyPrefix
	l.AllTitle = c.Titles.All
	l.FamilyTitle = c.Titles.Family

	apply := func(o *render.Options, sz Size) {
		o.Width = vg.Length(sz.Width) * vg.Inch
		o.Height = vg.Length(sz.Height) * vg.Inch
		o.DPI = c.Output.DPI
		o.Format = c.Output.Format
	}
	apply(&l.All, c.Output.AllSize)
	apply(&l.Family, c.Output.FamilySize)
	return l
}

// LoadFromFile loads configuration from a YAML file. The file is overlaid
// on the preset it names, or on the default preset.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("read config", path, err)
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, errors.NewIOError("parse config", path, err)
	}
	cfg, err := Preset(head.Preset)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewIOError("parse config", path, err)
	}
	cfg.baseDir = filepath.Dir(path)
	return cfg, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIOError("create config directory", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIOError("write config", path, err)
	}
	return nil
}
