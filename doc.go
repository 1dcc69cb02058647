// Package prcurve draws precision-recall curves for families of classifiers
// from pre-computed CSV files.
//
// A run is described by an ordered catalog of labels such as "KNN_GFD" or
// "SVM_Zernike7". The part of a label before the first underscore names its
// family; each family owns a color ramp. A label's color is taken from its
// family's ramp at 0.2 + 0.15*(i mod 5), where i is the label's position in
// the whole catalog, and its marker cycles through circle, square, diamond,
// triangle-up and triangle-down with the same period.
//
// # Features
//
//   - Strict or lenient CSV schema checks (Precision and Recall columns)
//   - Deterministic per-family colors and markers
//   - One combined figure plus one figure per family (PNG, SVG, PDF)
//   - Fail-fast: any bad source or unknown family aborts the run
//   - YAML configuration with built-in presets and glob discovery
//   - Optional concurrent loading, with output order independent of it
//
// # Installation
//
//	go install github.com/YuminosukeSato/prcurve/cmd/prcurve@latest
//
// # Quick Start
//
// With curve/KMeans_ART.csv ... curve/MLP_Zernike7.csv in place:
//
//	prcurve render
//	prcurve render --family SVM --format svg --out figures
//	prcurve inspect --preset compare
//
// Or from Go:
//
//	cfg := config.DefaultConfig()
//	styler, _ := cfg.Styler()
//	cat, _ := cfg.BuildCatalog()
//	ss, err := series.NewAssembler(curve.NewLoader(curve.SchemaStrict), styler).Assemble(cat)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := render.NewRenderer(cfg.Layout()).RenderRun(ss)
//
// # Packages
//
//   - curve: Curve type and CSV loader with schema policies
//   - catalog: Ordered label -> path mapping, family derivation, discovery
//   - style: Color ramps, the coordinate rule and the marker cycle
//   - series: Catalog assembly into styled, plottable series
//   - render: gonum/plot figures and atomic image output
//   - metrics: Area under the curve and average precision
//   - config: YAML configuration and presets
//   - core/parallel: Parallel processing utilities
//   - pkg/errors, pkg/log: Structured errors and zerolog logging
package prcurve
