package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/prcurve/catalog"
	"github.com/YuminosukeSato/prcurve/config"
	"github.com/YuminosukeSato/prcurve/curve"
	"github.com/YuminosukeSato/prcurve/metrics"
	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"github.com/YuminosukeSato/prcurve/pkg/log"
	"github.com/YuminosukeSato/prcurve/render"
	"github.com/YuminosukeSato/prcurve/series"
)

// app holds one validated run configuration and its loggers.
type app struct {
	cfg    *config.Config
	logs   runLogs
	logger log.Logger
}

func newApp(cmd *cobra.Command, g *globalFlags, f *runFlags) (*app, error) {
	logs, err := newLogs(cmd, g)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logs: logs, logger: logs.named(appName)}, nil
}

func (a *app) workers() int {
	if a.cfg.Workers == 0 {
		return runtime.NumCPU()
	}
	return a.cfg.Workers
}

// assemble builds the catalog and loads every series. The catalog is
// returned as well so callers can watch its sources.
func (a *app) assemble() (*catalog.Catalog, []series.Series, error) {
	policy, err := a.cfg.SchemaPolicy()
	if err != nil {
		return nil, nil, err
	}
	cat, err := a.cfg.BuildCatalog()
	if err != nil {
		return nil, nil, err
	}
	styler, err := a.cfg.Styler()
	if err != nil {
		return nil, nil, err
	}

	a.logger.Debug("Assembling catalog",
		log.CatalogSizeKey, cat.Len(),
		log.SchemaPolicyKey, policy.String(),
		log.WorkersKey, a.workers(),
	)
	loader := curve.NewLoader(policy, curve.WithLogger(a.logs.named("curve")))
	asm := series.NewAssembler(loader, styler,
		series.WithLogger(a.logs.named("series")),
		series.WithWorkers(a.workers()),
	)
	ss, err := asm.Assemble(cat)
	if err != nil {
		return nil, nil, err
	}
	return cat, ss, nil
}

// render writes the figures of one run. With family set only that
// family's figure is written.
func (a *app) render(family string) ([]string, error) {
	_, ss, err := a.assemble()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(a.cfg.Output.Dir, 0o755); err != nil {
		return nil, errors.NewIOError("create output directory", a.cfg.Output.Dir, err)
	}
	r := render.NewRenderer(a.cfg.Layout(), render.WithLogger(a.logs.named("render")))

	switch {
	case family != "":
		path, err := r.RenderFamily(ss, family)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case !a.cfg.Output.PerFamily:
		path, err := r.RenderAll(ss)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return r.RenderRun(ss)
	}
}

// inspect prints one row per catalog entry. It stops at the first source
// that fails to load.
func (a *app) inspect(w io.Writer) error {
	_, ss, err := a.assemble()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tLABEL\tFAMILY\tCOLOR\tMARKER\tROWS\tRECALL\tPRECISION\tAUC\tAP")
	for _, s := range ss {
		sum := s.Curve.Summary()
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t[%.3g, %.3g]\t[%.3g, %.3g]\t%s\t%s\n",
			s.Index, s.Label, s.Family, s.Style.Hex(), s.Style.Marker,
			sum.Rows, sum.RecallMin, sum.RecallMax, sum.PrecisionMin, sum.PrecisionMax,
			score(metrics.AUC(s.Curve)), score(metrics.AveragePrecision(s.Curve)))
	}
	return tw.Flush()
}

// score formats a metric, or "-" when the curve has too few or non-finite
// points for it.
func score(v float64, err error) string {
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}
