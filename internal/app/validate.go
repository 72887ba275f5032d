package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/report"
	"github.com/heartmarshall/wordgraph/internal/validate"
)

// ValidateOptions selects the benchmark and where results go.
type ValidateOptions struct {
	DatasetPath string
	ReportPath  string
	// ShowPairs prints the per-pair table before the report.
	ShowPairs bool
}

// Validate scores g against the benchmark dataset and writes the metrics
// report. When too few pairs are in the graph the report is written without
// its validation section and the result is returned with a nil error.
func (a *App) Validate(ctx context.Context, g *graph.Graph, opts ValidateOptions) (validate.Result, error) {
	engine, err := a.Engine(g)
	if err != nil {
		return validate.Result{}, err
	}

	pairs, err := validate.LoadPairs(opts.DatasetPath)
	if err != nil {
		return validate.Result{}, err
	}

	res, err := validate.New(a.log, a.cfg.Validation.Workers).Validate(ctx, engine, pairs)
	insufficient := errors.Is(err, domain.ErrInsufficientPairs)
	if err != nil && !insufficient {
		return res, err
	}

	if opts.ShowPairs {
		if err := report.WritePairs(a.out, res); err != nil {
			return res, err
		}
		fmt.Fprintln(a.out)
	}

	validation := &res
	if insufficient {
		a.log.Warn("not enough overlapping pairs to calculate correlation",
			slog.Int("found", res.Found),
			slog.Int("total", res.Total),
		)
		validation = nil
	}
	return res, a.Report(g, opts.ReportPath, validation)
}

// Report writes the metrics report for g to path and echoes it to the
// App's output. validation may be nil.
func (a *App) Report(g *graph.Graph, path string, validation *validate.Result) error {
	summary := graph.Analyze(g, report.TopDegrees)
	if path == "" {
		return report.Write(a.out, summary, validation)
	}
	if err := report.WriteFile(path, a.out, summary, validation); err != nil {
		return err
	}
	a.log.Info("metrics report saved", slog.String("path", path))
	return nil
}
