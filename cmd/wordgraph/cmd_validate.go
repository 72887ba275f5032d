package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordgraph/internal/app"
)

func (c *cli) newValidateCmd() *cobra.Command {
	var (
		gf      graphFlags
		dataset string
		report  string
		pairs   bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Correlate graph similarity with human judgements (WordSim353)",
		Long: `validate scores every benchmark pair present in the graph, computes the
Spearman rank correlation with the human scores and writes the metrics
report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := gf.load(cmd.Context(), c.app)
			if err != nil {
				return err
			}
			cfg := c.app.Config().Validation
			if cmd.Flags().Changed("dataset") {
				cfg.DatasetPath = dataset
			}
			if cmd.Flags().Changed("report") {
				cfg.ReportPath = report
			}
			_, err = c.app.Validate(cmd.Context(), g, app.ValidateOptions{
				DatasetPath: cfg.DatasetPath,
				ReportPath:  cfg.ReportPath,
				ShowPairs:   pairs,
			})
			return err
		},
	}
	gf.register(cmd)
	cmd.Flags().StringVar(&dataset, "dataset", "", "benchmark CSV (default: validate.dataset_path)")
	cmd.Flags().StringVar(&report, "report", "", "metrics report file (default: validate.report_path)")
	cmd.Flags().BoolVar(&pairs, "pairs", false, "print the per-pair table")
	return cmd
}

func (c *cli) newReportCmd() *cobra.Command {
	var (
		gf  graphFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print structural metrics of the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := gf.load(cmd.Context(), c.app)
			if err != nil {
				return err
			}
			return c.app.Report(g, out, nil)
		},
	}
	gf.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "also write the report to this file")
	return cmd
}
