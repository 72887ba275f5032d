package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordgraph/internal/app"
	"github.com/heartmarshall/wordgraph/internal/config"
)

// buildFlags override config.BuildConfig for one invocation.
type buildFlags struct {
	seed          string
	depth         int
	perDefinition int
	definitions   int
	maxNodes      int
	timeBudget    time.Duration
	keywords      string
	out           string
	offline       bool
	saveSnapshot  bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.seed, "seed", "", "seed word")
	fs.IntVar(&f.depth, "depth", 0, "maximum hops from the seed")
	fs.IntVar(&f.perDefinition, "max-nodes-per-definition", 0, "candidates kept per definition")
	fs.IntVar(&f.definitions, "max-definitions", 0, "definitions expanded per node (0 = all)")
	fs.IntVar(&f.maxNodes, "max-nodes", 0, "total node budget (0 = unlimited)")
	fs.DurationVar(&f.timeBudget, "time-budget", 0, "wall-clock budget (0 = unlimited)")
	fs.StringVar(&f.keywords, "keywords", "", "comma-separated context keywords preferred when truncating")
	fs.StringVar(&f.out, "out", "", "graph output file (.yaml or .json)")
	fs.BoolVar(&f.offline, "offline", false, "answer lookups from the cache only")
	fs.BoolVar(&f.saveSnapshot, "save-snapshot", false, "also store the graph in the snapshot database")
}

// apply copies the flags the user set onto cfg.
func (f *buildFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.Build.Seed = f.seed
	}
	if changed("depth") {
		cfg.Build.MaxDepth = f.depth
	}
	if changed("max-nodes-per-definition") {
		cfg.Build.MaxNodesPerDefinition = f.perDefinition
	}
	if changed("max-definitions") {
		cfg.Build.MaxDefinitionsPerNode = f.definitions
	}
	if changed("max-nodes") {
		cfg.Build.MaxNodes = f.maxNodes
	}
	if changed("time-budget") {
		cfg.Build.TimeBudget = f.timeBudget
	}
	if changed("keywords") {
		cfg.Build.ContextKeywordsRaw = f.keywords
	}
	if changed("out") {
		cfg.Build.OutputPath = f.out
	}
	if changed("offline") {
		cfg.Dictionary.Offline = f.offline
	}
}

func (c *cli) newBuildCmd() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the graph by expanding definitions breadth-first from a seed",
		Example: `  wordgraph build --seed ease --depth 2
  wordgraph build --seed comfort --max-nodes 500 --keywords sleep,rest,bed
  wordgraph build --offline --out data/graph.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.app.Config()
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			res, err := c.app.Build(cmd.Context())
			if err != nil {
				return err
			}
			printBuild(cmd, res)

			if f.saveSnapshot {
				run, err := c.app.SaveSnapshot(cmd.Context(), res.Graph)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Snapshot: %s\n", run.ID)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) newRunCmd() *cobra.Command {
	var (
		f       buildFlags
		dataset string
		dotDir  string
		radius  int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build, report, validate and export in one pass",
		Long: `run builds the graph, writes the metrics report with benchmark validation,
exports the seed's neighborhood as Graphviz DOT and, when a database is
configured, stores a snapshot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.app.Config()
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if dataset != "" {
				cfg.Validation.DatasetPath = dataset
			}

			res, err := c.app.Build(cmd.Context())
			if err != nil {
				return err
			}
			printBuild(cmd, res)

			if _, err := c.app.Validate(cmd.Context(), res.Graph, app.ValidateOptions{
				DatasetPath: cfg.Validation.DatasetPath,
				ReportPath:  cfg.Validation.ReportPath,
			}); err != nil {
				return err
			}

			dotPath := filepath.Join(dotDir, strings.ReplaceAll(cfg.Build.Seed, " ", "_")+"_subgraph.dot")
			if err := exportFile(c.app, res.Graph, cfg.Build.Seed, radius, dotPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nNeighborhood of %q saved to %s\n", cfg.Build.Seed, dotPath)

			if cfg.Database.Enabled() {
				run, err := c.app.SaveSnapshot(cmd.Context(), res.Graph)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Snapshot: %s\n", run.ID)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&dataset, "dataset", "", "benchmark CSV (default: validate.dataset_path)")
	cmd.Flags().StringVar(&dotDir, "dot-dir", "output", "directory for the neighborhood DOT file")
	cmd.Flags().IntVar(&radius, "radius", 2, "neighborhood radius of the exported subgraph")
	return cmd
}

func printBuild(cmd *cobra.Command, res app.BuildResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "=== Graph Construction Complete ===")
	fmt.Fprintf(w, "Total nodes: %d\n", res.Graph.NodeCount())
	fmt.Fprintf(w, "Total edges: %d\n", res.Graph.EdgeCount())
	fmt.Fprintf(w, "Expanded: %d, lookups: %d, failed: %d\n", res.Stats.Expanded, res.Stats.Lookups, res.Stats.LookupFailures)
	if res.Stats.Stopped != "" {
		fmt.Fprintf(w, "Stopped early: %s\n", res.Stats.Stopped)
	}
	if res.Path != "" {
		fmt.Fprintf(w, "Graph saved to %s\n", res.Path)
	}
}
