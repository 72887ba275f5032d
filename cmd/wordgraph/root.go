package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordgraph/internal/app"
	"github.com/heartmarshall/wordgraph/internal/config"
	"github.com/heartmarshall/wordgraph/internal/graph"
)

// cli carries state shared by all commands of one invocation.
type cli struct {
	configPath string
	logLevel   string

	in  io.Reader
	out io.Writer

	app *app.App
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{in: in, out: out}

	root := &cobra.Command{
		Use:   "wordgraph",
		Short: "Build and explore a semantic graph of dictionary definitions",
		Long: `wordgraph expands a seed word into a graph of word senses: every content
word of a definition becomes a node linked from the word it defines.

Typical session:
  wordgraph build --seed ease --depth 2
  wordgraph validate --dataset data/wordsim353.csv
  wordgraph search
  wordgraph serve`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (overrides CONFIG_PATH)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		c.newBuildCmd(),
		c.newRunCmd(),
		c.newSearchCmd(),
		c.newExportCmd(),
		c.newValidateCmd(),
		c.newReportCmd(),
		c.newServeCmd(),
		c.newSnapshotCmd(),
		newVersionCmd(out),
	)
	return root
}

// setup loads configuration and creates the App before any command runs.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}
	path := c.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	c.app = app.New(cfg, app.NewLogger(cfg.Log), c.in, c.out)
	return nil
}

// graphFlags selects the graph a command works on: a graph file, or a
// stored snapshot.
type graphFlags struct {
	path     string
	snapshot string
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "graph", "", "graph file (default: build.output_path)")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", `snapshot run id or "latest" (requires database.dsn)`)
	cmd.MarkFlagsMutuallyExclusive("graph", "snapshot")
}

func (f *graphFlags) load(ctx context.Context, a *app.App) (*graph.Graph, error) {
	if f.snapshot != "" {
		g, _, err := a.LoadSnapshot(ctx, f.snapshot)
		return g, err
	}
	path := f.path
	if path == "" {
		path = a.Config().Build.OutputPath
	}
	if path == "" {
		return nil, fmt.Errorf("no graph file: pass --graph or set build.output_path")
	}
	return a.LoadGraph(path)
}
