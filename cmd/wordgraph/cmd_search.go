package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordgraph/internal/app"
	"github.com/heartmarshall/wordgraph/internal/graph"
)

func (c *cli) newSearchCmd() *cobra.Command {
	var gf graphFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Explore the graph interactively",
		Long: `search loads a graph and reads commands from stdin:

  sim <word>            words most similar to word
  path <word1> <word2>  shortest paths connecting two words
  neigh <word>          words within two hops
  exit                  quit

A word is either a bare lemma (all its senses) or lemma/pos, e.g. run/verb.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := gf.load(cmd.Context(), c.app)
			if err != nil {
				return err
			}
			return c.app.Search(cmd.Context(), g)
		},
	}
	gf.register(cmd)
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	var (
		gf     graphFlags
		word   string
		radius int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the neighborhood of a word as Graphviz DOT",
		Example: `  wordgraph export --word ease --radius 2 --out output/ease.dot
  wordgraph export --word comfort/noun | dot -Tpng > comfort.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := gf.load(cmd.Context(), c.app)
			if err != nil {
				return err
			}
			if word == "" {
				word = c.app.Config().Build.Seed
			}
			if out == "" || out == "-" {
				return c.app.Export(g, word, radius, cmd.OutOrStdout())
			}
			return exportFile(c.app, g, word, radius, out)
		},
	}
	gf.register(cmd)
	cmd.Flags().StringVar(&word, "word", "", "center word or lemma/pos (default: build.seed)")
	cmd.Flags().IntVar(&radius, "radius", 2, "hops from the word")
	cmd.Flags().StringVarP(&out, "out", "o", "-", `output file, "-" for stdout`)
	return cmd
}

func exportFile(a *app.App, g *graph.Graph, word string, radius int, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return a.Export(g, word, radius, f)
}
