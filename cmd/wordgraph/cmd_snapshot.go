package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordgraph/internal/graph"
)

func (c *cli) newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store and restore graphs in PostgreSQL",
		Long: `snapshot manages graphs stored in the database configured by
database.dsn (DATABASE_DSN). Migrations are applied on first use.`,
	}
	cmd.AddCommand(
		c.newSnapshotSaveCmd(),
		c.newSnapshotLoadCmd(),
		c.newSnapshotListCmd(),
		c.newSnapshotDeleteCmd(),
	)
	return cmd
}

func (c *cli) newSnapshotSaveCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Store a graph file as a new snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gf := graphFlags{path: path}
			g, err := gf.load(cmd.Context(), c.app)
			if err != nil {
				return err
			}
			run, err := c.app.SaveSnapshot(cmd.Context(), g)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), run.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "graph", "", "graph file (default: build.output_path)")
	return cmd
}

func (c *cli) newSnapshotLoadCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "load ID|latest",
		Short: "Write a stored snapshot to a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, run, err := c.app.LoadSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = c.app.Config().Build.OutputPath
			}
			if err := graph.WriteFile(out, g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s (%d nodes, %d edges) written to %s\n",
				run.ID, run.NodeCount, run.EdgeCount, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "graph output file (default: build.output_path)")
	return cmd
}

func (c *cli) newSnapshotListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := c.app.ListSnapshots(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSEED\tDEPTH\tNODES\tEDGES\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.Seed, r.MaxDepth, r.NodeCount, r.EdgeCount, r.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of snapshots")
	return cmd
}

func (c *cli) newSnapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.DeleteSnapshot(cmd.Context(), args[0])
		},
	}
}
