package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) newServeCmd() *cobra.Command {
	var (
		gf   graphFlags
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long: `serve exposes read-only queries over a graph:

  GET /api/v1/graph                        structural metrics
  GET /api/v1/words/{word}[?pos=]          senses, definitions, neighbors
  GET /api/v1/path?from=&to=               shortest path
  GET /api/v1/paths?from=&to=&limit=       connecting shortest paths
  GET /api/v1/similarity?a=&b=             similarity score
  GET /api/v1/similar?word=&top=           most similar words
  GET /api/v1/neighborhood?word=&radius=   nodes by distance
  GET /api/v1/neighborhood.dot?word=       neighborhood as Graphviz DOT
  GET /live, /ready, /health, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				c.app.Config().Server.Port = port
			}
			if err := c.app.ConnectStore(cmd.Context()); err != nil {
				return err
			}
			g, err := gf.load(cmd.Context(), c.app)
			if err != nil {
				return err
			}
			return c.app.Serve(cmd.Context(), g)
		},
	}
	gf.register(cmd)
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default: server.port)")
	return cmd
}
