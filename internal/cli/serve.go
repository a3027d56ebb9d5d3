package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockweek/internal/server"
)

// serveCommand creates the serve command for the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

  POST /v1/layout   body: {"schedule": {...}, "options": {...}}
  GET  /healthz

Solves are memoized in memory for the life of the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := c.newRunner(noCache)
			defer runner.Close()

			srv := server.New(server.Config{
				Addr:           addr,
				RequestTimeout: timeout,
				Runner:         runner,
				Logger:         c.Logger,
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request layout timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable solve memoization")

	return cmd
}
