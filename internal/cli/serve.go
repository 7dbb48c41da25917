package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/staffsheet/internal/server"
	"github.com/matzehuels/staffsheet/pkg/cache"
	"github.com/matzehuels/staffsheet/pkg/pipeline"
)

// serveKeyPrefix keeps server PDFs apart from CLI ones in the shared cache.
const serveKeyPrefix = "serve:"

// serveCommand runs the HTTP preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts    server.Options
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sheets over HTTP for browser previews",
		Example: `  staffsheet serve --addr :8080
  curl 'localhost:8080/sheet.svg?string=LÁ&staves=4'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newServeRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, opts)
			printInfo("Listening on %s", StyleLink.Render("http://"+opts.Addr))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringSliceVar(&opts.Origins, "origin", nil, "allowed CORS origin(s) (default any)")
	cmd.Flags().StringVar(&opts.ClefPath, "clef", "", "treble clef image used for every sheet")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the PDF cache")

	return cmd
}

// newServeRunner builds the server's runner with its own cache namespace.
func (c *CLI) newServeRunner(noCache bool) (*pipeline.Runner, error) {
	return c.newRunnerWithKeyer(noCache, cache.NewScopedKeyer(cache.NewDefaultKeyer(), serveKeyPrefix))
}
