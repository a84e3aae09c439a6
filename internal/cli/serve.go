package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xyplot/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sweep API over HTTP",
		Long: `Serve the sweep API. A remote image generator registers a sweep with
POST /v1/sweeps and uploads every image to POST /v1/sweeps/{id}/step?index=N.
Composed pages are returned as soon as their last image arrives.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes))
			w := cmd.ErrOrStderr()
			printInfo(w, "Serving on %s", StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
			printNextStep(w, "Register a sweep", fmt.Sprintf(`curl -d '{"dim1":[1,2,3]}' http://%s/v1/sweeps`, displayAddr(cfg.Server.Addr)))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache")

	return cmd
}

// displayAddr turns a listen address into a host:port for URLs.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
