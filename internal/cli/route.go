package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// routeOpts holds the flags of the route command.
type routeOpts struct {
	asJSON    bool // print results as JSON
	waypoints bool // list each connector's waypoints under the table
	noCache   bool // bypass the route cache
}

// routeCommand creates the route command, which prints the computed path of
// every connector (or the named ones) in a scene file.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route <scene> [connector...]",
		Short: "Compute connector routes for a scene",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVarP(&opts.waypoints, "waypoints", "w", false, "list waypoints of each connector")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the route cache")

	return cmd
}

func (c *CLI) runRoute(cmd *cobra.Command, path string, ids []string, opts routeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := scene.ReadFile(path)
	if err != nil {
		return err
	}
	router, closeCache, err := c.newRouter(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	sw := startStopwatch(logger)
	results, err := routeSelected(cmd, router, s, ids)
	if err != nil {
		return err
	}
	sw.done(fmt.Sprintf("Routed %d connectors", len(results)), "scene", s.ID)

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printRoutes(out, results, opts.waypoints)
	return nil
}

func routeSelected(cmd *cobra.Command, router *route.Router, s *scene.Scene, ids []string) ([]route.Result, error) {
	if len(ids) == 0 {
		return router.RouteAll(cmd.Context(), s)
	}
	results := make([]route.Result, 0, len(ids))
	for _, id := range ids {
		res, err := router.Route(cmd.Context(), s, id)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func printRoutes(w io.Writer, results []route.Result, waypoints bool) {
	if len(results) == 0 {
		printInfo(w, "No connectors")
		return
	}
	fmt.Fprintln(w, routeTable(results))
	if !waypoints {
		return
	}
	for _, r := range results {
		fmt.Fprintln(w, StyleTitle.Render(r.ConnectorID))
		printDetail(w, "%s", waypointList(r.Waypoints))
	}
}
