package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// The offset, reconnect and swap commands apply one edit to a scene file and
// write it back, printing the connector's new route.

// editOpts holds the flags shared by the scene edit commands.
type editOpts struct {
	output string // write here instead of overwriting the input
	clear  bool   // offset: remove all offsets instead of adding one
}

func addEditFlags(cmd *cobra.Command, opts *editOpts) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the edited scene here instead of in place")
}

// offsetCommand adds a perpendicular offset to one interior segment.
func (c *CLI) offsetCommand() *cobra.Command {
	var opts editOpts
	cmd := &cobra.Command{
		Use:   "offset <scene> <connector> [segment delta]",
		Short: "Shift a connector segment, or clear its offsets with --clear",
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.clear {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return cobra.ExactArgs(4)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.clear {
				return c.editScene(cmd, args[0], args[1], opts, func(s *scene.Scene, res route.Result) error {
					return s.ClearOffsets(args[1])
				})
			}
			seg, err := strconv.Atoi(args[2])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "segment %q is not an integer", args[2])
			}
			delta, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "delta %q is not a number", args[3])
			}
			return c.editScene(cmd, args[0], args[1], opts, func(s *scene.Scene, res route.Result) error {
				if !route.ValidSegment(seg, len(res.Waypoints)) {
					return errors.New(errors.ErrCodeInvalidInput,
						"segment %d is not adjustable (path has %d points, valid 1..%d)",
						seg, len(res.Waypoints), len(res.Waypoints)-3)
				}
				return s.AddSegmentOffset(args[1], seg, delta)
			})
		},
	}
	addEditFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "remove all segment offsets")
	return cmd
}

// reconnectCommand moves one end of a connector to a shape side.
func (c *CLI) reconnectCommand() *cobra.Command {
	var opts editOpts
	cmd := &cobra.Command{
		Use:   "reconnect <scene> <connector> <source|target> <shape> <side>",
		Short: "Attach a connector end to a shape side",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			end := scene.End(args[2])
			if end != scene.Source && end != scene.Target {
				return errors.New(errors.ErrCodeInvalidInput, "end must be source or target, got %q", args[2])
			}
			side, err := geom.ParseSide(args[4])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSide, err, "reconnect")
			}
			return c.editScene(cmd, args[0], args[1], opts, func(s *scene.Scene, _ route.Result) error {
				return s.Reconnect(args[1], end, args[3], side)
			})
		},
	}
	addEditFlags(cmd, &opts)
	return cmd
}

// swapCommand reverses a connector's direction.
func (c *CLI) swapCommand() *cobra.Command {
	var opts editOpts
	cmd := &cobra.Command{
		Use:   "swap <scene> <connector>",
		Short: "Reverse a connector's direction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editScene(cmd, args[0], args[1], opts, func(s *scene.Scene, _ route.Result) error {
				return s.Swap(args[1])
			})
		},
	}
	addEditFlags(cmd, &opts)
	return cmd
}

// editScene loads a scene, routes the connector, applies fn, routes again
// and saves the scene.
func (c *CLI) editScene(cmd *cobra.Command, path, connID string, opts editOpts, fn func(*scene.Scene, route.Result) error) error {
	ctx := cmd.Context()
	s, err := scene.ReadFile(path)
	if err != nil {
		return err
	}
	router := route.NewRouter(c.Config.Routing, nil, loggerFromContext(ctx))

	before, err := router.Route(ctx, s, connID)
	if err != nil {
		return err
	}
	if err := fn(s, before); err != nil {
		return err
	}
	after, err := router.Route(ctx, s, connID)
	if err != nil {
		return err
	}

	dst := path
	if opts.output != "" {
		dst = opts.output
	}
	if err := saveScene(ctx, dst, s); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Updated %s", connID)
	printDetail(out, "%s", waypointList(after.Waypoints))
	printFile(out, dst)
	return nil
}

func saveScene(ctx context.Context, path string, s *scene.Scene) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := scene.WriteFile(path, s); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	loggerFromContext(ctx).Debug("scene saved", "path", path, "connectors", len(s.Connectors))
	return nil
}
