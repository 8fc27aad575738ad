// File: cmd/gestures.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/driver"
	"github.com/xkilldash9x/uidriver/internal/gesture"
)

func parseDirection(s string) (schemas.Direction, error) {
	d := schemas.Direction(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown direction %q (want up, down, left or right)", s)
	}
	return d, nil
}

func newSwipeCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "swipe <direction>",
		Short: "Drag across the screen toward a direction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(args[0])
			if err != nil {
				return err
			}
			return withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				return d.DragScreen(ctx, dir, steps)
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "move steps (default from the gesture config)")
	return cmd
}

func newTapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tap <direction>",
		Short: "Tap the screen a quarter in from the edge on the given side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(args[0])
			if err != nil {
				return err
			}
			return withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				return d.ClickOnScreen(ctx, dir)
			})
		},
	}
}

func newZoomCmd() *cobra.Command {
	var start, end []float64
	cmd := &cobra.Command{
		Use:     "zoom",
		Short:   "Pinch or spread two pointers between two pairs of points",
		Example: "  uidriver zoom --start 150,400,250,400 --end 50,400,350,400",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := pointPair("start", start)
			if err != nil {
				return err
			}
			e, err := pointPair("end", end)
			if err != nil {
				return err
			}
			return withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				return d.Zoom(ctx, s, e)
			})
		},
	}
	cmd.Flags().Float64SliceVar(&start, "start", nil, "x1,y1,x2,y2 where the pointers go down")
	cmd.Flags().Float64SliceVar(&end, "end", nil, "x1,y1,x2,y2 where the pointers lift")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func pointPair(name string, v []float64) ([2]gesture.Point, error) {
	if len(v) != 4 {
		return [2]gesture.Point{}, fmt.Errorf("--%s needs four numbers, got %d", name, len(v))
	}
	return [2]gesture.Point{gesture.Pt(v[0], v[1]), gesture.Pt(v[2], v[3])}, nil
}

func newDragCmd() *cobra.Command {
	var from, to []float64
	var steps int
	cmd := &cobra.Command{
		Use:     "drag",
		Short:   "Drag a single pointer between two points",
		Example: "  uidriver drag --from 200,600 --to 200,100 --steps 15",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(from) != 2 || len(to) != 2 {
				return fmt.Errorf("--from and --to need two numbers each")
			}
			return withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				return d.Drag(ctx, gesture.Pt(from[0], from[1]), gesture.Pt(to[0], to[1]), steps)
			})
		},
	}
	cmd.Flags().Float64SliceVar(&from, "from", nil, "x,y where the pointer goes down")
	cmd.Flags().Float64SliceVar(&to, "to", nil, "x,y where the pointer lifts")
	cmd.Flags().IntVar(&steps, "steps", 0, "move steps (default from the gesture config)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
