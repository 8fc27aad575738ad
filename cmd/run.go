// File: cmd/run.go
package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/uidriver/internal/driver"
	"github.com/xkilldash9x/uidriver/internal/observability"
	"github.com/xkilldash9x/uidriver/internal/scenario"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file step by step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			sc, err := scenario.LoadFile(args[0])
			if err != nil {
				return err
			}

			var report *scenario.Report
			var runErr error
			err = withDriver(cmd, func(ctx context.Context, d *driver.Driver) error {
				report, runErr = scenario.NewRunner(d, observability.GetLogger()).Run(ctx, sc)
				return nil
			})
			if err != nil {
				return err
			}
			if perr := printReport(cmd.OutOrStdout(), format, report); perr != nil {
				return errors.Join(runErr, perr)
			}
			return runErr
		},
	}
}
