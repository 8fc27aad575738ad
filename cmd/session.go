// File: cmd/session.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/internal/browser/cdp"
	"github.com/xkilldash9x/uidriver/internal/config"
	"github.com/xkilldash9x/uidriver/internal/driver"
	"github.com/xkilldash9x/uidriver/internal/observability"
)

// backendFactory opens the automation backend. Tests replace it with an
// in-memory fake.
var backendFactory = func(ctx context.Context, cfg config.Interface, logger *zap.Logger) (driver.Backend, func(), error) {
	s, err := cdp.NewSession(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			logger.Warn("Failed to close browser session.", zap.Error(err))
		}
	}, nil
}

// withDriver opens a backend, wraps it in a driver and hands it to fn. Both
// are torn down before returning.
func withDriver(cmd *cobra.Command, fn func(ctx context.Context, d *driver.Driver) error) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}
	logger := observability.GetLogger().With(zap.String("command", cmd.Name()))
	ctx := cmd.Context()

	backend, closeBackend, err := backendFactory(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open browser session: %w", err)
	}
	defer closeBackend()

	d, err := driver.New(cfg, logger, backend)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}
	defer d.Close()

	return fn(ctx, d)
}
