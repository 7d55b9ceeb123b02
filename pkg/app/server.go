package app

import (
	"context"

	"github.com/shashiranjanraj/backoffice/config"
	"github.com/shashiranjanraj/backoffice/internal/server"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
)

// serve boots every resource, builds the kernel and blocks until the
// server stops.
func (a *Application) serve(ctx context.Context) error {
	closeLog, err := logger.Setup()
	if err != nil {
		return err
	}
	defer closeLog()

	deps, release, err := a.Boot(ctx)
	defer release()
	if err != nil {
		return err
	}

	k, err := a.Kernel(deps)
	if err != nil {
		return err
	}
	return server.Start(ctx, ":"+config.AppPort(), k.Handler())
}
