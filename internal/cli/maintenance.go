package cli

//
// maintenance.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-calsub/internal/service"
)

func newMaintenanceCmd() *cli.Command {
	return &cli.Command{
		Name:   "maintenance",
		Usage:  "maintenance database",
		Action: wrap(maintenanceCmd),
	}
}

//nolint:forbidigo
func maintenanceCmd(ctx context.Context, _ *cli.Command, injector do.Injector) error {
	maintSrv := do.MustInvoke[*service.MaintenanceSrv](injector)

	if err := maintSrv.MaintainDatabase(ctx); err != nil {
		return fmt.Errorf("maintenance error: %w", err)
	}

	fmt.Println("Done")

	return nil
}
