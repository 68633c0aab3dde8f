// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/l3montree-dev/scap-sync/database"
	"github.com/l3montree-dev/scap-sync/database/repositories"
	"github.com/l3montree-dev/scap-sync/monitoring"
	"github.com/l3montree-dev/scap-sync/shared"
	"github.com/l3montree-dev/scap-sync/vulndb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func parseKinds(only []string) ([]shared.EntityKind, error) {
	kinds := make([]shared.EntityKind, 0, len(only))
	for _, o := range only {
		kind, ok := shared.ParseEntityKind(o)
		if !ok {
			return nil, fmt.Errorf("unknown entity kind %q. Possible values are: cve, cpe", o)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func NewSyncCommand() *cobra.Command {
	syncCmd := cobra.Command{
		Use:   "sync",
		Short: "Synchronize cves and cpes modified since the last run",
		Long: `Synchronizes CVE and CPE records from the NVD API 2.0. Both entity kinds are
synchronized concurrently. A failure of one kind does not stop the other, but the
command exits non-zero if any kind failed.

Use --only to sync a single entity kind.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			only, _ := cmd.Flags().GetStringArray("only")
			kinds, err := parseKinds(only)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer monitoring.FlushErrorTracking()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var db shared.DB
			var syncService *vulndb.SyncService
			app := fx.New(
				fx.NopLogger,
				fx.Supply(cfg.PoolConfig(), cfg.NVDClientOptions(), cfg.WatermarkResolver()),
				database.Module,
				repositories.Module,
				vulndb.Module,
				fx.Populate(&db, &syncService),
			)

			startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return errors.Wrap(err, "could not start")
			}
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := app.Stop(stopCtx); err != nil {
					slog.Error("could not stop", "err", err)
				}
			}()

			if cfg.DisableAutomigrate {
				slog.Info("automatic migrations disabled via DISABLE_AUTOMIGRATE=true")
			} else if err := database.RunMigrationsWithDB(db); err != nil {
				return err
			}

			start := time.Now()
			runErr := syncService.Run(ctx, kinds...)

			if err := monitoring.PushMetrics(cfg.PushgatewayURL); err != nil {
				slog.Warn("could not push metrics", "err", err)
			}
			if runErr != nil {
				return errors.Wrap(runErr, "sync failed")
			}
			slog.Info("sync finished", "duration", time.Since(start))
			return nil
		},
	}
	syncCmd.Flags().StringArray("only", []string{}, "restrict the sync to the given entity kinds. Possible values are: cve, cpe")
	syncCmd.Flags().Int("lookback-days", 2, "never start a sync further back than this many days before today")

	return &syncCmd
}
