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
	"log/slog"

	"github.com/l3montree-dev/scap-sync/config"
	"github.com/l3montree-dev/scap-sync/monitoring"
	"github.com/l3montree-dev/scap-sync/shared"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set via ldflags during build
var version = "dev"

var rootCmd = &cobra.Command{
	SilenceUsage:  true,
	SilenceErrors: true,
	Use:           "scap-sync",
	Short:         "Mirror NVD CVE and CPE data into PostgreSQL",
	Version:       version,
	Long: `scap-sync incrementally synchronizes CVE and CPE records from the NVD API 2.0
into a PostgreSQL database. Every run resumes from the newest last_modified value
already stored.

Configuration is read from the environment (and a ./.env file): DATABASE_HOST,
DATABASE_PORT, DATABASE_NAME, DATABASE_USER, DATABASE_PASSWORD, NVD_API_KEY,
LOG_LEVEL, SYNC_LOOKBACK_DAYS and more.`,
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "Set the log level. Options: debug, info, warn, error")
}

// flag name to configuration key
var flagKeys = map[string]string{
	"log-level":     "LOG_LEVEL",
	"lookback-days": "SYNC_LOOKBACK_DAYS",
}

// loadConfig reads the configuration for cmd and initializes logging and error
// tracking with it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := shared.LoadConfig(); err != nil {
		slog.Warn("could not load .env file", "err", err)
	}

	vp := viper.New()
	bindFlags(cmd, vp)

	cfg, err := config.Load(vp)
	if err != nil {
		return config.Config{}, err
	}

	shared.InitLogger(shared.ParseLogLevel(cfg.LogLevel))
	monitoring.InitErrorTracking(cfg.ErrorTrackingDSN, cfg.Environment, version)
	return cfg, nil
}

// Bind each cobra flag to its associated viper configuration key
func bindFlags(cmd *cobra.Command, vp *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := vp.BindPFlag(key, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}
