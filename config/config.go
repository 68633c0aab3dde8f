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

package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/l3montree-dev/scap-sync/database"
	"github.com/l3montree-dev/scap-sync/vulndb"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is built once at startup. The mapstructure keys are the environment variable
// names.
type Config struct {
	NVDAPIKey          string `mapstructure:"NVD_API_KEY"`
	NVDRequestAttempts int    `mapstructure:"NVD_REQUEST_ATTEMPTS" validate:"gte=1"`

	DatabaseHost     string `mapstructure:"DATABASE_HOST" validate:"required"`
	DatabasePort     string `mapstructure:"DATABASE_PORT" validate:"required,numeric"`
	DatabaseName     string `mapstructure:"DATABASE_NAME" validate:"required"`
	DatabaseUser     string `mapstructure:"DATABASE_USER" validate:"required"`
	DatabasePassword string `mapstructure:"DATABASE_PASSWORD" validate:"required"`

	DBMaxOpenConns    int32         `mapstructure:"DB_MAX_OPEN_CONNS" validate:"gte=1"`
	DBMinConns        int32         `mapstructure:"DB_MIN_CONNS" validate:"gte=0,ltefield=DBMaxOpenConns"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	DBConnMaxIdleTime time.Duration `mapstructure:"DB_CONN_MAX_IDLE_TIME"`

	LogLevel         string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	SyncLookbackDays int    `mapstructure:"SYNC_LOOKBACK_DAYS" validate:"gte=1"`

	PushgatewayURL     string `mapstructure:"PUSHGATEWAY_URL" validate:"omitempty,url"`
	ErrorTrackingDSN   string `mapstructure:"ERROR_TRACKING_DSN"`
	Environment        string `mapstructure:"ENVIRONMENT"`
	DisableAutomigrate bool   `mapstructure:"DISABLE_AUTOMIGRATE"`
}

var v = validator.New()

func init() {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("mapstructure")
	})
}

func setDefaults(vp *viper.Viper) {
	pool := database.DefaultPoolConfig()

	vp.SetDefault("NVD_REQUEST_ATTEMPTS", 10)
	vp.SetDefault("DATABASE_PORT", pool.Port)
	vp.SetDefault("DB_MAX_OPEN_CONNS", pool.MaxOpenConns)
	vp.SetDefault("DB_MIN_CONNS", pool.MinConns)
	vp.SetDefault("DB_CONN_MAX_LIFETIME", pool.ConnMaxLifetime)
	vp.SetDefault("DB_CONN_MAX_IDLE_TIME", pool.ConnMaxIdleTime)
	vp.SetDefault("LOG_LEVEL", "info")
	vp.SetDefault("SYNC_LOOKBACK_DAYS", vulndb.DefaultLookbackDays)
	vp.SetDefault("ENVIRONMENT", "production")
	vp.SetDefault("DISABLE_AUTOMIGRATE", false)
}

// Load reads the configuration from the environment and the flags bound to vp. All
// missing or invalid keys are reported in one error.
func Load(vp *viper.Viper) (Config, error) {
	setDefaults(vp)
	vp.AutomaticEnv()

	// Unmarshal only sees keys viper knows about
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		if err := vp.BindEnv(t.Field(i).Tag.Get("mapstructure")); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := vp.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))); err != nil {
		return Config{}, errors.Wrap(err, "could not read configuration")
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := v.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			keys := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				keys = append(keys, fe.Field()+" ("+fe.Tag()+")")
			}
			return Config{}, errors.Errorf("missing or invalid configuration: %s", strings.Join(keys, ", "))
		}
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) PoolConfig() database.PoolConfig {
	return database.PoolConfig{
		User:            c.DatabaseUser,
		Password:        c.DatabasePassword,
		Host:            c.DatabaseHost,
		Port:            c.DatabasePort,
		DBName:          c.DatabaseName,
		MaxOpenConns:    c.DBMaxOpenConns,
		MinConns:        c.DBMinConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnMaxIdleTime: c.DBConnMaxIdleTime,
		Debug:           c.LogLevel == "debug",
	}
}

func (c Config) NVDClientOptions() vulndb.NVDClientOptions {
	return vulndb.NVDClientOptions{
		APIKey:          c.NVDAPIKey,
		RequestAttempts: c.NVDRequestAttempts,
	}
}

func (c Config) WatermarkResolver() vulndb.WatermarkResolver {
	return vulndb.NewWatermarkResolver(c.SyncLookbackDays)
}
