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

package integrationtestutil

import (
	"context"
	"log/slog"
	"time"

	"github.com/l3montree-dev/scap-sync/database"
	"github.com/l3montree-dev/scap-sync/database/models"
	"github.com/l3montree-dev/scap-sync/shared"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a fresh in-memory database with the scap tables.
// Every connection to ":memory:" gets its own database, so the pool is limited to one.
func NewSQLiteDB() (shared.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, err
	}
	return db, nil
}

// InitDatabaseContainer starts a postgres container, runs the embedded migrations and
// returns a connected gorm instance. The returned function stops the container.
func InitDatabaseContainer(ctx context.Context) (shared.DB, func(), error) {
	dbName := "scap"
	dbUser := "user"
	dbPassword := "password"

	postgresC, err := postgres.Run(ctx,
		"postgres:15-bookworm",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	terminate := func() {
		if err := testcontainers.TerminateContainer(postgresC); err != nil {
			slog.Warn("failed to terminate container", "err", err)
		}
	}
	if err != nil {
		return nil, terminate, err
	}

	host, err := postgresC.Host(ctx)
	if err != nil {
		return nil, terminate, err
	}
	port, err := postgresC.MappedPort(ctx, "5432")
	if err != nil {
		return nil, terminate, err
	}

	cfg := database.PoolConfig{
		MaxOpenConns:    5,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
		User:            dbUser,
		DBName:          dbName,
		Password:        dbPassword,
		Host:            host,
		Port:            port.Port(),
	}
	pool, err := database.NewPgxConnPool(cfg)
	if err != nil {
		return nil, terminate, err
	}
	db, err := database.NewGormDB(pool, cfg)
	if err != nil {
		pool.Close()
		return nil, terminate, err
	}

	if err := database.RunMigrationsWithDB(db); err != nil {
		pool.Close()
		return nil, terminate, err
	}

	return db, func() {
		pool.Close()
		terminate()
	}, nil
}
