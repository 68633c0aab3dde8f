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

package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// bind parameters postgres accepts per statement
	maxParameters = 65535
	maxBatchSize  = 500
)

type GormRepository struct {
	db *gorm.DB
}

func newGormRepository(db *gorm.DB) GormRepository {
	return GormRepository{db: db}
}

// inTransaction runs fn in a single transaction. gorm rolls back if fn returns an
// error or panics.
func (g *GormRepository) inTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

// batchSize is the number of rows of a table with the given column count that fit
// into one statement.
func batchSize(columns int) int {
	if columns <= 0 {
		return maxBatchSize
	}
	return min(maxBatchSize, maxParameters/columns)
}

func batchSizeFor[T any](tx *gorm.DB) (int, error) {
	stmt := &gorm.Statement{DB: tx}
	if err := stmt.Parse(new(T)); err != nil {
		return 0, errors.Wrap(err, "could not parse model")
	}
	return batchSize(len(stmt.Schema.DBNames)), nil
}

func createInBatches[T any](tx *gorm.DB, rows []T, clauses ...clause.Expression) error {
	size, err := batchSizeFor[T](tx)
	if err != nil {
		return err
	}
	return tx.Clauses(clauses...).CreateInBatches(&rows, size).Error
}

// upsert inserts rows and updates the given columns on conflict. Tables keyed by all
// of their columns have nothing to update and ignore conflicts instead.
func upsert[T any](tx *gorm.DB, rows []T, conflictColumns []string, updateColumns []string) error {
	if len(rows) == 0 {
		return nil
	}

	onConflict := clause.OnConflict{
		Columns: make([]clause.Column, len(conflictColumns)),
	}
	for i, c := range conflictColumns {
		onConflict.Columns[i] = clause.Column{Name: c}
	}
	if len(updateColumns) == 0 {
		onConflict.DoNothing = true
	} else {
		onConflict.DoUpdates = clause.AssignmentColumns(updateColumns)
	}

	return createInBatches(tx, rows, onConflict)
}

func insert[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return createInBatches(tx, rows)
}

// deleteByParent removes all rows of T owned by one of the parent ids. It never runs
// without ids.
func deleteByParent[T any](tx *gorm.DB, parentColumn string, parentIDs []string) error {
	if len(parentIDs) == 0 {
		return nil
	}
	return tx.Where(parentColumn+" IN ?", parentIDs).Delete(new(T)).Error
}

func lastModified[T any](ctx context.Context, db *gorm.DB) (time.Time, bool, error) {
	var values []time.Time
	err := db.WithContext(ctx).Model(new(T)).Order("last_modified DESC").Limit(1).Pluck("last_modified", &values).Error
	if err != nil {
		return time.Time{}, false, errors.Wrap(err, "could not query last_modified")
	}
	if len(values) == 0 {
		return time.Time{}, false, nil
	}
	return values[0].UTC(), true, nil
}
