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

	"github.com/l3montree-dev/scap-sync/database/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type cpeRepository struct {
	GormRepository
}

func NewCPERepository(db *gorm.DB) *cpeRepository {
	return &cpeRepository{
		GormRepository: newGormRepository(db),
	}
}

func (g *cpeRepository) GetLastModified(ctx context.Context) (time.Time, bool, error) {
	return lastModified[models.CPE](ctx, g.db)
}

// UpsertChunk merges one chunk of cpes. Child rows are never deleted, a changed title
// in one language leaves the titles in other languages in place.
func (g *cpeRepository) UpsertChunk(ctx context.Context, chunk models.CPEChunk) error {
	if chunk.Len() == 0 {
		return nil
	}

	return g.inTransaction(ctx, func(tx *gorm.DB) error {
		if err := upsert(tx, chunk.CPEs, []string{"cpe_name"}, []string{"cpe_name_id", "deprecated", "last_modified", "created"}); err != nil {
			return errors.Wrap(err, "could not upsert cpes")
		}
		if err := upsert(tx, chunk.Names, []string{"cpe_name"}, []string{
			"part", "vendor", "product", "version", "version_canonical", "update",
			"edition", "language", "sw_edition", "target_sw", "target_hw", "other",
		}); err != nil {
			return errors.Wrap(err, "could not upsert cpe names")
		}
		if err := upsert(tx, chunk.Titles, []string{"cpe", "title", "lang"}, nil); err != nil {
			return errors.Wrap(err, "could not upsert cpe titles")
		}
		if err := upsert(tx, chunk.References, []string{"cpe", "ref"}, []string{"type"}); err != nil {
			return errors.Wrap(err, "could not upsert cpe references")
		}
		if err := upsert(tx, chunk.DeprecatedBy, []string{"cpe", "cpe_name"}, []string{"cpe_name_id"}); err != nil {
			return errors.Wrap(err, "could not upsert cpe deprecations")
		}
		return nil
	})
}
