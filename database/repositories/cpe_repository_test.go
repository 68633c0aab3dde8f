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
	"testing"
	"time"

	"github.com/l3montree-dev/scap-sync/database/models"
	"github.com/l3montree-dev/scap-sync/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cpeChunk(lastModified time.Time, name string, titles ...models.CPETitle) models.CPEChunk {
	return models.CPEChunk{
		CPEs: []models.CPE{{
			CPEName:      name,
			CPENameID:    "5E7B2D4B-0A4F-4C1C-9B7E-2C0A7C1D0001",
			LastModified: lastModified,
			Created:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
		Names: []models.CPEName{{
			CPEName:          name,
			Part:             "a",
			Vendor:           "acme",
			Product:          "widget",
			Version:          "1.2.0",
			VersionCanonical: utils.Ptr("1.2.0"),
			Update:           "*",
			Edition:          "*",
			Language:         "*",
			SWEdition:        "*",
			TargetSW:         "*",
			TargetHW:         "*",
			Other:            "*",
		}},
		Titles: titles,
		References: []models.CPEReference{
			{CPE: name, Ref: "https://acme.example/changelog", Type: utils.Ptr("Change Log")},
		},
	}
}

func TestCPERepositoryUpsertChunk(t *testing.T) {
	ctx := context.Background()
	name := "cpe:2.3:a:acme:widget:1.2.0:*:*:*:*:*:*:*"
	lastModified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("should keep titles in other languages when a title changes", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewCPERepository(db)

		require.NoError(t, repo.UpsertChunk(ctx, cpeChunk(lastModified, name,
			models.CPETitle{CPE: name, Title: "ACME Widget 1.2.0", Lang: "en"},
			models.CPETitle{CPE: name, Title: "ACME Widget 1.2.0 (Version japonaise)", Lang: "fr"},
		)))

		require.NoError(t, repo.UpsertChunk(ctx, cpeChunk(lastModified.Add(time.Hour), name,
			models.CPETitle{CPE: name, Title: "ACME Widget v1.2.0", Lang: "en"},
		)))

		var titles []models.CPETitle
		require.NoError(t, db.Where("lang = ?", "fr").Find(&titles).Error)
		assert.Len(t, titles, 1)

		var en []models.CPETitle
		require.NoError(t, db.Where("lang = ?", "en").Order("title").Find(&en).Error)
		assert.Equal(t, []string{"ACME Widget 1.2.0", "ACME Widget v1.2.0"}, utils.Map(en, func(title models.CPETitle) string { return title.Title }))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewCPERepository(db)
		chunk := cpeChunk(lastModified, name, models.CPETitle{CPE: name, Title: "ACME Widget", Lang: "en"})
		chunk.DeprecatedBy = []models.CPEDeprecatedBy{{CPE: name, CPEName: "cpe:2.3:a:acme:widget2:1.2.0:*:*:*:*:*:*:*"}}

		require.NoError(t, repo.UpsertChunk(ctx, chunk))
		require.NoError(t, repo.UpsertChunk(ctx, chunk))

		assert.Equal(t, int64(1), count[models.CPE](t, db))
		assert.Equal(t, int64(1), count[models.CPEName](t, db))
		assert.Equal(t, int64(1), count[models.CPETitle](t, db))
		assert.Equal(t, int64(1), count[models.CPEReference](t, db))
		assert.Equal(t, int64(1), count[models.CPEDeprecatedBy](t, db))
	})

	t.Run("should update scalar columns and clear optional fields", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewCPERepository(db)

		require.NoError(t, repo.UpsertChunk(ctx, cpeChunk(lastModified, name)))

		updated := cpeChunk(lastModified.Add(24*time.Hour), name)
		updated.CPEs[0].Deprecated = true
		updated.Names[0].VersionCanonical = nil
		updated.References[0].Type = nil
		require.NoError(t, repo.UpsertChunk(ctx, updated))

		var cpe models.CPE
		require.NoError(t, db.First(&cpe, "cpe_name = ?", name).Error)
		assert.True(t, cpe.Deprecated)
		assert.True(t, lastModified.Add(24*time.Hour).Equal(cpe.LastModified))

		var cpeName models.CPEName
		require.NoError(t, db.First(&cpeName, "cpe_name = ?", name).Error)
		assert.Nil(t, cpeName.VersionCanonical)
		assert.Equal(t, "*", cpeName.Update)

		var ref models.CPEReference
		require.NoError(t, db.First(&ref, "cpe = ?", name).Error)
		assert.Nil(t, ref.Type)
	})

	t.Run("should return the newest last_modified", func(t *testing.T) {
		repo := NewCPERepository(newTestDB(t))

		_, ok, err := repo.GetLastModified(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, repo.UpsertChunk(ctx, cpeChunk(lastModified, name)))
		got, ok, err := repo.GetLastModified(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, lastModified.Equal(got))
	})
}
