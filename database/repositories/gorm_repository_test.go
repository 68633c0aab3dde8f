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
	"fmt"
	"testing"
	"time"

	"github.com/l3montree-dev/scap-sync/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchSize(t *testing.T) {
	t.Run("should cap narrow tables at the default batch size", func(t *testing.T) {
		assert.Equal(t, maxBatchSize, batchSize(21))
		assert.Equal(t, maxBatchSize, batchSize(0))
	})

	t.Run("should keep wide tables below the parameter limit", func(t *testing.T) {
		assert.Equal(t, 327, batchSize(200))
		assert.LessOrEqual(t, batchSize(1000)*1000, maxParameters)
	})

	t.Run("should derive the column count from the model", func(t *testing.T) {
		db := newTestDB(t)

		size, err := batchSizeFor[models.CVSSv3Metric](db)
		require.NoError(t, err)
		assert.Equal(t, maxBatchSize, size)
	})
}

func TestUpsertSpansSeveralBatches(t *testing.T) {
	db := newTestDB(t)
	repo := NewCVERepository(db)
	ids := make([]string, 0, 2*maxBatchSize+1)
	for i := range cap(ids) {
		ids = append(ids, fmt.Sprintf("CVE-2024-%05d", i))
	}

	require.NoError(t, repo.UpsertChunk(context.Background(), cveChunk(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ids...)))
	require.NoError(t, repo.UpsertChunk(context.Background(), cveChunk(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ids...)))

	assert.Equal(t, int64(len(ids)), count[models.CVE](t, db))
	assert.Equal(t, int64(len(ids)), count[models.CPEMatch](t, db))
	assert.Equal(t, int64(len(ids)), count[models.CVSSv3Metric](t, db))
}
