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

package vulndb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/l3montree-dev/scap-sync/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lastModifiedStub struct {
	lastModified time.Time
	ok           bool
	err          error
}

func (s lastModifiedStub) GetLastModified(ctx context.Context) (time.Time, bool, error) {
	return s.lastModified, s.ok, s.err
}

func TestWatermarkResolver(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	resolver := WatermarkResolver{Lookback: 2, Now: func() time.Time { return now }}
	minimum := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	t.Run("should start two days back at the start of the day on an empty store", func(t *testing.T) {
		got, err := resolver.Resolve(context.Background(), shared.EntityKindCVE, lastModifiedStub{})
		require.NoError(t, err)
		assert.Equal(t, minimum, got)
	})

	t.Run("should clamp a stale watermark", func(t *testing.T) {
		stale := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		got, err := resolver.Resolve(context.Background(), shared.EntityKindCPE, lastModifiedStub{lastModified: stale, ok: true})
		require.NoError(t, err)
		assert.Equal(t, minimum, got)
	})

	t.Run("should use the stored watermark if it is recent", func(t *testing.T) {
		recent := time.Date(2024, 3, 9, 17, 30, 0, 0, time.UTC)
		got, err := resolver.Resolve(context.Background(), shared.EntityKindCVE, lastModifiedStub{lastModified: recent, ok: true})
		require.NoError(t, err)
		assert.Equal(t, recent, got)
	})

	t.Run("should keep a watermark equal to the minimum", func(t *testing.T) {
		got, err := resolver.Resolve(context.Background(), shared.EntityKindCVE, lastModifiedStub{lastModified: minimum, ok: true})
		require.NoError(t, err)
		assert.Equal(t, minimum, got)
	})

	t.Run("should return the error of the store", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		_, err := resolver.Resolve(context.Background(), shared.EntityKindCVE, lastModifiedStub{err: storeErr})
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("should default to two days", func(t *testing.T) {
		assert.Equal(t, DefaultLookbackDays, NewWatermarkResolver(0).Lookback)
		assert.Equal(t, 7, NewWatermarkResolver(7).Lookback)
	})
}
