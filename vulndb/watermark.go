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
	"log/slog"
	"time"

	"github.com/l3montree-dev/scap-sync/shared"
	"github.com/l3montree-dev/scap-sync/utils"
	"github.com/pkg/errors"
)

const DefaultLookbackDays = 2

// WatermarkResolver decides from which point in time a sync starts. The stored
// last_modified is used unless the store is empty or the value is older than the
// lookback window.
type WatermarkResolver struct {
	Lookback int
	Now      func() time.Time
}

func NewWatermarkResolver(lookbackDays int) WatermarkResolver {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return WatermarkResolver{Lookback: lookbackDays, Now: time.Now}
}

// Minimum is the start of the current day (UTC) minus the lookback.
func (w WatermarkResolver) Minimum() time.Time {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	return utils.StartOfDay(now()).AddDate(0, 0, -w.Lookback)
}

func (w WatermarkResolver) Resolve(ctx context.Context, kind shared.EntityKind, repo shared.LastModifiedReader) (time.Time, error) {
	minimum := w.Minimum()

	lastModified, ok, err := repo.GetLastModified(ctx)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "could not read last modified %s", kind)
	}

	if !ok {
		slog.Warn("no last_modified found, defaulting to", "kind", kind, "watermark", minimum)
		return minimum, nil
	}
	if lastModified.Before(minimum) {
		slog.Warn("last_modified too old, defaulting to", "kind", kind, "lastModified", lastModified, "watermark", minimum)
		return minimum, nil
	}
	return lastModified, nil
}
