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
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/l3montree-dev/scap-sync/monitoring"
	"github.com/l3montree-dev/scap-sync/shared"
	"github.com/l3montree-dev/scap-sync/utils"
	"github.com/scylladb/go-set/strset"
	"golang.org/x/sync/errgroup"
)

// SyncService runs the pipelines of all entity kinds concurrently. A failing pipeline
// does not stop the others.
type SyncService struct {
	syncers []shared.Syncer
}

func NewSyncService(syncers []shared.Syncer) *SyncService {
	return &SyncService{syncers: syncers}
}

// Run syncs the given kinds, or every kind if none is given. It waits for all pipelines
// and returns the failures of every pipeline that failed.
func (s *SyncService) Run(ctx context.Context, kinds ...shared.EntityKind) error {
	selected := strset.New(utils.Map(kinds, func(k shared.EntityKind) string { return string(k) })...)

	var g errgroup.Group
	errs := make([]error, len(s.syncers))
	for i, syncer := range s.syncers {
		kind := string(syncer.Kind())
		if !selected.IsEmpty() && !selected.Has(kind) {
			continue
		}

		g.Go(func() error {
			start := time.Now()
			err := syncer.Sync(ctx)
			monitoring.SyncDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
			if err != nil {
				monitoring.SyncFailures.WithLabelValues(kind).Inc()
				monitoring.Alert(fmt.Sprintf("%s sync failed", kind), err)
				errs[i] = err
				return nil
			}
			slog.Info("finished sync", "kind", kind, "duration", time.Since(start))
			return nil
		})
	}
	// the goroutines never return an error, a failure must not cancel the siblings
	_ = g.Wait()

	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
