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
	"github.com/l3montree-dev/scap-sync/shared"
	"go.uber.org/fx"
)

// AsSyncer annotates the result for the syncers value group
type AsSyncer struct {
	fx.Out

	Syncer shared.Syncer `group:"syncers"`
}

func ProvideCVESyncer(fetcher CVEFetcher, repo shared.CVERepository, watermark WatermarkResolver) AsSyncer {
	return AsSyncer{Syncer: NewCVESyncer(fetcher, repo, watermark)}
}

func ProvideCPESyncer(fetcher CPEFetcher, repo shared.CPERepository, watermark WatermarkResolver) AsSyncer {
	return AsSyncer{Syncer: NewCPESyncer(fetcher, repo, watermark)}
}

// SyncServiceParams is used to consume the syncers value group
type SyncServiceParams struct {
	fx.In

	Syncers []shared.Syncer `group:"syncers"`
}

func ProvideSyncService(params SyncServiceParams) *SyncService {
	return NewSyncService(params.Syncers)
}

// Module expects NVDClientOptions and a WatermarkResolver to be supplied.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewNVDClient,
		fx.As(new(CVEFetcher)),
		fx.As(new(CPEFetcher)),
	)),
	fx.Provide(ProvideCVESyncer),
	fx.Provide(ProvideCPESyncer),
	fx.Provide(ProvideSyncService),
)
