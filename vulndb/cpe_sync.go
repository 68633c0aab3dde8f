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

	"github.com/l3montree-dev/scap-sync/database/models"
	"github.com/l3montree-dev/scap-sync/shared"
)

type CPESyncer struct {
	pipeline pipeline[NVDCPE, models.CPEChunk]
}

func NewCPESyncer(fetcher CPEFetcher, repo shared.CPERepository, watermark WatermarkResolver) *CPESyncer {
	return &CPESyncer{
		pipeline: pipeline[NVDCPE, models.CPEChunk]{
			kind:      shared.EntityKindCPE,
			watermark: watermark,
			repo:      repo,
			fetch:     fetcher.CPEChunks,
			normalize: NormalizeCPEs,
		},
	}
}

func (s *CPESyncer) Kind() shared.EntityKind {
	return shared.EntityKindCPE
}

func (s *CPESyncer) Sync(ctx context.Context) error {
	return s.pipeline.run(ctx)
}
