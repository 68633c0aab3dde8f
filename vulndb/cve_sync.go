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

type CVESyncer struct {
	pipeline pipeline[NVDCVE, models.CVEChunk]
}

func NewCVESyncer(fetcher CVEFetcher, repo shared.CVERepository, watermark WatermarkResolver) *CVESyncer {
	return &CVESyncer{
		pipeline: pipeline[NVDCVE, models.CVEChunk]{
			kind:      shared.EntityKindCVE,
			watermark: watermark,
			repo:      repo,
			fetch:     fetcher.CVEChunks,
			validate:  InvalidCVSSVectors,
			normalize: func(records []NVDCVE) (models.CVEChunk, error) {
				return NormalizeCVEs(records), nil
			},
		},
	}
}

func (s *CVESyncer) Kind() shared.EntityKind {
	return shared.EntityKindCVE
}

func (s *CVESyncer) Sync(ctx context.Context) error {
	return s.pipeline.run(ctx)
}
