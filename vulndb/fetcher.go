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
	"iter"
	"time"
)

// CVEFetcher yields pages of cves modified since the given time. The sequence ends
// after the first error.
type CVEFetcher interface {
	CVEChunks(ctx context.Context, since time.Time) iter.Seq2[[]NVDCVE, error]
}

type CPEFetcher interface {
	CPEChunks(ctx context.Context, since time.Time) iter.Seq2[[]NVDCPE, error]
}
