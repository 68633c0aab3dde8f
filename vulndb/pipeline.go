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
	"iter"
	"log/slog"
	"time"

	"github.com/l3montree-dev/scap-sync/monitoring"
	"github.com/l3montree-dev/scap-sync/shared"
	"github.com/pkg/errors"
)

type chunk interface {
	Len() int
}

type chunkWriter[C chunk] interface {
	shared.LastModifiedReader
	UpsertChunk(ctx context.Context, chunk C) error
}

// pipeline is the resolve, fetch, normalize and write loop of one entity kind. Chunks
// are written strictly one after another.
type pipeline[R any, C chunk] struct {
	kind      shared.EntityKind
	watermark WatermarkResolver
	repo      chunkWriter[C]
	fetch     func(ctx context.Context, since time.Time) iter.Seq2[[]R, error]
	normalize func(records []R) (C, error)
	validate  func(c C) []error // optional, findings are logged and the chunk is still written
}

func (p pipeline[R, C]) run(ctx context.Context) error {
	kind := string(p.kind)
	slog.Info(fmt.Sprintf("starting %s sync", kind))

	since, err := p.watermark.Resolve(ctx, p.kind, p.repo)
	if err != nil {
		return err
	}
	monitoring.Watermark.WithLabelValues(kind).Set(float64(since.Unix()))
	slog.Info("resolved watermark", "kind", kind, "since", since)

	total := 0
	chunks := 0
	for records, err := range p.fetch(ctx, since) {
		if err != nil {
			return errors.Wrapf(err, "could not fetch %ss", kind)
		}

		c, err := p.normalize(records)
		if err != nil {
			return errors.Wrapf(err, "could not normalize %ss", kind)
		}
		if p.validate != nil {
			for _, finding := range p.validate(c) {
				slog.Warn("invalid record", "kind", kind, "err", finding)
			}
		}
		if err := p.repo.UpsertChunk(ctx, c); err != nil {
			return errors.Wrapf(err, "could not upsert %ss", kind)
		}

		total += c.Len()
		chunks++
		monitoring.RecordsUpserted.WithLabelValues(kind).Add(float64(c.Len()))
		monitoring.ChunksWritten.WithLabelValues(kind).Inc()
		slog.Info(fmt.Sprintf("upserted %d %ss", c.Len(), kind), "chunk", chunks)
	}

	slog.Info(fmt.Sprintf("finished %s sync", kind), "records", total, "chunks", chunks)
	return nil
}
