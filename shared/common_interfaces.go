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

package shared

import (
	"context"
	"time"

	"github.com/l3montree-dev/scap-sync/database/models"
)

type LastModifiedReader interface {
	// GetLastModified returns the newest last_modified of the entity kind. ok is false
	// if the store holds no rows yet.
	GetLastModified(ctx context.Context) (lastModified time.Time, ok bool, err error)
}

type CVERepository interface {
	LastModifiedReader
	UpsertChunk(ctx context.Context, chunk models.CVEChunk) error
}

type CPERepository interface {
	LastModifiedReader
	UpsertChunk(ctx context.Context, chunk models.CPEChunk) error
}

type Syncer interface {
	Kind() EntityKind
	Sync(ctx context.Context) error
}

type EntityKind string

const (
	EntityKindCVE EntityKind = "cve"
	EntityKindCPE EntityKind = "cpe"
)

func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(s) {
	case EntityKindCVE, EntityKindCPE:
		return EntityKind(s), true
	}
	return "", false
}
