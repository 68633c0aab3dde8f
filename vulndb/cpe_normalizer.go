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
	"strings"

	"github.com/facebookincubator/nvdtools/wfn"
	"github.com/l3montree-dev/scap-sync/database/models"
	"github.com/l3montree-dev/scap-sync/utils"
	"github.com/pkg/errors"
)

// cpeValue maps a wfn attribute to its stored form.
func cpeValue(v string) string {
	switch v {
	case wfn.Any:
		return "*"
	case wfn.NA:
		return "-"
	}
	return unquote(v)
}

// unquote drops the backslash in front of every quoted character of a wfn value.
func unquote(v string) string {
	if !strings.ContainsRune(v, '\\') {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	escaped := false
	for _, r := range v {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// ParseCPEName decomposes a cpe 2.3 formatted string or a 2.2 uri.
func ParseCPEName(name string) (models.CPEName, error) {
	attr, err := wfn.Parse(name)
	if err != nil {
		return models.CPEName{}, errors.Wrapf(err, "could not parse cpe name %q", name)
	}

	v := cpeValue(attr.Version)
	return models.CPEName{
		CPEName:          name,
		Part:             cpeValue(attr.Part),
		Vendor:           cpeValue(attr.Vendor),
		Product:          cpeValue(attr.Product),
		Version:          v,
		VersionCanonical: CanonicalVersion(v),
		Update:           cpeValue(attr.Update),
		Edition:          cpeValue(attr.Edition),
		Language:         cpeValue(attr.Language),
		SWEdition:        cpeValue(attr.SWEdition),
		TargetSW:         cpeValue(attr.TargetSW),
		TargetHW:         cpeValue(attr.TargetHW),
		Other:            cpeValue(attr.Other),
	}, nil
}

// NormalizeCPEs turns one page of the cpe api into rows. If a cpe name appears more
// than once, the last record wins.
func NormalizeCPEs(records []NVDCPE) (models.CPEChunk, error) {
	records = utils.LastBy(records, func(r NVDCPE) string { return r.CPEName })

	chunk := models.CPEChunk{}
	for _, r := range records {
		name, err := ParseCPEName(r.CPEName)
		if err != nil {
			return models.CPEChunk{}, err
		}

		chunk.CPEs = append(chunk.CPEs, models.CPE{
			CPEName:      r.CPEName,
			CPENameID:    r.CPENameID,
			Deprecated:   r.Deprecated,
			LastModified: r.LastModified.Time(),
			Created:      r.Created.Time(),
		})
		chunk.Names = append(chunk.Names, name)

		for _, t := range r.Titles {
			chunk.Titles = append(chunk.Titles, models.CPETitle{
				CPE:   r.CPEName,
				Title: t.Title,
				Lang:  t.Lang,
			})
		}
		for _, ref := range r.Refs {
			chunk.References = append(chunk.References, models.CPEReference{
				CPE:  r.CPEName,
				Ref:  ref.Ref,
				Type: utils.EmptyThenNil(ref.Type),
			})
		}
		for _, d := range r.DeprecatedBy {
			chunk.DeprecatedBy = append(chunk.DeprecatedBy, models.CPEDeprecatedBy{
				CPE:       r.CPEName,
				CPEName:   d.CPEName,
				CPENameID: utils.EmptyThenNil(d.CPENameID),
			})
		}
	}

	chunk.Titles = utils.UniqBy(chunk.Titles, func(t models.CPETitle) [3]string {
		return [3]string{t.CPE, t.Title, t.Lang}
	})
	chunk.References = utils.UniqBy(chunk.References, func(r models.CPEReference) [2]string {
		return [2]string{r.CPE, r.Ref}
	})
	chunk.DeprecatedBy = utils.UniqBy(chunk.DeprecatedBy, func(d models.CPEDeprecatedBy) [2]string {
		return [2]string{d.CPE, d.CPEName}
	})
	return chunk, nil
}
