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

	"github.com/hashicorp/go-version"
)

// CanonicalVersion returns a normalized form of a cpe version usable for range
// comparisons. Numeric segments lose their leading zeros and the pre-release part is
// lowercased, so "01.2-RC1" becomes "1.2.0-rc1". Logical values and versions that do
// not parse return nil.
func CanonicalVersion(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || v == "*" || v == "-" {
		return nil
	}

	parsed, err := version.NewVersion(v)
	if err != nil {
		return nil
	}

	canonical := strings.ToLower(parsed.String())
	return &canonical
}
