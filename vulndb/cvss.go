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
	"fmt"
	"strings"

	"github.com/l3montree-dev/scap-sync/database/models"
	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// validCVSSVector reports whether the vector parses for its cvss version. An invalid
// vector is still stored, the result is only used for diagnostics.
func validCVSSVector(vector string) bool {
	var err error
	switch {
	case strings.HasPrefix(vector, "CVSS:3.0"):
		_, err = gocvss30.ParseVector(vector)
	case strings.HasPrefix(vector, "CVSS:3.1"):
		_, err = gocvss31.ParseVector(vector)
	case strings.HasPrefix(vector, "CVSS:4.0"):
		_, err = gocvss40.ParseVector(vector)
	default:
		// should be CVSS v2.0 or is invalid
		_, err = gocvss20.ParseVector(vector)
	}
	return err == nil
}

// InvalidVectorError names a stored cvss vector which does not parse for its version.
type InvalidVectorError struct {
	CVEID  string
	Source string
	Vector string
}

func (e *InvalidVectorError) Error() string {
	return fmt.Sprintf("invalid cvss vector %q of %s from %s", e.Vector, e.CVEID, e.Source)
}

// InvalidCVSSVectors returns one error per metric row of the chunk whose vector does not
// parse. The rows themselves are kept.
func InvalidCVSSVectors(chunk models.CVEChunk) []error {
	var errs []error
	check := func(cveID, source, vector string) {
		if vector != "" && !validCVSSVector(vector) {
			errs = append(errs, &InvalidVectorError{CVEID: cveID, Source: source, Vector: vector})
		}
	}
	for _, m := range chunk.CVSSv2 {
		check(m.CVEID, m.Source, m.VectorString)
	}
	for _, m := range chunk.CVSSv3 {
		check(m.CVEID, m.Source, m.VectorString)
	}
	for _, m := range chunk.CVSSv4 {
		check(m.CVEID, m.Source, m.VectorString)
	}
	return errs
}
