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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalVersion(t *testing.T) {
	testCases := []struct {
		input    string
		expected *string
	}{
		{"1.2", ptr("1.2.0")},
		{"1.2.3", ptr("1.2.3")},
		{"01.02.3", ptr("1.2.3")},
		{"2.0-RC1", ptr("2.0.0-rc1")},
		{"*", nil},
		{"-", nil},
		{"", nil},
		{"  ", nil},
		{"abc", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanonicalVersion(tc.input))
		})
	}
}

func ptr[T any](s T) *T {
	return &s
}
