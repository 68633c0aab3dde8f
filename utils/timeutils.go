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

package utils

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// NVDTimestampFormat is the layout the NVD API uses for published and lastModified.
// Fractional seconds are optional and the value carries no offset; it is UTC.
const NVDTimestampFormat = "2006-01-02T15:04:05"

// NVDRequestFormat is the layout accepted by the lastModStartDate and lastModEndDate parameters.
const NVDRequestFormat = "2006-01-02T15:04:05.000-07:00"

const DateFormat = "2006-01-02"

// Timestamp decodes NVD timestamps into UTC time values.
type Timestamp time.Time

func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(NVDTimestampFormat, s, time.UTC); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "could not parse timestamp %q", s)
	}
	return t.UTC(), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(NVDTimestampFormat + ".000"))
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

type Date time.Time

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return errors.Wrapf(err, "could not parse date %q", s)
	}
	*d = Date(t)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(DateFormat))
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
