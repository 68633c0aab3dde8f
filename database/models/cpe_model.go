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

package models

import "time"

type CPE struct {
	CPEName      string    `json:"cpeName" gorm:"column:cpe_name;primaryKey;not null;type:text;"`
	CPENameID    string    `json:"cpeNameId" gorm:"column:cpe_name_id;not null;type:text;"`
	Deprecated   bool      `json:"deprecated" gorm:"not null;"`
	LastModified time.Time `json:"lastModified" gorm:"not null;index;"`
	Created      time.Time `json:"created" gorm:"not null;"`
}

func (m CPE) TableName() string {
	return "cpes"
}

// CPEName is the decomposed form of a cpe name. Logical values are stored as "*" (ANY)
// and "-" (NA).
type CPEName struct {
	CPEName          string  `json:"cpeName" gorm:"column:cpe_name;primaryKey;not null;type:text;"`
	Part             string  `json:"part" gorm:"type:text;"`
	Vendor           string  `json:"vendor" gorm:"type:text;"`
	Product          string  `json:"product" gorm:"type:text;"`
	Version          string  `json:"version" gorm:"type:text;"`
	VersionCanonical *string `json:"versionCanonical" gorm:"type:text;"`
	Update           string  `json:"update" gorm:"column:update;type:text;"`
	Edition          string  `json:"edition" gorm:"type:text;"`
	Language         string  `json:"language" gorm:"type:text;"`
	SWEdition        string  `json:"swEdition" gorm:"column:sw_edition;type:text;"`
	TargetSW         string  `json:"targetSw" gorm:"column:target_sw;type:text;"`
	TargetHW         string  `json:"targetHw" gorm:"column:target_hw;type:text;"`
	Other            string  `json:"other" gorm:"type:text;"`
}

func (m CPEName) TableName() string {
	return "cpe_names"
}

type CPETitle struct {
	CPE   string `json:"cpe" gorm:"column:cpe;primaryKey;not null;type:text;"`
	Title string `json:"title" gorm:"primaryKey;not null;type:text;"`
	Lang  string `json:"lang" gorm:"primaryKey;not null;type:text;"`
}

func (m CPETitle) TableName() string {
	return "cpe_titles"
}

type CPEReference struct {
	CPE  string  `json:"cpe" gorm:"column:cpe;primaryKey;not null;type:text;"`
	Ref  string  `json:"ref" gorm:"primaryKey;not null;type:text;"`
	Type *string `json:"type" gorm:"type:text;"`
}

func (m CPEReference) TableName() string {
	return "cpe_references"
}

type CPEDeprecatedBy struct {
	CPE       string  `json:"cpe" gorm:"column:cpe;primaryKey;not null;type:text;"`
	CPEName   string  `json:"cpeName" gorm:"column:cpe_name;primaryKey;not null;type:text;"`
	CPENameID *string `json:"cpeNameId" gorm:"column:cpe_name_id;type:text;"`
}

func (m CPEDeprecatedBy) TableName() string {
	return "cpe_deprecated_by"
}

// CPEChunk holds the normalized rows of one fetched page of cpes.
type CPEChunk struct {
	CPEs         []CPE
	Names        []CPEName
	Titles       []CPETitle
	References   []CPEReference
	DeprecatedBy []CPEDeprecatedBy
}

func (c CPEChunk) IDs() []string {
	ids := make([]string, len(c.CPEs))
	for i, cpe := range c.CPEs {
		ids[i] = cpe.CPEName
	}
	return ids
}

func (c CPEChunk) Len() int {
	return len(c.CPEs)
}

// All lists every model scap-sync writes to, in dependency order.
func All() []any {
	return []any{
		&CVE{},
		&CVEDescription{},
		&CVEReference{},
		&Weakness{},
		&WeaknessDescription{},
		&VendorComment{},
		&Configuration{},
		&ConfigurationNode{},
		&CPEMatch{},
		&CVSSv2Metric{},
		&CVSSv3Metric{},
		&CVSSv4Metric{},
		&CPE{},
		&CPEName{},
		&CPETitle{},
		&CPEReference{},
		&CPEDeprecatedBy{},
	}
}
