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

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CVE struct {
	ID                    string          `json:"id" gorm:"primaryKey;not null;type:text;"`
	SourceIdentifier      *string         `json:"sourceIdentifier" gorm:"type:text;"`
	Published             time.Time       `json:"published" gorm:"not null;"`
	LastModified          time.Time       `json:"lastModified" gorm:"not null;index;"`
	VulnStatus            *string         `json:"vulnStatus" gorm:"type:text;"`
	EvaluatorComment      *string         `json:"evaluatorComment" gorm:"type:text;"`
	EvaluatorSolution     *string         `json:"evaluatorSolution" gorm:"type:text;"`
	EvaluatorImpact       *string         `json:"evaluatorImpact" gorm:"type:text;"`
	CISAExploitAdd        *datatypes.Date `json:"cisaExploitAdd" gorm:"column:cisa_exploit_add;type:date;"`
	CISAActionDue         *datatypes.Date `json:"cisaActionDue" gorm:"column:cisa_action_due;type:date;"`
	CISARequiredAction    *string         `json:"cisaRequiredAction" gorm:"column:cisa_required_action;type:text;"`
	CISAVulnerabilityName *string         `json:"cisaVulnerabilityName" gorm:"column:cisa_vulnerability_name;type:text;"`
}

func (m CVE) TableName() string {
	return "cves"
}

type CVEDescription struct {
	CVEID string `json:"cveId" gorm:"column:cve_id;primaryKey;not null;type:text;"`
	Lang  string `json:"lang" gorm:"primaryKey;not null;type:text;"`
	Value string `json:"value" gorm:"type:text;"`
}

func (m CVEDescription) TableName() string {
	return "cve_descriptions"
}

type CVEReference struct {
	CVEID  string                      `json:"cveId" gorm:"column:cve_id;primaryKey;not null;type:text;"`
	URL    string                      `json:"url" gorm:"column:url;primaryKey;not null;type:text;"`
	Source *string                     `json:"source" gorm:"type:text;"`
	Tags   datatypes.JSONSlice[string] `json:"tags"`
}

func (m CVEReference) TableName() string {
	return "cve_references"
}

type Weakness struct {
	CVEID  string `json:"cveId" gorm:"column:cve_id;primaryKey;not null;type:text;"`
	Source string `json:"source" gorm:"primaryKey;not null;type:text;"`
	Type   string `json:"type" gorm:"primaryKey;not null;type:text;"`
}

func (m Weakness) TableName() string {
	return "cve_weaknesses"
}

// WeaknessDescription is keyed by all of its columns, no subset is guaranteed unique.
type WeaknessDescription struct {
	CVEID  string `json:"cveId" gorm:"column:cve_id;primaryKey;not null;type:text;"`
	Source string `json:"source" gorm:"primaryKey;not null;type:text;"`
	Type   string `json:"type" gorm:"primaryKey;not null;type:text;"`
	Lang   string `json:"lang" gorm:"primaryKey;not null;type:text;"`
	Value  string `json:"value" gorm:"primaryKey;not null;type:text;"`
}

func (m WeaknessDescription) TableName() string {
	return "cve_weakness_descriptions"
}

type VendorComment struct {
	CVEID        string     `json:"cveId" gorm:"column:cve_id;primaryKey;not null;type:text;"`
	Organization string     `json:"organization" gorm:"primaryKey;not null;type:text;"`
	Comment      *string    `json:"comment" gorm:"type:text;"`
	LastModified *time.Time `json:"lastModified"`
}

func (m VendorComment) TableName() string {
	return "cve_vendor_comments"
}

// Configuration, ConfigurationNode and CPEMatch form the applicability tree of a cve.
// The tree has no natural key and is replaced as a whole on every sync.
type Configuration struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;"`
	CVEID    string    `json:"cveId" gorm:"column:cve_id;not null;type:text;index;"`
	Operator *string   `json:"operator" gorm:"type:text;"`
	Negate   *bool     `json:"negate"`
}

func (m Configuration) TableName() string {
	return "cve_configurations"
}

type ConfigurationNode struct {
	ID              uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;"`
	ConfigurationID uuid.UUID `json:"configurationId" gorm:"not null;type:uuid;index;"`
	Operator        *string   `json:"operator" gorm:"type:text;"`
	Negate          *bool     `json:"negate"`
}

func (m ConfigurationNode) TableName() string {
	return "cve_configuration_nodes"
}

type CPEMatch struct {
	ID                    int64     `json:"id" gorm:"primaryKey;autoIncrement;"`
	NodeID                uuid.UUID `json:"nodeId" gorm:"not null;type:uuid;index;"`
	MatchCriteriaID       string    `json:"matchCriteriaId" gorm:"not null;type:text;"`
	Vulnerable            bool      `json:"vulnerable" gorm:"not null;"`
	Criteria              string    `json:"criteria" gorm:"not null;type:text;"`
	VersionStartExcluding *string   `json:"versionStartExcluding" gorm:"type:text;"`
	VersionStartIncluding *string   `json:"versionStartIncluding" gorm:"type:text;"`
	VersionEndExcluding   *string   `json:"versionEndExcluding" gorm:"type:text;"`
	VersionEndIncluding   *string   `json:"versionEndIncluding" gorm:"type:text;"`
}

func (m CPEMatch) TableName() string {
	return "cve_cpe_matches"
}

type CVSSv2Metric struct {
	ID                         int64    `json:"id" gorm:"primaryKey;autoIncrement;"`
	CVEID                      string   `json:"cveId" gorm:"column:cve_id;not null;type:text;index;"`
	Source                     string   `json:"source" gorm:"not null;type:text;"`
	Type                       string   `json:"type" gorm:"not null;type:text;"`
	Version                    string   `json:"version" gorm:"type:text;"`
	VectorString               string   `json:"vectorString" gorm:"type:text;"`
	AccessVector               *string  `json:"accessVector" gorm:"type:text;"`
	AccessComplexity           *string  `json:"accessComplexity" gorm:"type:text;"`
	Authentication             *string  `json:"authentication" gorm:"type:text;"`
	ConfidentialityImpact      *string  `json:"confidentialityImpact" gorm:"type:text;"`
	IntegrityImpact            *string  `json:"integrityImpact" gorm:"type:text;"`
	AvailabilityImpact         *string  `json:"availabilityImpact" gorm:"type:text;"`
	BaseScore                  float64  `json:"baseScore"`
	BaseSeverity               *string  `json:"baseSeverity" gorm:"type:text;"`
	ExploitabilityScore        *float64 `json:"exploitabilityScore"`
	ImpactScore                *float64 `json:"impactScore"`
	AcInsufInfo                *bool    `json:"acInsufInfo"`
	ObtainAllPrivilege         *bool    `json:"obtainAllPrivilege"`
	ObtainUserPrivilege        *bool    `json:"obtainUserPrivilege"`
	ObtainOtherPrivilege       *bool    `json:"obtainOtherPrivilege"`
	UserInteractionRequired    *bool    `json:"userInteractionRequired"`
	Exploitability             *string  `json:"exploitability" gorm:"type:text;"`
	RemediationLevel           *string  `json:"remediationLevel" gorm:"type:text;"`
	ReportConfidence           *string  `json:"reportConfidence" gorm:"type:text;"`
	TemporalScore              *float64 `json:"temporalScore"`
	CollateralDamagePotential  *string  `json:"collateralDamagePotential" gorm:"type:text;"`
	TargetDistribution         *string  `json:"targetDistribution" gorm:"type:text;"`
	ConfidentialityRequirement *string  `json:"confidentialityRequirement" gorm:"type:text;"`
	IntegrityRequirement       *string  `json:"integrityRequirement" gorm:"type:text;"`
	AvailabilityRequirement    *string  `json:"availabilityRequirement" gorm:"type:text;"`
	EnvironmentalScore         *float64 `json:"environmentalScore"`
}

func (m CVSSv2Metric) TableName() string {
	return "cve_cvss_v2_metrics"
}

// CVSSv3Metric holds both cvss 3.0 and 3.1 metrics, told apart by Version.
type CVSSv3Metric struct {
	ID                            int64    `json:"id" gorm:"primaryKey;autoIncrement;"`
	CVEID                         string   `json:"cveId" gorm:"column:cve_id;not null;type:text;index;"`
	Source                        string   `json:"source" gorm:"not null;type:text;"`
	Type                          string   `json:"type" gorm:"not null;type:text;"`
	Version                       string   `json:"version" gorm:"not null;type:text;"`
	VectorString                  string   `json:"vectorString" gorm:"type:text;"`
	AttackVector                  *string  `json:"attackVector" gorm:"type:text;"`
	AttackComplexity              *string  `json:"attackComplexity" gorm:"type:text;"`
	PrivilegesRequired            *string  `json:"privilegesRequired" gorm:"type:text;"`
	UserInteraction               *string  `json:"userInteraction" gorm:"type:text;"`
	Scope                         *string  `json:"scope" gorm:"type:text;"`
	ConfidentialityImpact         *string  `json:"confidentialityImpact" gorm:"type:text;"`
	IntegrityImpact               *string  `json:"integrityImpact" gorm:"type:text;"`
	AvailabilityImpact            *string  `json:"availabilityImpact" gorm:"type:text;"`
	BaseScore                     float64  `json:"baseScore"`
	BaseSeverity                  *string  `json:"baseSeverity" gorm:"type:text;"`
	ExploitabilityScore           *float64 `json:"exploitabilityScore"`
	ImpactScore                   *float64 `json:"impactScore"`
	ExploitCodeMaturity           *string  `json:"exploitCodeMaturity" gorm:"type:text;"`
	RemediationLevel              *string  `json:"remediationLevel" gorm:"type:text;"`
	ReportConfidence              *string  `json:"reportConfidence" gorm:"type:text;"`
	TemporalScore                 *float64 `json:"temporalScore"`
	TemporalSeverity              *string  `json:"temporalSeverity" gorm:"type:text;"`
	ConfidentialityRequirement    *string  `json:"confidentialityRequirement" gorm:"type:text;"`
	IntegrityRequirement          *string  `json:"integrityRequirement" gorm:"type:text;"`
	AvailabilityRequirement       *string  `json:"availabilityRequirement" gorm:"type:text;"`
	ModifiedAttackVector          *string  `json:"modifiedAttackVector" gorm:"type:text;"`
	ModifiedAttackComplexity      *string  `json:"modifiedAttackComplexity" gorm:"type:text;"`
	ModifiedPrivilegesRequired    *string  `json:"modifiedPrivilegesRequired" gorm:"type:text;"`
	ModifiedUserInteraction       *string  `json:"modifiedUserInteraction" gorm:"type:text;"`
	ModifiedScope                 *string  `json:"modifiedScope" gorm:"type:text;"`
	ModifiedConfidentialityImpact *string  `json:"modifiedConfidentialityImpact" gorm:"type:text;"`
	ModifiedIntegrityImpact       *string  `json:"modifiedIntegrityImpact" gorm:"type:text;"`
	ModifiedAvailabilityImpact    *string  `json:"modifiedAvailabilityImpact" gorm:"type:text;"`
	EnvironmentalScore            *float64 `json:"environmentalScore"`
	EnvironmentalSeverity         *string  `json:"environmentalSeverity" gorm:"type:text;"`
}

func (m CVSSv3Metric) TableName() string {
	return "cve_cvss_v3_metrics"
}

type CVSSv4Metric struct {
	ID                        int64   `json:"id" gorm:"primaryKey;autoIncrement;"`
	CVEID                     string  `json:"cveId" gorm:"column:cve_id;not null;type:text;index;"`
	Source                    string  `json:"source" gorm:"not null;type:text;"`
	Type                      string  `json:"type" gorm:"not null;type:text;"`
	Version                   string  `json:"version" gorm:"type:text;"`
	VectorString              string  `json:"vectorString" gorm:"type:text;"`
	AttackVector              *string `json:"attackVector" gorm:"type:text;"`
	AttackComplexity          *string `json:"attackComplexity" gorm:"type:text;"`
	AttackRequirements        *string `json:"attackRequirements" gorm:"type:text;"`
	PrivilegesRequired        *string `json:"privilegesRequired" gorm:"type:text;"`
	UserInteraction           *string `json:"userInteraction" gorm:"type:text;"`
	VulnConfidentialityImpact *string `json:"vulnConfidentialityImpact" gorm:"type:text;"`
	VulnIntegrityImpact       *string `json:"vulnIntegrityImpact" gorm:"type:text;"`
	VulnAvailabilityImpact    *string `json:"vulnAvailabilityImpact" gorm:"type:text;"`
	SubConfidentialityImpact  *string `json:"subConfidentialityImpact" gorm:"type:text;"`
	SubIntegrityImpact        *string `json:"subIntegrityImpact" gorm:"type:text;"`
	SubAvailabilityImpact     *string `json:"subAvailabilityImpact" gorm:"type:text;"`
	ExploitMaturity           *string `json:"exploitMaturity" gorm:"type:text;"`
	BaseScore                 float64 `json:"baseScore"`
	BaseSeverity              *string `json:"baseSeverity" gorm:"type:text;"`
}

func (m CVSSv4Metric) TableName() string {
	return "cve_cvss_v4_metrics"
}

// CVEChunk holds the normalized rows of one fetched page of cves.
type CVEChunk struct {
	CVEs                 []CVE
	Descriptions         []CVEDescription
	References           []CVEReference
	Weaknesses           []Weakness
	WeaknessDescriptions []WeaknessDescription
	VendorComments       []VendorComment
	Configurations       []Configuration
	Nodes                []ConfigurationNode
	Matches              []CPEMatch
	CVSSv2               []CVSSv2Metric
	CVSSv3               []CVSSv3Metric
	CVSSv4               []CVSSv4Metric
}

func (c CVEChunk) IDs() []string {
	ids := make([]string, len(c.CVEs))
	for i, cve := range c.CVEs {
		ids[i] = cve.ID
	}
	return ids
}

func (c CVEChunk) Len() int {
	return len(c.CVEs)
}
