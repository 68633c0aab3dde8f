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

import "github.com/l3montree-dev/scap-sync/utils"

type NVDLangString struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

type NVDReference struct {
	URL    string   `json:"url"`
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}

type NVDWeakness struct {
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Description []NVDLangString `json:"description"`
}

type NVDVendorComment struct {
	Organization string           `json:"organization"`
	Comment      string           `json:"comment"`
	LastModified *utils.Timestamp `json:"lastModified"`
}

type NVDCPEMatch struct {
	Vulnerable            bool   `json:"vulnerable"`
	Criteria              string `json:"criteria"`
	MatchCriteriaID       string `json:"matchCriteriaId"`
	VersionStartExcluding string `json:"versionStartExcluding"`
	VersionStartIncluding string `json:"versionStartIncluding"`
	VersionEndExcluding   string `json:"versionEndExcluding"`
	VersionEndIncluding   string `json:"versionEndIncluding"`
}

type NVDNode struct {
	Operator string        `json:"operator"`
	Negate   *bool         `json:"negate"`
	CPEMatch []NVDCPEMatch `json:"cpeMatch"`
}

type NVDConfiguration struct {
	Operator string    `json:"operator"`
	Negate   *bool     `json:"negate"`
	Nodes    []NVDNode `json:"nodes"`
}

type NVDCVSSv2Data struct {
	Version                    string   `json:"version"`
	VectorString               string   `json:"vectorString"`
	AccessVector               string   `json:"accessVector"`
	AccessComplexity           string   `json:"accessComplexity"`
	Authentication             string   `json:"authentication"`
	ConfidentialityImpact      string   `json:"confidentialityImpact"`
	IntegrityImpact            string   `json:"integrityImpact"`
	AvailabilityImpact         string   `json:"availabilityImpact"`
	BaseScore                  float64  `json:"baseScore"`
	Exploitability             string   `json:"exploitability"`
	RemediationLevel           string   `json:"remediationLevel"`
	ReportConfidence           string   `json:"reportConfidence"`
	TemporalScore              *float64 `json:"temporalScore"`
	CollateralDamagePotential  string   `json:"collateralDamagePotential"`
	TargetDistribution         string   `json:"targetDistribution"`
	ConfidentialityRequirement string   `json:"confidentialityRequirement"`
	IntegrityRequirement       string   `json:"integrityRequirement"`
	AvailabilityRequirement    string   `json:"availabilityRequirement"`
	EnvironmentalScore         *float64 `json:"environmentalScore"`
}

type NVDCVSSv2Metric struct {
	Source                  string        `json:"source"`
	Type                    string        `json:"type"`
	CVSSData                NVDCVSSv2Data `json:"cvssData"`
	BaseSeverity            string        `json:"baseSeverity"`
	ExploitabilityScore     *float64      `json:"exploitabilityScore"`
	ImpactScore             *float64      `json:"impactScore"`
	AcInsufInfo             *bool         `json:"acInsufInfo"`
	ObtainAllPrivilege      *bool         `json:"obtainAllPrivilege"`
	ObtainUserPrivilege     *bool         `json:"obtainUserPrivilege"`
	ObtainOtherPrivilege    *bool         `json:"obtainOtherPrivilege"`
	UserInteractionRequired *bool         `json:"userInteractionRequired"`
}

// NVDCVSSv3Data is shared by the cvssMetricV30 and cvssMetricV31 lists.
type NVDCVSSv3Data struct {
	Version                       string   `json:"version"`
	VectorString                  string   `json:"vectorString"`
	AttackVector                  string   `json:"attackVector"`
	AttackComplexity              string   `json:"attackComplexity"`
	PrivilegesRequired            string   `json:"privilegesRequired"`
	UserInteraction               string   `json:"userInteraction"`
	Scope                         string   `json:"scope"`
	ConfidentialityImpact         string   `json:"confidentialityImpact"`
	IntegrityImpact               string   `json:"integrityImpact"`
	AvailabilityImpact            string   `json:"availabilityImpact"`
	BaseScore                     float64  `json:"baseScore"`
	BaseSeverity                  string   `json:"baseSeverity"`
	ExploitCodeMaturity           string   `json:"exploitCodeMaturity"`
	RemediationLevel              string   `json:"remediationLevel"`
	ReportConfidence              string   `json:"reportConfidence"`
	TemporalScore                 *float64 `json:"temporalScore"`
	TemporalSeverity              string   `json:"temporalSeverity"`
	ConfidentialityRequirement    string   `json:"confidentialityRequirement"`
	IntegrityRequirement          string   `json:"integrityRequirement"`
	AvailabilityRequirement       string   `json:"availabilityRequirement"`
	ModifiedAttackVector          string   `json:"modifiedAttackVector"`
	ModifiedAttackComplexity      string   `json:"modifiedAttackComplexity"`
	ModifiedPrivilegesRequired    string   `json:"modifiedPrivilegesRequired"`
	ModifiedUserInteraction       string   `json:"modifiedUserInteraction"`
	ModifiedScope                 string   `json:"modifiedScope"`
	ModifiedConfidentialityImpact string   `json:"modifiedConfidentialityImpact"`
	ModifiedIntegrityImpact       string   `json:"modifiedIntegrityImpact"`
	ModifiedAvailabilityImpact    string   `json:"modifiedAvailabilityImpact"`
	EnvironmentalScore            *float64 `json:"environmentalScore"`
	EnvironmentalSeverity         string   `json:"environmentalSeverity"`
}

type NVDCVSSv3Metric struct {
	Source              string        `json:"source"`
	Type                string        `json:"type"`
	CVSSData            NVDCVSSv3Data `json:"cvssData"`
	ExploitabilityScore *float64      `json:"exploitabilityScore"`
	ImpactScore         *float64      `json:"impactScore"`
}

type NVDCVSSv4Data struct {
	Version                   string  `json:"version"`
	VectorString              string  `json:"vectorString"`
	BaseScore                 float64 `json:"baseScore"`
	BaseSeverity              string  `json:"baseSeverity"`
	AttackVector              string  `json:"attackVector"`
	AttackComplexity          string  `json:"attackComplexity"`
	AttackRequirements        string  `json:"attackRequirements"`
	PrivilegesRequired        string  `json:"privilegesRequired"`
	UserInteraction           string  `json:"userInteraction"`
	VulnConfidentialityImpact string  `json:"vulnConfidentialityImpact"`
	VulnIntegrityImpact       string  `json:"vulnIntegrityImpact"`
	VulnAvailabilityImpact    string  `json:"vulnAvailabilityImpact"`
	SubConfidentialityImpact  string  `json:"subConfidentialityImpact"`
	SubIntegrityImpact        string  `json:"subIntegrityImpact"`
	SubAvailabilityImpact     string  `json:"subAvailabilityImpact"`
	ExploitMaturity           string  `json:"exploitMaturity"`
}

type NVDCVSSv4Metric struct {
	Source   string        `json:"source"`
	Type     string        `json:"type"`
	CVSSData NVDCVSSv4Data `json:"cvssData"`
}

type NVDMetrics struct {
	CVSSMetricV40 []NVDCVSSv4Metric `json:"cvssMetricV40"`
	CVSSMetricV31 []NVDCVSSv3Metric `json:"cvssMetricV31"`
	CVSSMetricV30 []NVDCVSSv3Metric `json:"cvssMetricV30"`
	CVSSMetricV2  []NVDCVSSv2Metric `json:"cvssMetricV2"`
}

// NVDCVE is one entry of the vulnerabilities list of the cves 2.0 api.
type NVDCVE struct {
	ID                    string             `json:"id"`
	SourceIdentifier      string             `json:"sourceIdentifier"`
	Published             utils.Timestamp    `json:"published"`
	LastModified          utils.Timestamp    `json:"lastModified"`
	VulnStatus            string             `json:"vulnStatus"`
	EvaluatorComment      string             `json:"evaluatorComment"`
	EvaluatorSolution     string             `json:"evaluatorSolution"`
	EvaluatorImpact       string             `json:"evaluatorImpact"`
	CISAExploitAdd        *utils.Date        `json:"cisaExploitAdd"`
	CISAActionDue         *utils.Date        `json:"cisaActionDue"`
	CISARequiredAction    string             `json:"cisaRequiredAction"`
	CISAVulnerabilityName string             `json:"cisaVulnerabilityName"`
	Descriptions          []NVDLangString    `json:"descriptions"`
	References            []NVDReference     `json:"references"`
	Metrics               NVDMetrics         `json:"metrics"`
	Weaknesses            []NVDWeakness      `json:"weaknesses"`
	Configurations        []NVDConfiguration `json:"configurations"`
	VendorComments        []NVDVendorComment `json:"vendorComments"`
}

// this is the response from the NIST API
// https://services.nvd.nist.gov/rest/json/cves/2.0
type nistCVEResponse struct {
	ResultsPerPage  int                `json:"resultsPerPage"`
	StartIndex      int                `json:"startIndex"`
	TotalResults    int                `json:"totalResults"`
	Format          string             `json:"format"`
	Version         string             `json:"version"`
	Timestamp       string             `json:"timestamp"`
	Vulnerabilities []nvdVulnerability `json:"vulnerabilities"`
}

type nvdVulnerability struct {
	CVE NVDCVE `json:"cve"`
}

type NVDCPETitle struct {
	Title string `json:"title"`
	Lang  string `json:"lang"`
}

type NVDCPERef struct {
	Ref  string `json:"ref"`
	Type string `json:"type"`
}

type NVDCPEDeprecation struct {
	CPEName   string `json:"cpeName"`
	CPENameID string `json:"cpeNameId"`
}

// NVDCPE is one entry of the products list of the cpes 2.0 api.
type NVDCPE struct {
	CPEName      string              `json:"cpeName"`
	CPENameID    string              `json:"cpeNameId"`
	Deprecated   bool                `json:"deprecated"`
	LastModified utils.Timestamp     `json:"lastModified"`
	Created      utils.Timestamp     `json:"created"`
	Titles       []NVDCPETitle       `json:"titles"`
	Refs         []NVDCPERef         `json:"refs"`
	DeprecatedBy []NVDCPEDeprecation `json:"deprecatedBy"`
}

// https://services.nvd.nist.gov/rest/json/cpes/2.0
type nistCPEResponse struct {
	ResultsPerPage int          `json:"resultsPerPage"`
	StartIndex     int          `json:"startIndex"`
	TotalResults   int          `json:"totalResults"`
	Format         string       `json:"format"`
	Version        string       `json:"version"`
	Timestamp      string       `json:"timestamp"`
	Products       []nvdProduct `json:"products"`
}

type nvdProduct struct {
	CPE NVDCPE `json:"cpe"`
}
