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
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/scap-sync/database/models"
	"github.com/l3montree-dev/scap-sync/utils"
	"gorm.io/datatypes"
)

func datePtr(d *utils.Date) *datatypes.Date {
	if d == nil {
		return nil
	}
	v := datatypes.Date(d.Time())
	return &v
}

// NormalizeCVEs turns one page of the cve api into rows. If a cve id appears more than
// once, the last record wins. Rows of the merge tables are de-duplicated by their
// conflict key, postgres rejects an upsert which touches the same row twice.
func NormalizeCVEs(records []NVDCVE) models.CVEChunk {
	records = utils.LastBy(records, func(r NVDCVE) string { return r.ID })

	chunk := models.CVEChunk{}
	for _, r := range records {
		chunk.CVEs = append(chunk.CVEs, models.CVE{
			ID:                    r.ID,
			SourceIdentifier:      utils.EmptyThenNil(r.SourceIdentifier),
			Published:             r.Published.Time(),
			LastModified:          r.LastModified.Time(),
			VulnStatus:            utils.EmptyThenNil(r.VulnStatus),
			EvaluatorComment:      utils.EmptyThenNil(r.EvaluatorComment),
			EvaluatorSolution:     utils.EmptyThenNil(r.EvaluatorSolution),
			EvaluatorImpact:       utils.EmptyThenNil(r.EvaluatorImpact),
			CISAExploitAdd:        datePtr(r.CISAExploitAdd),
			CISAActionDue:         datePtr(r.CISAActionDue),
			CISARequiredAction:    utils.EmptyThenNil(r.CISARequiredAction),
			CISAVulnerabilityName: utils.EmptyThenNil(r.CISAVulnerabilityName),
		})

		for _, d := range r.Descriptions {
			chunk.Descriptions = append(chunk.Descriptions, models.CVEDescription{
				CVEID: r.ID,
				Lang:  d.Lang,
				Value: d.Value,
			})
		}

		for _, ref := range r.References {
			tags := ref.Tags
			if tags == nil {
				tags = []string{}
			}
			chunk.References = append(chunk.References, models.CVEReference{
				CVEID:  r.ID,
				URL:    ref.URL,
				Source: utils.EmptyThenNil(ref.Source),
				Tags:   datatypes.JSONSlice[string](tags),
			})
		}

		for _, w := range r.Weaknesses {
			chunk.Weaknesses = append(chunk.Weaknesses, models.Weakness{
				CVEID:  r.ID,
				Source: w.Source,
				Type:   w.Type,
			})
			for _, d := range w.Description {
				chunk.WeaknessDescriptions = append(chunk.WeaknessDescriptions, models.WeaknessDescription{
					CVEID:  r.ID,
					Source: w.Source,
					Type:   w.Type,
					Lang:   d.Lang,
					Value:  d.Value,
				})
			}
		}

		for _, c := range r.VendorComments {
			var lastModified *time.Time
			if c.LastModified != nil {
				lastModified = utils.Ptr(c.LastModified.Time())
			}
			chunk.VendorComments = append(chunk.VendorComments, models.VendorComment{
				CVEID:        r.ID,
				Organization: c.Organization,
				Comment:      utils.EmptyThenNil(c.Comment),
				LastModified: lastModified,
			})
		}

		appendConfigurations(&chunk, r)
		appendMetrics(&chunk, r)
	}

	chunk.Descriptions = utils.UniqBy(chunk.Descriptions, func(d models.CVEDescription) [2]string {
		return [2]string{d.CVEID, d.Lang}
	})
	chunk.References = utils.UniqBy(chunk.References, func(r models.CVEReference) [2]string {
		return [2]string{r.CVEID, r.URL}
	})
	chunk.Weaknesses = utils.UniqBy(chunk.Weaknesses, func(w models.Weakness) [3]string {
		return [3]string{w.CVEID, w.Source, w.Type}
	})
	chunk.WeaknessDescriptions = utils.UniqBy(chunk.WeaknessDescriptions, func(d models.WeaknessDescription) [5]string {
		return [5]string{d.CVEID, d.Source, d.Type, d.Lang, d.Value}
	})
	chunk.VendorComments = utils.UniqBy(chunk.VendorComments, func(c models.VendorComment) [2]string {
		return [2]string{c.CVEID, c.Organization}
	})
	return chunk
}

// appendConfigurations flattens the applicability tree. The ids are fresh on every call,
// the tree is replaced as a whole when written.
func appendConfigurations(chunk *models.CVEChunk, r NVDCVE) {
	for _, c := range r.Configurations {
		configuration := models.Configuration{
			ID:       uuid.New(),
			CVEID:    r.ID,
			Operator: utils.EmptyThenNil(c.Operator),
			Negate:   c.Negate,
		}
		chunk.Configurations = append(chunk.Configurations, configuration)

		for _, n := range c.Nodes {
			node := models.ConfigurationNode{
				ID:              uuid.New(),
				ConfigurationID: configuration.ID,
				Operator:        utils.EmptyThenNil(n.Operator),
				Negate:          n.Negate,
			}
			chunk.Nodes = append(chunk.Nodes, node)

			for _, m := range n.CPEMatch {
				chunk.Matches = append(chunk.Matches, models.CPEMatch{
					NodeID:                node.ID,
					MatchCriteriaID:       m.MatchCriteriaID,
					Vulnerable:            m.Vulnerable,
					Criteria:              m.Criteria,
					VersionStartExcluding: utils.EmptyThenNil(m.VersionStartExcluding),
					VersionStartIncluding: utils.EmptyThenNil(m.VersionStartIncluding),
					VersionEndExcluding:   utils.EmptyThenNil(m.VersionEndExcluding),
					VersionEndIncluding:   utils.EmptyThenNil(m.VersionEndIncluding),
				})
			}
		}
	}
}

func appendMetrics(chunk *models.CVEChunk, r NVDCVE) {
	for _, m := range r.Metrics.CVSSMetricV2 {
		chunk.CVSSv2 = append(chunk.CVSSv2, models.CVSSv2Metric{
			CVEID:                      r.ID,
			Source:                     m.Source,
			Type:                       m.Type,
			Version:                    m.CVSSData.Version,
			VectorString:               m.CVSSData.VectorString,
			AccessVector:               utils.EmptyThenNil(m.CVSSData.AccessVector),
			AccessComplexity:           utils.EmptyThenNil(m.CVSSData.AccessComplexity),
			Authentication:             utils.EmptyThenNil(m.CVSSData.Authentication),
			ConfidentialityImpact:      utils.EmptyThenNil(m.CVSSData.ConfidentialityImpact),
			IntegrityImpact:            utils.EmptyThenNil(m.CVSSData.IntegrityImpact),
			AvailabilityImpact:         utils.EmptyThenNil(m.CVSSData.AvailabilityImpact),
			BaseScore:                  m.CVSSData.BaseScore,
			BaseSeverity:               utils.EmptyThenNil(m.BaseSeverity),
			ExploitabilityScore:        m.ExploitabilityScore,
			ImpactScore:                m.ImpactScore,
			AcInsufInfo:                m.AcInsufInfo,
			ObtainAllPrivilege:         m.ObtainAllPrivilege,
			ObtainUserPrivilege:        m.ObtainUserPrivilege,
			ObtainOtherPrivilege:       m.ObtainOtherPrivilege,
			UserInteractionRequired:    m.UserInteractionRequired,
			Exploitability:             utils.EmptyThenNil(m.CVSSData.Exploitability),
			RemediationLevel:           utils.EmptyThenNil(m.CVSSData.RemediationLevel),
			ReportConfidence:           utils.EmptyThenNil(m.CVSSData.ReportConfidence),
			TemporalScore:              m.CVSSData.TemporalScore,
			CollateralDamagePotential:  utils.EmptyThenNil(m.CVSSData.CollateralDamagePotential),
			TargetDistribution:         utils.EmptyThenNil(m.CVSSData.TargetDistribution),
			ConfidentialityRequirement: utils.EmptyThenNil(m.CVSSData.ConfidentialityRequirement),
			IntegrityRequirement:       utils.EmptyThenNil(m.CVSSData.IntegrityRequirement),
			AvailabilityRequirement:    utils.EmptyThenNil(m.CVSSData.AvailabilityRequirement),
			EnvironmentalScore:         m.CVSSData.EnvironmentalScore,
		})
	}

	// 3.0 and 3.1 share one row shape, the version column tells them apart
	v3 := append(append([]NVDCVSSv3Metric{}, r.Metrics.CVSSMetricV30...), r.Metrics.CVSSMetricV31...)
	for _, m := range v3 {
		chunk.CVSSv3 = append(chunk.CVSSv3, models.CVSSv3Metric{
			CVEID:                         r.ID,
			Source:                        m.Source,
			Type:                          m.Type,
			Version:                       m.CVSSData.Version,
			VectorString:                  m.CVSSData.VectorString,
			AttackVector:                  utils.EmptyThenNil(m.CVSSData.AttackVector),
			AttackComplexity:              utils.EmptyThenNil(m.CVSSData.AttackComplexity),
			PrivilegesRequired:            utils.EmptyThenNil(m.CVSSData.PrivilegesRequired),
			UserInteraction:               utils.EmptyThenNil(m.CVSSData.UserInteraction),
			Scope:                         utils.EmptyThenNil(m.CVSSData.Scope),
			ConfidentialityImpact:         utils.EmptyThenNil(m.CVSSData.ConfidentialityImpact),
			IntegrityImpact:               utils.EmptyThenNil(m.CVSSData.IntegrityImpact),
			AvailabilityImpact:            utils.EmptyThenNil(m.CVSSData.AvailabilityImpact),
			BaseScore:                     m.CVSSData.BaseScore,
			BaseSeverity:                  utils.EmptyThenNil(m.CVSSData.BaseSeverity),
			ExploitabilityScore:           m.ExploitabilityScore,
			ImpactScore:                   m.ImpactScore,
			ExploitCodeMaturity:           utils.EmptyThenNil(m.CVSSData.ExploitCodeMaturity),
			RemediationLevel:              utils.EmptyThenNil(m.CVSSData.RemediationLevel),
			ReportConfidence:              utils.EmptyThenNil(m.CVSSData.ReportConfidence),
			TemporalScore:                 m.CVSSData.TemporalScore,
			TemporalSeverity:              utils.EmptyThenNil(m.CVSSData.TemporalSeverity),
			ConfidentialityRequirement:    utils.EmptyThenNil(m.CVSSData.ConfidentialityRequirement),
			IntegrityRequirement:          utils.EmptyThenNil(m.CVSSData.IntegrityRequirement),
			AvailabilityRequirement:       utils.EmptyThenNil(m.CVSSData.AvailabilityRequirement),
			ModifiedAttackVector:          utils.EmptyThenNil(m.CVSSData.ModifiedAttackVector),
			ModifiedAttackComplexity:      utils.EmptyThenNil(m.CVSSData.ModifiedAttackComplexity),
			ModifiedPrivilegesRequired:    utils.EmptyThenNil(m.CVSSData.ModifiedPrivilegesRequired),
			ModifiedUserInteraction:       utils.EmptyThenNil(m.CVSSData.ModifiedUserInteraction),
			ModifiedScope:                 utils.EmptyThenNil(m.CVSSData.ModifiedScope),
			ModifiedConfidentialityImpact: utils.EmptyThenNil(m.CVSSData.ModifiedConfidentialityImpact),
			ModifiedIntegrityImpact:       utils.EmptyThenNil(m.CVSSData.ModifiedIntegrityImpact),
			ModifiedAvailabilityImpact:    utils.EmptyThenNil(m.CVSSData.ModifiedAvailabilityImpact),
			EnvironmentalScore:            m.CVSSData.EnvironmentalScore,
			EnvironmentalSeverity:         utils.EmptyThenNil(m.CVSSData.EnvironmentalSeverity),
		})
	}

	for _, m := range r.Metrics.CVSSMetricV40 {
		chunk.CVSSv4 = append(chunk.CVSSv4, models.CVSSv4Metric{
			CVEID:                     r.ID,
			Source:                    m.Source,
			Type:                      m.Type,
			Version:                   m.CVSSData.Version,
			VectorString:              m.CVSSData.VectorString,
			AttackVector:              utils.EmptyThenNil(m.CVSSData.AttackVector),
			AttackComplexity:          utils.EmptyThenNil(m.CVSSData.AttackComplexity),
			AttackRequirements:        utils.EmptyThenNil(m.CVSSData.AttackRequirements),
			PrivilegesRequired:        utils.EmptyThenNil(m.CVSSData.PrivilegesRequired),
			UserInteraction:           utils.EmptyThenNil(m.CVSSData.UserInteraction),
			VulnConfidentialityImpact: utils.EmptyThenNil(m.CVSSData.VulnConfidentialityImpact),
			VulnIntegrityImpact:       utils.EmptyThenNil(m.CVSSData.VulnIntegrityImpact),
			VulnAvailabilityImpact:    utils.EmptyThenNil(m.CVSSData.VulnAvailabilityImpact),
			SubConfidentialityImpact:  utils.EmptyThenNil(m.CVSSData.SubConfidentialityImpact),
			SubIntegrityImpact:        utils.EmptyThenNil(m.CVSSData.SubIntegrityImpact),
			SubAvailabilityImpact:     utils.EmptyThenNil(m.CVSSData.SubAvailabilityImpact),
			ExploitMaturity:           utils.EmptyThenNil(m.CVSSData.ExploitMaturity),
			BaseScore:                 m.CVSSData.BaseScore,
			BaseSeverity:              utils.EmptyThenNil(m.CVSSData.BaseSeverity),
		})
	}
}
