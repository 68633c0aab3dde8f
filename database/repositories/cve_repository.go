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

package repositories

import (
	"context"
	"time"

	"github.com/l3montree-dev/scap-sync/database/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type cveRepository struct {
	GormRepository
}

func NewCVERepository(db *gorm.DB) *cveRepository {
	return &cveRepository{
		GormRepository: newGormRepository(db),
	}
}

var cveUpdateColumns = []string{
	"source_identifier",
	"published",
	"last_modified",
	"vuln_status",
	"evaluator_comment",
	"evaluator_solution",
	"evaluator_impact",
	"cisa_exploit_add",
	"cisa_action_due",
	"cisa_required_action",
	"cisa_vulnerability_name",
}

func (g *cveRepository) GetLastModified(ctx context.Context) (time.Time, bool, error) {
	return lastModified[models.CVE](ctx, g.db)
}

// UpsertChunk writes all rows of one chunk in a single transaction. Root rows and merge
// tables are upserted. The configuration tree and the cvss metrics of every cve in the
// chunk are deleted and inserted again, so no rows of an older version survive.
func (g *cveRepository) UpsertChunk(ctx context.Context, chunk models.CVEChunk) error {
	if chunk.Len() == 0 {
		return nil
	}
	ids := chunk.IDs()

	return g.inTransaction(ctx, func(tx *gorm.DB) error {
		if err := upsert(tx, chunk.CVEs, []string{"id"}, cveUpdateColumns); err != nil {
			return errors.Wrap(err, "could not upsert cves")
		}
		if err := upsert(tx, chunk.Descriptions, []string{"cve_id", "lang"}, []string{"value"}); err != nil {
			return errors.Wrap(err, "could not upsert cve descriptions")
		}
		if err := upsert(tx, chunk.References, []string{"cve_id", "url"}, []string{"source", "tags"}); err != nil {
			return errors.Wrap(err, "could not upsert cve references")
		}
		if err := upsert(tx, chunk.Weaknesses, []string{"cve_id", "source", "type"}, nil); err != nil {
			return errors.Wrap(err, "could not upsert cve weaknesses")
		}
		if err := upsert(tx, chunk.WeaknessDescriptions, []string{"cve_id", "source", "type", "lang", "value"}, nil); err != nil {
			return errors.Wrap(err, "could not upsert cve weakness descriptions")
		}
		if err := upsert(tx, chunk.VendorComments, []string{"cve_id", "organization"}, []string{"comment", "last_modified"}); err != nil {
			return errors.Wrap(err, "could not upsert cve vendor comments")
		}

		if err := replaceConfigurations(tx, ids, chunk); err != nil {
			return err
		}

		if err := deleteByParent[models.CVSSv2Metric](tx, "cve_id", ids); err != nil {
			return errors.Wrap(err, "could not delete cvss v2 metrics")
		}
		if err := insert(tx, chunk.CVSSv2); err != nil {
			return errors.Wrap(err, "could not insert cvss v2 metrics")
		}
		if err := deleteByParent[models.CVSSv3Metric](tx, "cve_id", ids); err != nil {
			return errors.Wrap(err, "could not delete cvss v3 metrics")
		}
		if err := insert(tx, chunk.CVSSv3); err != nil {
			return errors.Wrap(err, "could not insert cvss v3 metrics")
		}
		if err := deleteByParent[models.CVSSv4Metric](tx, "cve_id", ids); err != nil {
			return errors.Wrap(err, "could not delete cvss v4 metrics")
		}
		if err := insert(tx, chunk.CVSSv4); err != nil {
			return errors.Wrap(err, "could not insert cvss v4 metrics")
		}
		return nil
	})
}

// replaceConfigurations removes the configuration trees of the given cves bottom up and
// inserts the new trees top down.
func replaceConfigurations(tx *gorm.DB, ids []string, chunk models.CVEChunk) error {
	err := tx.Exec(`DELETE FROM cve_cpe_matches WHERE node_id IN (
		SELECT n.id FROM cve_configuration_nodes n
		JOIN cve_configurations c ON c.id = n.configuration_id
		WHERE c.cve_id IN ?)`, ids).Error
	if err != nil {
		return errors.Wrap(err, "could not delete cpe matches")
	}
	err = tx.Exec(`DELETE FROM cve_configuration_nodes WHERE configuration_id IN (
		SELECT id FROM cve_configurations WHERE cve_id IN ?)`, ids).Error
	if err != nil {
		return errors.Wrap(err, "could not delete configuration nodes")
	}
	if err := deleteByParent[models.Configuration](tx, "cve_id", ids); err != nil {
		return errors.Wrap(err, "could not delete configurations")
	}

	if err := insert(tx, chunk.Configurations); err != nil {
		return errors.Wrap(err, "could not insert configurations")
	}
	if err := insert(tx, chunk.Nodes); err != nil {
		return errors.Wrap(err, "could not insert configuration nodes")
	}
	if err := insert(tx, chunk.Matches); err != nil {
		return errors.Wrap(err, "could not insert cpe matches")
	}
	return nil
}
