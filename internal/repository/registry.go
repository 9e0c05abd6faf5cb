package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/bionicpro/device-usage-reports/internal/domain"
)

type RegistryRepo struct {
	db *sqlx.DB
}

func NewRegistryRepo(db *sqlx.DB) *RegistryRepo { return &RegistryRepo{db: db} }

// The window only bounds when a device change makes a record eligible; there
// is deliberately no upper bound on updated_at, so a device updated just
// after the window still comes back if it became eligible inside it.
const registryQuery = `
SELECT u.id::text AS owner_id,
       u.email    AS owner_email,
       u.name     AS owner_name,
       d.id::text AS device_id,
       d.model    AS device_model,
       d.manufacture_date
FROM users u
LEFT JOIN devices d ON d.user_id = u.id
WHERE d.created_at >= $1 OR d.updated_at >= $1`

// ExtractChanged returns owner/device records whose device was created or
// updated on or after the window start. Owners without a device come back
// with null device fields and are filtered out before aggregation.
func (r *RegistryRepo) ExtractChanged(ctx context.Context, window domain.ReportWindow) ([]domain.RegistryRecord, error) {
	var out []domain.RegistryRecord
	if err := r.db.SelectContext(ctx, &out, registryQuery, window.Start); err != nil {
		return nil, &ExtractionError{Source: "registry", Err: err}
	}
	return out, nil
}
