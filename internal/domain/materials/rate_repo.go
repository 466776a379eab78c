package materials

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RateRepo persists family rate overrides in section_rates.
type RateRepo struct{ db *pgxpool.Pool }

func NewRateRepo(db *pgxpool.Pool) *RateRepo { return &RateRepo{db: db} }

// List returns all active overrides keyed by family.
func (r *RateRepo) List(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT family, rate_per_kg FROM section_rates WHERE active = TRUE ORDER BY family`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var fam string
		var rate float64
		if err := rows.Scan(&fam, &rate); err != nil {
			return nil, err
		}
		out[fam] = rate
	}
	return out, rows.Err()
}

// Upsert stores every family rate in one transaction.
func (r *RateRepo) Upsert(ctx context.Context, rates map[string]float64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for fam, rate := range rates {
		if _, err := tx.Exec(ctx, `
			INSERT INTO section_rates (family, rate_per_kg, active, updated_at)
			VALUES ($1, $2, TRUE, NOW())
			ON CONFLICT (family) DO UPDATE SET
			  rate_per_kg = EXCLUDED.rate_per_kg, active = TRUE, updated_at = NOW()
		`, fam, rate); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *RateRepo) Delete(ctx context.Context, family string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM section_rates WHERE family = $1`, family)
	return err
}
