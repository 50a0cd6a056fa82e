package postgres

import (
	"context"

	"gudangsewa-backend/internal/domain"
)

type damageLossRepository struct {
	q DBTX
}

const damageLossColumns = `id, line_id, quantity_damaged, quantity_lost, penalty_per_unit, penalty_subtotal`

func (r *damageLossRepository) GetByLineID(ctx context.Context, lineID int32) (*domain.DamageLossRecord, error) {
	query := `SELECT ` + damageLossColumns + ` FROM damage_loss_records WHERE line_id = $1`
	rec := &domain.DamageLossRecord{}
	err := r.q.QueryRowContext(ctx, query, lineID).Scan(&rec.ID, &rec.LineID, &rec.QuantityDamaged, &rec.QuantityLost, &rec.PenaltyPerUnit, &rec.PenaltySubtotal)
	if err != nil {
		return nil, asDomainErr(err)
	}
	return rec, nil
}

func (r *damageLossRepository) Upsert(ctx context.Context, rec *domain.DamageLossRecord) error {
	query := `INSERT INTO damage_loss_records (line_id, quantity_damaged, quantity_lost, penalty_per_unit, penalty_subtotal)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (line_id) DO UPDATE SET
	            quantity_damaged = EXCLUDED.quantity_damaged,
	            quantity_lost = EXCLUDED.quantity_lost,
	            penalty_per_unit = EXCLUDED.penalty_per_unit,
	            penalty_subtotal = EXCLUDED.penalty_subtotal
	          RETURNING id`
	return r.q.QueryRowContext(ctx, query, rec.LineID, rec.QuantityDamaged, rec.QuantityLost, rec.PenaltyPerUnit, rec.PenaltySubtotal).Scan(&rec.ID)
}

func (r *damageLossRepository) DeleteByLineID(ctx context.Context, lineID int32) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM damage_loss_records WHERE line_id = $1`, lineID)
	return err
}

func (r *damageLossRepository) ListByOrder(ctx context.Context, orderID int32) ([]domain.DamageLossRecord, error) {
	query := `SELECT r.id, r.line_id, r.quantity_damaged, r.quantity_lost, r.penalty_per_unit, r.penalty_subtotal
	          FROM damage_loss_records r
	          JOIN order_lines l ON l.id = r.line_id
	          WHERE l.order_id = $1
	          ORDER BY r.id ASC`
	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.DamageLossRecord
	for rows.Next() {
		var rec domain.DamageLossRecord
		if err := rows.Scan(&rec.ID, &rec.LineID, &rec.QuantityDamaged, &rec.QuantityLost, &rec.PenaltyPerUnit, &rec.PenaltySubtotal); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
