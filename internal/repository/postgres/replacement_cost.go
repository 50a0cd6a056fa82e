package postgres

import (
	"context"

	"gudangsewa-backend/internal/domain"
)

type replacementCostRepository struct {
	q DBTX
}

func (r *replacementCostRepository) LatestByItemID(ctx context.Context, itemID int32) (*domain.ReplacementCost, error) {
	query := `SELECT id, item_id, price FROM replacement_costs WHERE item_id = $1 ORDER BY id DESC LIMIT 1`
	rc := &domain.ReplacementCost{}
	err := r.q.QueryRowContext(ctx, query, itemID).Scan(&rc.ID, &rc.ItemID, &rc.Price)
	if err != nil {
		return nil, asDomainErr(err)
	}
	return rc, nil
}
