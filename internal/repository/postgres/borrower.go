package postgres

import (
	"context"

	"gudangsewa-backend/internal/domain"
)

type borrowerRepository struct {
	q DBTX
}

func (r *borrowerRepository) GetByUsername(ctx context.Context, username string) (*domain.Borrower, error) {
	query := `SELECT username, password, full_name, address, phone, role, registered_on::text FROM borrowers WHERE username = $1`
	b := &domain.Borrower{}
	err := r.q.QueryRowContext(ctx, query, username).Scan(&b.Username, &b.Password, &b.FullName, &b.Address, &b.Phone, &b.Role, &b.RegisteredOn)
	if err != nil {
		return nil, asDomainErr(err)
	}
	return b, nil
}
