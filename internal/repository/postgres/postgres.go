package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/logger"
	"gudangsewa-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is the slice of database/sql shared by *sql.DB and *sql.Tx, so every
// repository works both standalone and inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repository.Store on PostgreSQL.
type Store struct {
	db *sql.DB // nil when this store is bound to a transaction
	q  DBTX

	items            repository.ItemRepository
	orders           repository.OrderRepository
	lines            repository.OrderLineRepository
	damageLoss       repository.DamageLossRepository
	replacementCosts repository.ReplacementCostRepository
	borrowers        repository.BorrowerRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, q DBTX) *Store {
	return &Store{
		db:               db,
		q:                q,
		items:            &itemRepository{q: q},
		orders:           &orderRepository{q: q},
		lines:            &orderLineRepository{q: q},
		damageLoss:       &damageLossRepository{q: q},
		replacementCosts: &replacementCostRepository{q: q},
		borrowers:        &borrowerRepository{q: q},
	}
}

func (s *Store) Items() repository.ItemRepository                       { return s.items }
func (s *Store) Orders() repository.OrderRepository                     { return s.orders }
func (s *Store) OrderLines() repository.OrderLineRepository             { return s.lines }
func (s *Store) DamageLoss() repository.DamageLossRepository            { return s.damageLoss }
func (s *Store) ReplacementCosts() repository.ReplacementCostRepository { return s.replacementCosts }
func (s *Store) Borrowers() repository.BorrowerRepository               { return s.borrowers }

// WithinTx runs fn with all repositories bound to a single transaction.
// Row locks taken through GetForUpdate are held until commit or rollback.
// Calling WithinTx on a transaction-bound store joins the open transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(newStore(nil, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("Transaction rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// asDomainErr maps driver-level errors onto the domain sentinels.
func asDomainErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrDuplicate
	}
	return err
}
