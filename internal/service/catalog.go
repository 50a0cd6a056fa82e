package service

import (
	"context"
	"fmt"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/repository"
)

type catalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.store.Items().List(ctx)
}

func (s *catalogService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	it, err := s.store.Items().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	return it, nil
}
