package service

import (
	"context"

	"gorm.io/gorm"

	"legalai/internal/errors"
	"legalai/internal/model"
	"legalai/internal/repository"
)

// LawService exposes the read-only legal catalog.
type LawService interface {
	List(ctx context.Context, category string) ([]model.Law, error)
	GetByCode(ctx context.Context, code string) (*model.Law, error)
}

type lawService struct {
	lawRepo repository.LawRepository
}

// NewLawService creates a new law service.
func NewLawService(lawRepo repository.LawRepository) LawService {
	return &lawService{lawRepo: lawRepo}
}

func (s *lawService) List(ctx context.Context, category string) ([]model.Law, error) {
	return s.lawRepo.List(ctx, category)
}

func (s *lawService) GetByCode(ctx context.Context, code string) (*model.Law, error) {
	law, err := s.lawRepo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrLawNotFound
		}
		return nil, err
	}
	return law, nil
}
