package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"legalai/internal/model"
)

// LawRepository gives read access to the static legal catalog.
type LawRepository interface {
	List(ctx context.Context, category string) ([]model.Law, error)
	FindByCode(ctx context.Context, code string) (*model.Law, error)
	UpsertBatch(ctx context.Context, laws []model.Law) error
}

type lawRepository struct {
	db *gorm.DB
}

// NewLawRepository creates a new law repository.
func NewLawRepository(db *gorm.DB) LawRepository {
	return &lawRepository{db: db}
}

// List returns catalog entries ordered by code, optionally filtered by category.
func (r *lawRepository) List(ctx context.Context, category string) ([]model.Law, error) {
	q := r.db.WithContext(ctx).Order("code")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var laws []model.Law
	if err := q.Find(&laws).Error; err != nil {
		return nil, err
	}
	return laws, nil
}

// FindByCode finds a catalog entry by its code.
func (r *lawRepository) FindByCode(ctx context.Context, code string) (*model.Law, error) {
	var law model.Law
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&law).Error; err != nil {
		return nil, err
	}
	return &law, nil
}

// UpsertBatch writes catalog entries, updating existing codes in place.
// Used by cmd/seed.
func (r *lawRepository) UpsertBatch(ctx context.Context, laws []model.Law) error {
	if len(laws) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "category", "article_count", "summary", "source_url"}),
	}).CreateInBatches(laws, 100).Error
}
