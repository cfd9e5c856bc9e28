package repository

import (
	"context"
	"fmt"

	"scenehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	GetAll(ctx context.Context) ([]models.Tag, error)
	GetByNames(ctx context.Context, names []string) ([]models.Tag, error)
	CountExisting(ctx context.Context, ids []int64) (int64, error)
	// Seed inserts tags whose name is not taken yet.
	Seed(ctx context.Context, tags []models.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	var list []models.Tag
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	return list, nil
}

func (r *tagRepository) GetByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	var list []models.Tag
	if len(names) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get tags by name: %w", err)
	}
	return list, nil
}

func (r *tagRepository) CountExisting(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return n, nil
}

func (r *tagRepository) Seed(ctx context.Context, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&tags).Error
	if err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	return nil
}
