package repository

import (
	"context"
	"fmt"

	"scenehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReportRepository interface {
	// Create returns an error wrapping ErrDuplicate when the user already reported the scene.
	Create(ctx context.Context, report *models.Report) error
	Exists(ctx context.Context, userID string, sceneID int64) (bool, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Omit("User", "Scene").Create(report).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create report: %w", ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create report: %w", ErrNotFound)
		}
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (r *reportRepository) Exists(ctx context.Context, userID string, sceneID int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("user_id = ? AND scene_id = ?", userID, sceneID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check report: %w", err)
	}
	return n > 0, nil
}
