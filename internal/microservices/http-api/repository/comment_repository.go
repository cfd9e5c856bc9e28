package repository

import (
	"context"
	"errors"
	"fmt"

	"scenehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID int64, userID string) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	ListByScene(ctx context.Context, sceneID int64) ([]models.Comment, error)
}

var ErrNotOwner = errors.New("comment not found or you don't have permission to delete it")

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the scene's comment_count.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Scene", "Parent").Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Scene{}).Where("id = ?", comment.SceneID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create comment: %w", ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// Delete removes a comment owned by userID. Its replies stay, detached from it.
func (r *commentRepository) Delete(ctx context.Context, commentID int64, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Comment
		if err := tx.Where("id = ? AND user_id = ?", commentID, userID).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotOwner
			}
			return err
		}
		if err := tx.Delete(&models.Comment{}, c.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Scene{}).Where("id = ?", c.SceneID).
			UpdateColumn("comment_count", gorm.Expr("GREATEST(comment_count - 1, 0)")).Error
	})
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Where("id = ?", commentID).
		Preload("User").
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByScene returns every comment on the scene, oldest first.
func (r *commentRepository) ListByScene(ctx context.Context, sceneID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Where("scene_id = ?", sceneID).
		Preload("User").
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
