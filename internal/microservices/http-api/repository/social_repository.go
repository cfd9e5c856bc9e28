package repository

import (
	"context"
	"fmt"

	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/social"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialRepository stores like and favourite memberships. Add and Remove are idempotent and
// report whether a row actually changed; the scene's like_count moves only when it did.
type SocialRepository interface {
	Add(ctx context.Context, rel social.Relation, userID string, sceneID int64) (bool, error)
	Remove(ctx context.Context, rel social.Relation, userID string, sceneID int64) (bool, error)
	ListSceneIDs(ctx context.Context, rel social.Relation, userID string) ([]int64, error)
}

type socialRepository struct {
	db *gorm.DB
}

func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

func membershipRow(rel social.Relation, userID string, sceneID int64) (any, error) {
	switch rel {
	case social.RelationLike:
		return &models.Like{UserID: userID, SceneID: sceneID}, nil
	case social.RelationFavourite:
		return &models.Favourite{UserID: userID, SceneID: sceneID}, nil
	}
	return nil, fmt.Errorf("%w: %q", social.ErrUnknownRelation, rel)
}

// membershipModel is the empty model of rel, for queries and deletes.
func membershipModel(rel social.Relation) (any, error) {
	return membershipRow(rel, "", 0)
}

func (r *socialRepository) Add(ctx context.Context, rel social.Relation, userID string, sceneID int64) (bool, error) {
	row, err := membershipRow(rel, userID, sceneID)
	if err != nil {
		return false, err
	}

	var inserted bool
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected > 0
		if inserted && rel == social.RelationLike {
			return tx.Model(&models.Scene{}).Where("id = ?", sceneID).
				UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("add %s: scene %d: %w", rel, sceneID, ErrNotFound)
		}
		return false, fmt.Errorf("add %s: %w", rel, err)
	}
	return inserted, nil
}

func (r *socialRepository) Remove(ctx context.Context, rel social.Relation, userID string, sceneID int64) (bool, error) {
	model, err := membershipModel(rel)
	if err != nil {
		return false, err
	}

	var deleted bool
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND scene_id = ?", userID, sceneID).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		if deleted && rel == social.RelationLike {
			return tx.Model(&models.Scene{}).Where("id = ?", sceneID).
				UpdateColumn("like_count", gorm.Expr("GREATEST(like_count - 1, 0)")).Error
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", rel, err)
	}
	return deleted, nil
}

func (r *socialRepository) ListSceneIDs(ctx context.Context, rel social.Relation, userID string) ([]int64, error) {
	model, err := membershipModel(rel)
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	if err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ?", userID).
		Order("scene_id ASC").
		Pluck("scene_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list %s ids: %w", rel, err)
	}
	return ids, nil
}
