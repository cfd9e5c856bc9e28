package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scenehub/internal/gallery"
	"scenehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type SceneRepository interface {
	Page(ctx context.Context, q gallery.Query) ([]models.Scene, error)
	GetByID(ctx context.Context, id int64) (*models.Scene, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, scene *models.Scene, tagIDs []int64) error
	TrendingCandidates(ctx context.Context, since time.Time, limit int) ([]models.Scene, error)
	ListByUploader(ctx context.Context, userID string, page, pageSize int) ([]models.Scene, int64, error)
	ListFavourited(ctx context.Context, userID string, page, pageSize int) ([]models.Scene, int64, error)
	AnimeIDsWithScenes(ctx context.Context) ([]int64, error)
}

type sceneRepository struct {
	db *gorm.DB
}

func NewSceneRepository(db *gorm.DB) SceneRepository {
	return &sceneRepository{db: db}
}

func (r *sceneRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Anime").Preload("Uploader").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name ASC")
	})
}

func visible(db *gorm.DB) *gorm.DB {
	return db.Where("scenes.is_approved = ? AND scenes.is_reported = ?", true, false)
}

// Page returns one page of visible scenes matching q. Every predicate, including the tag
// conjunction, is evaluated in the query, so only the last page can come back short.
func (r *sceneRepository) Page(ctx context.Context, q gallery.Query) ([]models.Scene, error) {
	cr := q.Criteria.Normalize()
	db := r.db.WithContext(ctx).Model(&models.Scene{}).Scopes(visible)

	if cr.AnimeID != nil {
		db = db.Where("scenes.anime_id = ?", *cr.AnimeID)
	}
	if cr.Search != "" {
		db = db.Where("to_tsvector('simple', scenes.title) @@ websearch_to_tsquery('simple', ?)", cr.Search)
	}
	if cr.Genre != "" {
		genre, err := json.Marshal([]string{cr.Genre})
		if err != nil {
			return nil, fmt.Errorf("encode genre filter: %w", err)
		}
		db = db.Where("scenes.anime_id IN (SELECT id FROM anime WHERE genres @> ?::jsonb)", string(genre))
	}
	if len(cr.TagIDs) > 0 {
		db = db.Where(
			"scenes.id IN (SELECT scene_id FROM scene_tags WHERE tag_id IN ? GROUP BY scene_id HAVING COUNT(DISTINCT tag_id) = ?)",
			cr.TagIDs, len(cr.TagIDs),
		)
	}

	switch q.Sort {
	case gallery.SortPopular:
		db = db.Order("scenes.like_count DESC").Order("scenes.id DESC")
	case gallery.SortOldest:
		db = db.Order("scenes.created_at ASC").Order("scenes.id ASC")
	default:
		db = db.Order("scenes.created_at DESC").Order("scenes.id DESC")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = gallery.PageSize
	}
	var list []models.Scene
	if err := r.withAssociations(db).Limit(limit).Offset(q.Page * limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("page scenes: %w", err)
	}
	return list, nil
}

func (r *sceneRepository) GetByID(ctx context.Context, id int64) (*models.Scene, error) {
	var s models.Scene
	if err := r.withAssociations(r.db.WithContext(ctx)).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sceneRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Scene{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check scene: %w", err)
	}
	return n > 0, nil
}

// Create inserts the scene and links its tags in one transaction.
func (r *sceneRepository) Create(ctx context.Context, scene *models.Scene, tagIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Anime", "Uploader").Create(scene).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		links := make([]models.SceneTag, 0, len(tagIDs))
		for _, id := range tagIDs {
			links = append(links, models.SceneTag{SceneID: scene.ID, TagID: id})
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create scene: unknown anime, uploader or tag: %w", ErrNotFound)
		}
		return fmt.Errorf("create scene: %w", err)
	}
	return nil
}

// TrendingCandidates returns visible scenes created at or after since, most liked first.
func (r *sceneRepository) TrendingCandidates(ctx context.Context, since time.Time, limit int) ([]models.Scene, error) {
	var list []models.Scene
	db := r.db.WithContext(ctx).Model(&models.Scene{}).Scopes(visible).
		Where("scenes.created_at >= ?", since).
		Order("scenes.like_count DESC").Order("scenes.id DESC").
		Limit(limit)
	if err := r.withAssociations(db).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("trending candidates: %w", err)
	}
	return list, nil
}

func (r *sceneRepository) ListByUploader(ctx context.Context, userID string, page, pageSize int) ([]models.Scene, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Scene{}).Where("scenes.uploaded_by = ?", userID)
	return r.paged(base, page, pageSize, "scenes.created_at DESC")
}

func (r *sceneRepository) ListFavourited(ctx context.Context, userID string, page, pageSize int) ([]models.Scene, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Scene{}).
		Joins("JOIN favourites f ON f.scene_id = scenes.id").
		Where("f.user_id = ?", userID)
	return r.paged(base, page, pageSize, "f.created_at DESC")
}

// paged counts and fetches one page of base. page is 1-based.
func (r *sceneRepository) paged(base *gorm.DB, page, pageSize int, order string) ([]models.Scene, int64, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count scenes: %w", err)
	}

	var list []models.Scene
	offset := (page - 1) * pageSize
	if err := r.withAssociations(base).
		Order(order).Order("scenes.id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list scenes: %w", err)
	}
	return list, total, nil
}

// AnimeIDsWithScenes lists catalog ids that already have at least one scene.
func (r *sceneRepository) AnimeIDsWithScenes(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&models.Scene{}).
		Where("anime_id IS NOT NULL").
		Distinct("anime_id").Pluck("anime_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("anime with scenes: %w", err)
	}
	return ids, nil
}
