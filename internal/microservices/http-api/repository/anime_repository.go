package repository

import (
	"context"
	"fmt"

	"scenehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnimeRepository is the local cache of catalog entries. Rows are upserted, never deleted.
type AnimeRepository interface {
	Upsert(ctx context.Context, anime ...*models.Anime) error
	GetByID(ctx context.Context, id int64) (*models.Anime, error)
	Genres(ctx context.Context) ([]string, error)
}

type animeRepository struct {
	db *gorm.DB
}

func NewAnimeRepository(db *gorm.DB) AnimeRepository {
	return &animeRepository{db: db}
}

var animeUpsertColumns = []string{
	"title_english", "title_romaji", "cover_image", "banner_image", "genres",
	"average_score", "popularity", "year", "season", "description", "updated_at",
}

func (r *animeRepository) Upsert(ctx context.Context, anime ...*models.Anime) error {
	if len(anime) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(animeUpsertColumns),
		}).
		Create(anime).Error
	if err != nil {
		return fmt.Errorf("upsert anime: %w", err)
	}
	return nil
}

func (r *animeRepository) GetByID(ctx context.Context, id int64) (*models.Anime, error) {
	var a models.Anime
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Genres lists every genre present in the cache, alphabetically.
func (r *animeRepository) Genres(ctx context.Context) ([]string, error) {
	genres := []string{}
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT g FROM anime, jsonb_array_elements_text(anime.genres) AS g ORDER BY g").
		Scan(&genres).Error
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}
