package service

import (
	"context"
	"time"

	"scenehub/internal/gallery"
	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/repository"
	"scenehub/internal/shared"
)

// SceneSource adapts the scene repository to the gallery and trending engines.
type SceneSource struct {
	repo repository.SceneRepository
}

func NewSceneSource(repo repository.SceneRepository) *SceneSource {
	return &SceneSource{repo: repo}
}

func (s *SceneSource) FetchScenes(ctx context.Context, q gallery.Query) ([]shared.Scene, error) {
	list, err := s.repo.Page(ctx, q)
	if err != nil {
		return nil, err
	}
	return dto.ScenesFromModels(list), nil
}

func (s *SceneSource) TrendingCandidates(ctx context.Context, since time.Time, limit int) ([]shared.Scene, error) {
	list, err := s.repo.TrendingCandidates(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	return dto.ScenesFromModels(list), nil
}
