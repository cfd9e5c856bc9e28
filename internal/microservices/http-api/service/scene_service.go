package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"scenehub/internal/gallery"
	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/repository"
	"scenehub/internal/shared"
	"scenehub/internal/trending"
)

// MaxPageLimit bounds the limit a caller may ask for on a gallery page.
const MaxPageLimit = 100

// TrendingInvalidator drops cached rankings after a write that can change them.
type TrendingInvalidator interface {
	InvalidateTrending(ctx context.Context) error
}

type SceneService interface {
	Page(ctx context.Context, q gallery.Query) (*dto.ScenePageResponse, error)
	Trending(ctx context.Context, limit int) (*dto.TrendingResponse, error)
	Get(ctx context.Context, id int64) (*shared.Scene, error)
	Create(ctx context.Context, userID, username string, req dto.CreateSceneDTO) (*shared.Scene, error)
	Uploads(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedScenesResponse, error)
	Favourites(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedScenesResponse, error)
}

type sceneService struct {
	scenes      repository.SceneRepository
	tags        repository.TagRepository
	anime       repository.AnimeRepository
	users       repository.UserRepository
	source      *SceneSource
	ranking     *trending.Engine
	invalidator TrendingInvalidator
	logger      *slog.Logger
}

// NewSceneService wires the scene use cases. ranking may be nil, in which case an uncached
// engine over the repository is used; invalidator may be nil.
func NewSceneService(
	scenes repository.SceneRepository,
	tags repository.TagRepository,
	anime repository.AnimeRepository,
	users repository.UserRepository,
	ranking *trending.Engine,
	invalidator TrendingInvalidator,
	logger *slog.Logger,
) SceneService {
	if logger == nil {
		logger = slog.Default()
	}
	source := NewSceneSource(scenes)
	if ranking == nil {
		ranking = trending.NewEngine(source, trending.WithLogger(logger))
	}
	return &sceneService{
		scenes:      scenes,
		tags:        tags,
		anime:       anime,
		users:       users,
		source:      source,
		ranking:     ranking,
		invalidator: invalidator,
		logger:      logger.With("component", "scene_service"),
	}
}

func (s *sceneService) Page(ctx context.Context, q gallery.Query) (*dto.ScenePageResponse, error) {
	if q.Page < 0 {
		return nil, invalid("page must not be negative")
	}
	if q.Limit <= 0 {
		q.Limit = gallery.PageSize
	}
	if q.Limit > MaxPageLimit {
		return nil, invalid("limit must be at most %d", MaxPageLimit)
	}
	if q.Sort == "" {
		q.Sort = gallery.SortNewest
	}
	q.Criteria = q.Criteria.Normalize()

	list, err := s.source.FetchScenes(ctx, q)
	if err != nil {
		return nil, err
	}
	return dto.NewScenePageResponse(list, q.Page, q.Limit), nil
}

func (s *sceneService) Trending(ctx context.Context, limit int) (*dto.TrendingResponse, error) {
	if limit > trending.CandidateLimit {
		limit = trending.CandidateLimit
	}
	ranked, err := s.ranking.Top(ctx, limit)
	return &dto.TrendingResponse{Data: ranked}, err
}

// Get returns a visible scene. Hidden scenes (unapproved or reported) are reported as not found.
func (s *sceneService) Get(ctx context.Context, id int64) (*shared.Scene, error) {
	m, err := s.scenes.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "scene")
	}
	scene := m.ToShared()
	if !scene.Visible() {
		return nil, notFound(repository.ErrNotFound, "scene")
	}
	return &scene, nil
}

func (s *sceneService) Create(ctx context.Context, userID, username string, req dto.CreateSceneDTO) (*shared.Scene, error) {
	model := req.ToModel(userID)
	if model.Title == "" {
		return nil, invalid("title must not be blank")
	}

	if model.AnimeID != nil {
		if _, err := s.anime.GetByID(ctx, *model.AnimeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, invalid("unknown anime %d", *model.AnimeID)
			}
			return nil, err
		}
	}

	tagIDs := slices.Clone(req.TagIDs)
	slices.Sort(tagIDs)
	tagIDs = slices.Compact(tagIDs)
	if len(tagIDs) > 0 {
		n, err := s.tags.CountExisting(ctx, tagIDs)
		if err != nil {
			return nil, err
		}
		if int(n) != len(tagIDs) {
			return nil, invalid("unknown tag in %v", tagIDs)
		}
	}

	if err := s.users.EnsureProfile(ctx, userID, username); err != nil {
		return nil, err
	}
	if err := s.scenes.Create(ctx, &model, tagIDs); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	created, err := s.scenes.GetByID(ctx, model.ID)
	if err != nil {
		return nil, notFound(err, "scene")
	}
	scene := created.ToShared()
	s.logger.Info("scene created", "scene_id", scene.ID, "user_id", userID, "tags", len(tagIDs))
	return &scene, nil
}

func (s *sceneService) Uploads(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedScenesResponse, error) {
	list, total, err := s.scenes.ListByUploader(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginatedScenesResponse(dto.ScenesFromModels(list), int(total), page, pageSize), nil
}

func (s *sceneService) Favourites(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedScenesResponse, error) {
	list, total, err := s.scenes.ListFavourited(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginatedScenesResponse(dto.ScenesFromModels(list), int(total), page, pageSize), nil
}

func (s *sceneService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateTrending(ctx); err != nil {
		s.logger.Warn("trending cache invalidation failed", "error", err)
	}
}
