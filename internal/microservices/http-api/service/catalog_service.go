package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"scenehub/internal/cache"
	"scenehub/internal/ingestion/anilist"
	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/microservices/http-api/repository"
	"scenehub/internal/shared"
)

// catalogPerPage is the page size used for proxied catalog lists.
const catalogPerPage = 20

// fallbackGenreColor colours genres that only exist in the anime cache.
const fallbackGenreColor = "#94a3b8"

// CatalogClient is the external anime catalog.
type CatalogClient interface {
	FetchTrending(ctx context.Context, page, perPage int) ([]anilist.Media, error)
	SearchAnime(ctx context.Context, search string, page, perPage int) ([]anilist.Media, error)
	FetchByGenre(ctx context.Context, genre string, page, perPage int) ([]anilist.Media, error)
	FetchAnimeByID(ctx context.Context, id int64) (*anilist.Media, error)
}

// CatalogCache is a read-through cache for catalog responses.
type CatalogCache interface {
	Catalog(ctx context.Context, key string, dest any, fetch func() error) error
}

type CatalogService interface {
	Tags(ctx context.Context) (*dto.TagsResponse, error)
	Genres(ctx context.Context) (*dto.GenresResponse, error)
	TrendingAnime(ctx context.Context) (*dto.AnimeListResponse, error)
	SearchAnime(ctx context.Context, query string) (*dto.AnimeListResponse, error)
	AnimeByGenre(ctx context.Context, genre string) (*dto.AnimeListResponse, error)
	Anime(ctx context.Context, id int64) (*shared.AnimeSummary, error)
}

type catalogService struct {
	tags   repository.TagRepository
	anime  repository.AnimeRepository
	client CatalogClient
	cache  CatalogCache
	logger *slog.Logger
}

// NewCatalogService builds the catalog accessors. client and cache may be nil; without a client
// only locally cached anime can be looked up.
func NewCatalogService(tags repository.TagRepository, anime repository.AnimeRepository, client CatalogClient, c CatalogCache, logger *slog.Logger) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		tags:   tags,
		anime:  anime,
		client: client,
		cache:  c,
		logger: logger.With("component", "catalog_service"),
	}
}

func (s *catalogService) Tags(ctx context.Context) (*dto.TagsResponse, error) {
	list, err := s.tags.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]shared.Tag, 0, len(list))
	for _, t := range list {
		out = append(out, t.ToShared())
	}
	return &dto.TagsResponse{Data: out, Categories: shared.TagCategories}, nil
}

// Genres lists the browsable genres followed by any other genre found in the anime cache.
func (s *catalogService) Genres(ctx context.Context) (*dto.GenresResponse, error) {
	out := make([]shared.Genre, 0, len(shared.Genres))
	known := make(map[string]bool, len(shared.Genres))
	for _, g := range shared.Genres {
		out = append(out, g)
		known[strings.ToLower(g.Name)] = true
	}

	cached, err := s.anime.Genres(ctx)
	if err != nil {
		s.logger.Warn("reading cached genres failed", "error", err)
		return &dto.GenresResponse{Data: out}, nil
	}
	for _, name := range cached {
		if !known[strings.ToLower(name)] {
			known[strings.ToLower(name)] = true
			out = append(out, shared.Genre{Name: name, Color: fallbackGenreColor})
		}
	}
	return &dto.GenresResponse{Data: out}, nil
}

func (s *catalogService) TrendingAnime(ctx context.Context) (*dto.AnimeListResponse, error) {
	return s.list(ctx, cache.CatalogKey("trending", 1, catalogPerPage), func(c CatalogClient) ([]anilist.Media, error) {
		return c.FetchTrending(ctx, 1, catalogPerPage)
	})
}

func (s *catalogService) SearchAnime(ctx context.Context, query string) (*dto.AnimeListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("search query must not be blank")
	}
	return s.list(ctx, cache.CatalogKey("search", query, catalogPerPage), func(c CatalogClient) ([]anilist.Media, error) {
		return c.SearchAnime(ctx, query, 1, catalogPerPage)
	})
}

func (s *catalogService) AnimeByGenre(ctx context.Context, genre string) (*dto.AnimeListResponse, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, invalid("genre must not be blank")
	}
	return s.list(ctx, cache.CatalogKey("genre", genre, catalogPerPage), func(c CatalogClient) ([]anilist.Media, error) {
		return c.FetchByGenre(ctx, genre, 1, catalogPerPage)
	})
}

// Anime looks an entry up in the catalog. When the catalog cannot be reached the local cache row
// is served instead.
func (s *catalogService) Anime(ctx context.Context, id int64) (*shared.AnimeSummary, error) {
	var media anilist.Media
	err := s.cached(ctx, cache.CatalogKey("anime", id), &media, func() error {
		if s.client == nil {
			return anilist.ErrUnavailable
		}
		m, err := s.client.FetchAnimeByID(ctx, id)
		if err != nil {
			return err
		}
		media = *m
		s.upsert(ctx, []anilist.Media{media})
		return nil
	})
	if err == nil {
		return anilist.ToAnimeModel(media).ToSummary(), nil
	}

	local, lerr := s.anime.GetByID(ctx, id)
	if lerr == nil {
		s.logger.Warn("catalog lookup failed, serving cached anime", "anime_id", id, "error", err)
		return local.ToSummary(), nil
	}
	if errors.Is(lerr, repository.ErrNotFound) && !errors.Is(err, anilist.ErrUnavailable) {
		return nil, notFound(lerr, "anime")
	}
	return nil, err
}

func (s *catalogService) list(ctx context.Context, key string, fetch func(CatalogClient) ([]anilist.Media, error)) (*dto.AnimeListResponse, error) {
	var media []anilist.Media
	err := s.cached(ctx, key, &media, func() error {
		if s.client == nil {
			return anilist.ErrUnavailable
		}
		list, err := fetch(s.client)
		if err != nil {
			return err
		}
		media = list
		s.upsert(ctx, media)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]shared.AnimeSummary, 0, len(media))
	for _, m := range media {
		out = append(out, *anilist.ToAnimeModel(m).ToSummary())
	}
	return &dto.AnimeListResponse{Data: out}, nil
}

func (s *catalogService) cached(ctx context.Context, key string, dest any, fetch func() error) error {
	if s.cache == nil {
		return fetch()
	}
	return s.cache.Catalog(ctx, key, dest, fetch)
}

// upsert refreshes the local anime cache. Failures only cost freshness.
func (s *catalogService) upsert(ctx context.Context, media []anilist.Media) {
	if len(media) == 0 {
		return
	}
	rows := make([]*models.Anime, 0, len(media))
	for _, m := range media {
		rows = append(rows, anilist.ToAnimeModel(m))
	}
	if err := s.anime.Upsert(ctx, rows...); err != nil {
		s.logger.Warn("anime cache upsert failed", "count", len(rows), "error", err)
	}
}
