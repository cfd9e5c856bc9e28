package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scenehub/internal/cache"
	"scenehub/internal/ingestion/anilist"
	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/microservices/http-api/repository"
	"scenehub/internal/shared"
)

func newCatalogCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	c, err := cache.Connect(context.Background(), mr.Addr(), "", cache.Options{CatalogTTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func media(id int64, romaji string, genres ...string) anilist.Media {
	return anilist.Media{ID: id, Title: anilist.TitleData{Romaji: &romaji}, Genres: genres}
}

func TestCatalogService_SearchIsCachedAndUpserted(t *testing.T) {
	client, animeRepo := new(MockCatalogClient), new(MockAnimeRepository)
	svc := NewCatalogService(nil, animeRepo, client, newCatalogCache(t), nil)
	ctx := context.Background()

	client.On("SearchAnime", mock.Anything, "frieren", 1, catalogPerPage).
		Return([]anilist.Media{media(1, "Sousou no Frieren", "Adventure")}, nil).Once()
	animeRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(rows []*models.Anime) bool {
		return len(rows) == 1 && rows[0].ID == 1
	})).Return(nil).Once()

	first, err := svc.SearchAnime(ctx, " frieren ")
	require.NoError(t, err)
	require.Len(t, first.Data, 1)
	assert.Equal(t, "Sousou no Frieren", first.Data[0].TitleRomaji)

	second, err := svc.SearchAnime(ctx, "frieren")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	client.AssertExpectations(t)
	animeRepo.AssertExpectations(t)
}

func TestCatalogService_SearchRejectsBlank(t *testing.T) {
	svc := NewCatalogService(nil, nil, new(MockCatalogClient), nil, nil)
	_, err := svc.SearchAnime(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_UpsertFailureStillServes(t *testing.T) {
	client, animeRepo := new(MockCatalogClient), new(MockAnimeRepository)
	svc := NewCatalogService(nil, animeRepo, client, nil, nil)

	client.On("FetchTrending", mock.Anything, 1, catalogPerPage).Return([]anilist.Media{media(2, "Kimi no Na wa")}, nil)
	animeRepo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	resp, err := svc.TrendingAnime(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
}

func TestCatalogService_AnimeFallsBackToLocalCache(t *testing.T) {
	client, animeRepo := new(MockCatalogClient), new(MockAnimeRepository)
	svc := NewCatalogService(nil, animeRepo, client, nil, nil)
	ctx := context.Background()

	client.On("FetchAnimeByID", mock.Anything, int64(5)).Return(nil, anilist.ErrUnavailable)
	animeRepo.On("GetByID", mock.Anything, int64(5)).Return(&models.Anime{ID: 5, TitleRomaji: "Local"}, nil)
	client.On("FetchAnimeByID", mock.Anything, int64(6)).Return(nil, errors.New("GraphQL errors: Not Found."))
	animeRepo.On("GetByID", mock.Anything, int64(6)).Return(nil, repository.ErrNotFound)
	client.On("FetchAnimeByID", mock.Anything, int64(7)).Return(nil, anilist.ErrUnavailable)
	animeRepo.On("GetByID", mock.Anything, int64(7)).Return(nil, repository.ErrNotFound)

	a, err := svc.Anime(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Local", a.TitleRomaji)

	_, err = svc.Anime(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Anime(ctx, 7)
	assert.ErrorIs(t, err, anilist.ErrUnavailable)
}

func TestCatalogService_Genres(t *testing.T) {
	animeRepo := new(MockAnimeRepository)
	svc := NewCatalogService(nil, animeRepo, nil, nil, nil)
	animeRepo.On("Genres", mock.Anything).Return([]string{"Action", "Ecchi", "Hentai", "ecchi"}, nil)

	resp, err := svc.Genres(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Data, len(shared.Genres)+2)
	assert.Equal(t, "Ecchi", resp.Data[len(shared.Genres)].Name)
}

func TestCatalogService_Tags(t *testing.T) {
	tags := new(MockTagRepository)
	svc := NewCatalogService(tags, nil, nil, nil, nil)
	tags.On("GetAll", mock.Anything).Return([]models.Tag{{ID: 1, Name: "rain", Category: "visual", Color: "#60a5fa"}}, nil)

	resp, err := svc.Tags(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, shared.TagCategoryVisual, resp.Data[0].Category)
	assert.Equal(t, shared.TagCategories, resp.Categories)
}
