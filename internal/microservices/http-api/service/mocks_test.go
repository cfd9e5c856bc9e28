package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"scenehub/internal/gallery"
	"scenehub/internal/ingestion/anilist"
	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/social"
)

type MockSceneRepository struct {
	mock.Mock
}

func (m *MockSceneRepository) Page(ctx context.Context, q gallery.Query) ([]models.Scene, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]models.Scene)
	return list, args.Error(1)
}

func (m *MockSceneRepository) GetByID(ctx context.Context, id int64) (*models.Scene, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scene), args.Error(1)
}

func (m *MockSceneRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSceneRepository) Create(ctx context.Context, scene *models.Scene, tagIDs []int64) error {
	args := m.Called(ctx, scene, tagIDs)
	return args.Error(0)
}

func (m *MockSceneRepository) TrendingCandidates(ctx context.Context, since time.Time, limit int) ([]models.Scene, error) {
	args := m.Called(ctx, since, limit)
	list, _ := args.Get(0).([]models.Scene)
	return list, args.Error(1)
}

func (m *MockSceneRepository) ListByUploader(ctx context.Context, userID string, page, pageSize int) ([]models.Scene, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	list, _ := args.Get(0).([]models.Scene)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *MockSceneRepository) ListFavourited(ctx context.Context, userID string, page, pageSize int) ([]models.Scene, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	list, _ := args.Get(0).([]models.Scene)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *MockSceneRepository) AnimeIDsWithScenes(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Tag)
	return list, args.Error(1)
}

func (m *MockTagRepository) GetByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	args := m.Called(ctx, names)
	list, _ := args.Get(0).([]models.Tag)
	return list, args.Error(1)
}

func (m *MockTagRepository) CountExisting(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTagRepository) Seed(ctx context.Context, tags []models.Tag) error {
	return m.Called(ctx, tags).Error(0)
}

type MockAnimeRepository struct {
	mock.Mock
}

func (m *MockAnimeRepository) Upsert(ctx context.Context, anime ...*models.Anime) error {
	return m.Called(ctx, anime).Error(0)
}

func (m *MockAnimeRepository) GetByID(ctx context.Context, id int64) (*models.Anime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Anime), args.Error(1)
}

func (m *MockAnimeRepository) Genres(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureProfile(ctx context.Context, id, username string) error {
	return m.Called(ctx, id, username).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, commentID int64, userID string) error {
	return m.Called(ctx, commentID, userID).Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByScene(ctx context.Context, sceneID int64) ([]models.Comment, error) {
	args := m.Called(ctx, sceneID)
	list, _ := args.Get(0).([]models.Comment)
	return list, args.Error(1)
}

type MockSocialRepository struct {
	mock.Mock
}

func (m *MockSocialRepository) Add(ctx context.Context, rel social.Relation, userID string, sceneID int64) (bool, error) {
	args := m.Called(ctx, rel, userID, sceneID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialRepository) Remove(ctx context.Context, rel social.Relation, userID string, sceneID int64) (bool, error) {
	args := m.Called(ctx, rel, userID, sceneID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialRepository) ListSceneIDs(ctx context.Context, rel social.Relation, userID string) ([]int64, error) {
	args := m.Called(ctx, rel, userID)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReportRepository) Exists(ctx context.Context, userID string, sceneID int64) (bool, error) {
	args := m.Called(ctx, userID, sceneID)
	return args.Bool(0), args.Error(1)
}

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) FetchTrending(ctx context.Context, page, perPage int) ([]anilist.Media, error) {
	args := m.Called(ctx, page, perPage)
	list, _ := args.Get(0).([]anilist.Media)
	return list, args.Error(1)
}

func (m *MockCatalogClient) SearchAnime(ctx context.Context, search string, page, perPage int) ([]anilist.Media, error) {
	args := m.Called(ctx, search, page, perPage)
	list, _ := args.Get(0).([]anilist.Media)
	return list, args.Error(1)
}

func (m *MockCatalogClient) FetchByGenre(ctx context.Context, genre string, page, perPage int) ([]anilist.Media, error) {
	args := m.Called(ctx, genre, page, perPage)
	list, _ := args.Get(0).([]anilist.Media)
	return list, args.Error(1)
}

func (m *MockCatalogClient) FetchAnimeByID(ctx context.Context, id int64) (*anilist.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anilist.Media), args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) InvalidateTrending(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
