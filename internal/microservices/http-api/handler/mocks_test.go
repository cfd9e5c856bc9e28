package handler_test

import (
	"context"

	"scenehub/internal/gallery"
	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/handler"
	"scenehub/internal/shared"
	"scenehub/internal/social"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockSceneService struct {
	mock.Mock
}

func (m *MockSceneService) Page(ctx context.Context, q gallery.Query) (*dto.ScenePageResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ScenePageResponse), args.Error(1)
}

func (m *MockSceneService) Trending(ctx context.Context, limit int) (*dto.TrendingResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TrendingResponse), args.Error(1)
}

func (m *MockSceneService) Get(ctx context.Context, id int64) (*shared.Scene, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Scene), args.Error(1)
}

func (m *MockSceneService) Create(ctx context.Context, userID, username string, req dto.CreateSceneDTO) (*shared.Scene, error) {
	args := m.Called(ctx, userID, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Scene), args.Error(1)
}

func (m *MockSceneService) Uploads(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedScenesResponse, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedScenesResponse), args.Error(1)
}

func (m *MockSceneService) Favourites(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedScenesResponse, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedScenesResponse), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, sceneID int64) (*dto.CommentListResponse, error) {
	args := m.Called(ctx, sceneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentListResponse), args.Error(1)
}

func (m *MockCommentService) Thread(ctx context.Context, sceneID int64) (*dto.ThreadResponse, error) {
	args := m.Called(ctx, sceneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ThreadResponse), args.Error(1)
}

func (m *MockCommentService) Post(ctx context.Context, userID, username string, sceneID int64, req dto.CreateCommentDTO) (*shared.Comment, error) {
	args := m.Called(ctx, userID, username, sceneID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, commentID int64, userID string) error {
	return m.Called(ctx, commentID, userID).Error(0)
}

type MockSocialService struct {
	mock.Mock
}

func (m *MockSocialService) Set(ctx context.Context, userID, username string, rel social.Relation, sceneID int64, member bool) (*dto.MembershipResponse, error) {
	args := m.Called(ctx, userID, username, rel, sceneID, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MembershipResponse), args.Error(1)
}

func (m *MockSocialService) IDs(ctx context.Context, userID string, rel social.Relation) (*dto.MembershipIDsResponse, error) {
	args := m.Called(ctx, userID, rel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MembershipIDsResponse), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Report(ctx context.Context, userID, username string, sceneID int64, reason string) error {
	return m.Called(ctx, userID, username, sceneID, reason).Error(0)
}

func (m *MockReportService) HasReported(ctx context.Context, userID string, sceneID int64) (bool, error) {
	args := m.Called(ctx, userID, sceneID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportService) Reasons() []string {
	return m.Called().Get(0).([]string)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Tags(ctx context.Context) (*dto.TagsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TagsResponse), args.Error(1)
}

func (m *MockCatalogService) Genres(ctx context.Context) (*dto.GenresResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenresResponse), args.Error(1)
}

func (m *MockCatalogService) TrendingAnime(ctx context.Context) (*dto.AnimeListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnimeListResponse), args.Error(1)
}

func (m *MockCatalogService) SearchAnime(ctx context.Context, query string) (*dto.AnimeListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnimeListResponse), args.Error(1)
}

func (m *MockCatalogService) AnimeByGenre(ctx context.Context, genre string) (*dto.AnimeListResponse, error) {
	args := m.Called(ctx, genre)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnimeListResponse), args.Error(1)
}

func (m *MockCatalogService) Anime(ctx context.Context, id int64) (*shared.AnimeSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.AnimeSummary), args.Error(1)
}

// --- SETUP ---

const (
	testUserID   = "6f1c2d9e-8a43-4b6e-9c1a-2f3e4d5c6b7a"
	testUsername = "testuser"
)

func mockAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handler.ContextUserID, testUserID)
		c.Set(handler.ContextUsername, testUsername)
		c.Next()
	}
}

type services struct {
	scenes   *MockSceneService
	comments *MockCommentService
	social   *MockSocialService
	reports  *MockReportService
	catalog  *MockCatalogService
}

func newServices() *services {
	return &services{
		scenes:   new(MockSceneService),
		comments: new(MockCommentService),
		social:   new(MockSocialService),
		reports:  new(MockReportService),
		catalog:  new(MockCatalogService),
	}
}

// setupRouter mounts every handler under /api. When authenticated is false the protected
// group has no identity, as if the auth middleware had been skipped.
func setupRouter(s *services, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	protected := api.Group("")
	if authenticated {
		protected.Use(mockAuthMiddleware())
	}

	handler.NewSceneHandler(s.scenes).RegisterRoutes(api, protected)
	handler.NewCommentHandler(s.comments).RegisterRoutes(api, protected)
	handler.NewSocialHandler(s.social).RegisterRoutes(protected)
	handler.NewReportHandler(s.reports).RegisterRoutes(api, protected)
	handler.NewCatalogHandler(s.catalog).RegisterRoutes(api)
	return r
}
