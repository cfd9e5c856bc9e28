package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"scenehub/internal/gallery"
	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/service"
	"scenehub/internal/shared"
	"scenehub/internal/trending"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSceneHandler_List(t *testing.T) {
	t.Run("Parses filters", func(t *testing.T) {
		s := newServices()
		r := setupRouter(s, false)

		animeID := int64(7)
		want := gallery.Query{
			Criteria: gallery.Criteria{Search: "rooftop", TagIDs: []int64{3, 1}, AnimeID: &animeID, Genre: "Drama"},
			Sort:     gallery.SortPopular,
			Page:     2,
			Limit:    gallery.PageSize,
		}
		page := dto.NewScenePageResponse([]shared.Scene{{ID: 1, Title: "Rooftop"}}, 2, gallery.PageSize)
		s.scenes.On("Page", mock.Anything, want).Return(page, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/scenes?page=2&sort=popular&search=rooftop&anime_id=7&genre=Drama&tag_ids=3,1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.ScenePageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, 2, resp.Page)
		assert.False(t, resp.HasMore)
		s.scenes.AssertExpectations(t)
	})

	badQueries := []string{
		"sort=hottest",
		"page=abc",
		"tag_ids=1,x",
		"anime_id=1,2",
	}
	for _, q := range badQueries {
		t.Run("Rejects "+q, func(t *testing.T) {
			s := newServices()
			r := setupRouter(s, false)

			req, _ := http.NewRequest(http.MethodGet, "/api/scenes?"+q, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			s.scenes.AssertNotCalled(t, "Page", mock.Anything, mock.Anything)
		})
	}

	t.Run("Service validation error", func(t *testing.T) {
		s := newServices()
		r := setupRouter(s, false)
		s.scenes.On("Page", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: limit must be at most 100", service.ErrValidation)).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/scenes?limit=500", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Store failure", func(t *testing.T) {
		s := newServices()
		r := setupRouter(s, false)
		s.scenes.On("Page", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/scenes", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestSceneHandler_Trending(t *testing.T) {
	s := newServices()
	r := setupRouter(s, false)

	ranked := []trending.Ranked{{Scene: shared.Scene{ID: 4}, Score: 41.5}}
	s.scenes.On("Trending", mock.Anything, trending.DefaultLimit).Return(&dto.TrendingResponse{Data: ranked}, nil).Once()
	s.scenes.On("Trending", mock.Anything, 5).Return(&dto.TrendingResponse{Data: ranked}, nil).Once()

	for _, path := range []string{"/api/scenes/trending", "/api/scenes/trending?limit=5"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.TrendingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, int64(4), resp.Data[0].Scene.ID)
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/scenes/trending?limit=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.scenes.AssertExpectations(t)
}

func TestSceneHandler_Get(t *testing.T) {
	s := newServices()
	r := setupRouter(s, false)

	s.scenes.On("Get", mock.Anything, int64(9)).Return(&shared.Scene{ID: 9, Title: "Farewell"}, nil).Once()
	s.scenes.On("Get", mock.Anything, int64(10)).Return(nil, fmt.Errorf("scene %w", service.ErrNotFound)).Once()

	t.Run("Success", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/scenes/9", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var scene shared.Scene
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scene))
		assert.Equal(t, "Farewell", scene.Title)
	})

	t.Run("Not found", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/scenes/10", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/scenes/-3", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSceneHandler_Create(t *testing.T) {
	body := dto.CreateSceneDTO{
		Title:    "Sunset train",
		ImageURL: "https://img.example.com/sunset.jpg",
		TagIDs:   []int64{2},
	}

	t.Run("Success", func(t *testing.T) {
		s := newServices()
		r := setupRouter(s, true)
		s.scenes.On("Create", mock.Anything, testUserID, testUsername, body).
			Return(&shared.Scene{ID: 31, Title: body.Title, Source: "upload"}, nil).Once()

		jsonBody, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, "/api/scenes", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var scene shared.Scene
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scene))
		assert.Equal(t, int64(31), scene.ID)
		s.scenes.AssertExpectations(t)
	})

	t.Run("Missing image URL", func(t *testing.T) {
		s := newServices()
		r := setupRouter(s, true)

		req, _ := http.NewRequest(http.MethodPost, "/api/scenes", bytes.NewBufferString(`{"title":"No image"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		s.scenes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		s := newServices()
		r := setupRouter(s, false)

		jsonBody, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, "/api/scenes", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSceneHandler_Collections(t *testing.T) {
	s := newServices()
	r := setupRouter(s, true)

	s.scenes.On("Uploads", mock.Anything, testUserID, 1, 20).
		Return(dto.NewPaginatedScenesResponse(nil, 0, 1, 20), nil).Once()
	s.scenes.On("Favourites", mock.Anything, testUserID, 2, 100).
		Return(dto.NewPaginatedScenesResponse([]shared.Scene{{ID: 1}}, 101, 2, 100), nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/me/uploads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"page":1,"page_size":20,"total":0,"total_pages":0}`, w.Body.String())

	req, _ = http.NewRequest(http.MethodGet, "/api/me/favourites/scenes?page=2&page_size=500", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.PaginatedScenesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalPages)

	s.scenes.AssertExpectations(t)
}
