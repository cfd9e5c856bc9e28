package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenehub/internal/gallery"
	"scenehub/internal/shared"
	"scenehub/internal/social"
	"scenehub/internal/thread"
)

func TestFetchScenesEncodesQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		json.NewEncoder(w).Encode(map[string]any{
			"data":     []shared.Scene{{ID: 1, IsApproved: true}},
			"has_more": false,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/")
	c.SetToken("tok")
	animeID := int64(21)
	scenes, err := c.FetchScenes(context.Background(), gallery.Query{
		Criteria: gallery.Criteria{Search: "last train", TagIDs: []int64{2, 9}, AnimeID: &animeID, Genre: "Drama"},
		Sort:     gallery.SortOldest,
		Page:     3,
		Limit:    24,
	})
	require.NoError(t, err)
	require.Len(t, scenes, 1)

	assert.Equal(t, "/api/scenes", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "24", q.Get("limit"))
	assert.Equal(t, "oldest", q.Get("sort"))
	assert.Equal(t, "last train", q.Get("search"))
	assert.Equal(t, "21", q.Get("anime_id"))
	assert.Equal(t, "Drama", q.Get("genre"))
	assert.Equal(t, "2,9", q.Get("tag_ids"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
}

func TestComposerOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := make([]shared.Scene, 0, gallery.PageSize)
		if r.URL.Query().Get("page") == "0" {
			for i := 1; i <= gallery.PageSize; i++ {
				data = append(data, shared.Scene{ID: int64(i), IsApproved: true})
			}
		} else {
			data = append(data, shared.Scene{ID: 100, IsApproved: true})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	composer := gallery.NewComposer(NewHTTPClient(srv.URL), nil)
	ctx := context.Background()

	res, err := composer.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, res.HasMore)
	res, err = composer.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, res.HasMore)
	assert.Len(t, composer.Scenes(), gallery.PageSize+1)

	_, err = composer.LoadMore(ctx)
	assert.ErrorIs(t, err, gallery.ErrNoMorePages)
}

func TestCreateReportMapsConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"scene already reported","code":"already_reported"}`))
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL).CreateReport(context.Background(), "u", 4, shared.ReportReasons[0])
	assert.ErrorIs(t, err, social.ErrAlreadyReported)
}

func TestErrorResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/me/likes":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"scene not found"}`))
		}
	}))
	defer srv.Close()
	c := NewHTTPClient(srv.URL)

	_, err := c.ListMemberships(context.Background(), "u", social.RelationLike)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.GetScene(context.Background(), 5)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "scene not found", apiErr.Message)
}

func TestPostCommentValidatesLocally(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "nice cut", body["body"])
		assert.EqualValues(t, 7, body["parent_id"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(shared.Comment{ID: 8, Body: "nice cut"})
	}))
	defer srv.Close()
	c := NewHTTPClient(srv.URL)

	_, err := c.PostComment(context.Background(), 1, "   ", nil)
	assert.ErrorIs(t, err, thread.ErrEmptyBody)
	assert.Equal(t, 0, calls)

	parent := int64(7)
	comment, err := c.PostComment(context.Background(), 1, "  nice cut ", &parent)
	require.NoError(t, err)
	assert.Equal(t, int64(8), comment.ID)
	assert.Equal(t, 1, calls)
}

// A failed like write over HTTP rolls the session back.
func TestSessionRollbackOverHTTP(t *testing.T) {
	var mu sync.Mutex
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"data": []int64{}})
		default:
			mu.Lock()
			methods = append(methods, r.Method+" "+r.URL.Path)
			mu.Unlock()
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"internal server error"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	session := social.NewSession(NewHTTPClient(srv.URL), nil)
	require.NoError(t, session.SetIdentity(ctx, "6f1c2d9e-8a43-4b6e-9c1a-2f3e4d5c6b7a"))

	var counts []int
	p := session.ToggleLike(ctx, 3, 10, func(n int) { counts = append(counts, n) })
	assert.True(t, p.State())
	outcome := p.Wait(ctx)

	assert.Error(t, outcome.Err)
	assert.True(t, outcome.RolledBack)
	assert.False(t, session.IsLiked(3))
	assert.Equal(t, []int{11, 10}, counts)
	assert.Equal(t, []string{"PUT /api/scenes/3/like"}, methods)
}
