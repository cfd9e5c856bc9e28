package client

// http_client.go = typed access to the scenehub API for the CLI. It is the gallery source and
// the social remote of the CLI's composer and session.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"scenehub/internal/gallery"
	"scenehub/internal/shared"
	"scenehub/internal/social"
	"scenehub/internal/thread"
	"scenehub/internal/trending"
)

var ErrUnauthorized = errors.New("not logged in or token expired")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// HTTPClient talks to the API server
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close() // Ensure the response body is closed

	if response.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if response.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(response.Body).Decode(&e)
		if e.Error == "" {
			e.Error = response.Status
		}
		return &APIError{Status: response.StatusCode, Message: e.Error, Code: e.Code}
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}

// --- scenes ---

type scenePage struct {
	Data    []shared.Scene `json:"data"`
	HasMore bool           `json:"has_more"`
}

// FetchScenes makes HTTPClient a gallery.Source.
func (c *HTTPClient) FetchScenes(ctx context.Context, q gallery.Query) ([]shared.Scene, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		v.Set("sort", string(q.Sort))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.AnimeID != nil {
		v.Set("anime_id", strconv.FormatInt(*q.AnimeID, 10))
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if len(q.TagIDs) > 0 {
		ids := make([]string, len(q.TagIDs))
		for i, id := range q.TagIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		v.Set("tag_ids", strings.Join(ids, ","))
	}

	var page scenePage
	if err := c.do(ctx, http.MethodGet, "/api/scenes", v, nil, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (c *HTTPClient) GetScene(ctx context.Context, id int64) (*shared.Scene, error) {
	var scene shared.Scene
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/scenes/%d", id), nil, nil, &scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

func (c *HTTPClient) Trending(ctx context.Context, limit int) ([]trending.Ranked, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Data []trending.Ranked `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/scenes/trending", v, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// PaginatedScenes is a page of the collection panel.
type PaginatedScenes struct {
	Data       []shared.Scene `json:"data"`
	Page       int            `json:"page"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func (c *HTTPClient) MyUploads(ctx context.Context, page int) (*PaginatedScenes, error) {
	return c.collection(ctx, "/api/me/uploads", page)
}

func (c *HTTPClient) MyFavouriteScenes(ctx context.Context, page int) (*PaginatedScenes, error) {
	return c.collection(ctx, "/api/me/favourites/scenes", page)
}

func (c *HTTPClient) collection(ctx context.Context, path string, page int) (*PaginatedScenes, error) {
	var resp PaginatedScenes
	v := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.do(ctx, http.MethodGet, path, v, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- likes and favourites (social.Remote); the server takes the user from the token ---

func membershipPath(rel social.Relation, sceneID int64) string {
	return fmt.Sprintf("/api/scenes/%d/%s", sceneID, rel)
}

func (c *HTTPClient) AddMembership(ctx context.Context, _ string, rel social.Relation, sceneID int64) error {
	return c.do(ctx, http.MethodPut, membershipPath(rel, sceneID), nil, nil, nil)
}

func (c *HTTPClient) RemoveMembership(ctx context.Context, _ string, rel social.Relation, sceneID int64) error {
	return c.do(ctx, http.MethodDelete, membershipPath(rel, sceneID), nil, nil, nil)
}

func (c *HTTPClient) ListMemberships(ctx context.Context, _ string, rel social.Relation) ([]int64, error) {
	path := "/api/me/likes"
	if rel == social.RelationFavourite {
		path = "/api/me/favourites"
	}
	var resp struct {
		Data []int64 `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// --- reports (social.ReportRemote) ---

func (c *HTTPClient) CreateReport(ctx context.Context, _ string, sceneID int64, reason string) error {
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/scenes/%d/report", sceneID), nil, map[string]string{"reason": reason}, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict && apiErr.Code == shared.CodeAlreadyReported {
		return fmt.Errorf("%w: %s", social.ErrAlreadyReported, apiErr.Message)
	}
	return err
}

func (c *HTTPClient) HasReported(ctx context.Context, _ string, sceneID int64) (bool, error) {
	var resp struct {
		Reported bool `json:"reported"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/scenes/%d/report", sceneID), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Reported, nil
}

func (c *HTTPClient) ReportReasons(ctx context.Context) ([]string, error) {
	var resp struct {
		Data []string `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/report-reasons", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// --- comments ---

// Comments returns the flat comment list, oldest first; callers arrange it with thread.Build.
func (c *HTTPClient) Comments(ctx context.Context, sceneID int64) ([]shared.Comment, error) {
	var resp struct {
		Data []shared.Comment `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/scenes/%d/comments", sceneID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// PostComment validates body locally before sending it.
func (c *HTTPClient) PostComment(ctx context.Context, sceneID int64, body string, parentID *int64) (*shared.Comment, error) {
	trimmed, err := thread.ValidateBody(body)
	if err != nil {
		return nil, err
	}
	req := map[string]any{"body": trimmed}
	if parentID != nil {
		req["parent_id"] = *parentID
	}
	var comment shared.Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/scenes/%d/comments", sceneID), nil, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *HTTPClient) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil, nil, nil)
}

// --- catalog ---

func (c *HTTPClient) Tags(ctx context.Context) ([]shared.Tag, error) {
	var resp struct {
		Data []shared.Tag `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) Genres(ctx context.Context) ([]shared.Genre, error) {
	var resp struct {
		Data []shared.Genre `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/genres", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) SearchAnime(ctx context.Context, q string) ([]shared.AnimeSummary, error) {
	return c.animeList(ctx, "/api/catalog/search", url.Values{"q": {q}})
}

func (c *HTTPClient) TrendingAnime(ctx context.Context) ([]shared.AnimeSummary, error) {
	return c.animeList(ctx, "/api/catalog/trending", nil)
}

func (c *HTTPClient) AnimeByGenre(ctx context.Context, genre string) ([]shared.AnimeSummary, error) {
	return c.animeList(ctx, "/api/catalog/genre/"+url.PathEscape(genre), nil)
}

func (c *HTTPClient) Anime(ctx context.Context, id int64) (*shared.AnimeSummary, error) {
	var anime shared.AnimeSummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/catalog/anime/%d", id), nil, nil, &anime); err != nil {
		return nil, err
	}
	return &anime, nil
}

func (c *HTTPClient) animeList(ctx context.Context, path string, v url.Values) ([]shared.AnimeSummary, error) {
	var resp struct {
		Data []shared.AnimeSummary `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, v, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
