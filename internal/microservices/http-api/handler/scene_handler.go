package handler

import (
	"context"
	"net/http"
	"strings"

	"scenehub/internal/gallery"
	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/service"
	"scenehub/internal/trending"

	"github.com/gin-gonic/gin"
)

const (
	defaultCollectionPageSize = 20
	maxCollectionPageSize     = 100
)

type SceneHandler struct {
	sceneService service.SceneService
}

func NewSceneHandler(sceneService service.SceneService) *SceneHandler {
	return &SceneHandler{sceneService: sceneService}
}

// RegisterRoutes mounts the gallery on public and the write and collection routes on protected.
func (h *SceneHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	scenes := public.Group("/scenes")
	{
		scenes.GET("", h.List)
		scenes.GET("/trending", h.Trending)
		scenes.GET("/:scene_id", h.Get)
	}

	protected.POST("/scenes", h.Create)

	me := protected.Group("/me")
	{
		me.GET("/uploads", h.Uploads)
		me.GET("/favourites/scenes", h.Favourites)
	}
}

// List returns one gallery page
// GET /api/scenes?page=0&limit=24&sort=newest&search=&anime_id=&genre=&tag_ids=1,2
func (h *SceneHandler) List(c *gin.Context) {
	q, err := parseSceneQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.sceneService.Page(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func parseSceneQuery(c *gin.Context) (gallery.Query, error) {
	var q gallery.Query
	var err error

	if q.Page, err = queryInt(c, "page", 0); err != nil {
		return q, errInvalidQuery("page")
	}
	if q.Limit, err = queryInt(c, "limit", gallery.PageSize); err != nil {
		return q, errInvalidQuery("limit")
	}
	if q.Sort, err = gallery.ParseSort(c.Query("sort")); err != nil {
		return q, err
	}

	q.Search = c.Query("search")
	q.Genre = c.Query("genre")
	if raw := strings.TrimSpace(c.Query("anime_id")); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil || len(ids) != 1 {
			return q, errInvalidQuery("anime_id")
		}
		q.AnimeID = &ids[0]
	}
	if q.TagIDs, err = parseIDList(c.Query("tag_ids")); err != nil {
		return q, errInvalidQuery("tag_ids")
	}
	return q, nil
}

// Trending returns the ranked top scenes
// GET /api/scenes/trending?limit=12
func (h *SceneHandler) Trending(c *gin.Context) {
	limit, err := queryInt(c, "limit", trending.DefaultLimit)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	resp, err := h.sceneService.Trending(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns a single visible scene
// GET /api/scenes/:scene_id
func (h *SceneHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "scene_id", "scene")
	if !ok {
		return
	}

	scene, err := h.sceneService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

// Create records an uploaded scene
// POST /api/scenes
func (h *SceneHandler) Create(c *gin.Context) {
	userID, username, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateSceneDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scene, err := h.sceneService.Create(c.Request.Context(), userID, username, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scene)
}

// Uploads lists the caller's uploads
// GET /api/me/uploads?page=1&page_size=20
func (h *SceneHandler) Uploads(c *gin.Context) {
	h.collection(c, h.sceneService.Uploads)
}

// Favourites lists the scenes the caller favourited
// GET /api/me/favourites/scenes?page=1&page_size=20
func (h *SceneHandler) Favourites(c *gin.Context) {
	h.collection(c, h.sceneService.Favourites)
}

func (h *SceneHandler) collection(c *gin.Context, list func(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedScenesResponse, error)) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	page, err := queryInt(c, "page", 1)
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := queryInt(c, "page_size", defaultCollectionPageSize)
	if err != nil || pageSize < 1 {
		pageSize = defaultCollectionPageSize
	}
	if pageSize > maxCollectionPageSize {
		pageSize = maxCollectionPageSize
	}

	resp, err := list(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
