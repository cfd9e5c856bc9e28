package handler

import (
	"net/http"

	"scenehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves tags, genres and the proxied anime catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/tags", h.Tags)
	public.GET("/genres", h.Genres)

	catalog := public.Group("/catalog")
	{
		catalog.GET("/search", h.Search)
		catalog.GET("/trending", h.Trending)
		catalog.GET("/genre/:genre", h.ByGenre)
		catalog.GET("/anime/:id", h.Anime)
	}
}

// GET /api/tags
func (h *CatalogHandler) Tags(c *gin.Context) {
	resp, err := h.catalogService.Tags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/genres
func (h *CatalogHandler) Genres(c *gin.Context) {
	resp, err := h.catalogService.Genres(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/catalog/search?q=
func (h *CatalogHandler) Search(c *gin.Context) {
	resp, err := h.catalogService.SearchAnime(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/catalog/trending
func (h *CatalogHandler) Trending(c *gin.Context) {
	resp, err := h.catalogService.TrendingAnime(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/catalog/genre/:genre
func (h *CatalogHandler) ByGenre(c *gin.Context) {
	resp, err := h.catalogService.AnimeByGenre(c.Request.Context(), c.Param("genre"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/catalog/anime/:id
func (h *CatalogHandler) Anime(c *gin.Context) {
	id, ok := pathID(c, "id", "anime")
	if !ok {
		return
	}
	anime, err := h.catalogService.Anime(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, anime)
}
