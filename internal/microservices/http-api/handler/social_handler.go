package handler

import (
	"net/http"

	"scenehub/internal/microservices/http-api/service"
	"scenehub/internal/social"

	"github.com/gin-gonic/gin"
)

// SocialHandler serves likes and favourites. PUT adds the membership and DELETE removes it;
// both are idempotent.
type SocialHandler struct {
	socialService service.SocialService
}

func NewSocialHandler(socialService service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func (h *SocialHandler) RegisterRoutes(protected *gin.RouterGroup) {
	scene := protected.Group("/scenes/:scene_id")
	{
		scene.PUT("/like", h.set(social.RelationLike, true))
		scene.DELETE("/like", h.set(social.RelationLike, false))
		scene.PUT("/favourite", h.set(social.RelationFavourite, true))
		scene.DELETE("/favourite", h.set(social.RelationFavourite, false))
	}

	me := protected.Group("/me")
	{
		me.GET("/likes", h.ids(social.RelationLike))
		me.GET("/favourites", h.ids(social.RelationFavourite))
	}
}

func (h *SocialHandler) set(rel social.Relation, member bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sceneID, ok := pathID(c, "scene_id", "scene")
		if !ok {
			return
		}
		userID, username, ok := currentUser(c)
		if !ok {
			return
		}

		resp, err := h.socialService.Set(c.Request.Context(), userID, username, rel, sceneID, member)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ids returns the scene ids the caller has in rel, used to hydrate a client session
func (h *SocialHandler) ids(rel social.Relation) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c)
		if !ok {
			return
		}

		resp, err := h.socialService.IDs(c.Request.Context(), userID, rel)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
