package handler

import (
	"net/http"
	"strconv"

	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment-related routes
func (h *CommentHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/scenes/:scene_id/comments", h.ListByScene)

	protected.POST("/scenes/:scene_id/comments", h.Create)
	protected.DELETE("/comments/:id", h.Delete)
}

// ListByScene returns the comments of a scene, flat or as a two-level thread
// GET /api/scenes/:scene_id/comments?threaded=true
func (h *CommentHandler) ListByScene(c *gin.Context) {
	sceneID, ok := pathID(c, "scene_id", "scene")
	if !ok {
		return
	}

	threaded, _ := strconv.ParseBool(c.DefaultQuery("threaded", "false"))
	if threaded {
		resp, err := h.commentService.Thread(c.Request.Context(), sceneID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.commentService.List(c.Request.Context(), sceneID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create posts a comment, or a reply when parent_id is set
// POST /api/scenes/:scene_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	sceneID, ok := pathID(c, "scene_id", "scene")
	if !ok {
		return
	}

	userID, username, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Post(c.Request.Context(), userID, username, sceneID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// Delete deletes a comment (user's own)
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "id", "comment")
	if !ok {
		return
	}

	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
