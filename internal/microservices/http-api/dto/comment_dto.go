package dto

import (
	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/shared"
	"scenehub/internal/thread"
)

// CreateCommentDTO for posting a comment or, with ParentID, a reply.
// Length is checked by thread.ValidateBody after trimming.
type CreateCommentDTO struct {
	Body     string `json:"body" binding:"required"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

type CommentListResponse struct {
	Data  []shared.Comment `json:"data"`
	Count int              `json:"count"`
}

// ThreadResponse is the two-level view; Count covers roots and their replies.
type ThreadResponse struct {
	thread.Thread
	Count int `json:"count"`
}

func CommentsFromModels(list []models.Comment) []shared.Comment {
	out := make([]shared.Comment, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToShared())
	}
	return out
}
