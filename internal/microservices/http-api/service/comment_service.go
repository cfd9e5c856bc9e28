package service

import (
	"context"
	"errors"
	"fmt"

	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/microservices/http-api/repository"
	"scenehub/internal/shared"
	"scenehub/internal/thread"
)

type CommentService interface {
	List(ctx context.Context, sceneID int64) (*dto.CommentListResponse, error)
	Thread(ctx context.Context, sceneID int64) (*dto.ThreadResponse, error)
	Post(ctx context.Context, userID, username string, sceneID int64, req dto.CreateCommentDTO) (*shared.Comment, error)
	Delete(ctx context.Context, commentID int64, userID string) error
}

type commentService struct {
	comments repository.CommentRepository
	scenes   repository.SceneRepository
	users    repository.UserRepository
}

func NewCommentService(comments repository.CommentRepository, scenes repository.SceneRepository, users repository.UserRepository) CommentService {
	return &commentService{comments: comments, scenes: scenes, users: users}
}

// List returns the scene's comments in posting order.
func (s *commentService) List(ctx context.Context, sceneID int64) (*dto.CommentListResponse, error) {
	flat, err := s.load(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	return &dto.CommentListResponse{Data: flat, Count: len(flat)}, nil
}

// Thread returns the scene's comments grouped into roots and their direct replies.
func (s *commentService) Thread(ctx context.Context, sceneID int64) (*dto.ThreadResponse, error) {
	flat, err := s.load(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	t := thread.Build(flat)
	return &dto.ThreadResponse{Thread: t, Count: t.Count()}, nil
}

func (s *commentService) load(ctx context.Context, sceneID int64) ([]shared.Comment, error) {
	if err := s.requireScene(ctx, sceneID); err != nil {
		return nil, err
	}
	list, err := s.comments.ListByScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	return dto.CommentsFromModels(list), nil
}

// Post adds a top-level comment, or a reply when req.ParentID is set. Replies may only target a
// top-level comment of the same scene.
func (s *commentService) Post(ctx context.Context, userID, username string, sceneID int64, req dto.CreateCommentDTO) (*shared.Comment, error) {
	body, err := thread.ValidateBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.requireScene(ctx, sceneID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, invalid("parent comment %d does not exist", *req.ParentID)
			}
			return nil, err
		}
		if parent.SceneID != sceneID {
			return nil, invalid("parent comment belongs to another scene")
		}
		if parent.ParentID != nil {
			return nil, invalid("replies can only be made to top-level comments")
		}
	}

	if err := s.users.EnsureProfile(ctx, userID, username); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		SceneID:  sceneID,
		UserID:   userID,
		ParentID: req.ParentID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, notFound(err, "scene")
	}

	// Reload with author
	created, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	out := created.ToShared()
	return &out, nil
}

// Delete removes the caller's own comment.
func (s *commentService) Delete(ctx context.Context, commentID int64, userID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return notFound(err, "comment")
	}
	if comment.UserID != userID {
		return fmt.Errorf("%w: comment belongs to another user", ErrForbidden)
	}
	if err := s.comments.Delete(ctx, commentID, userID); err != nil {
		if errors.Is(err, repository.ErrNotOwner) {
			return fmt.Errorf("comment %w", ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *commentService) requireScene(ctx context.Context, sceneID int64) error {
	ok, err := s.scenes.Exists(ctx, sceneID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("scene %w", ErrNotFound)
	}
	return nil
}
