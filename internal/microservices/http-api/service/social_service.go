package service

import (
	"context"
	"fmt"

	"scenehub/internal/microservices/http-api/dto"
	"scenehub/internal/microservices/http-api/repository"
	"scenehub/internal/social"
)

// SocialService records likes and favourites. Writes are idempotent: adding an existing
// membership or removing a missing one succeeds with Changed=false.
type SocialService interface {
	Set(ctx context.Context, userID, username string, rel social.Relation, sceneID int64, member bool) (*dto.MembershipResponse, error)
	IDs(ctx context.Context, userID string, rel social.Relation) (*dto.MembershipIDsResponse, error)
}

type socialService struct {
	memberships repository.SocialRepository
	scenes      repository.SceneRepository
	users       repository.UserRepository
}

func NewSocialService(memberships repository.SocialRepository, scenes repository.SceneRepository, users repository.UserRepository) SocialService {
	return &socialService{memberships: memberships, scenes: scenes, users: users}
}

func (s *socialService) Set(ctx context.Context, userID, username string, rel social.Relation, sceneID int64, member bool) (*dto.MembershipResponse, error) {
	ok, err := s.scenes.Exists(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("scene %w", ErrNotFound)
	}
	if err := s.users.EnsureProfile(ctx, userID, username); err != nil {
		return nil, err
	}

	var changed bool
	if member {
		changed, err = s.memberships.Add(ctx, rel, userID, sceneID)
	} else {
		changed, err = s.memberships.Remove(ctx, rel, userID, sceneID)
	}
	if err != nil {
		return nil, notFound(err, "scene")
	}

	resp := &dto.MembershipResponse{SceneID: sceneID, Relation: rel, Member: member, Changed: changed}
	if rel == social.RelationLike {
		scene, err := s.scenes.GetByID(ctx, sceneID)
		if err != nil {
			return nil, notFound(err, "scene")
		}
		count := scene.LikeCount
		resp.LikeCount = &count
	}
	return resp, nil
}

func (s *socialService) IDs(ctx context.Context, userID string, rel social.Relation) (*dto.MembershipIDsResponse, error) {
	ids, err := s.memberships.ListSceneIDs(ctx, rel, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return &dto.MembershipIDsResponse{Relation: rel, Data: ids}, nil
}
