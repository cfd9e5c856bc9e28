// Package social keeps one signed-in user's like and favourite memberships on the client and
// changes them optimistically: the local state flips at once, the remote write follows, and a
// failed write puts everything back.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Relation string

const (
	RelationLike      Relation = "like"
	RelationFavourite Relation = "favourite"
)

var ErrUnknownRelation = errors.New("unknown relation")

// ParseRelation accepts "like" and "favourite" (and "favorite").
func ParseRelation(s string) (Relation, error) {
	switch s {
	case "like", "likes":
		return RelationLike, nil
	case "favourite", "favourites", "favorite", "favorites":
		return RelationFavourite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRelation, s)
}

// Remote is the membership store. Add and Remove are idempotent on the remote side.
type Remote interface {
	AddMembership(ctx context.Context, userID string, rel Relation, sceneID int64) error
	RemoveMembership(ctx context.Context, userID string, rel Relation, sceneID int64) error
	ListMemberships(ctx context.Context, userID string, rel Relation) ([]int64, error)
}

type key struct {
	rel     Relation
	sceneID int64
}

// keyState tracks the mutation queue of one (relation, scene) pair.
type keyState struct {
	seq            uint64 // last issued toggle
	inFlight       int
	confirmed      bool // last membership the remote acknowledged
	confirmedCount int
	tail           chan struct{} // closed when the last queued mutation settles
}

// Session holds the membership sets of one identity. Switching identity discards them.
type Session struct {
	mu     sync.Mutex
	remote Remote
	logger *slog.Logger

	epoch      uint64
	userID     string
	liked      map[int64]struct{}
	favourites map[int64]struct{}
	keys       map[key]*keyState
}

func NewSession(remote Remote, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		remote:     remote,
		logger:     logger.With("component", "social"),
		liked:      make(map[int64]struct{}),
		favourites: make(map[int64]struct{}),
		keys:       make(map[key]*keyState),
	}
}

// SetIdentity switches the session to userID, clearing both sets, and reloads them from the
// remote. An empty userID signs the session out.
func (s *Session) SetIdentity(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.userID = userID
	s.liked = make(map[int64]struct{})
	s.favourites = make(map[int64]struct{})
	s.keys = make(map[key]*keyState)
	s.mu.Unlock()

	if userID == "" {
		return nil
	}

	var liked, favourites []int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.remote.ListMemberships(gctx, userID, RelationLike)
		liked = ids
		return err
	})
	g.Go(func() error {
		ids, err := s.remote.ListMemberships(gctx, userID, RelationFavourite)
		favourites = ids
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("failed to load memberships", "user_id", userID, "error", err)
		return fmt.Errorf("load memberships: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	// keys toggled while loading keep their optimistic value
	for _, id := range liked {
		if _, touched := s.keys[key{RelationLike, id}]; !touched {
			s.liked[id] = struct{}{}
		}
	}
	for _, id := range favourites {
		if _, touched := s.keys[key{RelationFavourite, id}]; !touched {
			s.favourites[id] = struct{}{}
		}
	}
	s.logger.Debug("memberships loaded", "user_id", userID, "likes", len(liked), "favourites", len(favourites))
	return nil
}

func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) Authenticated() bool {
	return s.UserID() != ""
}

func (s *Session) IsLiked(sceneID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.liked[sceneID]
	return ok
}

func (s *Session) IsFavourite(sceneID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favourites[sceneID]
	return ok
}

// LikedIDs returns the liked scene ids in ascending order.
func (s *Session) LikedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.liked))
}

// FavouriteIDs returns the favourited scene ids in ascending order.
func (s *Session) FavouriteIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.favourites))
}

func (s *Session) setLocked(rel Relation) map[int64]struct{} {
	if rel == RelationLike {
		return s.liked
	}
	return s.favourites
}

func (s *Session) memberLocked(k key) bool {
	_, ok := s.setLocked(k.rel)[k.sceneID]
	return ok
}

func (s *Session) putLocked(k key, member bool) {
	set := s.setLocked(k.rel)
	if member {
		set[k.sceneID] = struct{}{}
	} else {
		delete(set, k.sceneID)
	}
}
