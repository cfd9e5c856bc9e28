package social

import (
	"context"
	"fmt"

	"scenehub/internal/metrics"
)

// Outcome is how a toggle settled.
type Outcome struct {
	State      bool  // membership of the key once this toggle settled
	Err        error // remote failure, nil when confirmed
	RolledBack bool  // local state was reverted to the last confirmed value
	Superseded bool  // a newer toggle of the same key took over
}

// Pending is a toggle whose remote write may still be running.
type Pending struct {
	state   bool
	done    chan struct{}
	outcome Outcome
}

func resolved(o Outcome) *Pending {
	p := &Pending{state: o.State, done: make(chan struct{}), outcome: o}
	close(p.done)
	return p
}

// State is the optimistic membership applied when the toggle was issued.
func (p *Pending) State() bool { return p.state }

// Done is closed once the toggle has settled.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the toggle settles or ctx ends.
func (p *Pending) Wait(ctx context.Context) Outcome {
	select {
	case <-p.done:
		return p.outcome
	case <-ctx.Done():
		return Outcome{State: p.state, Err: ctx.Err()}
	}
}

// ToggleLike flips the like on sceneID. currentCount is the like count the caller displays;
// onCount, when non-nil, receives the optimistic count before ToggleLike returns and the
// restored count if the write fails.
func (s *Session) ToggleLike(ctx context.Context, sceneID int64, currentCount int, onCount func(int)) *Pending {
	return s.toggle(ctx, key{RelationLike, sceneID}, currentCount, onCount)
}

// ToggleFavourite flips the favourite on sceneID.
func (s *Session) ToggleFavourite(ctx context.Context, sceneID int64) *Pending {
	return s.toggle(ctx, key{RelationFavourite, sceneID}, 0, nil)
}

// Toggle flips any relation. Counts are only tracked for likes.
func (s *Session) Toggle(ctx context.Context, rel Relation, sceneID int64, currentCount int, onCount func(int)) *Pending {
	if rel == RelationLike {
		return s.ToggleLike(ctx, sceneID, currentCount, onCount)
	}
	return s.ToggleFavourite(ctx, sceneID)
}

func (s *Session) toggle(ctx context.Context, k key, currentCount int, onCount func(int)) *Pending {
	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		metrics.SocialToggles.WithLabelValues(string(k.rel), "unauthenticated").Inc()
		return resolved(Outcome{})
	}

	prev := s.memberLocked(k)
	ks := s.keys[k]
	if ks == nil {
		ks = &keyState{tail: closedChan()}
		s.keys[k] = ks
	}
	if ks.inFlight == 0 {
		// nothing outstanding, the caller's view is the confirmed one
		ks.confirmed = prev
		ks.confirmedCount = currentCount
	}

	next := !prev
	s.putLocked(k, next)
	count := currentCount + 1
	if !next {
		count = currentCount - 1
	}

	ks.seq++
	seq := ks.seq
	ks.inFlight++
	wait := ks.tail
	done := make(chan struct{})
	ks.tail = done
	epoch, userID := s.epoch, s.userID
	s.mu.Unlock()

	if onCount != nil && k.rel == RelationLike {
		onCount(count)
	}

	p := &Pending{state: next, done: make(chan struct{})}
	go func() {
		defer close(done)
		<-wait
		p.outcome = s.settle(ctx, k, ks, epoch, userID, seq, next, count, onCount)
		close(p.done)
	}()
	return p
}

// settle runs the remote write of toggle seq once every earlier write of the key has settled.
func (s *Session) settle(ctx context.Context, k key, ks *keyState, epoch uint64, userID string, seq uint64, want bool, count int, onCount func(int)) Outcome {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return Outcome{State: want, Superseded: true}
	}
	if ks.seq != seq {
		// a newer toggle will write its own state
		ks.inFlight--
		state := s.memberLocked(k)
		s.mu.Unlock()
		metrics.SocialToggles.WithLabelValues(string(k.rel), "superseded").Inc()
		return Outcome{State: state, Superseded: true}
	}
	s.mu.Unlock()

	var err error
	if want {
		err = s.remote.AddMembership(ctx, userID, k.rel, k.sceneID)
	} else {
		err = s.remote.RemoveMembership(ctx, userID, k.rel, k.sceneID)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return Outcome{State: want, Err: err, Superseded: true}
	}
	ks.inFlight--

	if err == nil {
		ks.confirmed = want
		ks.confirmedCount = count
		state := s.memberLocked(k)
		s.mu.Unlock()
		metrics.SocialToggles.WithLabelValues(string(k.rel), "confirmed").Inc()
		return Outcome{State: state}
	}

	err = fmt.Errorf("%s scene %d: %w", k.rel, k.sceneID, err)
	if ks.seq != seq {
		state := s.memberLocked(k)
		s.mu.Unlock()
		s.logger.Warn("membership write failed, newer toggle pending", "relation", k.rel, "scene_id", k.sceneID, "error", err)
		return Outcome{State: state, Err: err, Superseded: true}
	}

	s.putLocked(k, ks.confirmed)
	restored, restoredCount := ks.confirmed, ks.confirmedCount
	s.mu.Unlock()

	if onCount != nil && k.rel == RelationLike {
		onCount(restoredCount)
	}
	metrics.SocialToggles.WithLabelValues(string(k.rel), "rolled_back").Inc()
	s.logger.Warn("membership write failed, rolled back", "relation", k.rel, "scene_id", k.sceneID, "error", err)
	return Outcome{State: restored, Err: err, RolledBack: true}
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
