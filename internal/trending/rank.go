package trending

import (
	"sort"
	"time"

	"scenehub/internal/shared"
)

type Ranked struct {
	Scene shared.Scene `json:"scene"`
	Score float64      `json:"score"`
}

// Rank scores the first CandidateLimit visible in-window candidates and returns the top limit by
// descending score. Equal scores keep their candidate order.
func Rank(candidates []shared.Scene, now time.Time, limit int) []Ranked {
	if limit <= 0 {
		limit = DefaultLimit
	}
	since := now.Add(-Window)

	ranked := make([]Ranked, 0, min(len(candidates), CandidateLimit))
	for _, s := range candidates {
		if len(ranked) == CandidateLimit {
			break
		}
		if !s.Visible() || s.CreatedAt.Before(since) {
			continue
		}
		ranked = append(ranked, Ranked{Scene: s, Score: Score(s.LikeCount, s.CommentCount, s.CreatedAt, now)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Scenes strips the scores.
func Scenes(ranked []Ranked) []shared.Scene {
	out := make([]shared.Scene, len(ranked))
	for i, r := range ranked {
		out[i] = r.Scene
	}
	return out
}
