// Package trending ranks recently uploaded scenes by engagement weighted with a recency boost.
package trending

import "time"

const (
	// CandidateLimit caps how many scenes are considered for one ranking.
	CandidateLimit = 60
	// DefaultLimit is the number of ranked scenes returned when the caller does not ask otherwise.
	DefaultLimit = 12
	// Window is how far back a scene's creation may lie to be a candidate.
	Window = 30 * 24 * time.Hour
)

// Decay is the recency multiplier for a scene of the given age.
func Decay(ageHours float64) float64 {
	switch {
	case ageHours < 24:
		return 2.0
	case ageHours < 168:
		return 1.5
	default:
		return 1.0
	}
}

// Score is (likes*3 + comments) * decay + likes. Likes count twice: once weighted, once raw.
func Score(likes, comments int, createdAt, now time.Time) float64 {
	age := now.Sub(createdAt).Hours()
	return float64(likes*3+comments)*Decay(age) + float64(likes)
}
