package gallery

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"scenehub/internal/shared"
)

// PageSize is the fixed number of scenes requested per page.
const PageSize = 24

var ErrInvalidSort = errors.New("invalid sort mode")

type Sort string

const (
	SortNewest  Sort = "newest"
	SortPopular Sort = "popular"
	SortOldest  Sort = "oldest"
)

// Valid reports whether s is one of the known sort modes.
func (s Sort) Valid() bool {
	switch s {
	case SortNewest, SortPopular, SortOldest:
		return true
	}
	return false
}

// ParseSort maps a user supplied sort name to a Sort. Empty input means newest.
func ParseSort(s string) (Sort, error) {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortPopular:
		return SortPopular, nil
	case SortOldest:
		return SortOldest, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
}

// Criteria is the set of active filters. Zero value means "no filters".
type Criteria struct {
	Search  string  `json:"search"`
	TagIDs  []int64 `json:"tag_ids"`
	AnimeID *int64  `json:"anime_id,omitempty"`
	Genre   string  `json:"genre,omitempty"`
}

// Normalize trims the search text and turns TagIDs into a sorted set.
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		Search: strings.TrimSpace(c.Search),
		Genre:  strings.TrimSpace(c.Genre),
	}
	if c.AnimeID != nil {
		id := *c.AnimeID
		out.AnimeID = &id
	}
	if len(c.TagIDs) > 0 {
		tags := slices.Clone(c.TagIDs)
		slices.Sort(tags)
		out.TagIDs = slices.Compact(tags)
	}
	return out
}

// Equal compares two criteria after normalization.
func (c Criteria) Equal(o Criteria) bool {
	a, b := c.Normalize(), o.Normalize()
	if a.Search != b.Search || a.Genre != b.Genre {
		return false
	}
	if (a.AnimeID == nil) != (b.AnimeID == nil) {
		return false
	}
	if a.AnimeID != nil && *a.AnimeID != *b.AnimeID {
		return false
	}
	return slices.Equal(a.TagIDs, b.TagIDs)
}

// Active reports whether any filter is set.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Search) != "" || len(c.TagIDs) > 0 || c.AnimeID != nil || strings.TrimSpace(c.Genre) != ""
}

// Matches checks the predicates that can be verified on a fetched scene: visibility, anime,
// genre and the tag conjunction. Free-text search is left to the store.
func (c Criteria) Matches(s shared.Scene) bool {
	if !s.Visible() {
		return false
	}
	if c.AnimeID != nil && (s.Anime == nil || s.Anime.ID != *c.AnimeID) {
		return false
	}
	if g := strings.TrimSpace(c.Genre); g != "" && !s.Anime.HasGenre(g) {
		return false
	}
	return s.HasAllTags(c.TagIDs)
}

// Query is a single page request against a Source.
type Query struct {
	Criteria
	Sort  Sort `json:"sort"`
	Page  int  `json:"page"` // zero-based
	Limit int  `json:"limit"`
}

// Offset is the zero-based index of the first row of the page.
func (q Query) Offset() int {
	return q.Page * q.Limit
}
