package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"scenehub/internal/metrics"
	"scenehub/internal/shared"
)

var (
	ErrNoMorePages = errors.New("no more pages")
	ErrPageLoading = errors.New("a page is already loading")
	ErrStalePage   = errors.New("stale page discarded")
)

// Source fetches one page of scenes. Implemented by the store repository on the server and by
// the HTTP client in the CLI.
type Source interface {
	FetchScenes(ctx context.Context, q Query) ([]shared.Scene, error)
}

// Request is a page request tagged with the generation of the parameters it was built from.
type Request struct {
	Generation uint64
	Query      Query
}

// Result describes what Apply did with a page.
type Result struct {
	Generation uint64
	Accepted   bool // false when the page belonged to an older generation
	Appended   int
	Filtered   int // dropped by Criteria.Matches
	HasMore    bool
	Err        error
}

// Composer accumulates pages of scenes for one set of filter and sort parameters. Changing the
// parameters bumps the generation, clears the list and restarts at page zero; pages that come
// back tagged with an older generation are discarded.
type Composer struct {
	mu     sync.Mutex
	source Source
	logger *slog.Logger

	criteria   Criteria
	sort       Sort
	generation uint64
	page       int
	inFlight   bool
	hasMore    bool
	scenes     []shared.Scene
	seen       map[int64]struct{}
	err        error
}

func NewComposer(source Source, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Composer{
		source: source,
		logger: logger.With("component", "gallery"),
		sort:   SortNewest,
	}
	c.resetLocked()
	return c
}

// SetCriteria replaces the active filters. Returns true when the change reset paging.
func (c *Composer) SetCriteria(cr Criteria) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(cr, c.sort)
}

// SetSort replaces the sort mode. Returns true when the change reset paging. An unknown mode is
// rejected without touching the state and recorded in Err.
func (c *Composer) SetSort(s Sort) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(c.criteria, s)
}

// SetFilters replaces criteria and sort together with at most one reset. Like SetSort it
// rejects the whole change when s is unknown.
func (c *Composer) SetFilters(cr Criteria, s Sort) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(cr, s)
}

// ToggleTag adds the tag to the selection, or removes it when already selected.
func (c *Composer) ToggleTag(tagID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.criteria.Normalize()
	if i := slices.Index(next.TagIDs, tagID); i >= 0 {
		next.TagIDs = slices.Delete(next.TagIDs, i, i+1)
	} else {
		next.TagIDs = append(next.TagIDs, tagID)
	}
	return c.setLocked(next, c.sort)
}

// ClearTag removes a single tag from the selection.
func (c *Composer) ClearTag(tagID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.criteria.Normalize()
	next.TagIDs = slices.DeleteFunc(next.TagIDs, func(id int64) bool { return id == tagID })
	return c.setLocked(next, c.sort)
}

// ClearAll drops every filter and goes back to the newest-first order.
func (c *Composer) ClearAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(Criteria{}, SortNewest)
}

// Reset discards accumulated results and returns the new generation.
func (c *Composer) Reset() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	return c.generation
}

func (c *Composer) setLocked(cr Criteria, s Sort) bool {
	if s == "" {
		s = SortNewest
	}
	if !s.Valid() {
		c.err = fmt.Errorf("%w: %q", ErrInvalidSort, s)
		c.logger.Warn("unknown sort mode ignored", "sort", s)
		return false
	}
	cr = cr.Normalize()
	if cr.Equal(c.criteria) && s == c.sort {
		return false
	}
	c.criteria = cr
	c.sort = s
	c.resetLocked()
	c.logger.Debug("filters changed, paging reset",
		"generation", c.generation, "sort", c.sort, "active", c.criteria.Active())
	return true
}

func (c *Composer) resetLocked() {
	c.generation++
	c.page = 0
	c.inFlight = false
	c.hasMore = true
	c.scenes = nil
	c.seen = make(map[int64]struct{})
	c.err = nil
}

// Next builds the request for the next page. ok is false when there are no more pages or a
// request for the current generation is still outstanding.
func (c *Composer) Next() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasMore || c.inFlight {
		return Request{}, false
	}
	c.inFlight = true
	return Request{
		Generation: c.generation,
		Query: Query{
			Criteria: c.criteria.Normalize(),
			Sort:     c.sort,
			Page:     c.page,
			Limit:    PageSize,
		},
	}, true
}

// Apply merges a fetched page into the accumulated list. A page from an older generation is
// discarded untouched. A failed fetch leaves the list as it was and records the error.
func (c *Composer) Apply(generation uint64, scenes []shared.Scene, fetchErr error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		metrics.GalleryPagesApplied.WithLabelValues("stale").Inc()
		c.logger.Debug("discarding stale page", "page_generation", generation, "generation", c.generation)
		return Result{Generation: generation, HasMore: c.hasMore, Err: ErrStalePage}
	}
	c.inFlight = false

	if fetchErr != nil {
		c.err = fetchErr
		metrics.GalleryPagesApplied.WithLabelValues("failed").Inc()
		c.logger.Warn("scene page fetch failed", "page", c.page, "error", fetchErr)
		return Result{Generation: generation, Accepted: true, HasMore: c.hasMore, Err: fetchErr}
	}

	c.err = nil
	// has-more is judged on what the store returned, before client-side filtering
	c.hasMore = len(scenes) == PageSize

	res := Result{Generation: generation, Accepted: true}
	for _, s := range scenes {
		if !c.criteria.Matches(s) {
			res.Filtered++
			continue
		}
		if _, dup := c.seen[s.ID]; dup {
			continue
		}
		c.seen[s.ID] = struct{}{}
		c.scenes = append(c.scenes, s)
		res.Appended++
	}
	c.page++
	res.HasMore = c.hasMore

	metrics.GalleryPagesApplied.WithLabelValues("appended").Inc()
	if res.Filtered > 0 {
		metrics.GalleryScenesFiltered.Add(float64(res.Filtered))
	}
	return res
}

// LoadMore fetches and applies the next page.
func (c *Composer) LoadMore(ctx context.Context) (Result, error) {
	req, ok := c.Next()
	if !ok {
		if c.Loading() {
			return Result{Generation: c.Generation(), HasMore: true}, ErrPageLoading
		}
		return Result{Generation: c.Generation()}, ErrNoMorePages
	}
	scenes, err := c.source.FetchScenes(ctx, req.Query)
	res := c.Apply(req.Generation, scenes, err)
	return res, res.Err
}

// Scenes returns a copy of the accumulated list.
func (c *Composer) Scenes() []shared.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.scenes)
}

func (c *Composer) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Composer) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Composer) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Err is the error of the last applied page of the current generation, if it failed.
func (c *Composer) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Composer) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria.Normalize()
}

func (c *Composer) Sort() Sort {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}
