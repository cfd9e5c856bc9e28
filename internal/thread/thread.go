// Package thread arranges a scene's flat comment list into top-level comments with one level of
// replies.
package thread

import (
	"slices"

	"scenehub/internal/shared"
)

type Reply struct {
	shared.Comment
}

type Root struct {
	shared.Comment
	Replies []Reply `json:"replies"`
}

// Thread is a two-level view of a comment list. Detached holds comments whose parent is itself a
// reply; they are never nested further and are not counted.
type Thread struct {
	Roots    []Root           `json:"roots"`
	Detached []shared.Comment `json:"detached,omitempty"`
}

// Build arranges comments, given oldest first, into a Thread. A comment without a parent, or
// whose parent is not in the list, becomes a root. A comment whose parent is a root becomes one
// of its replies. Input order is preserved at both levels.
func Build(comments []shared.Comment) Thread {
	byID := make(map[int64]shared.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	isRoot := func(c shared.Comment) bool {
		if c.ParentID == nil {
			return true
		}
		_, ok := byID[*c.ParentID]
		return !ok
	}

	t := Thread{Roots: []Root{}}
	rootIdx := make(map[int64]int)
	for _, c := range comments {
		if isRoot(c) {
			rootIdx[c.ID] = len(t.Roots)
			t.Roots = append(t.Roots, Root{Comment: c, Replies: []Reply{}})
		}
	}
	for _, c := range comments {
		if isRoot(c) {
			continue
		}
		if i, ok := rootIdx[*c.ParentID]; ok {
			t.Roots[i].Replies = append(t.Roots[i].Replies, Reply{Comment: c})
			continue
		}
		t.Detached = append(t.Detached, c)
	}
	return t
}

// Count is the number of roots plus their direct replies.
func (t Thread) Count() int {
	n := len(t.Roots)
	for _, r := range t.Roots {
		n += len(r.Replies)
	}
	return n
}

// CanReply reports whether id is a root. Replies cannot be replied to.
func (t Thread) CanReply(id int64) bool {
	return slices.ContainsFunc(t.Roots, func(r Root) bool { return r.ID == id })
}

// Find returns the comment with the given id at either level.
func (t Thread) Find(id int64) (shared.Comment, bool) {
	for _, r := range t.Roots {
		if r.ID == id {
			return r.Comment, true
		}
		for _, rep := range r.Replies {
			if rep.ID == id {
				return rep.Comment, true
			}
		}
	}
	return shared.Comment{}, false
}

// Remove drops the comment with the given id. Replies of a removed root become roots, which is
// what Build produces for comments whose parent is gone.
func (t Thread) Remove(id int64) Thread {
	flat := make([]shared.Comment, 0, t.Count()+len(t.Detached))
	for _, r := range t.Roots {
		flat = append(flat, r.Comment)
		for _, rep := range r.Replies {
			flat = append(flat, rep.Comment)
		}
	}
	flat = append(flat, t.Detached...)
	flat = slices.DeleteFunc(flat, func(c shared.Comment) bool { return c.ID == id })
	slices.SortStableFunc(flat, func(a, b shared.Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return Build(flat)
}
