package shared

import "time"

// shared types across the application
// scenes, tags, anime summaries and comments travel between the API server and the CLI client
// in this shape; the engine packages (gallery, trending, social, thread) only ever see these.

// TagCategory groups tags for browsing. The set is fixed.
type TagCategory string

const (
	TagCategoryMood   TagCategory = "mood"
	TagCategoryVisual TagCategory = "visual"
	TagCategoryTheme  TagCategory = "theme"
)

// TagCategories lists the categories in browsing order.
var TagCategories = []TagCategory{TagCategoryMood, TagCategoryVisual, TagCategoryTheme}

// Valid reports whether c is one of the fixed categories.
func (c TagCategory) Valid() bool {
	for _, known := range TagCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Tag struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Category TagCategory `json:"category"`
	Color    string      `json:"color"`
}

// Uploader is the public summary of a user attached to scenes and comments.
type Uploader struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// AnimeSummary is the cached catalog entry joined onto a scene.
type AnimeSummary struct {
	ID           int64    `json:"id"` // catalog (AniList) id
	TitleEnglish *string  `json:"title_english,omitempty"`
	TitleRomaji  string   `json:"title_romaji"`
	CoverImage   *string  `json:"cover_image,omitempty"`
	BannerImage  *string  `json:"banner_image,omitempty"`
	Genres       []string `json:"genres"`
	AverageScore *int     `json:"average_score,omitempty"`
	Popularity   *int     `json:"popularity,omitempty"`
	Year         *int     `json:"year,omitempty"`
	Season       *string  `json:"season,omitempty"`
}

// DisplayTitle prefers the English title.
func (a *AnimeSummary) DisplayTitle() string {
	if a == nil {
		return ""
	}
	if a.TitleEnglish != nil && *a.TitleEnglish != "" {
		return *a.TitleEnglish
	}
	return a.TitleRomaji
}

// HasGenre reports whether genre is in the entry's genre list.
func (a *AnimeSummary) HasGenre(genre string) bool {
	if a == nil {
		return false
	}
	for _, g := range a.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

type Scene struct {
	ID               int64         `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	ImageURL         string        `json:"image_url"`
	Episode          *int          `json:"episode,omitempty"`
	TimestampSeconds *int          `json:"timestamp_seconds,omitempty"`
	Source           string        `json:"source"`
	IsApproved       bool          `json:"is_approved"`
	IsReported       bool          `json:"is_reported"`
	LikeCount        int           `json:"like_count"`
	CommentCount     int           `json:"comment_count"`
	CreatedAt        time.Time     `json:"created_at"`
	Uploader         *Uploader     `json:"uploader,omitempty"`
	Anime            *AnimeSummary `json:"anime,omitempty"`
	Tags             []Tag         `json:"tags"`
}

// Visible reports whether the scene may appear in browsing results.
func (s Scene) Visible() bool {
	return s.IsApproved && !s.IsReported
}

// HasTag reports whether the scene carries the tag.
func (s Scene) HasTag(tagID int64) bool {
	for _, t := range s.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// HasAllTags reports whether the scene carries every one of tagIDs.
// An empty tagIDs is trivially satisfied.
func (s Scene) HasAllTags(tagIDs []int64) bool {
	for _, id := range tagIDs {
		if !s.HasTag(id) {
			return false
		}
	}
	return true
}

type Comment struct {
	ID        int64     `json:"id"`
	SceneID   int64     `json:"scene_id"`
	Body      string    `json:"body"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	Author    *Uploader `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsRoot reports whether the comment has no parent reference.
func (c Comment) IsRoot() bool {
	return c.ParentID == nil
}
