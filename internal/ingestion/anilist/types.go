package anilist

import (
	"html"
	"regexp"
	"strings"

	"scenehub/internal/microservices/http-api/models"
)

// ============================================
// API RESPONSE STRUCTURES
// ============================================

// PageResponse represents a paginated media response
type PageResponse struct {
	Page PageData `json:"Page"`
}

// PageData contains the media list
type PageData struct {
	Media []Media `json:"media"`
}

// MediaResponse wraps a single media item
type MediaResponse struct {
	Media *Media `json:"Media"`
}

// Media represents an anime entry from AniList
type Media struct {
	ID           int64      `json:"id"`
	Title        TitleData  `json:"title"`
	CoverImage   CoverImage `json:"coverImage"`
	BannerImage  *string    `json:"bannerImage"`
	Genres       []string   `json:"genres"`
	AverageScore *int       `json:"averageScore"` // 0-100
	Popularity   *int       `json:"popularity"`
	SeasonYear   *int       `json:"seasonYear"`
	Season       *string    `json:"season"` // WINTER, SPRING, SUMMER, FALL
	Description  *string    `json:"description"`
	Episodes     *int       `json:"episodes"`
	Status       string     `json:"status"`
}

// TitleData contains title variants
type TitleData struct {
	English *string `json:"english"`
	Romaji  *string `json:"romaji"`
}

// CoverImage contains cover URLs
type CoverImage struct {
	ExtraLarge *string `json:"extraLarge"`
	Large      *string `json:"large"`
	Color      *string `json:"color"`
}

// ============================================
// MAPPING
// ============================================

// DisplayTitle prefers English, then Romaji.
func (m *Media) DisplayTitle() string {
	if s := deref(m.Title.English); s != "" {
		return s
	}
	return deref(m.Title.Romaji)
}

// CoverURL is the largest cover available, or "".
func (m *Media) CoverURL() string {
	if s := deref(m.CoverImage.ExtraLarge); s != "" {
		return s
	}
	return deref(m.CoverImage.Large)
}

// HasUsableImage reports whether the entry has a banner or a cover to build scenes from.
func (m *Media) HasUsableImage() bool {
	return deref(m.BannerImage) != "" || m.CoverURL() != ""
}

// ToAnimeModel maps a catalog entry onto the local anime cache row.
func ToAnimeModel(m Media) *models.Anime {
	cover := m.CoverURL()
	anime := &models.Anime{
		ID:           m.ID,
		TitleEnglish: nonEmpty(m.Title.English),
		TitleRomaji:  deref(m.Title.Romaji),
		CoverImage:   nonEmpty(&cover),
		BannerImage:  nonEmpty(m.BannerImage),
		Genres:       models.StringList(m.Genres),
		AverageScore: nonZero(m.AverageScore),
		Popularity:   nonZero(m.Popularity),
		Year:         nonZero(m.SeasonYear),
		Season:       nonEmpty(m.Season),
	}
	if anime.TitleRomaji == "" {
		anime.TitleRomaji = "Unknown"
	}
	if anime.Genres == nil {
		anime.Genres = models.StringList{}
	}
	if m.Description != nil {
		if d := CleanDescription(*m.Description); d != "" {
			anime.Description = &d
		}
	}
	return anime
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// CleanDescription removes HTML tags and entities
func CleanDescription(desc string) string {
	desc = tagPattern.ReplaceAllString(desc, "")
	desc = html.UnescapeString(desc)
	return strings.TrimSpace(desc)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func nonZero(n *int) *int {
	if n == nil || *n == 0 {
		return nil
	}
	v := *n
	return &v
}
