package dto

import (
	"strings"

	"scenehub/internal/microservices/http-api/models"
	"scenehub/internal/shared"
	"scenehub/internal/trending"
)

const (
	MaxSceneTitle       = 200
	MaxSceneDescription = 1000
)

// ScenePageResponse is one gallery page. Page is zero-based.
type ScenePageResponse struct {
	Data     []shared.Scene `json:"data"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
}

func NewScenePageResponse(data []shared.Scene, page, pageSize int) *ScenePageResponse {
	if data == nil {
		data = []shared.Scene{}
	}
	return &ScenePageResponse{Data: data, Page: page, PageSize: pageSize, HasMore: len(data) == pageSize}
}

// CreateSceneDTO used for POST /api/scenes. The image is uploaded elsewhere; only its URL is stored.
type CreateSceneDTO struct {
	Title            string  `json:"title" binding:"required"`
	Description      string  `json:"description"`
	ImageURL         string  `json:"image_url" binding:"required,url"`
	AnimeID          *int64  `json:"anime_id,omitempty"`
	Episode          *int    `json:"episode,omitempty" binding:"omitempty,min=1"`
	TimestampSeconds *int    `json:"timestamp_seconds,omitempty" binding:"omitempty,min=0"`
	TagIDs           []int64 `json:"tag_ids,omitempty" binding:"omitempty,max=10"`
}

// ToModel trims and cuts title and description to their column sizes.
func (d CreateSceneDTO) ToModel(userID string) models.Scene {
	uploader := userID
	return models.Scene{
		Title:            truncate(strings.TrimSpace(d.Title), MaxSceneTitle),
		Description:      truncate(strings.TrimSpace(d.Description), MaxSceneDescription),
		ImageURL:         strings.TrimSpace(d.ImageURL),
		AnimeID:          d.AnimeID,
		Episode:          d.Episode,
		TimestampSeconds: d.TimestampSeconds,
		UploadedBy:       &uploader,
		Source:           models.SourceUpload,
		IsApproved:       true,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// PaginatedScenesResponse for the collection panel (uploads, favourites). Page is 1-based.
type PaginatedScenesResponse struct {
	Data       []shared.Scene `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func NewPaginatedScenesResponse(data []shared.Scene, total, page, pageSize int) *PaginatedScenesResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	if data == nil {
		data = []shared.Scene{}
	}
	return &PaginatedScenesResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

type TrendingResponse struct {
	Data []trending.Ranked `json:"data"`
}

func ScenesFromModels(list []models.Scene) []shared.Scene {
	out := make([]shared.Scene, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToShared())
	}
	return out
}
