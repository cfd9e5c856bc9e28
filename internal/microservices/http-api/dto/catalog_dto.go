package dto

import "scenehub/internal/shared"

type TagsResponse struct {
	Data       []shared.Tag         `json:"data"`
	Categories []shared.TagCategory `json:"categories"`
}

type GenresResponse struct {
	Data []shared.Genre `json:"data"`
}

type AnimeListResponse struct {
	Data []shared.AnimeSummary `json:"data"`
}
