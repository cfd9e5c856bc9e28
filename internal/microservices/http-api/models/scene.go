package models

import (
	"time"

	"scenehub/internal/shared"
)

const (
	SourceUpload = "upload"
	SourceSeed   = "api"
)

type Scene struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title            string    `json:"title" gorm:"size:200;not null"`
	Description      string    `json:"description" gorm:"size:1000"`
	ImageURL         string    `json:"image_url" gorm:"not null"`
	AnimeID          *int64    `json:"anime_id,omitempty" gorm:"index"`
	Episode          *int      `json:"episode,omitempty"`
	TimestampSeconds *int      `json:"timestamp_seconds,omitempty"`
	UploadedBy       *string   `json:"uploaded_by,omitempty" gorm:"type:uuid;index"`
	Source           string    `json:"source" gorm:"size:20;not null"`
	IsApproved       bool      `json:"is_approved" gorm:"not null;index"`
	IsReported       bool      `json:"is_reported" gorm:"not null"`
	LikeCount        int       `json:"like_count" gorm:"not null;default:0;index"`
	CommentCount     int       `json:"comment_count" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	// Associations
	Anime    *Anime `json:"anime,omitempty" gorm:"foreignKey:AnimeID;constraint:OnDelete:SET NULL;"`
	Uploader *User  `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy;constraint:OnDelete:SET NULL;"`
	Tags     []Tag  `json:"tags,omitempty" gorm:"many2many:scene_tags;constraint:OnDelete:CASCADE;"`
}

func (Scene) TableName() string {
	return "scenes"
}

func (s *Scene) ToShared() shared.Scene {
	out := shared.Scene{
		ID:               s.ID,
		Title:            s.Title,
		Description:      s.Description,
		ImageURL:         s.ImageURL,
		Episode:          s.Episode,
		TimestampSeconds: s.TimestampSeconds,
		Source:           s.Source,
		IsApproved:       s.IsApproved,
		IsReported:       s.IsReported,
		LikeCount:        s.LikeCount,
		CommentCount:     s.CommentCount,
		CreatedAt:        s.CreatedAt,
		Uploader:         s.Uploader.ToUploader(),
		Anime:            s.Anime.ToSummary(),
		Tags:             make([]shared.Tag, 0, len(s.Tags)),
	}
	for _, t := range s.Tags {
		out.Tags = append(out.Tags, t.ToShared())
	}
	return out
}

// SceneTag is the join row between scenes and tags.
type SceneTag struct {
	SceneID int64 `json:"scene_id" gorm:"primaryKey"`
	TagID   int64 `json:"tag_id" gorm:"primaryKey;index"`
}

func (SceneTag) TableName() string {
	return "scene_tags"
}
