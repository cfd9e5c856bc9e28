package models

import (
	"time"

	"scenehub/internal/shared"
)

// Comment on a scene. ParentID points at a top-level comment of the same scene; deleting the
// parent detaches its replies rather than deleting them.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SceneID   int64     `json:"scene_id" gorm:"not null;index"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	ParentID  *int64    `json:"parent_id,omitempty" gorm:"index"`
	Body      string    `json:"body" gorm:"not null;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	// Associations
	User   *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Scene  *Scene   `json:"-" gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE;"`
	// TODO: switch to CASCADE if orphaned replies should go with their root instead of becoming roots
	Parent *Comment `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL;"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) ToShared() shared.Comment {
	return shared.Comment{
		ID:        c.ID,
		SceneID:   c.SceneID,
		Body:      c.Body,
		ParentID:  c.ParentID,
		Author:    c.User.ToUploader(),
		CreatedAt: c.CreatedAt,
	}
}
