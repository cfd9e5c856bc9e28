package models

import "time"

// Like and Favourite rows are the memberships themselves; the pair is the primary key.
type Like struct {
	UserID    string    `json:"user_id" gorm:"type:uuid;primaryKey"`
	SceneID   int64     `json:"scene_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Scene *Scene `json:"-" gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE;"`
}

func (Like) TableName() string {
	return "likes"
}

type Favourite struct {
	UserID    string    `json:"user_id" gorm:"type:uuid;primaryKey"`
	SceneID   int64     `json:"scene_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Scene *Scene `json:"-" gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE;"`
}

func (Favourite) TableName() string {
	return "favourites"
}
