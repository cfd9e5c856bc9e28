package models

import "time"

type Report struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reports_user_scene"`
	SceneID   int64     `json:"scene_id" gorm:"not null;uniqueIndex:idx_reports_user_scene"`
	Reason    string    `json:"reason" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Scene *Scene `json:"-" gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE;"`
}

func (Report) TableName() string {
	return "reports"
}
