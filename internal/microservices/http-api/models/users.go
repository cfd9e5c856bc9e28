package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scenehub/internal/shared"
)

// User is the public profile of an account. Credentials live with the identity provider.
type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      string    `gorm:"default:'user';not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

func (user *User) ToUploader() *shared.Uploader {
	if user == nil {
		return nil
	}
	return &shared.Uploader{ID: user.ID, Username: user.Username, AvatarURL: user.AvatarURL}
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{&User{}, &Anime{}, &Tag{}, &Scene{}, &SceneTag{}, &Comment{}, &Like{}, &Favourite{}, &Report{}}
}
