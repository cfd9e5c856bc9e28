package models

import "scenehub/internal/shared"

type Tag struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Category string `json:"category" gorm:"size:20;not null;index"`
	Color    string `json:"color" gorm:"size:7;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t Tag) ToShared() shared.Tag {
	return shared.Tag{ID: t.ID, Name: t.Name, Category: shared.TagCategory(t.Category), Color: t.Color}
}
