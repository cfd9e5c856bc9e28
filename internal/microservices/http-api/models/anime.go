package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"scenehub/internal/shared"
)

// StringList is stored as a JSON array (jsonb) so genre containment can use @>.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
	return json.Unmarshal(b, (*[]string)(l))
}

// Anime is the local cache of a catalog entry. ID is the AniList id.
type Anime struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	TitleEnglish *string    `json:"title_english,omitempty"`
	TitleRomaji  string     `json:"title_romaji" gorm:"not null"`
	CoverImage   *string    `json:"cover_image,omitempty"`
	BannerImage  *string    `json:"banner_image,omitempty"`
	Genres       StringList `json:"genres" gorm:"type:jsonb;not null;default:'[]'"`
	AverageScore *int       `json:"average_score,omitempty"`
	Popularity   *int       `json:"popularity,omitempty"`
	Year         *int       `json:"year,omitempty"`
	Season       *string    `json:"season,omitempty" gorm:"size:10"`
	Description  *string    `json:"description,omitempty" gorm:"type:text"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Anime) TableName() string {
	return "anime"
}

func (a *Anime) ToSummary() *shared.AnimeSummary {
	if a == nil {
		return nil
	}
	genres := []string(a.Genres)
	if genres == nil {
		genres = []string{}
	}
	return &shared.AnimeSummary{
		ID:           a.ID,
		TitleEnglish: a.TitleEnglish,
		TitleRomaji:  a.TitleRomaji,
		CoverImage:   a.CoverImage,
		BannerImage:  a.BannerImage,
		Genres:       genres,
		AverageScore: a.AverageScore,
		Popularity:   a.Popularity,
		Year:         a.Year,
		Season:       a.Season,
	}
}
