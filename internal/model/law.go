package model

import "time"

// Law is one entry of the static legal catalog. Content is seeded by cmd/seed
// and read-only at runtime.
type Law struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Code         string    `json:"code" gorm:"uniqueIndex;size:50;not null"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Category     string    `json:"category" gorm:"size:100;not null;index"`
	ArticleCount int       `json:"article_count"`
	Summary      string    `json:"summary" gorm:"type:text"`
	SourceURL    string    `json:"source_url" gorm:"size:512"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the default pluralization.
func (Law) TableName() string { return "laws" }
