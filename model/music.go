package model

import "time"

// Music represents a curated music entry in the catalog.
type Music struct {
	ID        string    `json:"id" gorm:"primaryKey;type:char(24)"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Category  string    `json:"category" gorm:"type:varchar(255);not null;index"`
	Duration  string    `json:"duration" gorm:"type:varchar(64)"` // free text, e.g. "3:42"
	AudioURL  string    `json:"audioUrl" gorm:"type:varchar(1024);not null"`
	IsPremium bool      `json:"isPremium"`
	Likes     int64     `json:"likes" gorm:"not null;default:0"` // floor 0, only ever incremented
	Tags      []string  `json:"tags" gorm:"serializer:json;type:json"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name for GORM.
func (Music) TableName() string {
	return "musics"
}
