package model

import "time"

// Favorite marks an audio record as a favorite of one user. The
// (UserID, AudioID) pair is unique; re-favoriting the same pair overwrites
// the snapshot fields instead of erroring. Title, category, duration and
// audio URL are denormalized at favoriting time and are not re-synced if
// the underlying audio record later changes.
type Favorite struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"userId" gorm:"type:char(24);not null;uniqueIndex:uq_user_audio"`
	AudioID   string    `json:"audioId" gorm:"type:char(24);not null;uniqueIndex:uq_user_audio"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	Category  string    `json:"category" gorm:"type:varchar(255)"`
	Duration  int       `json:"duration"`
	AudioURL  string    `json:"audioUrl" gorm:"type:varchar(1024)"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name for GORM.
func (Favorite) TableName() string {
	return "favorites"
}
