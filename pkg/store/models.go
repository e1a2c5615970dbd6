package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type ItemModel struct {
	Category    string `gorm:"primaryKey"`
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Title       string `gorm:"not null"`
	Description string
	ImageURL    string
	Rating      float64
	Year        int
	Genres      datatypes.JSON `gorm:"type:jsonb"`
	Likes       int            `gorm:"not null;default:0"`
	Dislikes    int            `gorm:"not null;default:0"`
	Position    int            `gorm:"not null"` // seed order
}

type VoteModel struct {
	Category  string    `gorm:"primaryKey"`
	ItemID    int       `gorm:"primaryKey;autoIncrement:false"`
	UserID    string    `gorm:"primaryKey"`
	Kind      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}
