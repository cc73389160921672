package models

import "time"

// CartSnapshot stores one serialized cart under its storage key.
type CartSnapshot struct {
	StorageKey string    `gorm:"primaryKey;type:varchar(191)"`
	Data       string    `gorm:"type:text;not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
