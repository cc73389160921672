package models

import "time"

type MenuItem struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
	Price        float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	Image        *string     `gorm:"type:varchar(500)" json:"image"`
	IsAvailable  bool        `gorm:"not null;default:true" json:"is_available"`
	RestaurantID uint        `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"restaurant,omitempty"`
	CategoryID   *uint       `gorm:"index" json:"category_id"`
	Category     *Category   `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}
