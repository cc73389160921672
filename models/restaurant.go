package models

import "time"

type Restaurant struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Image       *string    `gorm:"type:varchar(500)" json:"image"`
	Cuisine     *string    `gorm:"type:varchar(100);index" json:"cuisine"`
	Location    *string    `gorm:"type:varchar(255)" json:"location"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Owner       *User      `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	MenuItems   []MenuItem `gorm:"foreignKey:RestaurantID" json:"menu_items,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}
