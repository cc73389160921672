package models

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// StatusSteps is the forward sequence shown on tracking displays.
var StatusSteps = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusDelivered}

// ParseOrderStatus accepts a status name in any letter case.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further step follows s in the workflow.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Progress is the index of s in StatusSteps, or -1 for CANCELLED.
func (s OrderStatus) Progress() int {
	for i, step := range StatusSteps {
		if step == s {
			return i
		}
	}
	return -1
}

type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       uint        `gorm:"not null;index" json:"user_id"`
	User         *User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user,omitempty"`
	RestaurantID uint        `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"restaurant,omitempty"`
	Total        float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Notes        string      `gorm:"type:text" json:"notes"`
	OrderItems   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"order_items"`
	CreatedAt    time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

// DeliveryNotes packs the delivery contact details into the notes column:
// address, then " | Notes: ..." when present, then " | Phone: ...".
func DeliveryNotes(address, phone, notes string) string {
	var b strings.Builder
	b.WriteString(address)
	if notes != "" {
		b.WriteString(" | Notes: ")
		b.WriteString(notes)
	}
	b.WriteString(" | Phone: ")
	b.WriteString(phone)
	return b.String()
}
