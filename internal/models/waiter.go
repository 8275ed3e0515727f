package models

import "time"

const (
	WaiterCallOpen  = "open"
	WaiterCallAcked = "acked"
)

type WaiterCall struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`
	TableNumber  string     `gorm:"not null" json:"table_number"`
	Status       string     `gorm:"default:open" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	AckedAt      *time.Time `json:"acked_at,omitempty"`
}
