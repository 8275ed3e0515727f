package models

import "time"

// Cart is the single server-side source of truth for a customer's
// in-progress selection. One cart per (restaurant, token).
type Cart struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"index:idx_cart_restaurant_token,unique;not null" json:"restaurant_id"`
	Token        string     `gorm:"index:idx_cart_restaurant_token,unique;not null" json:"token"`
	Version      uint       `gorm:"default:0" json:"version"`
	Items        []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	CartID              uint      `gorm:"index;not null" json:"cart_id"`
	MenuItemID          uint      `gorm:"index;not null" json:"menu_item_id"`
	Name                string    `gorm:"not null" json:"name"`
	Price               float64   `gorm:"not null" json:"price"`
	Quantity            uint      `gorm:"not null" json:"quantity"`
	Customizations      string    `json:"customizations,omitempty"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}
