package models

import "time"

// User is a dashboard account (restaurant owner or staff) identified via
// OIDC and scoped to one restaurant.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string    `json:"phone"`
	Role         string    `gorm:"default:owner" json:"role"`
	OIDCID       string    `gorm:"uniqueIndex" json:"-"` // OpenID Connect identifier
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerLead is insert-only contact capture from the public menu,
// optionally linked to the customer's first order.
type CustomerLead struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Preferences  string    `json:"preferences,omitempty"`
	FirstOrderID *uint     `gorm:"index" json:"first_order_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
