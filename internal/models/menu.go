package models

import "time"

type MenuCategory struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`
	Name         string     `gorm:"not null" json:"name"`
	SortOrder    int        `json:"sort_order"`
	Items        []MenuItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CategoryID     uint      `gorm:"index;not null" json:"category_id"`
	RestaurantID   uint      `gorm:"index;not null" json:"restaurant_id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	Price          float64   `gorm:"not null" json:"price"`
	Available      bool      `gorm:"default:true" json:"available"`
	PersuasionCopy string    `json:"persuasion_copy"`
	Popular        bool      `gorm:"default:false" json:"popular"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
