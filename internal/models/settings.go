package models

import "time"

// Subscriber tracks a restaurant's subscription plan; mutated only through
// the admin surface.
type Subscriber struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"uniqueIndex;not null" json:"restaurant_id"`
	Plan         string     `gorm:"default:free" json:"plan"`
	Active       bool       `gorm:"default:true" json:"active"`
	MenuItemCap  int        `gorm:"default:25" json:"menu_item_cap"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PaymentSettings holds a restaurant's payment configuration. Gateway
// secrets live in the environment; only references are stored here.
type PaymentSettings struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RestaurantID    uint      `gorm:"uniqueIndex;not null" json:"restaurant_id"`
	EnabledMethods  string    `gorm:"default:cash" json:"enabled_methods"` // comma-separated method names
	TillNumber      string    `json:"till_number"`
	PaybillNumber   string    `json:"paybill_number"`
	PaybillAccount  string    `json:"paybill_account"`
	BankName        string    `json:"bank_name"`
	BankAccount     string    `json:"bank_account"`
	BankBranch      string    `json:"bank_branch"`
	PesapalKeyRef   string    `json:"pesapal_key_ref"`
	DarajaShortcode string    `json:"daraja_shortcode"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type NotificationSettings struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"uniqueIndex;not null" json:"restaurant_id"`
	Ringtone     string    `gorm:"default:chime" json:"ringtone"`
	Volume       float64   `gorm:"default:0.8" json:"volume"`
	NotifyOrders bool      `gorm:"default:true" json:"notify_orders"`
	NotifyWaiter bool      `gorm:"default:true" json:"notify_waiter"`
	SMSEnabled   bool      `gorm:"default:false" json:"sms_enabled"`
	EmailEnabled bool      `gorm:"default:false" json:"email_enabled"`
	UpdatedAt    time.Time `json:"updated_at"`
}
