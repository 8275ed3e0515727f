package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Order struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RestaurantID uint `gorm:"index;not null" json:"restaurant_id"`
	// CustomerToken is returned to the customer in place of the primary
	// key and is the only handle for post-order lookups.
	CustomerToken  string      `gorm:"uniqueIndex;not null" json:"customer_token"`
	IdempotencyKey string      `gorm:"uniqueIndex" json:"-"`
	CustomerName   string      `json:"customer_name"`
	CustomerPhone  string      `json:"customer_phone"`
	CustomerEmail  string      `json:"customer_email"`
	TableNumber    string      `json:"table_number,omitempty"`
	OrderType      string      `gorm:"default:now" json:"order_type"`
	ScheduledFor   *time.Time  `json:"scheduled_for,omitempty"`
	OrderStatus    string      `gorm:"default:pending" json:"order_status"`
	PaymentMethod  string      `json:"payment_method"`
	PaymentStatus  string      `gorm:"default:pending" json:"payment_status"`
	PaymentRef     string      `json:"payment_ref,omitempty"`
	Total          float64     `gorm:"not null" json:"total"`
	AmountDue      float64     `gorm:"not null" json:"amount_due"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem snapshots name and unit price at order-creation time; later
// menu edits do not affect existing orders.
type OrderItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	OrderID             uint      `gorm:"index;not null" json:"order_id"`
	MenuItemID          uint      `gorm:"index;not null" json:"menu_item_id"`
	Name                string    `gorm:"not null" json:"name"`
	Price               float64   `gorm:"not null" json:"price"`
	Quantity            uint      `gorm:"not null" json:"quantity"`
	Customizations      string    `json:"customizations,omitempty"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}
