package cart

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

// Store is the single source of truth for one customer's cart, scoped to a
// (restaurant, token) pair. All reads and writes go through it; there is no
// second client-held copy to reconcile.
type Store struct {
	db           *gorm.DB
	restaurantID uint
	token        string
}

func NewStore(db *gorm.DB, restaurantID uint, token string) *Store {
	return &Store{db: db, restaurantID: restaurantID, token: token}
}

// AddRequest carries one line to merge into the cart. Lines are identified
// by (menu item, customization signature): an equal signature increments
// quantity, a different signature appends a distinct line.
type AddRequest struct {
	MenuItemID          uint
	Name                string
	Price               float64
	Quantity            uint
	Customizations      string
	SpecialInstructions string
}

func (s *Store) Add(req AddRequest) error {
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.findOrCreate(tx)
		if err != nil {
			return err
		}

		var line models.CartItem
		err = tx.Where("cart_id = ? AND menu_item_id = ? AND customizations = ?",
			c.ID, req.MenuItemID, req.Customizations).First(&line).Error

		switch {
		case err == nil:
			line.Quantity += req.Quantity
			if req.SpecialInstructions != "" {
				line.SpecialInstructions = req.SpecialInstructions
			}
			if err := tx.Save(&line).Error; err != nil {
				return fmt.Errorf("failed to update cart line: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.CartItem{
				CartID:              c.ID,
				MenuItemID:          req.MenuItemID,
				Name:                req.Name,
				Price:               req.Price,
				Quantity:            req.Quantity,
				Customizations:      req.Customizations,
				SpecialInstructions: req.SpecialInstructions,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("failed to create cart line: %w", err)
			}
		default:
			return fmt.Errorf("failed to read cart line: %w", err)
		}

		return s.bumpVersion(tx, c)
	})
}

// UpdateQuantity sets the quantity of the matching line; a quantity of zero
// removes it.
func (s *Store) UpdateQuantity(menuItemID uint, quantity uint, customizations string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.findOrCreate(tx)
		if err != nil {
			return err
		}

		var line models.CartItem
		err = tx.Where("cart_id = ? AND menu_item_id = ? AND customizations = ?",
			c.ID, menuItemID, customizations).First(&line).Error
		if err != nil {
			return fmt.Errorf("cart line not found: %w", err)
		}

		if quantity == 0 {
			if err := tx.Delete(&line).Error; err != nil {
				return fmt.Errorf("failed to remove cart line: %w", err)
			}
		} else {
			line.Quantity = quantity
			if err := tx.Save(&line).Error; err != nil {
				return fmt.Errorf("failed to update cart line: %w", err)
			}
		}

		return s.bumpVersion(tx, c)
	})
}

func (s *Store) Remove(menuItemID uint, customizations string) error {
	return s.UpdateQuantity(menuItemID, 0, customizations)
}

// Snapshot returns the current cart lines. It reads straight from the
// database, so it is also the checkout-time view.
func (s *Store) Snapshot() ([]models.CartItem, error) {
	c, err := s.find()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var items []models.CartItem
	if err := s.db.Where("cart_id = ?", c.ID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return items, nil
}

func (s *Store) Count() (uint, error) {
	items, err := s.Snapshot()
	if err != nil {
		return 0, err
	}
	var count uint
	for _, it := range items {
		count += it.Quantity
	}
	return count, nil
}

func (s *Store) Total() (float64, error) {
	items, err := s.Snapshot()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total, nil
}

func (s *Store) HasItems() (bool, error) {
	items, err := s.Snapshot()
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}

// Version returns the cart's mutation counter; checkout uses it to build
// the idempotency key so a double-submit of the same cart contents is
// rejected.
func (s *Store) Version() (uint, error) {
	c, err := s.find()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return c.Version, nil
}

// ClientLine is a client-posted view of one cart line, used by Validate.
type ClientLine struct {
	MenuItemID     uint    `json:"menu_item_id"`
	Price          float64 `json:"price"`
	Quantity       uint    `json:"quantity"`
	Customizations string  `json:"customizations"`
}

// Divergence reports how a client's view differs from the store.
type Divergence struct {
	InSync      bool    `json:"in_sync"`
	StoreCount  uint    `json:"store_count"`
	ClientCount uint    `json:"client_count"`
	StoreTotal  float64 `json:"store_total"`
	ClientTotal float64 `json:"client_total"`
}

// Validate compares a client-posted view against the store. The store is
// ground truth; a divergent client should re-fetch the snapshot.
func (s *Store) Validate(clientView []ClientLine) (Divergence, error) {
	storeCount, err := s.Count()
	if err != nil {
		return Divergence{}, err
	}
	storeTotal, err := s.Total()
	if err != nil {
		return Divergence{}, err
	}

	var clientCount uint
	var clientTotal float64
	for _, l := range clientView {
		clientCount += l.Quantity
		clientTotal += l.Price * float64(l.Quantity)
	}

	return Divergence{
		InSync:      storeCount == clientCount && storeTotal == clientTotal,
		StoreCount:  storeCount,
		ClientCount: clientCount,
		StoreTotal:  storeTotal,
		ClientTotal: clientTotal,
	}, nil
}

// Reset clears all lines for this cart.
func (s *Store) Reset() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var c models.Cart
		err := tx.Where("restaurant_id = ? AND token = ?", s.restaurantID, s.token).First(&c).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("cart_id = ?", c.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return s.bumpVersion(tx, &c)
	})
}

func (s *Store) find() (models.Cart, error) {
	var c models.Cart
	err := s.db.Where("restaurant_id = ? AND token = ?", s.restaurantID, s.token).First(&c).Error
	return c, err
}

func (s *Store) findOrCreate(tx *gorm.DB) (*models.Cart, error) {
	var c models.Cart
	err := tx.Where("restaurant_id = ? AND token = ?", s.restaurantID, s.token).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = models.Cart{RestaurantID: s.restaurantID, Token: s.token}
		if err := tx.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return &c, nil
}

func (s *Store) bumpVersion(tx *gorm.DB, c *models.Cart) error {
	if err := tx.Model(c).Update("version", gorm.Expr("version + 1")).Error; err != nil {
		return fmt.Errorf("failed to bump cart version: %w", err)
	}
	return nil
}
