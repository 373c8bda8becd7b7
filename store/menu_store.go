package store

import (
	"errors"
	"sort"
	"strings"

	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyName       = errors.New("menu item name must not be empty")
	ErrNegativePrice   = errors.New("menu item price must not be negative")
	ErrMenuItemMissing = errors.New("menu item not found")
	ErrBadDirection    = errors.New("direction must be up or down")
)

// MenuStore owns the ordered menu list.
type MenuStore struct {
	db  *gorm.DB
	bus *events.Bus
	log *zap.Logger
}

func NewMenuStore(db *gorm.DB, bus *events.Bus, log *zap.Logger) *MenuStore {
	return &MenuStore{db: db, bus: bus, log: log}
}

// MenuItemUpdate is a partial edit of a menu item.
type MenuItemUpdate struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// Add creates a menu item at the end of the list.
func (s *MenuStore) Add(name string, price float64, origin string) (*models.MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if price < 0 {
		return nil, ErrNegativePrice
	}

	item := models.MenuItem{
		ID:    uuid.NewString(),
		Name:  name,
		Price: price,
		Rank:  s.nextRank(),
	}
	if err := s.db.Create(&item).Error; err != nil {
		s.log.Error("failed to create menu item", zap.Error(err))
		return nil, err
	}
	s.publishChange(origin)
	return &item, nil
}

// nextRank is max(existing ranks)+1, or 0 for an empty menu. Ranks only
// need to establish a total order; gaps left by deletions are fine.
func (s *MenuStore) nextRank() int {
	var maxRank *int
	s.db.Model(&models.MenuItem{}).Select("MAX(rank)").Scan(&maxRank)
	if maxRank == nil {
		return 0
	}
	return *maxRank + 1
}

// Update edits name and/or price of an existing item. Existing orders keep
// their own snapshot, so price edits never rewrite history.
func (s *MenuStore) Update(id string, upd MenuItemUpdate, origin string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, ErrMenuItemMissing
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		item.Name = name
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			return nil, ErrNegativePrice
		}
		item.Price = *upd.Price
	}
	if err := s.db.Save(&item).Error; err != nil {
		s.log.Error("failed to update menu item", zap.String("item_id", id), zap.Error(err))
		return nil, err
	}
	s.publishChange(origin)
	return &item, nil
}

// Delete removes a menu item permanently.
func (s *MenuStore) Delete(id string, origin string) error {
	result := s.db.Delete(&models.MenuItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMenuItemMissing
	}
	s.publishChange(origin)
	return nil
}

// Move swaps the item's rank with its immediate neighbor in the given
// direction ("up" or "down"). Both rank writes land in one transaction so
// a crash cannot leave duplicate ranks. Moving past either end is a no-op.
func (s *MenuStore) Move(id string, direction string, origin string) error {
	if direction != "up" && direction != "down" {
		return ErrBadDirection
	}

	var items []models.MenuItem
	if err := s.db.Find(&items).Error; err != nil {
		return err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Rank < items[j].Rank })

	current := -1
	for i, item := range items {
		if item.ID == id {
			current = i
			break
		}
	}
	if current == -1 {
		return ErrMenuItemMissing
	}

	target := current + 1
	if direction == "up" {
		target = current - 1
	}
	if target < 0 || target >= len(items) {
		return nil
	}

	a, b := items[current], items[target]
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItem{}).Where("id = ?", a.ID).Update("rank", b.Rank).Error; err != nil {
			return err
		}
		return tx.Model(&models.MenuItem{}).Where("id = ?", b.ID).Update("rank", a.Rank).Error
	})
	if err != nil {
		s.log.Error("failed to move menu item", zap.String("item_id", id), zap.Error(err))
		return err
	}
	s.publishChange(origin)
	return nil
}

// ToggleAvailability flips an item in or out of the order-entry view.
// Disabled items stay visible to the jefe's management screens.
func (s *MenuStore) ToggleAvailability(id string, origin string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, ErrMenuItemMissing
	}
	item.IsDisabled = !item.IsDisabled
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	s.publishChange(origin)
	return &item, nil
}

// Available lists enabled items for order entry, in display order.
func (s *MenuStore) Available() ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.Where("is_disabled = ?", false).Order("rank asc").Find(&items).Error
	return items, err
}

// All lists every item including disabled ones, in display order.
func (s *MenuStore) All() ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.Order("rank asc").Find(&items).Error
	return items, err
}

func (s *MenuStore) publishChange(origin string) {
	s.bus.Publish(events.Event{Key: events.KeyMenu, Origin: origin})
}
