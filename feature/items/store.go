package items

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an item does not exist or is not visible to the caller.
var ErrNotFound = errors.New("item not found")

// Store persists items with gorm.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new item store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the items table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Item{}); err != nil {
		return fmt.Errorf("failed to migrate items: %w", err)
	}
	return nil
}

// ForList returns every item of a list, newest first.
func (s *Store) ForList(ctx context.Context, listID string) ([]Item, error) {
	var rows []Item
	err := s.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	return rows, nil
}

// Get returns one item.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	var it Item
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query item: %w", err)
	}
	return &it, nil
}

// Create inserts an item.
func (s *Store) Create(ctx context.Context, it *Item) error {
	if err := s.db.WithContext(ctx).Create(it).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// Update writes the given columns of an item and returns the fresh row.
func (s *Store) Update(ctx context.Context, id string, fields map[string]any, at time.Time) (*Item, error) {
	fields["updated_at"] = at

	res := s.db.WithContext(ctx).Model(&Item{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// DeletePicked soft-deletes every picked, not yet deleted item of a list.
func (s *Store) DeletePicked(ctx context.Context, listID string, at time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&Item{}).
		Where("list_id = ? AND picked = ? AND deleted = ?", listID, true, false).
		Updates(map[string]any{"deleted": true, "updated_at": at})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear picked items: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteAll removes every item of a list, including deleted ones.
func (s *Store) DeleteAll(ctx context.Context, listID string) (int64, error) {
	res := s.db.WithContext(ctx).Where("list_id = ?", listID).Delete(&Item{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear items: %w", res.Error)
	}
	return res.RowsAffected, nil
}
