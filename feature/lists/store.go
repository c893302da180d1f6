package lists

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shoplist/core/reconcile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a list does not exist or is not visible to the user.
	ErrNotFound = errors.New("list not found")
	// ErrNotOwner is returned when a non-owner attempts an owner-only operation.
	ErrNotOwner = errors.New("only the list owner can do this")
	// ErrShareSelf is returned when an owner shares a list with their own email.
	ErrShareSelf = errors.New("cannot share a list with yourself")
	// ErrHideOwned is returned when a user tries to hide a list they own.
	ErrHideOwned = errors.New("owned lists cannot be hidden")
)

// itemsTable is cleared together with the list it belongs to.
const itemsTable = "items"

// Store persists lists with gorm.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new list store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the list tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&List{}, &HiddenList{}); err != nil {
		return fmt.Errorf("failed to migrate lists: %w", err)
	}
	return nil
}

// Owned returns up to limit lists owned by ownerID, newest first. A limit <= 0 means no limit.
func (s *Store) Owned(ctx context.Context, ownerID string, limit int) ([]reconcile.Record, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []List
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query owned lists: %w", err)
	}
	return toRecords(rows), nil
}

// SharedWith returns lists whose share list mentions email, newest first.
// The match is textual; callers must re-validate membership.
func (s *Store) SharedWith(ctx context.Context, email string, limit int) ([]reconcile.Record, error) {
	if email == "" {
		return []reconcile.Record{}, nil
	}

	quoted, err := json.Marshal(email)
	if err != nil {
		return nil, fmt.Errorf("failed to encode email: %w", err)
	}

	q := s.db.WithContext(ctx).Where("shared_with LIKE ?", "%"+string(quoted)+"%").Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []List
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query shared lists: %w", err)
	}
	return toRecords(rows), nil
}

// OwnedIDs returns the ids of every list owned by ownerID.
func (s *Store) OwnedIDs(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&List{}).Where("owner_id = ?", ownerID).Order("id").Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query owned list ids: %w", err)
	}
	return ids, nil
}

// Get returns a list by id.
func (s *Store) Get(ctx context.Context, id string) (*List, error) {
	var l List
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return &l, nil
}

// Create inserts a new list.
func (s *Store) Create(ctx context.Context, l *List) error {
	if l.SharedWith == nil {
		l.SharedWith = []string{}
	}
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

// UpdateSharing applies mutate to the share list of a list owned by ownerID.
func (s *Store) UpdateSharing(ctx context.Context, id, ownerID string, mutate func([]string) []string) (*List, error) {
	var out List
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l List
		if err := tx.Where("id = ?", id).First(&l).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if l.OwnerID != ownerID {
			return ErrNotOwner
		}

		l.SharedWith = mutate(l.SharedWith)
		if err := tx.Model(&l).Select("shared_with", "updated_at").Updates(&l).Error; err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotOwner) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update sharing: %w", err)
	}
	return &out, nil
}

// Touch bumps a list's updated_at, e.g. after one of its items changed.
func (s *Store) Touch(ctx context.Context, id string, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&List{}).Where("id = ?", id).UpdateColumn("updated_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to touch list: %w", err)
	}
	return nil
}

// Hide removes a shared list from userID's view. Hiding twice is a no-op.
func (s *Store) Hide(ctx context.Context, userID, listID string) error {
	row := HiddenList{UserID: userID, ListID: listID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to hide list: %w", err)
	}
	return nil
}

// Unhide restores a hidden list.
func (s *Store) Unhide(ctx context.Context, userID, listID string) error {
	err := s.db.WithContext(ctx).Where("user_id = ? AND list_id = ?", userID, listID).Delete(&HiddenList{}).Error
	if err != nil {
		return fmt.Errorf("failed to unhide list: %w", err)
	}
	return nil
}

// HiddenFor returns the set of list ids userID has hidden.
func (s *Store) HiddenFor(ctx context.Context, userID string) (map[string]struct{}, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&HiddenList{}).Where("user_id = ?", userID).Pluck("list_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query hidden lists: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// ForOwner returns a mutator that can only delete lists owned by ownerID.
func (s *Store) ForOwner(ownerID string) *OwnerMutator {
	return &OwnerMutator{db: s.db, ownerID: ownerID}
}

// OwnerMutator deletes lists of one owner together with their items and hide markers.
// It implements reconcile.Mutator and reconcile.BatchDeleter.
type OwnerMutator struct {
	db      *gorm.DB
	ownerID string
}

// Delete removes one list.
func (m *OwnerMutator) Delete(ctx context.Context, id string) error {
	return m.DeleteBatch(ctx, []string{id})
}

// DeleteBatch removes many lists in one transaction.
func (m *OwnerMutator) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []string
		if err := tx.Model(&List{}).Where("id IN ? AND owner_id = ?", ids, m.ownerID).Pluck("id", &owned).Error; err != nil {
			return fmt.Errorf("failed to resolve lists: %w", err)
		}
		if len(owned) == 0 {
			return nil
		}

		if tx.Migrator().HasTable(itemsTable) {
			if err := tx.Exec("DELETE FROM "+itemsTable+" WHERE list_id IN ?", owned).Error; err != nil {
				return fmt.Errorf("failed to delete items: %w", err)
			}
		}
		if err := tx.Where("list_id IN ?", owned).Delete(&HiddenList{}).Error; err != nil {
			return fmt.Errorf("failed to delete hide markers: %w", err)
		}
		if err := tx.Where("id IN ?", owned).Delete(&List{}).Error; err != nil {
			return fmt.Errorf("failed to delete lists: %w", err)
		}
		return nil
	})
}

func toRecords(rows []List) []reconcile.Record {
	out := make([]reconcile.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToRecord())
	}
	return out
}
