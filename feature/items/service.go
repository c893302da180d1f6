package items

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"shoplist/core/reconcile"
	"shoplist/core/validation"
	"shoplist/feature/catalog"
	"shoplist/feature/lists"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListAccess resolves whether a user may see a list and records list activity.
type ListAccess interface {
	Access(ctx context.Context, user reconcile.User, listID string) (reconcile.Record, error)
	Touch(ctx context.Context, listID string) error
}

// Categorizer assigns a category to free-text item names.
type Categorizer interface {
	Categorize(input string) catalog.Match
	Categories() []string
}

// Service implements item operations. Every operation first checks that the
// user can see the list the item belongs to.
type Service struct {
	store       *Store
	lists       ListAccess
	categorizer Categorizer
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new item service.
func NewService(store *Store, access ListAccess, categorizer Categorizer, logger *zap.Logger) *Service {
	return &Service{
		store:       store,
		lists:       access,
		categorizer: categorizer,
		logger:      logger,
		now:         time.Now,
	}
}

// errBlankName rejects names that are empty once trimmed.
var errBlankName = &validation.Error{Fields: map[string]string{"name": "is required"}}

// AddRequest is the payload for adding an item.
type AddRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Quantity string `json:"quantity" validate:"max=64"`
	Category string `json:"category" validate:"max=64"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// UpdateRequest changes the provided fields of an item.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Quantity *string `json:"quantity,omitempty" validate:"omitempty,max=64"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=64"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// List returns the items of a list grouped for display.
func (s *Service) List(ctx context.Context, user reconcile.User, listID string) (Grouped, error) {
	if err := s.checkList(ctx, user, listID); err != nil {
		return Grouped{}, err
	}

	rows, err := s.store.ForList(ctx, listID)
	if err != nil {
		return Grouped{}, err
	}
	return group(rows, s.categorizer.Categories()), nil
}

// Add creates an item. An empty category is detected from the name.
func (s *Service) Add(ctx context.Context, user reconcile.User, listID string, req AddRequest) (*Item, error) {
	if err := s.checkList(ctx, user, listID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errBlankName
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = s.categorize(name)
	}

	now := s.now().UTC()
	it := &Item{
		ID:        uuid.NewString(),
		ListID:    listID,
		Name:      name,
		Quantity:  strings.TrimSpace(req.Quantity),
		Category:  category,
		Notes:     req.Notes,
		CreatedBy: user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, it); err != nil {
		return nil, err
	}

	s.touch(ctx, listID)
	return it, nil
}

// Update changes an item. Renaming without an explicit category re-detects it.
func (s *Service) Update(ctx context.Context, user reconcile.User, itemID string, req UpdateRequest) (*Item, error) {
	current, err := s.accessItem(ctx, user, itemID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errBlankName
		}
		fields["name"] = name
		if req.Category == nil && name != current.Name {
			fields["category"] = s.categorize(name)
		}
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			category = catalog.CategoryOther
		}
		fields["category"] = category
	}
	if req.Quantity != nil {
		fields["quantity"] = strings.TrimSpace(*req.Quantity)
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if len(fields) == 0 {
		return current, nil
	}

	return s.write(ctx, current, fields)
}

// SetPicked marks an item as picked or not picked.
func (s *Service) SetPicked(ctx context.Context, user reconcile.User, itemID string, picked bool) (*Item, error) {
	current, err := s.accessItem(ctx, user, itemID)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, current, map[string]any{"picked": picked})
}

// Delete soft-deletes an item. It stays restorable until the list is cleared.
func (s *Service) Delete(ctx context.Context, user reconcile.User, itemID string) (*Item, error) {
	current, err := s.accessItem(ctx, user, itemID)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, current, map[string]any{"deleted": true})
}

// Restore undoes a soft delete. Restored items come back unpicked.
func (s *Service) Restore(ctx context.Context, user reconcile.User, itemID string) (*Item, error) {
	current, err := s.accessItem(ctx, user, itemID)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, current, map[string]any{"deleted": false, "picked": false})
}

// ClearPicked soft-deletes every picked item of a list.
func (s *Service) ClearPicked(ctx context.Context, user reconcile.User, listID string) (int64, error) {
	if err := s.checkList(ctx, user, listID); err != nil {
		return 0, err
	}

	n, err := s.store.DeletePicked(ctx, listID, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.touch(ctx, listID)
	}
	return n, nil
}

// ClearAll permanently removes every item of a list.
func (s *Service) ClearAll(ctx context.Context, user reconcile.User, listID string) (int64, error) {
	if err := s.checkList(ctx, user, listID); err != nil {
		return 0, err
	}

	n, err := s.store.DeleteAll(ctx, listID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.touch(ctx, listID)
	}

	s.logger.Info("Cleared list items",
		zap.String("list_id", listID),
		zap.String("user_id", user.ID),
		zap.Int64("count", n),
	)
	return n, nil
}

func (s *Service) write(ctx context.Context, current *Item, fields map[string]any) (*Item, error) {
	it, err := s.store.Update(ctx, current.ID, fields, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.touch(ctx, current.ListID)
	return it, nil
}

func (s *Service) categorize(name string) string {
	return s.categorizer.Categorize(name).Category
}

// checkList maps lists that are missing or not visible to ErrNotFound.
func (s *Service) checkList(ctx context.Context, user reconcile.User, listID string) error {
	if _, err := s.lists.Access(ctx, user, listID); err != nil {
		if errors.Is(err, lists.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) accessItem(ctx context.Context, user reconcile.User, itemID string) (*Item, error) {
	it, err := s.store.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.checkList(ctx, user, it.ListID); err != nil {
		return nil, err
	}
	return it, nil
}

// touch bumps the list so it sorts first in every member's view. Failures only cost ordering.
func (s *Service) touch(ctx context.Context, listID string) {
	if err := s.lists.Touch(ctx, listID); err != nil {
		s.logger.Warn("Failed to touch list", zap.String("list_id", listID), zap.Error(err))
	}
}

// group splits rows into active items by category, picked and deleted items.
// Categories follow the catalog order; unknown ones and Other come last.
func group(rows []Item, order []string) Grouped {
	rank := make(map[string]int, len(order))
	for i, c := range order {
		rank[c] = i
	}
	rankOf := func(c string) int {
		if r, ok := rank[c]; ok {
			return r
		}
		return len(order)
	}

	out := Grouped{Active: []Category{}, Picked: []Item{}, Deleted: []Item{}}
	var active []Item
	for _, it := range rows {
		switch {
		case it.Deleted:
			out.Deleted = append(out.Deleted, it)
		case it.Picked:
			out.Picked = append(out.Picked, it)
		default:
			active = append(active, it)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		ri, rj := rankOf(active[i].Category), rankOf(active[j].Category)
		if ri != rj {
			return ri < rj
		}
		if active[i].Category != active[j].Category {
			return active[i].Category < active[j].Category
		}
		return strings.ToLower(active[i].Name) < strings.ToLower(active[j].Name)
	})

	for _, it := range active {
		n := len(out.Active)
		if n == 0 || out.Active[n-1].Name != it.Category {
			out.Active = append(out.Active, Category{Name: it.Category})
			n++
		}
		out.Active[n-1].Items = append(out.Active[n-1].Items, it)
	}
	return out
}
