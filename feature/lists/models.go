package lists

import (
	"time"

	"shoplist/core/reconcile"
)

// List is the persisted shopping list.
type List struct {
	ID         string     `gorm:"column:id;primaryKey;size:36"`
	Name       string     `gorm:"column:name;size:255;not null"`
	OwnerID    string     `gorm:"column:owner_id;size:128;not null;index"`
	SharedWith []string   `gorm:"column:shared_with;type:text;serializer:json"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;index"`
	ExpiresAt  *time.Time `gorm:"column:expires_at;index"`
}

// TableName overrides the table name.
func (List) TableName() string {
	return "lists"
}

// ToRecord converts the row to the reconciler's record type.
func (l List) ToRecord() reconcile.Record {
	shared := make([]string, len(l.SharedWith))
	copy(shared, l.SharedWith)
	return reconcile.Record{
		ID:         l.ID,
		Name:       l.Name,
		OwnerID:    l.OwnerID,
		SharedWith: shared,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
		ExpiresAt:  l.ExpiresAt,
	}
}

// HiddenList marks a shared list the user removed from their own view.
type HiddenList struct {
	UserID    string    `gorm:"column:user_id;primaryKey;size:128"`
	ListID    string    `gorm:"column:list_id;primaryKey;size:36"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (HiddenList) TableName() string {
	return "hidden_lists"
}
