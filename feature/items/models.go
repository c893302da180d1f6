package items

import "time"

// Item is one entry of a shopping list.
type Item struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	ListID    string    `gorm:"column:list_id;size:36;not null;index" json:"list_id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Quantity  string    `gorm:"column:quantity;size:64" json:"quantity"`
	Category  string    `gorm:"column:category;size:64;not null;index" json:"category"`
	Notes     string    `gorm:"column:notes;type:text" json:"notes"`
	Picked    bool      `gorm:"column:picked;not null;default:false" json:"picked"`
	Deleted   bool      `gorm:"column:deleted;not null;default:false;index" json:"deleted"`
	CreatedBy string    `gorm:"column:created_by;size:128" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (Item) TableName() string {
	return "items"
}

// Category groups the active items of one category.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Grouped is a list's items the way they are shown: active items by category,
// then picked, then deleted.
type Grouped struct {
	Active  []Category `json:"active"`
	Picked  []Item     `json:"picked"`
	Deleted []Item     `json:"deleted"`
}
