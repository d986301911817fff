package item

import (
	"strings"
	"time"

	"lostfound-bulletin-service/internal/domain/shared"

	"github.com/google/uuid"
)

// Category classifies a posting as a lost or a found item
type Category string

const (
	CategoryLost  Category = "lost"
	CategoryFound Category = "found"
)

// ParseCategory validates and converts a raw string into a Category
func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case CategoryLost:
		return CategoryLost, nil
	case CategoryFound:
		return CategoryFound, nil
	default:
		return "", shared.ErrInvalidCategory
	}
}

// Item represents a single lost/found posting.
// Items are append-only: they are never mutated or deleted after creation.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Category    Category  `json:"category"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the invariants that must hold before an item is persisted
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return shared.ErrTitleRequired
	}
	if strings.TrimSpace(i.Description) == "" {
		return shared.ErrDescriptionRequired
	}
	if _, err := ParseCategory(string(i.Category)); err != nil {
		return err
	}
	if i.OwnerID == uuid.Nil {
		return shared.ErrNotSignedIn
	}
	return nil
}
