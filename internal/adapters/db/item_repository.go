package db

import (
	"context"
	"database/sql"
	"fmt"

	"lostfound-bulletin-service/internal/domain/item"
	"lostfound-bulletin-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ItemRepository implements the item repository interface
type ItemRepository struct {
	conn *Connection
}

// NewItemRepository creates a new item repository
func NewItemRepository(conn *Connection) *ItemRepository {
	return &ItemRepository{conn: conn}
}

// Create persists a new item. created_at is assigned by the database clock,
// never by the caller.
func (r *ItemRepository) Create(ctx context.Context, posting *item.Item) error {
	query := `
		INSERT INTO items (id, title, description, location, category, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	err := r.conn.GetDB().QueryRowContext(ctx, query,
		posting.ID,
		posting.Title,
		posting.Description,
		posting.Location,
		posting.Category,
		posting.OwnerID,
	).Scan(&posting.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `
		SELECT id, title, description, location, category, owner_id, created_at
		FROM items
		WHERE id = $1
	`

	var posting item.Item
	err := r.conn.GetDB().QueryRowContext(ctx, query, id).Scan(
		&posting.ID,
		&posting.Title,
		&posting.Description,
		&posting.Location,
		&posting.Category,
		&posting.OwnerID,
		&posting.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &posting, nil
}

// List retrieves the full result set visible under the given filter,
// ordered by created_at descending. The id tiebreak keeps ordering stable
// for items created within the same clock tick.
func (r *ItemRepository) List(ctx context.Context, filter item.Filter) ([]*item.Item, error) {
	query := `
		SELECT id, title, description, location, category, owner_id, created_at
		FROM items
	`
	args := []interface{}{}

	if category := filter.Category(); category != nil {
		query += ` WHERE category = $1`
		args = append(args, *category)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListByOwner retrieves all items posted by a user, newest first
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*item.Item, error) {
	query := `
		SELECT id, title, description, location, category, owner_id, created_at
		FROM items
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owner: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]*item.Item, error) {
	var items []*item.Item
	for rows.Next() {
		var posting item.Item
		if err := rows.Scan(
			&posting.ID,
			&posting.Title,
			&posting.Description,
			&posting.Location,
			&posting.Category,
			&posting.OwnerID,
			&posting.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &posting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}
