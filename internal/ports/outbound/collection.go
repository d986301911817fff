package outbound

import (
	"context"

	"lostfound-bulletin-service/internal/domain/item"

	"github.com/google/uuid"
)

// NewItem carries the client-supplied fields of an item insert. ID and
// CreatedAt are always assigned server-side, never by the caller.
type NewItem struct {
	Title       string
	Description string
	Location    string
	Category    item.Category
	OwnerID     uuid.UUID
}

// Subscription is a live query handle. Each value delivered on Snapshots is
// the complete, freshly ordered result set for the subscribed filter; there
// is no incremental patching. A query failure after the subscription is open
// arrives on Errors and does not close the subscription.
type Subscription interface {
	// Snapshots delivers the full current result set on every change.
	// The channel is closed when the subscription is closed.
	Snapshots() <-chan []*item.Item

	// Errors delivers non-fatal subscription errors
	Errors() <-chan error

	// Close tears down the subscription. Events received after Close are
	// dropped. Close is idempotent.
	Close()
}

// Collection abstracts the document store the bulletin is built on:
// ordered filtered queries, live subscriptions and inserts.
type Collection interface {
	// Insert persists a new item with a server-assigned ID and creation
	// timestamp, and notifies every open subscription
	Insert(ctx context.Context, doc NewItem) (*item.Item, error)

	// Subscribe opens a live query scoped to the given filter, ordered by
	// creation time descending. The initial snapshot is delivered without
	// waiting for a change.
	Subscribe(ctx context.Context, filter item.Filter) (Subscription, error)
}
