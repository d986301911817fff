package collection

import (
	"context"
	"fmt"
	"sync"

	"lostfound-bulletin-service/internal/domain/item"
	"lostfound-bulletin-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LiveCollection implements the collection port on top of the item
// repository and the broadcaster. Every insert is published on the items
// topic; every open subscription reacts by re-querying its own filtered
// result set and delivering it as a complete snapshot. The write path never
// touches a subscriber's cached list directly.
type LiveCollection struct {
	items       outbound.ItemRepository
	broadcaster outbound.Broadcaster
	logger      zerolog.Logger
}

type LiveCollectionParams struct {
	ItemRepo    outbound.ItemRepository
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

// NewLiveCollection creates a new live collection client
func NewLiveCollection(params LiveCollectionParams) *LiveCollection {
	return &LiveCollection{
		items:       params.ItemRepo,
		broadcaster: params.Broadcaster,
		logger:      params.Logger.With().Str("component", "live_collection").Logger(),
	}
}

// Insert persists a new item with a server-assigned ID and creation
// timestamp, then notifies every open subscription
func (c *LiveCollection) Insert(ctx context.Context, doc outbound.NewItem) (*item.Item, error) {
	posting := &item.Item{
		ID:          uuid.New(),
		Title:       doc.Title,
		Description: doc.Description,
		Location:    doc.Location,
		Category:    doc.Category,
		OwnerID:     doc.OwnerID,
	}

	if err := c.items.Create(ctx, posting); err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	event := outbound.Event{
		Type: outbound.EventTypeItemCreated,
		Data: map[string]interface{}{
			"item_id":  posting.ID.String(),
			"category": string(posting.Category),
		},
	}

	// The write already succeeded; a publish failure only delays feeds
	// until the next event, so it must not fail the insert
	if err := c.broadcaster.Publish(ctx, outbound.TopicItems, event); err != nil {
		c.logger.Error().Err(err).Str("item_id", posting.ID.String()).Msg("Failed to publish item created event")
	}

	return posting, nil
}

// Subscribe opens a live query scoped to the given filter. The initial
// snapshot is delivered without waiting for a change.
func (c *LiveCollection) Subscribe(ctx context.Context, filter item.Filter) (outbound.Subscription, error) {
	subCtx, cancel := context.WithCancel(context.Background())

	sub := &liveSubscription{
		id:         uuid.New().String(),
		filter:     filter,
		collection: c,
		events:     make(chan outbound.Event, 100),
		snapshots:  make(chan []*item.Item, 16),
		errs:       make(chan error, 1),
		ctx:        subCtx,
		cancel:     cancel,
		logger:     c.logger.With().Str("filter", string(filter)).Logger(),
	}

	if err := c.broadcaster.Subscribe(ctx, outbound.TopicItems, sub.id, sub.events); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open subscription: %w", err)
	}

	go sub.pump()

	return sub, nil
}

// liveSubscription is a single live query handle. One pump goroutine owns
// all delivery; snapshots are always complete result sets.
type liveSubscription struct {
	id         string
	filter     item.Filter
	collection *LiveCollection
	events     chan outbound.Event
	snapshots  chan []*item.Item
	errs       chan error
	ctx        context.Context
	cancel     context.CancelFunc
	closeOnce  sync.Once
	logger     zerolog.Logger
}

func (s *liveSubscription) Snapshots() <-chan []*item.Item {
	return s.snapshots
}

func (s *liveSubscription) Errors() <-chan error {
	return s.errs
}

// Close tears down the subscription. Idempotent; events received after
// Close are dropped.
func (s *liveSubscription) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if err := s.collection.broadcaster.Unsubscribe(context.Background(), outbound.TopicItems, s.id); err != nil {
			s.logger.Error().Err(err).Msg("Failed to unsubscribe from broadcaster")
		}
	})
}

func (s *liveSubscription) pump() {
	defer close(s.snapshots)

	// Initial snapshot, delivered before any change arrives
	s.deliver()

	for {
		select {
		case _, ok := <-s.events:
			if !ok {
				return
			}
			s.deliver()
		case <-s.ctx.Done():
			return
		}
	}
}

// deliver re-queries the full ordered result set for the subscribed filter
// and pushes it to the consumer. A query failure is surfaced on the error
// channel and leaves the subscription open.
func (s *liveSubscription) deliver() {
	items, err := s.collection.items.List(s.ctx, s.filter)
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Error().Err(err).Msg("Feed query failed")
		select {
		case s.errs <- err:
		default:
		}
		return
	}

	select {
	case s.snapshots <- items:
	case <-s.ctx.Done():
	}
}
