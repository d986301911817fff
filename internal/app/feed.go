package app

import (
	"context"
	"sync"

	"lostfound-bulletin-service/internal/domain/item"
	"lostfound-bulletin-service/internal/domain/shared"
	"lostfound-bulletin-service/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// FeedView is an immutable snapshot of the synchronizer's state, handed to
// the OnUpdate callback and returned by View
type FeedView struct {
	Filter  item.Filter  `json:"filter"`
	Items   []*item.Item `json:"items"`
	Loading bool         `json:"loading"`
	Err     error        `json:"-"`
}

// FeedSynchronizer maintains a live, ordered view of items matching the
// active filter. A single event-loop goroutine owns the active subscription
// and all state mutation, so snapshots are applied in delivery order and a
// filter change swaps subscriptions atomically: the old subscription is
// closed before the new one is opened, and the loop stops selecting on the
// old channels entirely, so a result set from the old filter can never be
// displayed as if it matched the new one.
type FeedSynchronizer struct {
	collection outbound.Collection
	onUpdate   func(view FeedView)
	logger     zerolog.Logger

	commands  chan item.Filter
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	mu      sync.RWMutex
	filter  item.Filter
	items   []*item.Item
	loading bool
	lastErr error
}

type FeedSynchronizerParams struct {
	Collection outbound.Collection
	Logger     zerolog.Logger

	// Filter is the initial view selection; defaults to FilterAll
	Filter item.Filter

	// OnUpdate, when set, is invoked from the event loop after every
	// applied change
	OnUpdate func(view FeedView)
}

// NewFeedSynchronizer creates a synchronizer; Start opens the first
// subscription
func NewFeedSynchronizer(params FeedSynchronizerParams) *FeedSynchronizer {
	filter := params.Filter
	if filter == "" {
		filter = item.FilterAll
	}

	return &FeedSynchronizer{
		collection: params.Collection,
		onUpdate:   params.OnUpdate,
		logger:     params.Logger.With().Str("component", "feed_synchronizer").Logger(),
		commands:   make(chan item.Filter, 16),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		filter:     filter,
		loading:    true,
	}
}

// Start opens the initial subscription and begins processing deliveries
func (f *FeedSynchronizer) Start() {
	go f.run()
}

// SetFilter replaces the active view selection. The swap happens inside the
// event loop; setting the current filter again is a no-op.
func (f *FeedSynchronizer) SetFilter(filter item.Filter) error {
	if _, err := item.ParseFilter(string(filter)); err != nil {
		return err
	}

	select {
	case f.commands <- filter:
		return nil
	case <-f.done:
		return shared.ErrSubscriptionClosed
	}
}

// View returns a copy of the current feed state
func (f *FeedSynchronizer) View() FeedView {
	f.mu.RLock()
	defer f.mu.RUnlock()

	items := make([]*item.Item, len(f.items))
	copy(items, f.items)

	return FeedView{
		Filter:  f.filter,
		Items:   items,
		Loading: f.loading,
		Err:     f.lastErr,
	}
}

// Close tears down the active subscription and stops the event loop.
// Idempotent; no update callback runs after Close returns.
func (f *FeedSynchronizer) Close() {
	f.closeOnce.Do(func() {
		close(f.done)
		<-f.stopped
	})
}

func (f *FeedSynchronizer) run() {
	defer close(f.stopped)

	sub := f.open(f.currentFilter())

	for {
		var snapshots <-chan []*item.Item
		var errs <-chan error
		if sub != nil {
			snapshots = sub.Snapshots()
			errs = sub.Errors()
		}

		select {
		case filter := <-f.commands:
			if filter == f.currentFilter() {
				continue
			}
			// Close the old subscription first; pending deliveries on
			// its channels are abandoned with it
			if sub != nil {
				sub.Close()
			}
			f.applyFilter(filter)
			sub = f.open(filter)

		case items, ok := <-snapshots:
			if !ok {
				sub = nil
				continue
			}
			f.applySnapshot(items)

		case err := <-errs:
			f.applyError(err)

		case <-f.done:
			if sub != nil {
				sub.Close()
			}
			return
		}
	}
}

// open subscribes to the collection for the given filter. Failure to open
// is surfaced as an error state; the last item list is retained.
func (f *FeedSynchronizer) open(filter item.Filter) outbound.Subscription {
	sub, err := f.collection.Subscribe(context.Background(), filter)
	if err != nil {
		f.logger.Error().Err(err).Str("filter", string(filter)).Msg("Failed to open feed subscription")
		f.applyError(err)
		return nil
	}

	f.logger.Debug().Str("filter", string(filter)).Msg("Feed subscription opened")
	return sub
}

func (f *FeedSynchronizer) currentFilter() item.Filter {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter
}

// applyFilter records the new selection and re-enters the loading state.
// A racing error from the superseded subscription is discarded with it.
func (f *FeedSynchronizer) applyFilter(filter item.Filter) {
	f.mu.Lock()
	f.filter = filter
	f.loading = true
	f.lastErr = nil
	f.mu.Unlock()

	f.notify()
}

// applySnapshot replaces the item list wholesale with the freshly ordered
// result set; no incremental patching, no stale entries retained
func (f *FeedSynchronizer) applySnapshot(items []*item.Item) {
	f.mu.Lock()
	f.items = items
	f.loading = false
	f.lastErr = nil
	f.mu.Unlock()

	f.notify()
}

// applyError surfaces a subscription error and stops the loading
// indicator; the item list keeps its last known value
func (f *FeedSynchronizer) applyError(err error) {
	f.mu.Lock()
	f.loading = false
	f.lastErr = err
	f.mu.Unlock()

	f.notify()
}

func (f *FeedSynchronizer) notify() {
	if f.onUpdate == nil {
		return
	}
	f.onUpdate(f.View())
}
