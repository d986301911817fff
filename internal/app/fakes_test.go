package app_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lostfound-bulletin-service/internal/domain/item"
	"lostfound-bulletin-service/internal/domain/shared"
	"lostfound-bulletin-service/internal/ports/inbound"
	"lostfound-bulletin-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// fakeUserRepo is an in-memory user repository
type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*shared.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*shared.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *shared.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return shared.ErrEmailTaken
	}
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byEmail {
		if user.ID == id {
			stored := *user
			return &stored, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*shared.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, exists := r.byEmail[email]
	if !exists {
		return nil, shared.ErrUserNotFound
	}
	stored := *user
	return &stored, nil
}

// fakeTokens issues predictable access tokens
type fakeTokens struct {
	err error
}

func (t *fakeTokens) GenerateAccessToken(identity *shared.Identity, ttl time.Duration) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return "token-" + identity.Email, nil
}

// fakeAuthService is a controllable auth state stream for session tests.
// Setting deferImmediate suppresses the immediate invocation on
// registration so tests can observe pre-resolution state.
type fakeAuthService struct {
	mu             sync.Mutex
	listener       inbound.AuthStateListener
	unsubscribed   int
	current        *shared.Identity
	deferImmediate bool
}

func (s *fakeAuthService) SignUp(ctx context.Context, email, password string) (*inbound.AuthResult, error) {
	return nil, shared.ErrInvalidCredentials
}

func (s *fakeAuthService) SignIn(ctx context.Context, email, password string) (*inbound.AuthResult, error) {
	return nil, shared.ErrInvalidCredentials
}

func (s *fakeAuthService) SignOut(ctx context.Context) error { return nil }

func (s *fakeAuthService) CurrentIdentity() *shared.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *fakeAuthService) OnStateChange(listener inbound.AuthStateListener) func() {
	s.mu.Lock()
	s.listener = listener
	current := s.current
	deferred := s.deferImmediate
	s.mu.Unlock()

	if !deferred {
		listener(current, nil)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.unsubscribed++
		s.listener = nil
	}
}

// emit delivers a state-change notification to the registered listener
func (s *fakeAuthService) emit(identity *shared.Identity, err error) {
	s.mu.Lock()
	s.current = identity
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(identity, err)
	}
}

func (s *fakeAuthService) unsubscribeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribed
}

// fakeSubscription is a hand-driven live query handle
type fakeSubscription struct {
	filter    item.Filter
	snapshots chan []*item.Item
	errs      chan error
	closed    chan struct{}
	closeOnce sync.Once
	onClose   func()
}

func newFakeSubscription(filter item.Filter, onClose func()) *fakeSubscription {
	return &fakeSubscription{
		filter:    filter,
		snapshots: make(chan []*item.Item, 16),
		errs:      make(chan error, 1),
		closed:    make(chan struct{}),
		onClose:   onClose,
	}
}

func (s *fakeSubscription) Snapshots() <-chan []*item.Item { return s.snapshots }
func (s *fakeSubscription) Errors() <-chan error           { return s.errs }

func (s *fakeSubscription) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

func (s *fakeSubscription) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// fakeCollection hands out fakeSubscriptions and records the lifecycle
// order of opens and closes
type fakeCollection struct {
	mu        sync.Mutex
	subs      []*fakeSubscription
	log       []string
	subErr    error
	insertErr error
	inserted  []outbound.NewItem
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{}
}

func (c *fakeCollection) Insert(ctx context.Context, doc outbound.NewItem) (*item.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.insertErr != nil {
		return nil, c.insertErr
	}
	c.inserted = append(c.inserted, doc)
	return &item.Item{
		ID:          uuid.New(),
		Title:       doc.Title,
		Description: doc.Description,
		Location:    doc.Location,
		Category:    doc.Category,
		OwnerID:     doc.OwnerID,
		CreatedAt:   time.Now(),
	}, nil
}

func (c *fakeCollection) Subscribe(ctx context.Context, filter item.Filter) (outbound.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subErr != nil {
		return nil, c.subErr
	}

	sub := newFakeSubscription(filter, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.log = append(c.log, "close:"+string(filter))
	})
	c.subs = append(c.subs, sub)
	c.log = append(c.log, "open:"+string(filter))
	return sub, nil
}

func (c *fakeCollection) sub(index int) *fakeSubscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index >= len(c.subs) {
		return nil
	}
	return c.subs[index]
}

func (c *fakeCollection) lifecycle() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.log))
	copy(out, c.log)
	return out
}

func (c *fakeCollection) insertedItems() []outbound.NewItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]outbound.NewItem, len(c.inserted))
	copy(out, c.inserted)
	return out
}

// blockingCollection holds every Insert until released, for testing the
// in-flight submission guard
type blockingCollection struct {
	fakeCollection
	entered chan struct{}
	release chan struct{}
}

func newBlockingCollection() *blockingCollection {
	return &blockingCollection{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (c *blockingCollection) Insert(ctx context.Context, doc outbound.NewItem) (*item.Item, error) {
	select {
	case c.entered <- struct{}{}:
	default:
	}
	<-c.release
	return c.fakeCollection.Insert(ctx, doc)
}

func newTestItem(category item.Category, title string, createdAt time.Time) *item.Item {
	return &item.Item{
		ID:          uuid.New(),
		Title:       title,
		Description: fmt.Sprintf("description of %s", title),
		Category:    category,
		OwnerID:     uuid.New(),
		CreatedAt:   createdAt,
	}
}
