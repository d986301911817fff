package app

import (
	"context"
	"strings"
	"sync"

	"lostfound-bulletin-service/internal/domain/item"
	"lostfound-bulletin-service/internal/domain/shared"
	"lostfound-bulletin-service/internal/ports/inbound"
	"lostfound-bulletin-service/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// PostService implements the item submission flow for one owning scope.
// Validation failures never reach the collection; a submission already in
// flight blocks repeat submission so a double tap cannot create two items.
type PostService struct {
	collection outbound.Collection
	logger     zerolog.Logger

	mu       sync.Mutex
	inFlight bool
}

type PostServiceParams struct {
	Collection outbound.Collection
	Logger     zerolog.Logger
}

// NewPostService creates a new post service
func NewPostService(params PostServiceParams) *PostService {
	return &PostService{
		collection: params.Collection,
		logger:     params.Logger.With().Str("component", "post_service").Logger(),
	}
}

// SubmitItem validates and persists a new item on behalf of the current
// session. On success exactly one item is inserted, owned by the
// submitter, with the creation timestamp assigned server-side.
func (s *PostService) SubmitItem(ctx context.Context, req inbound.SubmitItemRequest) (*item.Item, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)

	if title == "" {
		return nil, shared.ErrTitleRequired
	}
	if description == "" {
		return nil, shared.ErrDescriptionRequired
	}
	if req.Identity == nil {
		return nil, shared.ErrNotSignedIn
	}
	category, err := item.ParseCategory(string(req.Category))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, shared.ErrSubmissionInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	posting, err := s.collection.Insert(ctx, outbound.NewItem{
		Title:       title,
		Description: description,
		Location:    strings.TrimSpace(req.Location),
		Category:    category,
		OwnerID:     req.Identity.UserID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", req.Identity.UserID.String()).Msg("Failed to submit item")
		return nil, err
	}

	s.logger.Info().
		Str("item_id", posting.ID.String()).
		Str("user_id", posting.OwnerID.String()).
		Str("category", string(posting.Category)).
		Msg("Item posted")

	return posting, nil
}
