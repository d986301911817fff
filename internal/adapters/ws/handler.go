package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"lostfound-bulletin-service/internal/app"
	"lostfound-bulletin-service/internal/domain/item"
	"lostfound-bulletin-service/internal/domain/shared"
	"lostfound-bulletin-service/internal/ports/inbound"
	"lostfound-bulletin-service/internal/ports/outbound"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WsHandler manages WebSocket connections and message routing. Every
// connection owns its own session scope: an auth client, a session store,
// a navigation gate, a submission flow, and - while authenticated - a feed
// synchronizer pushing live snapshots down the socket.
type WsHandler struct {
	clients    map[string]*WsClient    // clientID -> Client
	scopes     map[string]*clientScope // clientID -> session scope
	clientsMu  sync.RWMutex
	upgrader   websocket.Upgrader
	userRepo   outbound.UserRepository
	itemRepo   outbound.ItemRepository
	tokens     outbound.TokenProvider
	tokenTTL   time.Duration
	collection outbound.Collection
	logger     zerolog.Logger
}

type WsHandlerParams struct {
	Upgrader   websocket.Upgrader
	UserRepo   outbound.UserRepository
	ItemRepo   outbound.ItemRepository
	Tokens     outbound.TokenProvider
	TokenTTL   time.Duration
	Collection outbound.Collection
	Logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	return &WsHandler{
		clients:    make(map[string]*WsClient),
		scopes:     make(map[string]*clientScope),
		upgrader:   params.Upgrader,
		userRepo:   params.UserRepo,
		itemRepo:   params.ItemRepo,
		tokens:     params.Tokens,
		tokenTTL:   params.TokenTTL,
		collection: params.Collection,
		logger:     params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// clientScope bundles the per-connection session state. The connection is
// the owning scope: disconnecting tears everything down.
type clientScope struct {
	auth    *app.AuthClient
	session *app.SessionStore
	gate    *app.NavigationGate
	post    inbound.PostService

	mu   sync.Mutex
	feed *app.FeedSynchronizer
}

// HandleWebSocket handles WebSocket connection upgrades
func (handler *WsHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP connection to WebSocket
	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	// Create new client
	client := NewClient(WsClientParams{
		Conn:    conn,
		Handler: handler,
		Logger:  handler.logger,
	})

	// Register client and start message handling before the scope exists,
	// so the initial nav_state can be delivered
	handler.registerClient(client)
	client.Start()

	// Build the session scope; creating the session store resolves it
	// immediately and pushes the first nav_state to the client
	scope := handler.newScope(client)
	handler.setScope(client.id, scope)

	// Wait for client to disconnect
	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.id).Msg("WebSocket client connected")
}

// newScope wires the client-core components for one connection
func (handler *WsHandler) newScope(client *WsClient) *clientScope {
	scope := &clientScope{}

	scope.auth = app.NewAuthClient(app.AuthClientParams{
		UserRepo: handler.userRepo,
		Tokens:   handler.tokens,
		TokenTTL: handler.tokenTTL,
		Logger:   handler.logger,
	})

	scope.post = app.NewPostService(app.PostServiceParams{
		Collection: handler.collection,
		Logger:     handler.logger,
	})

	scope.gate = app.NewNavigationGate(app.NavigationGateParams{
		Logger: handler.logger,
		OnTransition: func(state app.GateState) {
			handler.handleTransition(client, scope, state)
		},
	})

	// Registering the session store fires the initial auth state
	// notification, which drives the gate out of its resolving state
	scope.session = app.NewSessionStore(app.SessionStoreParams{
		Auth:   scope.auth,
		Logger: handler.logger,
		OnChange: func(identity *shared.Identity, resolving bool) {
			scope.gate.Apply(identity, resolving)
		},
	})

	return scope
}

// handleTransition pushes every gate transition to the client and starts
// or stops the feed synchronizer: the live feed only runs while the
// authenticated screen tree is visible
func (handler *WsHandler) handleTransition(client *WsClient, scope *clientScope, state app.GateState) {
	msg := NewServerMessage(MessageTypeNavState)
	msg.Data["state"] = string(state)
	if err := client.Send(msg); err != nil {
		handler.logger.Debug().Err(err).Str("client_id", client.id).Msg("Failed to send nav state")
	}

	switch state {
	case app.StateAuthenticated:
		handler.startFeed(client, scope)
	case app.StateUnauthenticated:
		scope.stopFeed()
	}
}

// startFeed opens the live feed for an authenticated connection, default
// filter first
func (handler *WsHandler) startFeed(client *WsClient, scope *clientScope) {
	scope.mu.Lock()
	defer scope.mu.Unlock()

	if scope.feed != nil {
		return
	}

	scope.feed = app.NewFeedSynchronizer(app.FeedSynchronizerParams{
		Collection: handler.collection,
		Logger:     handler.logger,
		OnUpdate: func(view app.FeedView) {
			handler.pushFeedUpdate(client, view)
		},
	})
	scope.feed.Start()
}

func (scope *clientScope) stopFeed() {
	scope.mu.Lock()
	feed := scope.feed
	scope.feed = nil
	scope.mu.Unlock()

	if feed != nil {
		feed.Close()
	}
}

func (scope *clientScope) activeFeed() *app.FeedSynchronizer {
	scope.mu.Lock()
	defer scope.mu.Unlock()
	return scope.feed
}

// close tears down the whole session scope for a disconnecting client
func (scope *clientScope) close() {
	scope.stopFeed()
	scope.session.Close()
}

// pushFeedUpdate forwards feed synchronizer state to the client. Loading
// transitions are not sent; the client renders its own indicator until the
// next snapshot arrives.
func (handler *WsHandler) pushFeedUpdate(client *WsClient, view app.FeedView) {
	if view.Err != nil {
		msg := NewServerMessage(MessageTypeFeedError)
		msg.Data["filter"] = string(view.Filter)
		errText := view.Err.Error()
		msg.Error = &errText
		if err := client.Send(msg); err != nil {
			handler.logger.Debug().Err(err).Str("client_id", client.id).Msg("Failed to send feed error")
		}
		return
	}

	if view.Loading {
		return
	}

	msg := NewServerMessage(MessageTypeFeedSnapshot)
	msg.Data["filter"] = string(view.Filter)
	msg.Data["items"] = view.Items
	msg.Data["count"] = len(view.Items)
	if err := client.Send(msg); err != nil {
		handler.logger.Debug().Err(err).Str("client_id", client.id).Msg("Failed to send feed snapshot")
	}
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
	handler.logger.Debug().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *WsHandler) setScope(clientID string, scope *clientScope) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.scopes[clientID] = scope
}

func (handler *WsHandler) getScope(clientID string) *clientScope {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return handler.scopes[clientID]
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	scope := handler.scopes[client.id]
	delete(handler.scopes, client.id)
	delete(handler.clients, client.id)
	handler.clientsMu.Unlock()

	// Tear down the session scope before stopping the client so no
	// notification is processed after teardown is requested
	if scope != nil {
		scope.close()
	}

	client.Stop()

	handler.logger.Info().Str("client_id", client.id).Msg("WebSocket client disconnected")
}

func (handler *WsHandler) HandleClientMessage(client *WsClient, msg *ClientMessage) error {
	scope := handler.getScope(client.id)
	if scope == nil {
		return shared.ErrClientEventChannelNotFound
	}

	switch msg.Type {
	case MessageTypeSignUp:
		return handler.handleSignUp(client, scope, msg)

	case MessageTypeSignIn:
		return handler.handleSignIn(client, scope, msg)

	case MessageTypeSignOut:
		return handler.handleSignOut(client, scope)

	case MessageTypeSetFilter:
		return handler.handleSetFilter(client, scope, msg)

	case MessageTypePostItem:
		return handler.handlePostItem(client, scope, msg)

	case MessageTypeGetMyPosts:
		return handler.handleGetMyPosts(client, scope)

	default:
		handler.logger.Warn().Str("client_id", client.id).Str("message_type", string(msg.Type)).Msg("Unknown message type from client")
		return shared.ErrUnknownMessageType
	}
}

func (handler *WsHandler) handleSignUp(client *WsClient, scope *clientScope, msg *ClientMessage) error {
	ctx := context.Background()

	result, err := scope.auth.SignUp(ctx, msg.stringField("email"), msg.stringField("password"))
	if err != nil {
		return client.Send(NewErrorMessage(err.Error()))
	}

	return client.Send(signedInMessage(result))
}

func (handler *WsHandler) handleSignIn(client *WsClient, scope *clientScope, msg *ClientMessage) error {
	ctx := context.Background()

	result, err := scope.auth.SignIn(ctx, msg.stringField("email"), msg.stringField("password"))
	if err != nil {
		return client.Send(NewErrorMessage(err.Error()))
	}

	return client.Send(signedInMessage(result))
}

func (handler *WsHandler) handleSignOut(client *WsClient, scope *clientScope) error {
	// The nav_state transition is the reply
	if err := scope.auth.SignOut(context.Background()); err != nil {
		return client.Send(NewErrorMessage(err.Error()))
	}
	return nil
}

func (handler *WsHandler) handleSetFilter(client *WsClient, scope *clientScope, msg *ClientMessage) error {
	if scope.gate.State() != app.StateAuthenticated {
		return client.Send(NewErrorMessage(shared.ErrNotSignedIn.Error()))
	}

	filter, err := item.ParseFilter(msg.stringField("filter"))
	if err != nil {
		return client.Send(NewErrorMessage(err.Error()))
	}

	feed := scope.activeFeed()
	if feed == nil {
		return client.Send(NewErrorMessage(shared.ErrSubscriptionClosed.Error()))
	}

	if err := feed.SetFilter(filter); err != nil {
		return client.Send(NewErrorMessage(err.Error()))
	}

	return nil
}

func (handler *WsHandler) handlePostItem(client *WsClient, scope *clientScope, msg *ClientMessage) error {
	ctx := context.Background()

	req := inbound.SubmitItemRequest{
		Title:       msg.stringField("title"),
		Description: msg.stringField("description"),
		Location:    msg.stringField("location"),
		Category:    item.Category(msg.stringField("category")),
		Identity:    scope.session.Identity(),
	}

	posting, err := scope.post.SubmitItem(ctx, req)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error()))
	}

	response := NewServerMessage(MessageTypeItemPosted)
	response.Data["item"] = posting

	handler.logger.Info().Str("client_id", client.id).Str("item_id", posting.ID.String()).Msg("Item posted by client")
	return client.Send(response)
}

func (handler *WsHandler) handleGetMyPosts(client *WsClient, scope *clientScope) error {
	identity := scope.session.Identity()
	if identity == nil {
		return client.Send(NewErrorMessage(shared.ErrNotSignedIn.Error()))
	}

	items, err := handler.itemRepo.ListByOwner(context.Background(), identity.UserID)
	if err != nil {
		return client.Send(NewErrorMessage(err.Error()))
	}

	response := NewServerMessage(MessageTypeMyPosts)
	response.Data["items"] = items
	response.Data["count"] = len(items)

	return client.Send(response)
}

// GetConnectedClients returns the number of connected clients
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}

func signedInMessage(result *inbound.AuthResult) *ServerMessage {
	msg := NewServerMessage(MessageTypeSignedIn)
	msg.Data["identity"] = result.Identity
	msg.Data["access_token"] = result.AccessToken
	return msg
}
