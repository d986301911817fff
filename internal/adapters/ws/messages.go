package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"lostfound-bulletin-service/internal/domain/shared"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeSignUp     MessageType = "sign_up"
	MessageTypeSignIn     MessageType = "sign_in"
	MessageTypeSignOut    MessageType = "sign_out"
	MessageTypeSetFilter  MessageType = "set_filter"
	MessageTypePostItem   MessageType = "post_item"
	MessageTypeGetMyPosts MessageType = "get_my_posts"
	MessageTypePing       MessageType = "ping"

	// Server to Client message types
	MessageTypeNavState     MessageType = "nav_state"
	MessageTypeSignedIn     MessageType = "signed_in"
	MessageTypeFeedSnapshot MessageType = "feed_snapshot"
	MessageTypeFeedError    MessageType = "feed_error"
	MessageTypeItemPosted   MessageType = "item_posted"
	MessageTypeMyPosts      MessageType = "my_posts"
	MessageTypeError        MessageType = "error"
	MessageTypePong         MessageType = "pong"
)

// ClientMessage represents a message sent from client to server
type ClientMessage struct {
	Type      MessageType            `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType            `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]interface{}),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	// Validate required fields
	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeSignUp, MessageTypeSignIn:
		if m.stringField("email") == "" {
			return shared.ErrEmailRequired
		}
		if m.stringField("password") == "" {
			return shared.ErrPasswordRequired
		}
	case MessageTypeSetFilter:
		if m.stringField("filter") == "" {
			return shared.ErrFilterRequired
		}
	case MessageTypePostItem:
		if m.Data["title"] == nil {
			return shared.ErrTitleRequired
		}
		if m.Data["description"] == nil {
			return shared.ErrDescriptionRequired
		}
		if m.Data["category"] == nil {
			return shared.ErrInvalidCategory
		}
	case MessageTypeSignOut, MessageTypeGetMyPosts, MessageTypePing:

	default:
		return shared.ErrUnknownMessageType
	}

	return nil
}

func (m *ClientMessage) stringField(key string) string {
	value, _ := m.Data[key].(string)
	return value
}
