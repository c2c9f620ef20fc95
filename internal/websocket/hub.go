// internal/websocket/hub.go
package websocket

import (
	"context"
	"time"

	"greenwell-service/internal/pkg/jwt"
	"greenwell-service/internal/pkg/session"

	"go.uber.org/zap"
)

// Event types pushed to dashboard clients.
const (
	EventForceLogout = "force_logout"
)

// Message is the wire form of a hub push.
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type logoutNotice struct {
	userID    int64
	sessionID string
	reason    string
}

type countQuery struct {
	userID int64
	reply  chan int
}

// Hub tracks connected dashboard clients per user and pushes session events
// to them. Its one job in this service is telling a device its session was
// revoked from somewhere else.
//
// The clients map and every client send channel are owned by the Run
// goroutine. Other goroutines talk to the hub only through channels, so a
// delivery can never race a disconnect closing the same channel.
type Hub struct {
	// Owned by Run
	clients map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	logouts    chan logoutNotice
	counts     chan countQuery
	done       chan struct{}

	// Auth dependencies
	jwtVerifier    *jwt.Verifier
	sessionManager *session.Manager
	logger         *zap.Logger
}

// ClientAuth is the identity attached to an authenticated connection.
type ClientAuth struct {
	UserID    int64
	SessionID string
	Mobile    string
}

func NewHub(jwtVerifier *jwt.Verifier, sessionManager *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:        make(map[int64]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		logouts:        make(chan logoutNotice, 16),
		counts:         make(chan countQuery),
		done:           make(chan struct{}),
		jwtVerifier:    jwtVerifier,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// AuthenticateClient validates the token and resolves its live session.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	blacklisted, err := h.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	// Verify session exists
	data, err := h.sessionManager.GetSession(ctx, claims.UserID, claims.ID)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		UserID:    claims.UserID,
		SessionID: data.ID,
		Mobile:    data.Mobile,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case notice := <-h.logouts:
			h.deliverLogout(notice)

		case q := <-h.counts:
			q.reply <- len(h.clients[q.userID])
		}
	}
}

// Enroll hands a connection to the Run goroutine. Reports false once the
// hub has stopped; the caller owns the connection in that case.
func (h *Hub) Enroll(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// ForceLogout notifies a user's connections that a session ended and closes
// them. An empty sessionID targets every connection of the user. Delivery is
// handed to the Run goroutine; after shutdown the notice is dropped.
func (h *Hub) ForceLogout(userID int64, sessionID, reason string) {
	select {
	case h.logouts <- logoutNotice{userID: userID, sessionID: sessionID, reason: reason}:
	case <-h.done:
	}
}

// ConnectionCount reports how many connections a user currently has. It is
// answered by the Run goroutine; after shutdown it reports zero.
func (h *Hub) ConnectionCount(userID int64) int {
	q := countQuery{userID: userID, reply: make(chan int, 1)}
	select {
	case h.counts <- q:
		return <-q.reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) deliverLogout(n logoutNotice) {
	msg := &Message{
		Type: EventForceLogout,
		Payload: map[string]string{
			"session_id": n.sessionID,
			"reason":     n.reason,
		},
		Timestamp: time.Now(),
	}

	for client := range h.clients[n.userID] {
		if n.sessionID == "" || client.auth.SessionID == n.sessionID {
			client.Send(msg)
			// Closing send lets the write pump flush the event before it
			// tears the connection down.
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	if h.clients[client.auth.UserID] == nil {
		h.clients[client.auth.UserID] = make(map[*Client]bool)
	}
	h.clients[client.auth.UserID][client] = true

	h.logger.Debug("ws client registered",
		zap.Int64("user_id", client.auth.UserID),
		zap.String("session_id", client.auth.SessionID),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	if conns, ok := h.clients[client.auth.UserID]; ok {
		if _, ok := conns[client]; ok {
			delete(conns, client)
			close(client.send)
			if len(conns) == 0 {
				delete(h.clients, client.auth.UserID)
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, conns := range h.clients {
		for client := range conns {
			close(client.send)
			client.Close()
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}
