// internal/websocket/hub_test.go
package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// hubHarness runs a hub with a real websocket endpoint in front of it.
// Identity comes from query parameters instead of a token so the tests
// exercise the hub itself, not the auth path.
type hubHarness struct {
	hub     *Hub
	srv     *httptest.Server
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

func newHubHarness(t *testing.T) *hubHarness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	h := &hubHarness{
		hub:     NewHub(nil, nil, zap.NewNop()),
		cancel:  cancel,
		stopped: make(chan struct{}),
	}

	go func() {
		h.hub.Run(ctx)
		close(h.stopped)
	}()

	upgrader := gws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		userID, _ := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
		auth := &ClientAuth{
			UserID:    userID,
			SessionID: r.URL.Query().Get("session_id"),
		}

		client := NewClient(h.hub, conn, auth, zap.NewNop())
		if !h.hub.Enroll(client) {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}))

	t.Cleanup(func() {
		h.stop()
		h.srv.Close()
	})
	return h
}

func (h *hubHarness) stop() {
	h.once.Do(func() {
		h.cancel()
		<-h.stopped
	})
}

func (h *hubHarness) dial(t *testing.T, userID int64, sessionID string) *gws.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") +
		"/?user_id=" + strconv.FormatInt(userID, 10) + "&session_id=" + sessionID
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func (h *hubHarness) waitForConnections(t *testing.T, userID int64, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.hub.ConnectionCount(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("user %d: want %d connections, have %d", userID, want, h.hub.ConnectionCount(userID))
}

func TestForceLogoutTargetsOneSession(t *testing.T) {
	h := newHubHarness(t)

	connA := h.dial(t, 1, "sess-a")
	defer connA.Close()
	connB := h.dial(t, 1, "sess-b")
	defer connB.Close()
	h.waitForConnections(t, 1, 2)

	h.hub.ForceLogout(1, "sess-a", "session revoked from another device")

	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, connA.ReadJSON(&msg))
	assert.Equal(t, EventForceLogout, msg.Type)

	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sess-a", payload["session_id"])
	assert.Equal(t, "session revoked from another device", payload["reason"])

	// The revoked connection is closed after the event is delivered
	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := connA.ReadMessage()
	assert.Error(t, err)

	// The other session stays connected
	h.waitForConnections(t, 1, 1)
}

func TestForceLogoutAllSessions(t *testing.T) {
	h := newHubHarness(t)

	connA := h.dial(t, 2, "sess-a")
	defer connA.Close()
	connB := h.dial(t, 2, "sess-b")
	defer connB.Close()
	h.waitForConnections(t, 2, 2)

	h.hub.ForceLogout(2, "", "logged out")

	for _, conn := range []*gws.Conn{connA, connB} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, EventForceLogout, msg.Type)
	}
	h.waitForConnections(t, 2, 0)
}

// Revocations race disconnects in production whenever a device drops its
// connection while another device revokes it. Delivery must survive that
// overlap without touching a closed send channel.
func TestForceLogoutDuringDisconnectChurn(t *testing.T) {
	h := newHubHarness(t)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					h.hub.ForceLogout(1, "", "revoked")
				}
			}
		}()
	}

	for round := 0; round < 4; round++ {
		conns := make([]*gws.Conn, 0, 16)
		for i := 0; i < 16; i++ {
			conns = append(conns, h.dial(t, 1, "sess-"+strconv.Itoa(i)))
		}
		for _, conn := range conns {
			conn.Close()
		}
		h.waitForConnections(t, 1, 0)
	}

	close(stop)
	wg.Wait()
}

func TestShutdownClosesConnections(t *testing.T) {
	h := newHubHarness(t)

	conn := h.dial(t, 7, "sess-a")
	defer conn.Close()
	h.waitForConnections(t, 7, 1)

	h.stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// After shutdown the hub answers without a running goroutine
	assert.Equal(t, 0, h.hub.ConnectionCount(7))
	h.hub.ForceLogout(7, "", "revoked")
}
