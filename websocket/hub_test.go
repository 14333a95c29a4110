package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dialTestClient upgrades a real connection against a test server and
// registers the server side with the hub, returning the peer side.
func dialTestClient(t *testing.T, hub *Hub, userID primitive.ObjectID) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.register <- &Client{UserID: userID, Conn: conn}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[userID]
		return ok
	}, time.Second, 10*time.Millisecond, "client never registered")

	return conn
}

func TestSendToUserNotConnected(t *testing.T) {
	hub := NewHub()
	err := hub.SendToUser(primitive.NewObjectID(), Notification{Type: "x"})
	require.Error(t, err)
}

func TestSendToUserDeliversNotification(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := primitive.NewObjectID()
	conn := dialTestClient(t, hub, userID)

	require.NoError(t, hub.NotifyPendingCommission(userID, map[string]string{"recordId": "abc"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var n Notification
	require.NoError(t, conn.ReadJSON(&n))
	assert.Equal(t, NotificationTypeCommissionPending, n.Type)
	assert.Equal(t, "New commission record awaiting approval", n.Message)
}

// Commission decisions notify from separate goroutines, so writes to one
// user's connection can race. Every write must land intact.
func TestSendToUserConcurrentWrites(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := primitive.NewObjectID()
	conn := dialTestClient(t, hub, userID)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- hub.NotifyCommissionStatus(userID, map[string]string{"status": "approved"})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < writers; i++ {
		var n Notification
		require.NoError(t, conn.ReadJSON(&n))
		assert.Equal(t, NotificationTypeCommissionStatus, n.Type)
	}
}
