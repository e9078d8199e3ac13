package cartfeed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodgram/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, hub *Hub, userID int64) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	group := r.Group("/api", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	NewHandler(hub, nil).RegisterProtectedRoutes(group)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/cart"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_DeliversToEveryConnectionOfUser(t *testing.T) {
	hub := NewHub()
	url := startServer(t, hub, 7)

	first := dial(t, url)
	second := dial(t, url)
	require.Eventually(t, func() bool { return hub.Connections(7) == 2 }, time.Second, 10*time.Millisecond)

	recipe := domain.RecipeShort{ID: 3, Name: "Soup", CookingTime: 15}
	hub.CartChanged(7, "cart_item_added", recipe)
	hub.CartChanged(8, "cart_item_added", recipe)

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, "cart_item_added", ev.Type)
		assert.Equal(t, recipe, ev.Recipe)
		assert.False(t, ev.At.IsZero())
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub := NewHub()
	url := startServer(t, hub, 11)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Connections(11) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return hub.Connections(11) == 0 }, 2*time.Second, 10*time.Millisecond)

	// Publishing with nobody listening is a no-op.
	hub.CartChanged(11, "cart_item_removed", domain.RecipeShort{ID: 1})
}

func TestHub_CloseDisconnects(t *testing.T) {
	hub := NewHub()
	url := startServer(t, hub, 5)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Connections(5) == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Connections(5))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
