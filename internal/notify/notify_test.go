package notify

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
)

func newFeed(t *testing.T) *Container {
	t.Helper()
	c := NewContainer(store.NewWithFs(afero.NewMemMapFs(), "/state"), "")
	c.Hydrate()
	t.Cleanup(c.Close)
	return c
}

func TestAddPrependsNewestFirst(t *testing.T) {
	c := newFeed(t)
	c.Add("first", "m1", "", "")
	c.Add("second", "m2", "", "")

	all := c.Notifications("")
	require.Len(t, all, 2)
	require.Equal(t, "second", all[0].Title)
}

func TestNotificationsFilterByRole(t *testing.T) {
	c := newFeed(t)
	c.Add("for everyone", "", "", "")
	c.Add("for owners", "", models.RoleOwner, "")
	c.Add("for buyers", "", models.RoleBuyer, "")

	owner := c.Notifications(models.RoleOwner)
	require.Len(t, owner, 2)
	for _, n := range owner {
		require.NotEqual(t, models.RoleBuyer, n.Role)
	}
}

func TestMarkAllAsReadIsSelectiveAndIdempotent(t *testing.T) {
	c := newFeed(t)
	c.Add("for everyone", "", "", "")
	c.Add("for owners", "", models.RoleOwner, "")
	c.Add("for buyers", "", models.RoleBuyer, "")

	c.MarkAllAsRead(models.RoleOwner)

	byTitle := map[string]bool{}
	for _, n := range c.Notifications("") {
		byTitle[n.Title] = n.Read
	}
	require.True(t, byTitle["for everyone"], "role-less entries are covered")
	require.True(t, byTitle["for owners"])
	require.False(t, byTitle["for buyers"], "other roles stay untouched")

	before := c.Notifications("")
	c.MarkAllAsRead(models.RoleOwner)
	require.Equal(t, before, c.Notifications(""), "second call changes nothing")
}

func TestMarkAsReadAndUnreadCount(t *testing.T) {
	c := newFeed(t)
	n := c.Add("ping", "", models.RoleBuyer, "")
	c.Add("pong", "", models.RoleBuyer, "")
	require.Equal(t, 2, c.UnreadCount(models.RoleBuyer))

	c.MarkAsRead(n.ID)
	require.Equal(t, 1, c.UnreadCount(models.RoleBuyer))

	c.MarkAsRead("no-such-id")
	require.Equal(t, 1, c.UnreadCount(models.RoleBuyer))
}

func TestConcurrentMutatorsAreSafe(t *testing.T) {
	c := newFeed(t)
	seeded := make([]models.Notification, 0, 10)
	for i := 0; i < 10; i++ {
		seeded = append(seeded, c.Add(fmt.Sprintf("seed %d", i), "", models.RoleOwner, ""))
	}

	// Read-flag flips and prepends mutate the same backing array persist
	// serializes from; run them against each other.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.MarkAllAsRead(models.RoleOwner)
			}
		}()
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Add(fmt.Sprintf("worker %d message %d", n, j), "", models.RoleBuyer, "")
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.MarkAsRead(seeded[j%len(seeded)].ID)
			}
		}()
	}
	wg.Wait()

	all := c.Notifications("")
	require.Len(t, all, 10+4*20)
	require.Zero(t, c.UnreadCount(models.RoleOwner))
}

func TestFeedPersistsAcrossRestart(t *testing.T) {
	fs := afero.NewMemMapFs()
	c1 := NewContainer(store.NewWithFs(fs, "/state"), "")
	c1.Hydrate()
	c1.Add("kept", "survives restart", "", "")
	c1.Close()

	c2 := NewContainer(store.NewWithFs(fs, "/state"), "")
	c2.Hydrate()
	defer c2.Close()
	all := c2.Notifications("")
	require.Len(t, all, 1)
	require.Equal(t, "kept", all[0].Title)
}

func TestPushChannelPrependsInboundMessages(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"title":"price drop","message":"Marine Drive flat now 4.2 Cr","role":"buyer"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"title":"visit approved"}`))
		// Hold the connection open so the client reads everything.
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	c := NewContainer(store.NewWithFs(afero.NewMemMapFs(), "/state"), wsURL)
	c.delay = 10 * time.Millisecond
	c.Hydrate()
	defer c.Close()

	require.Eventually(t, func() bool {
		return len(c.Notifications("")) == 2
	}, 2*time.Second, 10*time.Millisecond, "two parseable payloads, malformed one dropped")

	all := c.Notifications("")
	require.Equal(t, "visit approved", all[0].Title, "newest first")
	require.NotEmpty(t, all[0].ID, "missing ids are filled in")
	require.Equal(t, models.RoleBuyer, all[1].Role)
}

func TestCloseStopsReconnectLoop(t *testing.T) {
	// Dial target that always refuses: the loop must keep retrying until
	// Close flips the active flag.
	c := NewContainer(store.NewWithFs(afero.NewMemMapFs(), "/state"), "ws://127.0.0.1:1/push")
	c.delay = 5 * time.Millisecond
	c.Hydrate()
	time.Sleep(20 * time.Millisecond)
	c.Close()
	require.False(t, c.isActive())
}
