// Package notify owns the notification feed. The local store is the system of
// record: the feed is always mirrored to it, and the optional push channel
// only ever adds entries on top. There is no remote-authoritative mode.
package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
)

const feedKey = "notifications"

// reconnectDelay is the fixed wait between push channel attempts.
const reconnectDelay = 5 * time.Second

// Container holds the notification feed, newest first. All methods are safe
// for concurrent use.
type Container struct {
	st      *store.Store
	pushURL string

	mu     sync.RWMutex
	items  []models.Notification
	active bool
	conn   *websocket.Conn

	// overridable in tests
	delay time.Duration
}

func NewContainer(st *store.Store, pushURL string) *Container {
	return &Container{st: st, pushURL: pushURL, delay: reconnectDelay}
}

// Hydrate loads the persisted feed and, when a push URL is configured, starts
// the push channel loop.
func (c *Container) Hydrate() {
	c.mu.Lock()
	c.items = store.Load(c.st, feedKey, []models.Notification{})
	c.active = true
	c.mu.Unlock()

	if c.pushURL != "" {
		go c.runPush()
	}
}

// Close tears the container down and stops any reconnect attempts.
func (c *Container) Close() {
	c.mu.Lock()
	c.active = false
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// Add prepends a locally produced notification to the feed.
func (c *Container) Add(title, message string, role models.Role, action string) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		Role:      role,
		Title:     title,
		Message:   message,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	c.prepend(n)
	return n
}

// Notifications returns the feed for a role: entries that are role-less or
// match the given role, newest first. An empty role returns everything.
func (c *Container) Notifications(role models.Role) []models.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []models.Notification{}
	for _, n := range c.items {
		if role == "" || n.Role == "" || n.Role == role {
			out = append(out, n)
		}
	}
	return out
}

// UnreadCount counts unread entries visible to the role.
func (c *Container) UnreadCount(role models.Role) int {
	count := 0
	for _, n := range c.Notifications(role) {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAsRead flips a single entry to read. Unknown IDs are a no-op.
func (c *Container) MarkAsRead(id string) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			break
		}
	}
	c.mu.Unlock()
	c.persist()
}

// MarkAllAsRead flips every entry that is role-less or matches the given
// role; entries addressed to other roles stay untouched. Idempotent.
func (c *Container) MarkAllAsRead(role models.Role) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].Role == "" || c.items[i].Role == role {
			c.items[i].Read = true
		}
	}
	c.mu.Unlock()
	c.persist()
}

func (c *Container) prepend(n models.Notification) {
	c.mu.Lock()
	c.items = append([]models.Notification{n}, c.items...)
	c.mu.Unlock()
	c.persist()
}

// persist snapshots element copies under the lock; MarkAsRead and friends
// mutate entries in place, so the marshal must not share their backing array.
func (c *Container) persist() {
	c.mu.RLock()
	items := append([]models.Notification(nil), c.items...)
	c.mu.RUnlock()
	c.st.Save(feedKey, items)
}

func (c *Container) isActive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// runPush keeps one push connection alive: dial, read until failure, wait the
// fixed delay, try again. The active flag is checked before every attempt so
// Close stops the loop.
func (c *Container) runPush() {
	for c.isActive() {
		conn, _, err := websocket.DefaultDialer.Dial(c.pushURL, nil)
		if err != nil {
			log.Printf("notify: push dial failed: %v", err)
			time.Sleep(c.delay)
			continue
		}
		c.mu.Lock()
		if !c.active {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.mu.Unlock()

		c.readLoop(conn)

		if c.isActive() {
			time.Sleep(c.delay)
		}
	}
}

func (c *Container) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.isActive() {
				log.Printf("notify: push channel closed: %v", err)
			}
			return
		}
		var n models.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			log.Printf("notify: dropping malformed push payload: %v", err)
			continue
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now().UTC()
		}
		c.prepend(n)
	}
}
