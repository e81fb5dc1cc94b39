// Package marketplace owns the domain collections: listings, bookings and
// payments. The three collections are independent; there is no cross-
// collection transaction. Every mutation is optimistic: the local snapshot is
// updated immediately and the remote call, when a backend is configured, is
// best-effort. Remote failures never propagate; they degrade to an advisory
// message while the optimistic record stays in place.
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/Chaturved5/estate-portal/internal/gateway"
	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
)

// Local store keys owned by this container.
const (
	propertiesKey = "properties"
	bookingsKey   = "bookings"
	paymentsKey   = "payments"
)

// Container holds the in-memory snapshot of the three collections. All
// methods are safe for concurrent use. Reads return copies.
type Container struct {
	gw *gateway.Client
	st *store.Store

	mu         sync.RWMutex
	properties []models.Property
	bookings   []models.Booking
	payments   []models.Payment
	advisories []string
	closed     bool
}

func NewContainer(gw *gateway.Client, st *store.Store) *Container {
	return &Container{gw: gw, st: st}
}

// Hydrate performs the bulk initial load: a remote fetch when the gateway is
// enabled, otherwise the locally persisted data (seeded with the default
// catalog on first run). A fetch that resolves after Close or after ctx is
// cancelled is discarded rather than applied.
func (c *Container) Hydrate(ctx context.Context) {
	if !c.gw.Enabled() {
		c.loadLocal()
		return
	}

	props, perr := fetchCollection[models.Property](ctx, c.gw, "/properties")
	books, berr := fetchCollection[models.Booking](ctx, c.gw, "/bookings")
	pays, yerr := fetchCollection[models.Payment](ctx, c.gw, "/payments")

	if c.isTornDown(ctx) {
		log.Printf("marketplace: discarding hydrate result after teardown")
		return
	}
	if perr != nil || berr != nil || yerr != nil {
		log.Printf("marketplace: remote hydrate failed (props=%v bookings=%v payments=%v), using local data", perr, berr, yerr)
		c.loadLocal()
		return
	}

	c.mu.Lock()
	c.properties = props
	c.bookings = books
	c.payments = pays
	c.mu.Unlock()
	c.persist()
}

// Close tears the container down; an in-flight hydrate resolving afterwards
// is discarded.
func (c *Container) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Container) isTornDown(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func fetchCollection[T any](ctx context.Context, gw *gateway.Client, path string) ([]T, error) {
	raw, err := gw.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("malformed %s payload: %w", path, err)
	}
	return out, nil
}

func (c *Container) loadLocal() {
	props := store.Load(c.st, propertiesKey, []models.Property(nil))
	if len(props) == 0 {
		props = seedCatalog()
		c.st.Save(propertiesKey, props)
	}
	c.mu.Lock()
	c.properties = props
	c.bookings = store.Load(c.st, bookingsKey, []models.Booking{})
	c.payments = store.Load(c.st, paymentsKey, []models.Payment{})
	c.mu.Unlock()
}

// persist mirrors the snapshot to the local store. Element copies are taken
// under the lock: the marshal runs outside it, and in-place mutators must not
// race it. Write failures are the store's problem (logged, swallowed).
func (c *Container) persist() {
	c.mu.RLock()
	props := append([]models.Property(nil), c.properties...)
	books := append([]models.Booking(nil), c.bookings...)
	pays := append([]models.Payment(nil), c.payments...)
	c.mu.RUnlock()
	c.st.Save(propertiesKey, props)
	c.st.Save(bookingsKey, books)
	c.st.Save(paymentsKey, pays)
}

// advise records a non-blocking, user-visible warning: the mutation succeeded
// locally but its remote sync did not.
func (c *Container) advise(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("marketplace: %s", msg)
	c.mu.Lock()
	c.advisories = append(c.advisories, msg)
	c.mu.Unlock()
}

// Advisories returns the accumulated sync warnings, newest last.
func (c *Container) Advisories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.advisories))
	copy(out, c.advisories)
	return out
}

// ClearAdvisories empties the warning list once the view has shown them.
func (c *Container) ClearAdvisories() {
	c.mu.Lock()
	c.advisories = nil
	c.mu.Unlock()
}

// Properties returns a copy of the listings snapshot.
func (c *Container) Properties() []models.Property {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Property, len(c.properties))
	copy(out, c.properties)
	return out
}

// Bookings returns a copy of the bookings snapshot.
func (c *Container) Bookings() []models.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Booking, len(c.bookings))
	copy(out, c.bookings)
	return out
}

// Payments returns a copy of the payments snapshot.
func (c *Container) Payments() []models.Payment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Payment, len(c.payments))
	copy(out, c.payments)
	return out
}
