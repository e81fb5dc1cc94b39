// Package session owns identity state. The container is either backed by the
// remote auth API (gateway enabled) or by a locally persisted mock credential
// table; the mode is fixed at startup and invisible to callers.
//
// Failure semantics are the blocking kind: login, register, profile and
// password changes surface a single error with a human-readable message so
// the view can halt progress. Logout never fails.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Chaturved5/estate-portal/internal/gateway"
	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
	"github.com/Chaturved5/estate-portal/internal/validation"
)

// Local store keys owned by this container.
const (
	sessionKey   = "session"
	mockUsersKey = "mock_users"
)

// State is the container lifecycle: anonymous -> hydrating -> {authenticated, anonymous}.
type State string

const (
	Anonymous     State = "anonymous"
	Hydrating     State = "hydrating"
	Authenticated State = "authenticated"
)

var (
	// ErrNoActiveSession is returned by operations that require a login.
	ErrNoActiveSession = errors.New("no active session")
	// ErrBusy is returned when a login or registration is already in flight.
	ErrBusy = errors.New("another sign-in attempt is in progress")
)

// Container holds the session snapshot. All exported methods are safe for
// concurrent use; the busy flag makes login/register non-reentrant.
type Container struct {
	gw *gateway.Client
	st *store.Store

	mu      sync.Mutex
	state   State
	current *models.Session
	busy    bool
}

func NewContainer(gw *gateway.Client, st *store.Store) *Container {
	return &Container{gw: gw, st: st, state: Anonymous}
}

// State returns the current lifecycle state.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a login or registration is in flight; views observe
// this to disable their submit controls.
func (c *Container) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// User returns a copy of the authenticated user, or nil when anonymous.
func (c *Container) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	u := c.current.User
	return &u
}

// Token returns the active bearer token, empty when anonymous.
func (c *Container) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return c.current.Token
}

// Hydrate restores a persisted session at startup. With the gateway enabled
// the remote whoami response is the new truth: any failure discards the
// cached session from memory and storage and lands in Anonymous. Offline, the
// token is re-validated against the mock credential table.
func (c *Container) Hydrate(ctx context.Context) {
	c.mu.Lock()
	c.state = Hydrating
	c.mu.Unlock()

	cached := store.Load(c.st, sessionKey, models.Session{})
	if cached.Token == "" {
		c.clear()
		return
	}

	if c.gw.Enabled() {
		c.gw.SetAuthToken(cached.Token)
		raw, err := c.gw.Get(ctx, "/auth/me")
		if err != nil {
			log.Printf("session: whoami failed, discarding cached session: %v", err)
			c.clear()
			return
		}
		var user models.User
		if err := json.Unmarshal(raw, &user); err != nil {
			log.Printf("session: malformed whoami response: %v", err)
			c.clear()
			return
		}
		c.commit(models.Session{Token: cached.Token, User: user})
		return
	}

	if u, ok := c.mockUserByToken(cached.Token); ok {
		c.commit(models.Session{Token: cached.Token, User: u})
		return
	}
	c.clear()
}

// Login authenticates and persists the session. Non-reentrant: a call while
// another login or registration is in flight fails with ErrBusy.
func (c *Container) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	defer c.release()

	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Required("password", password, v)
	if !v.Empty() {
		return nil, errors.New(v.Message())
	}

	if c.gw.Enabled() {
		raw, err := c.gw.Post(ctx, "/auth/login", map[string]string{"email": email, "password": password})
		if err != nil {
			return nil, fmt.Errorf("login failed: %s", err)
		}
		return c.adoptRemoteSession(raw)
	}
	return c.mockLogin(email, password)
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"-"`
	Role            models.Role `json:"role"`
	Phone           string      `json:"phone,omitempty"`
	Company         string      `json:"company,omitempty"`
}

// Register creates an account and signs it in. Validation problems are
// reported before any storage or network I/O.
func (c *Container) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	defer c.release()

	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.MinLen("password", in.Password, 6, v)
	validation.ConfirmMatch("confirmPassword", in.Password, in.ConfirmPassword, v)
	if !in.Role.Known() {
		v["role"] = "unknown_role"
	}
	if !v.Empty() {
		return nil, errors.New(v.Message())
	}

	if c.gw.Enabled() {
		raw, err := c.gw.Post(ctx, "/auth/register", in)
		if err != nil {
			return nil, fmt.Errorf("registration failed: %s", err)
		}
		return c.adoptRemoteSession(raw)
	}
	return c.mockRegister(in)
}

// Logout notifies the remote side on a best-effort basis, then
// unconditionally clears local and in-memory state. It never fails.
func (c *Container) Logout(ctx context.Context) {
	if c.gw.Enabled() {
		if _, err := c.gw.Post(ctx, "/auth/logout", nil); err != nil {
			log.Printf("session: remote logout failed (ignored): %v", err)
		}
	}
	c.clear()
}

// ProfileUpdate carries the editable profile fields. Nil pointers leave the
// field untouched.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Bio     *string `json:"bio,omitempty"`
}

// UpdateProfile mutates the signed-in user's profile. It requires an existing
// session and never invents one.
func (c *Container) UpdateProfile(ctx context.Context, up ProfileUpdate) (*models.User, error) {
	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()
	if cur == nil || cur.Token == "" {
		return nil, ErrNoActiveSession
	}

	if c.gw.Enabled() {
		raw, err := c.gw.Patch(ctx, "/auth/profile", up)
		if err != nil {
			return nil, fmt.Errorf("profile update failed: %s", err)
		}
		var user models.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("profile update failed: malformed response: %s", err)
		}
		c.commit(models.Session{Token: cur.Token, User: user})
		u := user
		return &u, nil
	}
	return c.mockUpdateProfile(cur, up)
}

// ChangePassword verifies the current password and stores the new one.
// Mismatched confirmation is rejected before any I/O.
func (c *Container) ChangePassword(ctx context.Context, current, next, confirm string) error {
	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()
	if cur == nil || cur.Token == "" {
		return ErrNoActiveSession
	}

	v := validation.Violations{}
	validation.MinLen("new", next, 6, v)
	validation.ConfirmMatch("confirm", next, confirm, v)
	if !v.Empty() {
		return errors.New(v.Message())
	}

	if c.gw.Enabled() {
		if _, err := c.gw.Post(ctx, "/auth/password", map[string]string{"current": current, "new": next}); err != nil {
			return fmt.Errorf("password change failed: %s", err)
		}
		return nil
	}
	return c.mockChangePassword(cur, current, next)
}

// adoptRemoteSession parses a {token,user} payload and commits it.
func (c *Container) adoptRemoteSession(raw json.RawMessage) (*models.User, error) {
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.Token == "" {
		return nil, errors.New("sign-in failed: malformed response from server")
	}
	c.commit(sess)
	u := sess.User
	return &u, nil
}

// commit stores the session atomically in memory and the local store, and
// registers the token with the gateway.
func (c *Container) commit(sess models.Session) {
	c.mu.Lock()
	s := sess
	c.current = &s
	c.state = Authenticated
	c.mu.Unlock()
	c.st.Save(sessionKey, sess)
	c.gw.SetAuthToken(sess.Token)
}

// clear drops the session everywhere and lands in Anonymous.
func (c *Container) clear() {
	c.mu.Lock()
	c.current = nil
	c.state = Anonymous
	c.mu.Unlock()
	c.st.Delete(sessionKey)
	c.gw.ClearAuthToken()
}

func (c *Container) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Container) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
