package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Chaturved5/estate-portal/internal/gateway"
	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
)

func newOfflineContainer() (*Container, *store.Store) {
	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	return NewContainer(gateway.New(""), st), st
}

func TestOfflineLoginAndRehydrate(t *testing.T) {
	c, st := newOfflineContainer()
	ctx := context.Background()

	u, err := c.Login(ctx, "buyer@estateportal.in", "portal123")
	require.NoError(t, err)
	require.Equal(t, models.RoleBuyer, u.Role)
	require.Equal(t, Authenticated, c.State())
	require.NotEmpty(t, c.Token())

	// A fresh container over the same store rehydrates by token lookup.
	c2 := NewContainer(gateway.New(""), st)
	c2.Hydrate(ctx)
	require.Equal(t, Authenticated, c2.State())
	require.Equal(t, u.ID, c2.User().ID)
}

func TestOfflineLoginBadPassword(t *testing.T) {
	c, _ := newOfflineContainer()
	_, err := c.Login(context.Background(), "buyer@estateportal.in", "wrong")
	require.ErrorContains(t, err, "invalid credentials")
	require.Equal(t, Anonymous, c.State())
}

func TestRegisterValidationBeforeIO(t *testing.T) {
	c, st := newOfflineContainer()
	_, err := c.Register(context.Background(), RegisterInput{
		Name: "X", Email: "x@y.z", Password: "secret1", ConfirmPassword: "different",
		Role: models.RoleBuyer,
	})
	require.ErrorContains(t, err, "confirmation_mismatch")
	// Nothing persisted: the mock table was never touched.
	require.Empty(t, store.Load(st, mockUsersKey, []mockUser(nil)))
}

func TestRegisterUnknownRoleRejected(t *testing.T) {
	c, _ := newOfflineContainer()
	_, err := c.Register(context.Background(), RegisterInput{
		Name: "X", Email: "x@y.z", Password: "secret1", ConfirmPassword: "secret1",
		Role: "landlord",
	})
	require.ErrorContains(t, err, "unknown_role")
}

func TestHydrateWhoamiFailureLandsAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("token expired"))
	}))
	defer srv.Close()

	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	st.Save("session", models.Session{Token: "stale", User: models.User{ID: "u1", Role: models.RoleBuyer}})

	c := NewContainer(gateway.New(srv.URL), st)
	c.Hydrate(context.Background())

	require.Equal(t, Anonymous, c.State())
	require.Nil(t, c.User())
	// No stale session left in storage either.
	require.Empty(t, store.Load(st, "session", models.Session{}).Token)
}

func TestHydrateWhoamiResponseIsNewTruth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer live-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"u1","name":"Fresh Name","email":"o@x.in","role":"owner"}`))
	}))
	defer srv.Close()

	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	st.Save("session", models.Session{Token: "live-token", User: models.User{ID: "u1", Name: "Cached Name", Role: models.RoleOwner}})

	c := NewContainer(gateway.New(srv.URL), st)
	c.Hydrate(context.Background())

	require.Equal(t, Authenticated, c.State())
	require.Equal(t, "Fresh Name", c.User().Name)
}

func TestRemoteLoginSurfacesBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid credentials"))
	}))
	defer srv.Close()

	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	c := NewContainer(gateway.New(srv.URL), st)
	_, err := c.Login(context.Background(), "a@b.c", "nope")
	require.ErrorContains(t, err, "invalid credentials")
}

func TestLoginBusyRejected(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"token":"t1","user":{"id":"u1","role":"buyer"}}`))
	}))
	defer srv.Close()

	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	c := NewContainer(gateway.New(srv.URL), st)

	done := make(chan error, 1)
	go func() {
		_, err := c.Login(context.Background(), "a@b.c", "pw")
		done <- err
	}()

	require.Eventually(t, c.Busy, time.Second, 5*time.Millisecond)
	_, err := c.Login(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	require.False(t, c.Busy())
}

func TestLogoutNeverFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
			return
		}
		w.Write([]byte(`{"token":"t1","user":{"id":"u1","role":"buyer"}}`))
	}))
	defer srv.Close()

	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	c := NewContainer(gateway.New(srv.URL), st)
	_, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	c.Logout(context.Background())
	require.Equal(t, Anonymous, c.State())
	require.Empty(t, store.Load(st, "session", models.Session{}).Token)
}

func TestProfileOpsRequireSession(t *testing.T) {
	c, _ := newOfflineContainer()
	name := "New Name"
	_, err := c.UpdateProfile(context.Background(), ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, ErrNoActiveSession)

	err = c.ChangePassword(context.Background(), "old", "newpass1", "newpass1")
	require.ErrorIs(t, err, ErrNoActiveSession)
}

func TestOfflineChangePassword(t *testing.T) {
	c, _ := newOfflineContainer()
	ctx := context.Background()
	_, err := c.Login(ctx, "owner@estateportal.in", "portal123")
	require.NoError(t, err)

	require.ErrorContains(t, c.ChangePassword(ctx, "portal123", "short", "short"), "too_short")
	require.ErrorContains(t, c.ChangePassword(ctx, "wrong", "newpass1", "newpass1"), "current password")
	require.NoError(t, c.ChangePassword(ctx, "portal123", "newpass1", "newpass1"))

	c.Logout(ctx)
	_, err = c.Login(ctx, "owner@estateportal.in", "newpass1")
	require.NoError(t, err)
}
