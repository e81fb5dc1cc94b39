package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledClient(t *testing.T) {
	c := New("")
	require.False(t, c.Enabled())
	_, err := c.Get(context.Background(), "/properties")
	require.ErrorIs(t, err, ErrDisabled)
}

func TestBearerTokenAttachedUntilCleared(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	_, err := c.Get(ctx, "/a")
	require.NoError(t, err)

	c.SetAuthToken("tok-123")
	_, err = c.Get(ctx, "/b")
	require.NoError(t, err)

	c.ClearAuthToken()
	_, err = c.Get(ctx, "/c")
	require.NoError(t, err)

	require.Equal(t, []string{"", "Bearer tok-123", ""}, seen)
}

func TestNoContentResolvesToNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	raw, err := New(srv.URL).Delete(context.Background(), "/bookings/b1")
	require.NoError(t, err)
	require.Nil(t, raw)
}

func TestNonOKBecomesRequestErrorWithBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid credentials"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Post(context.Background(), "/auth/login", map[string]string{"email": "x"})
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, http.StatusUnauthorized, reqErr.Status)
	require.Equal(t, "invalid credentials", err.Error())
}

func TestPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "mumbai", body["city"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	raw, err := New(srv.URL).Post(context.Background(), "/properties", map[string]string{"city": "mumbai"})
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(raw))
}
