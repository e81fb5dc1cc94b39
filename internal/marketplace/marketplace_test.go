package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Chaturved5/estate-portal/internal/gateway"
	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
)

func newOffline(t *testing.T) *Container {
	t.Helper()
	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	c := NewContainer(gateway.New(""), st)
	c.Hydrate(context.Background())
	return c
}

func TestOfflineHydrateSeedsCatalog(t *testing.T) {
	c := newOffline(t)
	props := c.Properties()
	require.NotEmpty(t, props)
	require.Empty(t, c.Bookings())
	require.Empty(t, c.Payments())
}

func TestAddReviewRecomputesRating(t *testing.T) {
	c := newOffline(t)
	ctx := context.Background()
	p := c.Properties()[0]

	p1, err := c.AddReview(ctx, p.ID, ReviewInput{UserID: "u1", UserName: "A", Rating: 4, Comment: "good"})
	require.NoError(t, err)
	require.Equal(t, 4.0, p1.Rating)

	p2, err := c.AddReview(ctx, p.ID, ReviewInput{UserID: "u2", UserName: "B", Rating: 5, Comment: "great"})
	require.NoError(t, err)
	// mean(4,5) = 4.5
	require.Equal(t, 4.5, p2.Rating)
	// Newest review first.
	require.Equal(t, "u2", p2.Reviews[0].UserID)
	require.Len(t, p2.Reviews, 2)

	p3, err := c.AddReview(ctx, p.ID, ReviewInput{UserID: "u3", UserName: "C", Rating: 2})
	require.NoError(t, err)
	// mean(4,5,2) = 3.666... -> 3.7
	require.Equal(t, 3.7, p3.Rating)
}

func TestAddReviewRejectsBadRating(t *testing.T) {
	c := newOffline(t)
	p := c.Properties()[0]
	_, err := c.AddReview(context.Background(), p.ID, ReviewInput{UserID: "u1", Rating: 6})
	require.ErrorContains(t, err, "out_of_range")
	got, _ := c.GetPropertyByID(p.ID)
	require.Empty(t, got.Reviews)
}

func TestCreateBookingWithDepositScenario(t *testing.T) {
	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	c := NewContainer(gateway.New(""), st)
	c.Hydrate(context.Background())
	ctx := context.Background()

	prop, err := c.CreateProperty(ctx, PropertyInput{
		Title: "Test Flat", City: "Mumbai", Type: "apartment", Price: 45_000_000, Bedrooms: 2, OwnerID: "o1",
	})
	require.NoError(t, err)

	b, err := c.CreateBooking(ctx, BookingInput{
		PropertyID: prop.ID, UserID: "buyer-1", BookingType: models.BookingTypeRental,
		CollectDeposit: true,
	})
	require.NoError(t, err)

	// Default deposit: round(45,000,000 * 0.05) = 2,250,000.
	require.Equal(t, 2_250_000.0, b.Amount)
	require.Equal(t, models.BookingConfirmed, b.Status)
	require.NotNil(t, b.PaymentID)

	pays := c.Payments()
	require.Len(t, pays, 1)
	require.Equal(t, models.PaymentCaptured, pays[0].Status)
	require.Equal(t, *b.PaymentID, pays[0].ID)
	require.Equal(t, b.ID, pays[0].BookingID)
}

func TestBookingStatusTransitionsUnconstrained(t *testing.T) {
	c := newOffline(t)
	ctx := context.Background()
	p := c.Properties()[0]
	b, err := c.CreateBooking(ctx, BookingInput{PropertyID: p.ID, UserID: "u1", BookingType: models.BookingTypeVisit})
	require.NoError(t, err)
	require.Equal(t, models.BookingPending, b.Status)

	b, err = c.UpdateBookingStatus(ctx, b.ID, models.BookingCancelled)
	require.NoError(t, err)
	require.Equal(t, models.BookingCancelled, b.Status)

	// cancelled -> confirmed is permitted: no transition table exists.
	b, err = c.UpdateBookingStatus(ctx, b.ID, models.BookingConfirmed)
	require.NoError(t, err)
	require.Equal(t, models.BookingConfirmed, b.Status)
}

func TestConcurrentMutatorsAreSafe(t *testing.T) {
	c := newOffline(t)
	ctx := context.Background()
	p := c.Properties()[0]
	sold := models.PropertySold

	// In-place listing edits and review prepends run against the persist
	// serialization of the same collection.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := c.AddReview(ctx, p.ID, ReviewInput{
					UserID: fmt.Sprintf("u-%d-%d", n, j), Rating: 4,
				})
				require.NoError(t, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := c.UpdateProperty(ctx, p.ID, PropertyUpdate{Status: &sold})
				require.NoError(t, err)
			}
		}()
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := c.CreateProperty(ctx, PropertyInput{
					Title: fmt.Sprintf("Flat %d-%d", n, j), City: "Pune", Type: "apartment",
					Price: 10_000_000, OwnerID: "o1",
				})
				require.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	got, ok := c.GetPropertyByID(p.ID)
	require.True(t, ok)
	require.Len(t, got.Reviews, 40)
	require.Equal(t, 4.0, got.Rating)
	require.Equal(t, models.PropertySold, got.Status)
}

func TestRemoteFailureKeepsOptimisticAndAdvises(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("backend unavailable"))
	}))
	defer srv.Close()

	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	c := NewContainer(gateway.New(srv.URL), st)
	c.Hydrate(context.Background())

	p, err := c.CreateProperty(context.Background(), PropertyInput{
		Title: "Offline-ish Flat", City: "Pune", Type: "apartment", Price: 9_000_000, OwnerID: "o1",
	})
	require.NoError(t, err, "remote failure must not propagate")

	got, ok := c.GetPropertyByID(p.ID)
	require.True(t, ok, "optimistic record kept")
	require.Equal(t, "Offline-ish Flat", got.Title)

	adv := c.Advisories()
	require.Len(t, adv, 1)
	require.Contains(t, adv[0], "backend unavailable")

	c.ClearAdvisories()
	require.Empty(t, c.Advisories())
}

func TestRemoteSuccessAdoptsServerVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		// Server assigns its own ID and normalizes the title.
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"srv-42","title":"Server Flat","city":"Pune","type":"apartment","price":9000000}`))
	}))
	defer srv.Close()

	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	c := NewContainer(gateway.New(srv.URL), st)
	c.Hydrate(context.Background())

	p, err := c.CreateProperty(context.Background(), PropertyInput{
		Title: "client flat", City: "Pune", Type: "apartment", Price: 9_000_000, OwnerID: "o1",
	})
	require.NoError(t, err)
	require.Equal(t, "srv-42", p.ID, "server-assigned id supersedes the client one")

	// No duplicate left under the optimistic id.
	require.Len(t, c.Properties(), 1)
	require.Empty(t, c.Advisories())
}

func TestHydrateDiscardedAfterTeardown(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`[{"id":"late","title":"Late Flat","city":"Mumbai"}]`))
	}))
	defer srv.Close()

	st := store.NewWithFs(afero.NewMemMapFs(), "/state")
	c := NewContainer(gateway.New(srv.URL), st)

	done := make(chan struct{})
	go func() {
		c.Hydrate(context.Background())
		close(done)
	}()

	c.Close()
	close(release)
	<-done

	require.Empty(t, c.Properties(), "resolution after teardown must be discarded")
}

func TestCollectionsPersistAcrossRestart(t *testing.T) {
	fs := afero.NewMemMapFs()
	st := store.NewWithFs(fs, "/state")
	ctx := context.Background()

	c1 := NewContainer(gateway.New(""), st)
	c1.Hydrate(ctx)
	p, err := c1.CreateProperty(ctx, PropertyInput{Title: "Persisted Flat", City: "Delhi", Type: "apartment", Price: 20_000_000, OwnerID: "o1"})
	require.NoError(t, err)

	c2 := NewContainer(gateway.New(""), store.NewWithFs(fs, "/state"))
	c2.Hydrate(ctx)
	got, ok := c2.GetPropertyByID(p.ID)
	require.True(t, ok)
	require.Equal(t, "Persisted Flat", got.Title)
}
