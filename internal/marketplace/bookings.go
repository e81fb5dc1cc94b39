package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/validation"
)

// BookingInput is the payload for creating a booking. When CollectDeposit is
// set and Amount is zero, the deposit defaults to round(price * 5%).
type BookingInput struct {
	PropertyID     string    `json:"propertyId"`
	UserID         string    `json:"userId"`
	BookingType    string    `json:"bookingType"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Amount         float64   `json:"amount,omitempty"`
	CollectDeposit bool      `json:"-"`
	PaymentMethod  string    `json:"-"`
}

// DepositFor is the default deposit for a listing price.
func DepositFor(price float64) float64 {
	return math.Round(price * models.DepositRate)
}

// CreateBooking adds a booking optimistically. Capturing the deposit, when
// requested, is a second independent mutation: if it fails remotely the
// booking is not rolled back. This two-step, non-atomic flow is deliberate.
func (c *Container) CreateBooking(ctx context.Context, in BookingInput) (models.Booking, error) {
	v := validation.Violations{}
	validation.Required("propertyId", in.PropertyID, v)
	validation.Required("userId", in.UserID, v)
	if in.BookingType != models.BookingTypeRental && in.BookingType != models.BookingTypeVisit {
		v["bookingType"] = "must_be_rental_or_visit"
	}
	if !v.Empty() {
		return models.Booking{}, errors.New(v.Message())
	}
	prop, ok := c.GetPropertyByID(in.PropertyID)
	if !ok {
		return models.Booking{}, errors.New("listing not found")
	}

	amount := in.Amount
	if in.CollectDeposit && amount == 0 {
		amount = DepositFor(prop.Price)
	}

	now := time.Now().UTC()
	opt := models.Booking{
		ID:          uuid.NewString(),
		PropertyID:  in.PropertyID,
		UserID:      in.UserID,
		Status:      models.BookingPending,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Amount:      amount,
		BookingType: in.BookingType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	auth := c.syncBooking(ctx, "POST", "/bookings", opt, "booking saved locally; sync failed: %s")
	next := reconcile(opt, auth)

	c.mu.Lock()
	c.bookings = upsert(c.bookings, opt.ID, next, bookingKey)
	c.mu.Unlock()
	c.persist()

	if in.CollectDeposit {
		// Second, independent step. A remote failure here leaves the
		// booking in place with the payment kept optimistic.
		return c.CaptureDeposit(ctx, next.ID, amount, in.PaymentMethod)
	}
	return next, nil
}

// CaptureDeposit records a captured payment against the booking and moves it
// to confirmed with the payment attached.
func (c *Container) CaptureDeposit(ctx context.Context, bookingID string, amount float64, method string) (models.Booking, error) {
	c.mu.Lock()
	idx := indexOf(c.bookings, bookingID, bookingKey)
	if idx < 0 {
		c.mu.Unlock()
		return models.Booking{}, errors.New("booking not found")
	}
	if method == "" {
		method = "upi"
	}
	pay := models.Payment{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Amount:    amount,
		Method:    method,
		Status:    models.PaymentCaptured,
		CreatedAt: time.Now().UTC(),
	}
	c.payments = upsert(c.payments, pay.ID, pay, paymentKey)
	booking := c.bookings[idx]
	booking.Status = models.BookingConfirmed
	pid := pay.ID
	booking.PaymentID = &pid
	booking.UpdatedAt = time.Now().UTC()
	c.bookings[idx] = booking
	c.mu.Unlock()

	if authPay := c.syncPayment(ctx, pay); authPay != nil {
		c.mu.Lock()
		c.payments = upsert(c.payments, pay.ID, *authPay, paymentKey)
		if i := indexOf(c.bookings, bookingID, bookingKey); i >= 0 {
			id := authPay.ID
			c.bookings[i].PaymentID = &id
			booking = c.bookings[i]
		}
		c.mu.Unlock()
	}
	next := booking
	if authBooking := c.syncBooking(ctx, "PATCH", "/bookings/"+bookingID, map[string]any{
		"status":    models.BookingConfirmed,
		"paymentId": *booking.PaymentID,
	}, "deposit captured locally; booking sync failed: %s"); authBooking != nil {
		next = reconcile(booking, authBooking)
		c.mu.Lock()
		c.bookings = upsert(c.bookings, bookingID, next, bookingKey)
		c.mu.Unlock()
	}
	c.persist()
	return next, nil
}

// UpdateBookingStatus sets the booking status directly. Transitions are
// unconstrained: any status may overwrite any other (preserved behavior; see
// DESIGN.md).
func (c *Container) UpdateBookingStatus(ctx context.Context, id, status string) (models.Booking, error) {
	c.mu.Lock()
	idx := indexOf(c.bookings, id, bookingKey)
	if idx < 0 {
		c.mu.Unlock()
		return models.Booking{}, errors.New("booking not found")
	}
	opt := c.bookings[idx]
	opt.Status = status
	opt.UpdatedAt = time.Now().UTC()
	c.bookings[idx] = opt
	c.mu.Unlock()

	next := opt
	if auth := c.syncBooking(ctx, "PATCH", "/bookings/"+id, map[string]string{"status": status}, "booking status kept locally; sync failed: %s"); auth != nil {
		next = reconcile(opt, auth)
		c.mu.Lock()
		c.bookings = upsert(c.bookings, id, next, bookingKey)
		c.mu.Unlock()
	}
	c.persist()
	return next, nil
}

func (c *Container) syncBooking(ctx context.Context, method, path string, body any, adviseFormat string) *models.Booking {
	if !c.gw.Enabled() {
		return nil
	}
	var raw json.RawMessage
	var err error
	switch method {
	case "POST":
		raw, err = c.gw.Post(ctx, path, body)
	case "PATCH":
		raw, err = c.gw.Patch(ctx, path, body)
	}
	if err != nil {
		c.advise(adviseFormat, err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var b models.Booking
	if err := json.Unmarshal(raw, &b); err != nil || b.ID == "" {
		return nil
	}
	return &b
}

func bookingKey(b models.Booking) string { return b.ID }
