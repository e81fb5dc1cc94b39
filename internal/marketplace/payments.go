package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Chaturved5/estate-portal/internal/models"
)

// PaymentUpdate carries the editable payment fields used by admin/owner
// edits. Nil pointers leave the field untouched.
type PaymentUpdate struct {
	Status *string  `json:"status,omitempty"`
	Method *string  `json:"method,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
}

// UpdatePayment applies a partial edit optimistically.
func (c *Container) UpdatePayment(ctx context.Context, id string, up PaymentUpdate) (models.Payment, error) {
	c.mu.Lock()
	idx := indexOf(c.payments, id, paymentKey)
	if idx < 0 {
		c.mu.Unlock()
		return models.Payment{}, errors.New("payment not found")
	}
	opt := c.payments[idx]
	if up.Status != nil {
		opt.Status = *up.Status
	}
	if up.Method != nil {
		opt.Method = *up.Method
	}
	if up.Amount != nil {
		opt.Amount = *up.Amount
	}
	opt.UpdatedAt = time.Now().UTC()
	c.payments[idx] = opt
	c.mu.Unlock()

	var auth *models.Payment
	if c.gw.Enabled() {
		raw, err := c.gw.Patch(ctx, "/payments/"+id, up)
		if err != nil {
			c.advise("payment edit kept locally; sync failed: %s", err)
		} else if raw != nil {
			var p models.Payment
			if json.Unmarshal(raw, &p) == nil && p.ID != "" {
				auth = &p
			}
		}
	}
	next := opt
	if auth != nil {
		next = reconcile(opt, auth)
		c.mu.Lock()
		c.payments = upsert(c.payments, id, next, paymentKey)
		c.mu.Unlock()
	}
	c.persist()
	return next, nil
}

// syncPayment posts a new payment to the backend. Nil means keep the
// optimistic record.
func (c *Container) syncPayment(ctx context.Context, pay models.Payment) *models.Payment {
	if !c.gw.Enabled() {
		return nil
	}
	raw, err := c.gw.Post(ctx, "/payments", pay)
	if err != nil {
		c.advise("payment captured locally; sync failed: %s", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var p models.Payment
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return nil
	}
	return &p
}

func paymentKey(p models.Payment) string { return p.ID }
