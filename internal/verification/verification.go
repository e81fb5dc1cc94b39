// Package verification implements the document-verification workflow client:
// owners and agents submit documents, admins review them. Mutations follow the
// marketplace pattern: optimistic local update, best-effort remote sync,
// advisory on failure. Offline mode keeps everything in the local store.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Chaturved5/estate-portal/internal/gateway"
	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
	"github.com/Chaturved5/estate-portal/internal/validation"
)

const requestsKey = "verification_requests"

// Container holds the verification request snapshot.
type Container struct {
	gw *gateway.Client
	st *store.Store

	mu         sync.RWMutex
	requests   []models.VerificationRequest
	advisories []string
}

func NewContainer(gw *gateway.Client, st *store.Store) *Container {
	return &Container{gw: gw, st: st}
}

// Hydrate loads the request list: remote when enabled, local otherwise.
// A remote failure degrades to the locally persisted data.
func (c *Container) Hydrate(ctx context.Context) {
	if c.gw.Enabled() {
		raw, err := c.gw.Get(ctx, "/api/verification/requests")
		if err == nil {
			var reqs []models.VerificationRequest
			if json.Unmarshal(raw, &reqs) == nil {
				c.mu.Lock()
				c.requests = reqs
				c.mu.Unlock()
				c.persist()
				return
			}
		}
		log.Printf("verification: remote hydrate failed, using local data: %v", err)
	}
	c.mu.Lock()
	c.requests = store.Load(c.st, requestsKey, []models.VerificationRequest{})
	c.mu.Unlock()
}

// SubmitInput is the payload for a new verification submission.
type SubmitInput struct {
	UserID       string `json:"userId"`
	DocumentType string `json:"documentType"`
	DocumentURL  string `json:"documentUrl"`
}

// Submit files a new verification request, optimistically pending.
func (c *Container) Submit(ctx context.Context, in SubmitInput) (models.VerificationRequest, error) {
	v := validation.Violations{}
	validation.Required("userId", in.UserID, v)
	validation.Required("documentType", in.DocumentType, v)
	validation.Required("documentUrl", in.DocumentURL, v)
	if !v.Empty() {
		return models.VerificationRequest{}, errors.New(v.Message())
	}

	opt := models.VerificationRequest{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		DocumentType: in.DocumentType,
		DocumentURL:  in.DocumentURL,
		Status:       models.VerificationPending,
		SubmittedAt:  time.Now().UTC(),
	}

	auth := c.sync(ctx, "POST", "/api/verification/requests", opt, "verification request kept locally; sync failed: %s")
	next := opt
	if auth != nil {
		next = *auth
	}

	c.upsert(opt.ID, next)
	return next, nil
}

// StatusFor returns the requests a user has filed, newest first.
func (c *Container) StatusFor(userID string) []models.VerificationRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []models.VerificationRequest{}
	for _, r := range c.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// Queue returns the admin review queue: every request not yet approved or
// rejected.
func (c *Container) Queue() []models.VerificationRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []models.VerificationRequest{}
	for _, r := range c.requests {
		if r.Status == models.VerificationPending || r.Status == models.VerificationUnderReview {
			out = append(out, r)
		}
	}
	return out
}

// Requests returns a copy of the full snapshot.
func (c *Container) Requests() []models.VerificationRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.VerificationRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

// Review decides a request. reviewer is the admin's user ID; status must be a
// known verification state.
func (c *Container) Review(ctx context.Context, id, status, note, reviewer string) (models.VerificationRequest, error) {
	switch status {
	case models.VerificationPending, models.VerificationUnderReview,
		models.VerificationApproved, models.VerificationRejected:
	default:
		return models.VerificationRequest{}, fmt.Errorf("unknown verification status %q", status)
	}

	c.mu.Lock()
	idx := -1
	for i := range c.requests {
		if c.requests[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return models.VerificationRequest{}, errors.New("verification request not found")
	}
	opt := c.requests[idx]
	opt.Status = status
	opt.Note = note
	opt.ReviewedBy = reviewer
	now := time.Now().UTC()
	opt.ReviewedAt = &now
	c.requests[idx] = opt
	c.mu.Unlock()

	body := map[string]string{"status": status, "note": note, "reviewedBy": reviewer}
	next := opt
	if auth := c.sync(ctx, "PATCH", "/api/admin/verification-requests/"+id, body, "review decision kept locally; sync failed: %s"); auth != nil {
		next = *auth
		c.upsert(id, next)
	} else {
		c.persist()
	}
	return next, nil
}

// Advisories returns accumulated sync warnings.
func (c *Container) Advisories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.advisories))
	copy(out, c.advisories)
	return out
}

func (c *Container) upsert(id string, next models.VerificationRequest) {
	c.mu.Lock()
	replaced := false
	for i := range c.requests {
		if c.requests[i].ID == id {
			c.requests[i] = next
			replaced = true
			break
		}
	}
	if !replaced {
		c.requests = append([]models.VerificationRequest{next}, c.requests...)
	}
	c.mu.Unlock()
	c.persist()
}

// persist snapshots element copies under the lock so in-place review edits
// cannot race the marshal.
func (c *Container) persist() {
	c.mu.RLock()
	reqs := append([]models.VerificationRequest(nil), c.requests...)
	c.mu.RUnlock()
	c.st.Save(requestsKey, reqs)
}

func (c *Container) sync(ctx context.Context, method, path string, body any, adviseFormat string) *models.VerificationRequest {
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
		msg := fmt.Sprintf(adviseFormat, err)
		log.Printf("verification: %s", msg)
		c.mu.Lock()
		c.advisories = append(c.advisories, msg)
		c.mu.Unlock()
		return nil
	}
	if raw == nil {
		return nil
	}
	var r models.VerificationRequest
	if err := json.Unmarshal(raw, &r); err != nil || r.ID == "" {
		return nil
	}
	return &r
}
