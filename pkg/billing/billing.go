// Package billing is the boundary to the external payments provider. The
// service never talks to the provider directly; subscription state on a
// studio is written only after a call through this interface succeeds.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CheckoutSession is a provider-hosted payment page for starting a
// subscription.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Invoice is a settled charge against a subscription.
type Invoice struct {
	ID      string    `json:"id"`
	Amount  int64     `json:"amount"`
	Created time.Time `json:"created"`
	URL     string    `json:"url"`
}

// Provider abstracts the payments backend.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, studioID uint, customerEmail string) (*CheckoutSession, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	ListInvoices(ctx context.Context, customerEmail string) ([]Invoice, error)
}

// Offline is the development provider: checkout sessions resolve to a local
// confirmation page and cancellation always succeeds.
type Offline struct {
	BaseURL string
}

func (p *Offline) CreateCheckoutSession(ctx context.Context, studioID uint, customerEmail string) (*CheckoutSession, error) {
	id := "cs_" + uuid.New().String()
	return &CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("%s/billing/checkout/%s?studio=%d", p.BaseURL, id, studioID),
	}, nil
}

func (p *Offline) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return nil
}

func (p *Offline) ListInvoices(ctx context.Context, customerEmail string) ([]Invoice, error) {
	return []Invoice{}, nil
}
