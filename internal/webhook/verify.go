package webhook

import (
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
	svix "github.com/svix/svix-webhooks/go"
)

// ClerkVerifier checks Svix signatures on Clerk deliveries.
type ClerkVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// StripeVerifier checks the Stripe-Signature header and decodes the event.
type StripeVerifier interface {
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

// NewClerkVerifier builds a verifier from a "whsec_..." signing secret.
func NewClerkVerifier(secret string) (ClerkVerifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid clerk webhook secret: %w", err)
	}
	return wh, nil
}

type stripeVerifier struct {
	secret string
}

// NewStripeVerifier builds a verifier for the endpoint's signing secret.
func NewStripeVerifier(secret string) StripeVerifier {
	return &stripeVerifier{secret: secret}
}

// ConstructEvent verifies the signature and timestamp tolerance. The endpoint
// may be pinned to a different API version than the library, so the version
// check is skipped; only fields stable across versions are read.
func (v *stripeVerifier) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	return stripewebhook.ConstructEventWithOptions(payload, signature, v.secret, stripewebhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
