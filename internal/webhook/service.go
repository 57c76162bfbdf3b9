package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms_backend/platform/apperr"
	"lms_backend/platform/logger"
	"lms_backend/platform/validator"

	"github.com/stripe/stripe-go/v82"
)

const (
	clerkUserCreated = "user.created"
	clerkUserUpdated = "user.updated"
	clerkUserDeleted = "user.deleted"

	stripeCheckoutCompleted          stripe.EventType = "checkout.session.completed"
	stripeCheckoutExpired            stripe.EventType = "checkout.session.expired"
	stripeCheckoutAsyncPaymentFailed stripe.EventType = "checkout.session.async_payment_failed"

	purchaseIDMetadataKey = "purchaseId"
)

// EventStore remembers processed deliveries so provider retries are not re-applied.
type EventStore interface {
	HasEvent(ctx context.Context, provider, id string) (bool, error)
	RecordEvent(ctx context.Context, evt Event) error
}

// UserStore mirrors auth-provider users.
type UserStore interface {
	UpsertUser(ctx context.Context, user User) error
	DeleteUser(ctx context.Context, id string) error
}

// PurchaseStore updates purchases referenced by payment events.
type PurchaseStore interface {
	SetPurchaseStatus(ctx context.Context, purchaseID, status string) (bool, error)
}

// Store is everything the service persists; the Mongo repository satisfies it.
type Store interface {
	EventStore
	UserStore
	PurchaseStore
}

// Service applies verified webhook events.
type Service struct {
	store Store
	val   *validator.Validator
	log   *logger.Logger
	now   func() time.Time
}

// NewService creates a new webhook service.
func NewService(store Store, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{store: store, val: val, log: log, now: time.Now}
}

// ProcessClerkEvent applies a verified Clerk delivery identified by its Svix message ID.
// Returns false when the delivery was already processed.
func (s *Service) ProcessClerkEvent(ctx context.Context, messageID string, payload []byte) (bool, error) {
	var env clerkEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return false, apperr.BadRequest("invalid clerk event").WithOp("webhook.clerk")
	}
	if err := s.val.Struct(env); err != nil {
		return false, apperr.Validation("invalid clerk event").WithDetails(validator.FieldErrors(err))
	}

	seen, err := s.store.HasEvent(ctx, ProviderClerk, messageID)
	if err != nil {
		return false, fmt.Errorf("check clerk event %s: %w", messageID, err)
	}
	if seen {
		return false, nil
	}

	switch env.Type {
	case clerkUserCreated, clerkUserUpdated:
		var u clerkUser
		if err := s.decode(env.Data, &u); err != nil {
			return false, err
		}
		if err := s.store.UpsertUser(ctx, u.toUser()); err != nil {
			return false, fmt.Errorf("upsert user %s: %w", u.ID, err)
		}
	case clerkUserDeleted:
		var d clerkDeleted
		if err := s.decode(env.Data, &d); err != nil {
			return false, err
		}
		if err := s.store.DeleteUser(ctx, d.ID); err != nil {
			return false, fmt.Errorf("delete user %s: %w", d.ID, err)
		}
	default:
		s.log.Debug("ignoring clerk event", "type", env.Type)
	}

	if err := s.record(ctx, ProviderClerk, messageID, env.Type, payload); err != nil {
		return false, err
	}
	s.log.WebhookEvent(ProviderClerk, env.Type, messageID)
	return true, nil
}

// ProcessStripeEvent applies a verified Stripe event.
// Returns false when the event was already processed.
func (s *Service) ProcessStripeEvent(ctx context.Context, event stripe.Event, payload []byte) (bool, error) {
	if event.ID == "" {
		return false, apperr.BadRequest("stripe event has no id").WithOp("webhook.stripe")
	}

	seen, err := s.store.HasEvent(ctx, ProviderStripe, event.ID)
	if err != nil {
		return false, fmt.Errorf("check stripe event %s: %w", event.ID, err)
	}
	if seen {
		return false, nil
	}

	switch event.Type {
	case stripeCheckoutCompleted:
		if err := s.applyCheckout(ctx, event, PurchaseStatusCompleted); err != nil {
			return false, err
		}
	case stripeCheckoutExpired, stripeCheckoutAsyncPaymentFailed:
		if err := s.applyCheckout(ctx, event, PurchaseStatusFailed); err != nil {
			return false, err
		}
	default:
		s.log.Debug("ignoring stripe event", "type", string(event.Type))
	}

	if err := s.record(ctx, ProviderStripe, event.ID, string(event.Type), payload); err != nil {
		return false, err
	}
	s.log.WebhookEvent(ProviderStripe, string(event.Type), event.ID)
	return true, nil
}

func (s *Service) applyCheckout(ctx context.Context, event stripe.Event, status string) error {
	if event.Data == nil {
		return apperr.BadRequest("stripe event has no data").WithOp("webhook.stripe")
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return apperr.BadRequest("invalid checkout session").WithOp("webhook.stripe")
	}

	purchaseID := session.Metadata[purchaseIDMetadataKey]
	if purchaseID == "" {
		s.log.Warn("checkout session without purchase reference", "session_id", session.ID, "event_id", event.ID)
		return nil
	}

	matched, err := s.store.SetPurchaseStatus(ctx, purchaseID, status)
	if err != nil {
		return fmt.Errorf("set purchase %s %s: %w", purchaseID, status, err)
	}
	if !matched {
		s.log.Warn("purchase referenced by checkout session not found", "purchase_id", purchaseID, "event_id", event.ID)
	}
	return nil
}

func (s *Service) decode(data json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return apperr.BadRequest("invalid clerk event data").WithOp("webhook.clerk")
	}
	if err := s.val.Struct(dst); err != nil {
		return apperr.Validation("invalid clerk event data").WithDetails(validator.FieldErrors(err))
	}
	return nil
}

func (s *Service) record(ctx context.Context, provider, id, eventType string, payload []byte) error {
	err := s.store.RecordEvent(ctx, Event{
		Provider:   provider,
		ID:         id,
		Type:       eventType,
		Payload:    payload,
		ReceivedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("record %s event %s: %w", provider, id, err)
	}
	return nil
}
