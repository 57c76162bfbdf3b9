// Package webhook receives the auth provider (Clerk) and payment processor
// (Stripe) callbacks. Both deliveries are signature-verified against the exact
// request bytes before anything is persisted.
package webhook

import (
	"encoding/json"
	"time"

	"lms_backend/platform/phone"
	"lms_backend/platform/sanitize"
)

// Providers, used as the event-store namespace and in logs.
const (
	ProviderClerk  = "clerk"
	ProviderStripe = "stripe"
)

// Purchase statuses written by payment events.
const (
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

// Event is a verified delivery recorded for deduplication and audit.
type Event struct {
	Provider   string
	ID         string
	Type       string
	Payload    []byte
	ReceivedAt time.Time
}

// clerkEnvelope is the outer shape of every Clerk webhook.
type clerkEnvelope struct {
	Type string          `json:"type" validate:"required"`
	Data json.RawMessage `json:"data" validate:"required"`
}

type clerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type clerkPhoneNumber struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
}

// clerkUser is the subset of the Clerk user object mirrored into the users collection.
type clerkUser struct {
	ID                    string              `json:"id" validate:"required"`
	FirstName             string              `json:"first_name"`
	LastName              string              `json:"last_name"`
	ImageURL              string              `json:"image_url"`
	PrimaryEmailAddressID string              `json:"primary_email_address_id"`
	EmailAddresses        []clerkEmailAddress `json:"email_addresses"`
	PrimaryPhoneNumberID  string              `json:"primary_phone_number_id"`
	PhoneNumbers          []clerkPhoneNumber  `json:"phone_numbers"`
}

// User is the mirrored user document.
type User struct {
	ID       string
	Email    string
	Name     string
	ImageURL string
	Phone    string
}

func (u clerkUser) toUser() User {
	return User{
		ID:       u.ID,
		Email:    u.primaryEmail(),
		Name:     sanitize.Text(u.FirstName + " " + u.LastName),
		ImageURL: u.ImageURL,
		Phone:    u.primaryPhone(),
	}
}

// primaryEmail prefers the address Clerk marks as primary, else the first one.
func (u clerkUser) primaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID != "" && e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// primaryPhone returns the primary number in E.164, or "" when it does not parse.
func (u clerkUser) primaryPhone() string {
	raw := ""
	for _, p := range u.PhoneNumbers {
		if p.ID != "" && p.ID == u.PrimaryPhoneNumberID {
			raw = p.PhoneNumber
			break
		}
	}
	if raw == "" && len(u.PhoneNumbers) > 0 {
		raw = u.PhoneNumbers[0].PhoneNumber
	}
	if raw == "" {
		return ""
	}
	e164, err := phone.ToE164(raw, phone.UnknownRegion)
	if err != nil {
		return ""
	}
	return e164
}

// clerkDeleted is the payload of user.deleted.
type clerkDeleted struct {
	ID string `json:"id" validate:"required"`
}
