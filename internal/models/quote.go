package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Contact is how the travel desk reaches the pilgrim about a quote.
type Contact struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}

// QuoteRequest is a finalized itinerary handed off for a price quote.
type QuoteRequest struct {
	Itinerary       []PlanItem   `json:"itinerary"`
	Settings        PlanSettings `json:"settings"`
	TotalCost       float64      `json:"totalCost"`
	CarbonFootprint float64      `json:"carbonFootprint"`
	Contact         Contact      `json:"contact"`
	ClearPlan       bool         `json:"clearPlan,omitempty"`
}

// Quote is a stored quote request.
type Quote struct {
	ID              string        `json:"id" bson:"_id"`
	OwnerID         string        `json:"owner_id" bson:"owner_id"`
	Itinerary       []PlanItem    `json:"itinerary" bson:"itinerary"`
	Settings        PlanSettings  `json:"settings" bson:"settings"`
	ClientTotalCost float64       `json:"client_total_cost" bson:"client_total_cost"` // as submitted
	Breakdown       CostBreakdown `json:"breakdown" bson:"breakdown"`                 // recomputed server side
	Contact         Contact       `json:"contact" bson:"contact"`
	Status          string        `json:"status" bson:"status"`
	QuotedCost      float64       `json:"quoted_cost,omitempty" bson:"quoted_cost,omitempty"`
	HandledBy       string        `json:"handled_by,omitempty" bson:"handled_by,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

// QuoteAck acknowledges a quote submission.
type QuoteAck struct {
	QuoteID string `json:"quoteId"`
	Message string `json:"message"`
}

// Quote statuses.
const (
	QuoteReceived = "received"
	QuoteQuoted   = "quoted"
	QuoteClosed   = "closed"
)

// ErrInvalidQuote marks a quote request that fails validation.
var ErrInvalidQuote = errors.New("invalid quote request")

// ErrQuoteTransition marks a status change the quote's current status does
// not allow.
var ErrQuoteTransition = errors.New("quote status change not allowed")

// IsValidQuoteStatus reports whether status is a known quote status.
func IsValidQuoteStatus(status string) bool {
	switch status {
	case QuoteReceived, QuoteQuoted, QuoteClosed:
		return true
	default:
		return false
	}
}

// CanTransitionQuote reports whether a quote may move from one status to
// another. Received quotes are quoted or closed, quoted ones only closed.
func CanTransitionQuote(from, to string) bool {
	switch from {
	case QuoteReceived:
		return to == QuoteQuoted || to == QuoteClosed
	case QuoteQuoted:
		return to == QuoteClosed
	default:
		return false
	}
}

// QuoteStatusUpdate is the travel desk's answer to a quote request.
type QuoteStatusUpdate struct {
	Status     string  `json:"status"`
	QuotedCost float64 `json:"quotedCost,omitempty"`
}

// Validate requires a price when quoting.
func (u QuoteStatusUpdate) Validate() error {
	switch u.Status {
	case QuoteQuoted:
		if u.QuotedCost <= 0 {
			return fmt.Errorf("%w: quotedCost must be positive", ErrInvalidQuote)
		}
	case QuoteClosed:
		if u.QuotedCost != 0 {
			return fmt.Errorf("%w: quotedCost is only set when quoting", ErrInvalidQuote)
		}
	default:
		return fmt.Errorf("%w: status %q cannot be set", ErrInvalidQuote, u.Status)
	}
	return nil
}

// IsValidEmail reports whether email is a bare address such as a@b.in.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

// IsValidPhone accepts 10 to 15 digits with optional +, spaces, dashes and
// parentheses.
func IsValidPhone(phone string) bool {
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 10 && digits <= 15
}

// Validate checks that the contact can be reached.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: contact name is required", ErrInvalidQuote)
	}
	if !IsValidPhone(c.Phone) {
		return fmt.Errorf("%w: contact phone %q is not a valid number", ErrInvalidQuote, c.Phone)
	}
	if c.Email != "" && !IsValidEmail(c.Email) {
		return fmt.Errorf("%w: contact email %q is not valid", ErrInvalidQuote, c.Email)
	}
	return nil
}
