// Package quotes hands a finalized yatra itinerary to the travel desk.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/yatra-planner/internal/catalog"
	"github.com/ukydev/yatra-planner/internal/db"
	"github.com/ukydev/yatra-planner/internal/metrics"
	"github.com/ukydev/yatra-planner/internal/models"
	"github.com/ukydev/yatra-planner/internal/planner"
)

// DefaultTopic is the MQTT topic quote events are published on.
const DefaultTopic = "yatra/quotes"

// AckMessage is returned to the pilgrim once a quote request is stored.
const AckMessage = "Thank you! Our yatra team will contact you shortly with a detailed quote."

// Publisher sends quote events to the travel desk.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Event is the message published for every stored quote request.
type Event struct {
	QuoteID      string    `json:"quoteId"`
	OwnerID      string    `json:"ownerId"`
	Destinations []string  `json:"destinations"`
	Persons      int       `json:"persons"`
	StartDate    string    `json:"startDate,omitempty"`
	TotalCost    float64   `json:"totalCost"`
	ContactName  string    `json:"contactName"`
	ContactPhone string    `json:"contactPhone"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// Service validates, prices and stores quote requests.
type Service struct {
	quotes    db.QuoteCollection
	catalog   catalog.Provider
	publisher Publisher
	topic     string
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTopic overrides DefaultTopic.
func WithTopic(topic string) Option {
	return func(s *Service) { s.topic = topic }
}

// WithMetrics counts submissions by outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a quote service. Itinerary destinations are priced from
// provider. publisher may be nil, in which case no events are sent.
func NewService(quotes db.QuoteCollection, provider catalog.Provider, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		quotes:    quotes,
		catalog:   provider,
		publisher: publisher,
		topic:     DefaultTopic,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks a quote request before it is priced.
func Validate(req models.QuoteRequest) error {
	if err := req.Contact.Validate(); err != nil {
		return err
	}
	if len(req.Itinerary) == 0 {
		return fmt.Errorf("%w: itinerary is empty", models.ErrInvalidQuote)
	}
	seen := make(map[string]bool, len(req.Itinerary))
	for i, item := range req.Itinerary {
		id := item.Destination.ID
		switch {
		case strings.TrimSpace(id) == "":
			return fmt.Errorf("%w: itinerary item %d has no destination", models.ErrInvalidQuote, i)
		case seen[id]:
			return fmt.Errorf("%w: destination %q appears more than once", models.ErrInvalidQuote, id)
		case item.Priority != "" && !item.Priority.Valid():
			return fmt.Errorf("%w: unknown priority %q", models.ErrInvalidQuote, item.Priority)
		case item.TravelMode != "" && !item.TravelMode.Valid():
			return fmt.Errorf("%w: unknown travel mode %q", models.ErrInvalidQuote, item.TravelMode)
		case item.VisitDate != "" && !models.IsISODate(item.VisitDate):
			return fmt.Errorf("%w: visit date %q is not YYYY-MM-DD", models.ErrInvalidQuote, item.VisitDate)
		}
		seen[id] = true
	}
	if err := req.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidQuote, err)
	}
	return nil
}

// Submit stores a quote request for ownerID and notifies the travel desk.
// Destinations are replaced by their catalog entries and the cost is
// recomputed from those; the client's figure is kept for reference only. A
// failed publish is logged and does not fail the request.
func (s *Service) Submit(ctx context.Context, ownerID string, req models.QuoteRequest) (models.QuoteAck, error) {
	if err := Validate(req); err != nil {
		s.metrics.Quote("invalid")
		return models.QuoteAck{}, err
	}
	itinerary, err := s.resolve(ctx, req.Itinerary)
	if err != nil {
		if errors.Is(err, models.ErrInvalidQuote) {
			s.metrics.Quote("invalid")
		}
		return models.QuoteAck{}, err
	}

	now := s.now()
	quote := models.Quote{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Itinerary:       planner.SortByPriority(itinerary),
		Settings:        req.Settings,
		ClientTotalCost: req.TotalCost,
		Breakdown:       planner.CalculateCosts(itinerary, req.Settings),
		Contact:         req.Contact,
		Status:          models.QuoteReceived,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	logger := log.WithFields(log.Fields{"quote_id": quote.ID, "owner_id": ownerID})
	if math.Abs(quote.Breakdown.TotalCost-req.TotalCost) > 0.5 {
		logger.WithFields(log.Fields{
			"client_total": req.TotalCost,
			"server_total": quote.Breakdown.TotalCost,
		}).Warn("Client quote total differs from recomputed cost")
	}

	if err := s.quotes.InsertQuote(ctx, quote); err != nil {
		s.metrics.Quote("store_failed")
		return models.QuoteAck{}, fmt.Errorf("store quote: %w", err)
	}
	s.metrics.Quote("stored")
	logger.WithField("destinations", len(quote.Itinerary)).Info("Quote request stored")

	s.publish(ctx, quote, logger)

	return models.QuoteAck{QuoteID: quote.ID, Message: AckMessage}, nil
}

// resolve swaps each item's destination for the catalog entry with its ID.
func (s *Service) resolve(ctx context.Context, items []models.PlanItem) ([]models.PlanItem, error) {
	out := make([]models.PlanItem, len(items))
	for i, item := range items {
		d, err := s.catalog.Destination(ctx, item.Destination.ID, "")
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown destination %q", models.ErrInvalidQuote, item.Destination.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve destination: %w", err)
		}
		item.Destination = d
		out[i] = item
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, q models.Quote, logger *log.Entry) {
	if s.publisher == nil {
		return
	}
	ids := make([]string, len(q.Itinerary))
	for i, item := range q.Itinerary {
		ids[i] = item.Destination.ID
	}
	payload, err := json.Marshal(Event{
		QuoteID:      q.ID,
		OwnerID:      q.OwnerID,
		Destinations: ids,
		Persons:      q.Settings.NumberOfPersons,
		StartDate:    q.Settings.StartDate,
		TotalCost:    q.Breakdown.TotalCost,
		ContactName:  q.Contact.Name,
		ContactPhone: q.Contact.Phone,
		SubmittedAt:  q.CreatedAt,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, s.topic, payload)
	}
	if err != nil {
		s.metrics.Quote("publish_failed")
		logger.WithError(err).Warn("Failed to publish quote event")
	}
}

// List returns ownerID's quote requests, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.Quote, error) {
	return s.quotes.FindQuotesByOwner(ctx, ownerID)
}

// Get returns one quote request.
func (s *Service) Get(ctx context.Context, id string) (*models.Quote, error) {
	return s.quotes.FindQuoteByID(ctx, id)
}

// ListByStatus returns quote requests in status for the travel desk, oldest
// first. An empty status lists every quote.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]models.Quote, error) {
	if status != "" && !models.IsValidQuoteStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidQuote, status)
	}
	return s.quotes.FindQuotesByStatus(ctx, status)
}

// UpdateStatus records the travel desk's answer to quote id. handledBy is
// the desk user's ID.
func (s *Service) UpdateStatus(ctx context.Context, id, handledBy string, u models.QuoteStatusUpdate) (*models.Quote, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	current, err := s.quotes.FindQuoteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionQuote(current.Status, u.Status) {
		return nil, fmt.Errorf("%w: %s to %s", models.ErrQuoteTransition, current.Status, u.Status)
	}

	q := *current
	from := q.Status
	q.Status = u.Status
	if u.Status == models.QuoteQuoted {
		q.QuotedCost = u.QuotedCost
	}
	q.HandledBy = handledBy
	q.UpdatedAt = s.now()

	err = s.quotes.UpdateQuoteStatus(ctx, q, from)
	if errors.Is(err, db.ErrNotFound) {
		// changed by someone else since it was read
		return nil, fmt.Errorf("%w: quote %q is no longer %s", models.ErrQuoteTransition, id, from)
	}
	if err != nil {
		return nil, fmt.Errorf("update quote status: %w", err)
	}
	s.metrics.Quote(u.Status)
	log.WithFields(log.Fields{"quote_id": id, "status": u.Status, "handled_by": handledBy}).Info("Quote status updated")
	return &q, nil
}
