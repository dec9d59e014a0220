package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/yatra-planner/internal/db"
	"github.com/ukydev/yatra-planner/internal/metrics"
	"github.com/ukydev/yatra-planner/internal/middleware"
	"github.com/ukydev/yatra-planner/internal/models"
	"github.com/ukydev/yatra-planner/internal/notify"
	"github.com/ukydev/yatra-planner/internal/planner"
	"github.com/ukydev/yatra-planner/internal/quotes"
)

// QuoteHandler accepts itineraries for a price quote.
type QuoteHandler struct {
	service  *quotes.Service
	sessions *planner.Sessions
	metrics  *metrics.Metrics
}

// NewQuoteHandler creates a quote handler. sessions is used to clear the
// plan when a submission asks for it and may be nil.
func NewQuoteHandler(service *quotes.Service, sessions *planner.Sessions, m *metrics.Metrics) *QuoteHandler {
	return &QuoteHandler{service: service, sessions: sessions, metrics: m}
}

// QuoteResponse is the acknowledgement plus any warnings.
type QuoteResponse struct {
	models.QuoteAck
	Warnings []string `json:"warnings"`
}

// Submit stores a quote request and hands it to the travel desk.
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req models.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ack, err := h.service.Submit(r.Context(), owner, req)
	if errors.Is(err, models.ErrInvalidQuote) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.WithError(err).WithField("owner_id", owner).Error("Failed to submit quote")
		http.Error(w, "Failed to submit quote", http.StatusInternalServerError)
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	if req.ClearPlan && h.sessions != nil {
		err := h.sessions.With(ctx, owner, func(s *planner.Store) error {
			s.Clear(ctx)
			return nil
		})
		if err != nil {
			log.WithError(err).WithField("owner_id", owner).Warn("Failed to clear plan after quote")
		} else {
			h.metrics.Mutation("clear")
		}
	}

	writeJSON(w, http.StatusCreated, QuoteResponse{QuoteAck: ack, Warnings: collector.Warnings()})
}

// List returns the caller's quote requests, newest first.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	list, err := h.service.List(r.Context(), owner)
	if err != nil {
		log.WithError(err).WithField("owner_id", owner).Error("Failed to list quotes")
		http.Error(w, "Failed to list quotes", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Quote{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get returns one quote request. Pilgrims only see their own; the travel
// desk sees every quote.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	id := param(r, "id")
	q, err := h.service.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Quote not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.WithError(err).WithField("quote_id", id).Error("Failed to load quote")
		http.Error(w, "Failed to load quote", http.StatusInternalServerError)
		return
	}
	desk := (&models.User{Role: claims.Role}).HasPermission("view_quotes")
	if q.OwnerID != claims.UserID && !desk {
		http.Error(w, "Quote not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Queue lists quote requests for the travel desk, filtered by ?status=.
func (h *QuoteHandler) Queue(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if errors.Is(err, models.ErrInvalidQuote) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to list quote queue")
		http.Error(w, "Failed to list quotes", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Quote{}
	}
	writeJSON(w, http.StatusOK, list)
}

// UpdateStatus quotes a price for, or closes, a quote request.
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	handler, ok := ownerID(w, r)
	if !ok {
		return
	}
	var u models.QuoteStatusUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := param(r, "id")
	q, err := h.service.UpdateStatus(r.Context(), id, handler, u)
	switch {
	case errors.Is(err, models.ErrInvalidQuote):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, models.ErrQuoteTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "Quote not found", http.StatusNotFound)
		return
	case err != nil:
		log.WithError(err).WithField("quote_id", id).Error("Failed to update quote status")
		http.Error(w, "Failed to update quote", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
