package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/yatra-planner/internal/catalog"
	"github.com/ukydev/yatra-planner/internal/export"
	"github.com/ukydev/yatra-planner/internal/metrics"
	"github.com/ukydev/yatra-planner/internal/models"
	"github.com/ukydev/yatra-planner/internal/notify"
	"github.com/ukydev/yatra-planner/internal/planner"
)

// PlanHandler serves the authenticated user's yatra plan.
type PlanHandler struct {
	sessions *planner.Sessions
	catalog  catalog.Provider
	metrics  *metrics.Metrics
}

// NewPlanHandler creates a plan handler. The sessions should be opened with
// notify.ContextNotifier so that save failures reach the response.
func NewPlanHandler(sessions *planner.Sessions, provider catalog.Provider, m *metrics.Metrics) *PlanHandler {
	return &PlanHandler{sessions: sessions, catalog: provider, metrics: m}
}

// PlanResponse is the full planner view returned by every plan call.
// Warnings lists notices raised while handling the request, such as a plan
// that could not be saved.
type PlanResponse struct {
	planner.Summary
	InPlan   *bool    `json:"inPlan,omitempty"`
	Warnings []string `json:"warnings"`
}

type toggleRequest struct {
	DestinationID string `json:"destinationId"`
}

type estimateRequest struct {
	DestinationIDs []string `json:"destinationIds"`
}

type familyRequest struct {
	Name    string `json:"name"`
	IDProof string `json:"idProof"`
}

// withStore runs fn against the caller's plan with a warning collector on
// the context. It writes the error response itself and reports success.
func (h *PlanHandler) withStore(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, s *planner.Store) error) (*notify.Collector, error) {
	owner, ok := ownerID(w, r)
	if !ok {
		return nil, errUnauthorized
	}
	ctx, collector := notify.WithCollector(r.Context())
	err := h.sessions.With(ctx, owner, func(s *planner.Store) error { return fn(ctx, s) })
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			http.Error(w, he.msg, he.status)
			return nil, err
		}
		log.WithError(err).WithField("owner_id", owner).Error("Failed to open plan")
		http.Error(w, "Failed to load plan", http.StatusInternalServerError)
		return nil, err
	}
	return collector, nil
}

var errUnauthorized = errors.New("unauthorized")

type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func fail(status int, msg string) error { return &httpError{status: status, msg: msg} }

func (h *PlanHandler) respond(w http.ResponseWriter, status int, s planner.Summary, inPlan *bool, c *notify.Collector) {
	writeJSON(w, status, PlanResponse{Summary: s, InPlan: inPlan, Warnings: c.Warnings()})
}

// Get returns the plan summary.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	var sum planner.Summary
	c, err := h.withStore(w, r, func(_ context.Context, s *planner.Store) error {
		sum = s.Summary()
		return nil
	})
	if err != nil {
		return
	}
	h.respond(w, http.StatusOK, sum, nil, c)
}

// Toggle adds a catalog destination to the plan or removes it.
func (h *PlanHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.DestinationID) == "" {
		http.Error(w, "destinationId is required", http.StatusBadRequest)
		return
	}

	var (
		sum    planner.Summary
		inPlan bool
	)
	c, err := h.withStore(w, r, func(ctx context.Context, s *planner.Store) error {
		if s.IsInPlan(req.DestinationID) {
			inPlan = s.Toggle(ctx, models.Destination{ID: req.DestinationID})
		} else {
			// plans keep the default-language name; clients localize on display
			d, err := h.catalog.Destination(ctx, req.DestinationID, "")
			if errors.Is(err, catalog.ErrNotFound) {
				return fail(http.StatusNotFound, "Destination not found")
			}
			if err != nil {
				return err
			}
			inPlan = s.Toggle(ctx, d)
		}
		sum = s.Summary()
		return nil
	})
	if err != nil {
		return
	}
	h.metrics.Mutation("toggle")
	h.respond(w, http.StatusOK, sum, &inPlan, c)
}

// UpdateItem changes the visit date, travel mode or priority of a planned
// destination.
func (h *PlanHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var u models.PlanItemUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := u.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := param(r, "id")
	var sum planner.Summary
	c, err := h.withStore(w, r, func(ctx context.Context, s *planner.Store) error {
		if !s.Update(ctx, id, u) {
			return fail(http.StatusNotFound, "Destination is not in the plan")
		}
		sum = s.Summary()
		return nil
	})
	if err != nil {
		return
	}
	h.metrics.Mutation("update")
	h.respond(w, http.StatusOK, sum, nil, c)
}

// RemoveItem drops a destination from the plan.
func (h *PlanHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")
	var sum planner.Summary
	c, err := h.withStore(w, r, func(ctx context.Context, s *planner.Store) error {
		if !s.Remove(ctx, id) {
			return fail(http.StatusNotFound, "Destination is not in the plan")
		}
		sum = s.Summary()
		return nil
	})
	if err != nil {
		return
	}
	h.metrics.Mutation("remove")
	h.respond(w, http.StatusOK, sum, nil, c)
}

// Clear empties the plan and keeps the settings.
func (h *PlanHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var sum planner.Summary
	c, err := h.withStore(w, r, func(ctx context.Context, s *planner.Store) error {
		s.Clear(ctx)
		sum = s.Summary()
		return nil
	})
	if err != nil {
		return
	}
	h.metrics.Mutation("clear")
	h.respond(w, http.StatusOK, sum, nil, c)
}

// Itinerary returns the plan ordered High, Medium, Low.
func (h *PlanHandler) Itinerary(w http.ResponseWriter, r *http.Request) {
	var items []models.PlanItem
	if _, err := h.withStore(w, r, func(_ context.Context, s *planner.Store) error {
		items = s.SortedByPriority()
		return nil
	}); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ItineraryPDF renders the priority-ordered itinerary as a PDF download.
func (h *PlanHandler) ItineraryPDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := h.withStore(w, r, func(_ context.Context, s *planner.Store) error {
		return export.ItineraryPDF(&buf, s.SortedByPriority(), s.Settings(), s.Cost())
	}); err != nil {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="yatra-itinerary.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("Failed to write itinerary PDF")
	}
}

// GetSettings returns the trip settings.
func (h *PlanHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.PlanSettings
	if _, err := h.withStore(w, r, func(_ context.Context, s *planner.Store) error {
		settings = s.Settings()
		return nil
	}); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings applies a partial settings update.
func (h *PlanHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var u models.SettingsUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var sum planner.Summary
	c, err := h.withStore(w, r, func(ctx context.Context, s *planner.Store) error {
		if _, err := s.UpdateSettings(ctx, u); err != nil {
			if errors.Is(err, models.ErrInvalidSettings) {
				return fail(http.StatusBadRequest, err.Error())
			}
			return err
		}
		sum = s.Summary()
		return nil
	})
	if err != nil {
		return
	}
	h.metrics.Mutation("settings")
	h.respond(w, http.StatusOK, sum, nil, c)
}

// AddFamilyMember registers a co-traveller.
func (h *PlanHandler) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	var req familyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var sum planner.Summary
	c, err := h.withStore(w, r, func(ctx context.Context, s *planner.Store) error {
		_, err := s.AddFamilyMember(ctx, req.Name, req.IDProof)
		switch {
		case errors.Is(err, models.ErrPartyFull):
			return fail(http.StatusConflict, err.Error())
		case errors.Is(err, models.ErrInvalidSettings):
			return fail(http.StatusBadRequest, err.Error())
		case err != nil:
			return err
		}
		sum = s.Summary()
		return nil
	})
	if err != nil {
		return
	}
	h.metrics.Mutation("family_add")
	h.respond(w, http.StatusCreated, sum, nil, c)
}

// RemoveFamilyMember drops a co-traveller.
func (h *PlanHandler) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")
	var sum planner.Summary
	c, err := h.withStore(w, r, func(ctx context.Context, s *planner.Store) error {
		if !s.RemoveFamilyMember(ctx, id) {
			return fail(http.StatusNotFound, "Family member not found")
		}
		sum = s.Summary()
		return nil
	})
	if err != nil {
		return
	}
	h.metrics.Mutation("family_remove")
	h.respond(w, http.StatusOK, sum, nil, c)
}

// BudgetResponse compares the plan cost with the budget.
type BudgetResponse struct {
	Cost   models.CostBreakdown `json:"cost"`
	Budget models.BudgetStatus  `json:"budget"`
}

// Budget returns the cost breakdown and budget status.
func (h *PlanHandler) Budget(w http.ResponseWriter, r *http.Request) {
	var resp BudgetResponse
	if _, err := h.withStore(w, r, func(_ context.Context, s *planner.Store) error {
		resp = BudgetResponse{Cost: s.Cost(), Budget: s.Budget()}
		return nil
	}); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Estimate previews the cost of catalog destinations with the caller's
// settings without changing the plan.
func (h *PlanHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp BudgetResponse
	if _, err := h.withStore(w, r, func(ctx context.Context, s *planner.Store) error {
		dests := make([]models.Destination, 0, len(req.DestinationIDs))
		for _, id := range req.DestinationIDs {
			d, err := h.catalog.Destination(ctx, id, "")
			if errors.Is(err, catalog.ErrNotFound) {
				return fail(http.StatusNotFound, "Destination "+id+" not found")
			}
			if err != nil {
				return err
			}
			dests = append(dests, d)
		}
		settings := s.Settings()
		cost := planner.QuickEstimate(dests, settings)
		resp = BudgetResponse{Cost: cost, Budget: planner.BudgetStatus(settings, cost.TotalCost)}
		return nil
	}); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
