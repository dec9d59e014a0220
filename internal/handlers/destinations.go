package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/yatra-planner/internal/catalog"
	"github.com/ukydev/yatra-planner/internal/db"
	"github.com/ukydev/yatra-planner/internal/geo"
	"github.com/ukydev/yatra-planner/internal/models"
	"github.com/ukydev/yatra-planner/internal/search"
)

const defaultNearbyLimit = 10

// DestinationHandler serves the destination catalog.
type DestinationHandler struct {
	catalog catalog.Provider
	admin   db.DestinationCollection
}

// NewDestinationHandler creates a catalog handler. admin may be nil when the
// catalog is read-only.
func NewDestinationHandler(provider catalog.Provider, admin db.DestinationCollection) *DestinationHandler {
	return &DestinationHandler{catalog: provider, admin: admin}
}

// SearchResult is one fuzzy search hit.
type SearchResult struct {
	Destination models.Destination `json:"destination"`
	Score       int                `json:"score"`
}

// List returns every destination.
func (h *DestinationHandler) List(w http.ResponseWriter, r *http.Request) {
	dests, err := h.catalog.ListDestinations(r.Context(), locale(r))
	if err != nil {
		log.WithError(err).Error("Failed to list destinations")
		http.Error(w, "Failed to list destinations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dests)
}

// Search ranks destinations against ?q= by name and location. ?fields= may
// name other fields, ?maxDistance= loosens or tightens the match.
func (h *DestinationHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))

	maxDistance := search.DefaultMaxDistance
	if v := q.Get("maxDistance"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "maxDistance must be a non-negative integer", http.StatusBadRequest)
			return
		}
		maxDistance = n
	}

	var keys []string
	if v := q.Get("fields"); v != "" {
		for _, k := range strings.Split(v, ",") {
			keys = append(keys, strings.TrimSpace(k))
		}
	}
	fields, err := search.DestinationKeys(keys...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dests, err := h.catalog.ListDestinations(r.Context(), locale(r))
	if err != nil {
		log.WithError(err).Error("Failed to list destinations")
		http.Error(w, "Failed to search destinations", http.StatusInternalServerError)
		return
	}

	matches := search.FuzzySearch(dests, query, fields, maxDistance)
	out := make([]SearchResult, len(matches))
	for i, m := range matches {
		out[i] = SearchResult{Destination: m.Item, Score: m.Score}
	}
	writeJSON(w, http.StatusOK, out)
}

// Nearby ranks destinations by distance from ?lat=&lng=.
func (h *DestinationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	origin := models.Location{Lat: lat, Lng: lng}
	if errLat != nil || errLng != nil || !origin.Valid() {
		http.Error(w, "lat and lng must be valid coordinates", http.StatusBadRequest)
		return
	}

	limit := defaultNearbyLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	dests, err := h.catalog.ListDestinations(r.Context(), locale(r))
	if err != nil {
		log.WithError(err).Error("Failed to list destinations")
		http.Error(w, "Failed to list destinations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, geo.Nearby(origin, dests, limit))
}

// Get returns one destination.
func (h *DestinationHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.catalog.Destination(r.Context(), param(r, "id"), locale(r))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "Destination not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to get destination")
		http.Error(w, "Failed to get destination", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Create adds a destination to the catalog.
func (h *DestinationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.admin == nil {
		http.Error(w, "Catalog is read-only", http.StatusNotImplemented)
		return
	}
	var d models.Destination
	if err := decodeJSON(w, r, &d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := catalog.Validate([]models.Destination{d}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, err := h.admin.FindDestinationByID(r.Context(), d.ID)
	switch {
	case err == nil:
		http.Error(w, "Destination already exists", http.StatusConflict)
		return
	case !errors.Is(err, db.ErrNotFound):
		log.WithError(err).WithField("destination_id", d.ID).Error("Failed to check for existing destination")
		http.Error(w, "Failed to create destination", http.StatusInternalServerError)
		return
	}
	if err := h.admin.InsertDestination(r.Context(), d); err != nil {
		log.WithError(err).WithField("destination_id", d.ID).Error("Failed to create destination")
		http.Error(w, "Failed to create destination", http.StatusInternalServerError)
		return
	}
	log.WithField("destination_id", d.ID).Info("Destination created")
	writeJSON(w, http.StatusCreated, d)
}

// Update replaces a catalog destination.
func (h *DestinationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.admin == nil {
		http.Error(w, "Catalog is read-only", http.StatusNotImplemented)
		return
	}
	id := param(r, "id")
	var d models.Destination
	if err := decodeJSON(w, r, &d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if d.ID != "" && d.ID != id {
		http.Error(w, "Destination id cannot be changed", http.StatusBadRequest)
		return
	}
	d.ID = id
	if err := catalog.Validate([]models.Destination{d}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.admin.UpdateDestination(r.Context(), id, d); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Destination not found", http.StatusNotFound)
			return
		}
		log.WithError(err).WithField("destination_id", id).Error("Failed to update destination")
		http.Error(w, "Failed to update destination", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Delete removes a catalog destination. Plans that already hold it keep
// their copy.
func (h *DestinationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.admin == nil {
		http.Error(w, "Catalog is read-only", http.StatusNotImplemented)
		return
	}
	id := param(r, "id")
	if err := h.admin.DeleteDestination(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Destination not found", http.StatusNotFound)
			return
		}
		log.WithError(err).WithField("destination_id", id).Error("Failed to delete destination")
		http.Error(w, "Failed to delete destination", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
