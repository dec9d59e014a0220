package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/yatra-planner/internal/middleware"
)

const maxBodyBytes = 1 << 20

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.New("invalid JSON body")
	}
	return nil
}

// param returns a named route parameter.
func param(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// ownerID returns the authenticated user's ID.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok || claims.UserID == "" {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// locale picks the display locale from ?locale= or the first
// Accept-Language tag, e.g. "hi" for "hi-IN,hi;q=0.9".
func locale(r *http.Request) string {
	if l := strings.TrimSpace(r.URL.Query().Get("locale")); l != "" {
		return strings.ToLower(l)
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	tag := strings.TrimSpace(strings.SplitN(header, ",", 2)[0])
	tag = strings.SplitN(tag, ";", 2)[0]
	tag = strings.SplitN(tag, "-", 2)[0]
	if tag == "*" {
		return ""
	}
	return strings.ToLower(tag)
}
