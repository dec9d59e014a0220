package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ukydev/yatra-planner/internal/models"
)

// PlanVersion is the version written into persisted plan documents.
//
// Version 1 documents are bare JSON arrays of destinations saved before plan
// items carried scheduling metadata. Unversioned arrays of plan items are
// read as version 2.
const PlanVersion = 2

var ErrUnsupportedVersion = errors.New("unsupported plan document version")

type planDocument struct {
	Version int               `json:"version"`
	Items   []models.PlanItem `json:"items"`
}

// EncodePlan serializes items as a current-version plan document.
func EncodePlan(items []models.PlanItem) (string, error) {
	if items == nil {
		items = []models.PlanItem{}
	}
	b, err := json.Marshal(planDocument{Version: PlanVersion, Items: items})
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	return string(b), nil
}

// DecodePlan reads a plan document of any known version and normalizes it
// into current plan items. Entries missing a visit date, travel mode or
// priority get today, Car and Medium. Entries without a destination id are
// dropped and later duplicates of a destination are ignored.
func DecodePlan(raw string, today string) ([]models.PlanItem, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || string(data) == "null" {
		return []models.PlanItem{}, nil
	}

	var items []models.PlanItem
	switch data[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode plan: %w", err)
		}
		items = make([]models.PlanItem, 0, len(entries))
		for i, entry := range entries {
			item, err := decodeLegacyEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("decode plan: entry %d: %w", i, err)
			}
			items = append(items, item)
		}
	case '{':
		var doc planDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode plan: %w", err)
		}
		if doc.Version > PlanVersion {
			return nil, fmt.Errorf("decode plan: %w: %d", ErrUnsupportedVersion, doc.Version)
		}
		items = doc.Items
	default:
		return nil, fmt.Errorf("decode plan: unexpected document starting with %q", data[0])
	}

	return normalizeItems(items, today), nil
}

// decodeLegacyEntry reads one element of an unversioned array, which is
// either a plan item or a bare destination.
func decodeLegacyEntry(entry json.RawMessage) (models.PlanItem, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return models.PlanItem{}, err
	}
	if _, ok := fields["destination"]; ok {
		var item models.PlanItem
		err := json.Unmarshal(entry, &item)
		return item, err
	}
	var d models.Destination
	if err := json.Unmarshal(entry, &d); err != nil {
		return models.PlanItem{}, err
	}
	return models.PlanItem{Destination: d}, nil
}

func normalizeItems(items []models.PlanItem, today string) []models.PlanItem {
	out := make([]models.PlanItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := item.Destination.ID
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if item.VisitDate == "" {
			item.VisitDate = today
		}
		item.TravelMode = normalizeTravelMode(item.TravelMode)
		if !item.Priority.Valid() {
			item.Priority = models.PriorityMedium
		}
		out = append(out, item)
	}
	return out
}

// normalizeTravelMode accepts display spellings such as "Shared AC Coach".
func normalizeTravelMode(m models.TravelMode) models.TravelMode {
	m = models.TravelMode(strings.ReplaceAll(string(m), " ", ""))
	if !m.Valid() {
		return models.TravelCar
	}
	return m
}

// EncodeSettings serializes settings for storage.
func EncodeSettings(s models.PlanSettings) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return string(b), nil
}

// DecodeSettings reads a settings document. Missing or unknown values fall
// back to DefaultSettings.
func DecodeSettings(raw string) (models.PlanSettings, error) {
	s := models.DefaultSettings()
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || string(data) == "null" {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return models.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}

	def := models.DefaultSettings()
	if s.NumberOfPersons < 1 {
		s.NumberOfPersons = def.NumberOfPersons
	}
	if s.FamilyMembers == nil {
		s.FamilyMembers = []models.FamilyMember{}
	}
	if max := s.MaxFamilyMembers(); len(s.FamilyMembers) > max {
		s.FamilyMembers = s.FamilyMembers[:max]
	}
	if !s.AccommodationTier.Valid() {
		s.AccommodationTier = def.AccommodationTier
	}
	if !s.FoodPreference.Valid() {
		s.FoodPreference = def.FoodPreference
	}
	s.TransportMode = models.TransportMode(strings.ReplaceAll(string(s.TransportMode), " ", ""))
	if !s.TransportMode.Valid() {
		s.TransportMode = def.TransportMode
	}
	if s.StartDate != "" && !models.IsISODate(s.StartDate) {
		s.StartDate = ""
	}
	if s.Budget < 0 {
		s.Budget = 0
	}
	return s, nil
}
