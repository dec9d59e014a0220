package models

import "fmt"

// TravelMode is the per-destination mode of travel chosen in the planner.
type TravelMode string

const (
	TravelCar           TravelMode = "Car"
	TravelSharedACCoach TravelMode = "SharedACCoach"
	TravelEV            TravelMode = "EV"
	TravelPrivateSUV    TravelMode = "PrivateSUV"
	TravelOwnCar        TravelMode = "OwnCar"
)

// Valid reports whether m is a known travel mode.
func (m TravelMode) Valid() bool {
	switch m {
	case TravelCar, TravelSharedACCoach, TravelEV, TravelPrivateSUV, TravelOwnCar:
		return true
	default:
		return false
	}
}

// Priority orders destinations for itinerary review.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank is the display order of p: High=1, Medium=2, Low=3.
// Unknown priorities rank with Medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// PlanItem wraps a Destination with planner metadata.
type PlanItem struct {
	Destination Destination `json:"destination" bson:"destination"`
	VisitDate   string      `json:"visitDate" bson:"visit_date"` // YYYY-MM-DD
	TravelMode  TravelMode  `json:"travelMode" bson:"travel_mode"`
	Priority    Priority    `json:"priority" bson:"priority"`
}

// PlanItemUpdate carries the fields of a PlanItem that may be changed.
// Nil fields are left untouched.
type PlanItemUpdate struct {
	VisitDate  *string     `json:"visitDate,omitempty"`
	TravelMode *TravelMode `json:"travelMode,omitempty"`
	Priority   *Priority   `json:"priority,omitempty"`
}

// Apply merges the non-nil fields of u into item.
func (u PlanItemUpdate) Apply(item PlanItem) PlanItem {
	if u.VisitDate != nil {
		item.VisitDate = *u.VisitDate
	}
	if u.TravelMode != nil {
		item.TravelMode = *u.TravelMode
	}
	if u.Priority != nil {
		item.Priority = *u.Priority
	}
	return item
}

// Validate rejects unknown enum values and malformed visit dates.
func (u PlanItemUpdate) Validate() error {
	if u.VisitDate != nil && !IsISODate(*u.VisitDate) {
		return fmt.Errorf("%w: visit date %q is not YYYY-MM-DD", ErrInvalidPlanItem, *u.VisitDate)
	}
	if u.TravelMode != nil && !u.TravelMode.Valid() {
		return fmt.Errorf("%w: unknown travel mode %q", ErrInvalidPlanItem, *u.TravelMode)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidPlanItem, *u.Priority)
	}
	return nil
}
