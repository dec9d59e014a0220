package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidSettings = errors.New("invalid plan settings")
	ErrInvalidPlanItem = errors.New("invalid plan item")
	ErrPartyFull       = errors.New("family member list is full")
)

// DateLayout is the ISO 8601 date-only layout used for visit and start dates.
const DateLayout = "2006-01-02"

// IsISODate reports whether s is a valid YYYY-MM-DD date.
func IsISODate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// AccommodationTier selects the per-person-per-day accommodation rate.
type AccommodationTier string

const (
	TierStandard AccommodationTier = "Standard"
	TierComfort  AccommodationTier = "Comfort"
	TierLuxury   AccommodationTier = "Luxury"
)

func (t AccommodationTier) Valid() bool {
	return t == TierStandard || t == TierComfort || t == TierLuxury
}

// FoodPreference is carried for display only; it has no cost effect.
type FoodPreference string

const (
	FoodSatvik  FoodPreference = "Satvik"
	FoodJain    FoodPreference = "Jain"
	FoodRegular FoodPreference = "Regular"
)

func (f FoodPreference) Valid() bool {
	return f == FoodSatvik || f == FoodJain || f == FoodRegular
}

// TransportMode selects the trip-wide transport rate and emission factor.
type TransportMode string

const (
	TransportOwnCar        TransportMode = "OwnCar"
	TransportSharedACCoach TransportMode = "SharedACCoach"
	TransportEV            TransportMode = "EV"
	TransportPrivateSUV    TransportMode = "PrivateSUV"
)

func (m TransportMode) Valid() bool {
	switch m {
	case TransportOwnCar, TransportSharedACCoach, TransportEV, TransportPrivateSUV:
		return true
	default:
		return false
	}
}

// FamilyMember is a co-traveller registered on the plan.
type FamilyMember struct {
	ID      string `json:"id" bson:"id"`
	Name    string `json:"name" bson:"name"`
	IDProof string `json:"idProof" bson:"id_proof"`
}

// PlanSettings is the trip-wide configuration of a yatra plan.
type PlanSettings struct {
	NumberOfPersons   int               `json:"numberOfPersons" bson:"number_of_persons"`
	FamilyMembers     []FamilyMember    `json:"familyMembers" bson:"family_members"`
	AccommodationTier AccommodationTier `json:"accommodationTier" bson:"accommodation_tier"`
	FoodPreference    FoodPreference    `json:"foodPreference" bson:"food_preference"`
	TransportMode     TransportMode     `json:"transportMode" bson:"transport_mode"`
	StartDate         string            `json:"startDate,omitempty" bson:"start_date,omitempty"`
	Budget            float64           `json:"budget" bson:"budget"` // 0 means unset
}

// DefaultSettings returns the settings a new plan starts with.
func DefaultSettings() PlanSettings {
	return PlanSettings{
		NumberOfPersons:   1,
		FamilyMembers:     []FamilyMember{},
		AccommodationTier: TierStandard,
		FoodPreference:    FoodSatvik,
		TransportMode:     TransportOwnCar,
	}
}

// MaxFamilyMembers is the number of co-travellers the party has room for.
func (s PlanSettings) MaxFamilyMembers() int {
	if s.NumberOfPersons < 1 {
		return 0
	}
	return s.NumberOfPersons - 1
}

// Validate checks the invariants of s.
func (s PlanSettings) Validate() error {
	if s.NumberOfPersons < 1 {
		return fmt.Errorf("%w: number of persons must be at least 1", ErrInvalidSettings)
	}
	if len(s.FamilyMembers) > s.MaxFamilyMembers() {
		return fmt.Errorf("%w: %d family members exceed party of %d", ErrInvalidSettings, len(s.FamilyMembers), s.NumberOfPersons)
	}
	if !s.AccommodationTier.Valid() {
		return fmt.Errorf("%w: unknown accommodation tier %q", ErrInvalidSettings, s.AccommodationTier)
	}
	if !s.FoodPreference.Valid() {
		return fmt.Errorf("%w: unknown food preference %q", ErrInvalidSettings, s.FoodPreference)
	}
	if !s.TransportMode.Valid() {
		return fmt.Errorf("%w: unknown transport mode %q", ErrInvalidSettings, s.TransportMode)
	}
	if s.StartDate != "" && !IsISODate(s.StartDate) {
		return fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidSettings, s.StartDate)
	}
	if s.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidSettings)
	}
	return nil
}

// SettingsUpdate carries the settings fields that may be changed in one call.
// Family members are managed separately.
type SettingsUpdate struct {
	NumberOfPersons   *int               `json:"numberOfPersons,omitempty"`
	AccommodationTier *AccommodationTier `json:"accommodationTier,omitempty"`
	FoodPreference    *FoodPreference    `json:"foodPreference,omitempty"`
	TransportMode     *TransportMode     `json:"transportMode,omitempty"`
	StartDate         *string            `json:"startDate,omitempty"`
	Budget            *float64           `json:"budget,omitempty"`
}

// Apply merges u into s. Family members beyond the new party size are dropped
// from the end of the list.
func (u SettingsUpdate) Apply(s PlanSettings) PlanSettings {
	if u.NumberOfPersons != nil {
		s.NumberOfPersons = *u.NumberOfPersons
	}
	if u.AccommodationTier != nil {
		s.AccommodationTier = *u.AccommodationTier
	}
	if u.FoodPreference != nil {
		s.FoodPreference = *u.FoodPreference
	}
	if u.TransportMode != nil {
		s.TransportMode = *u.TransportMode
	}
	if u.StartDate != nil {
		s.StartDate = *u.StartDate
	}
	if u.Budget != nil {
		s.Budget = *u.Budget
	}
	if max := s.MaxFamilyMembers(); len(s.FamilyMembers) > max {
		s.FamilyMembers = append([]FamilyMember(nil), s.FamilyMembers[:max]...)
	}
	return s
}
