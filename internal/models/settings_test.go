package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 1, s.NumberOfPersons)
	assert.Equal(t, TierStandard, s.AccommodationTier)
	assert.Equal(t, FoodSatvik, s.FoodPreference)
	assert.Equal(t, TransportOwnCar, s.TransportMode)
	assert.Zero(t, s.Budget)
	assert.NoError(t, s.Validate())
}

func TestPlanSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PlanSettings)
		wantErr bool
	}{
		{"defaults", func(s *PlanSettings) {}, false},
		{"zero persons", func(s *PlanSettings) { s.NumberOfPersons = 0 }, true},
		{"too many family members", func(s *PlanSettings) {
			s.NumberOfPersons = 2
			s.FamilyMembers = []FamilyMember{{ID: "a"}, {ID: "b"}}
		}, true},
		{"family fits", func(s *PlanSettings) {
			s.NumberOfPersons = 3
			s.FamilyMembers = []FamilyMember{{ID: "a"}, {ID: "b"}}
		}, false},
		{"unknown tier", func(s *PlanSettings) { s.AccommodationTier = "Palace" }, true},
		{"unknown food", func(s *PlanSettings) { s.FoodPreference = "Vegan" }, true},
		{"unknown transport", func(s *PlanSettings) { s.TransportMode = "Helicopter" }, true},
		{"bad start date", func(s *PlanSettings) { s.StartDate = "01/02/2026" }, true},
		{"good start date", func(s *PlanSettings) { s.StartDate = "2026-11-02" }, false},
		{"negative budget", func(s *PlanSettings) { s.Budget = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidSettings), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingsUpdate_ApplyTrimsFamily(t *testing.T) {
	s := DefaultSettings()
	s.NumberOfPersons = 4
	s.FamilyMembers = []FamilyMember{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	persons := 2
	budget := 50000.0
	tier := TierLuxury
	out := SettingsUpdate{NumberOfPersons: &persons, Budget: &budget, AccommodationTier: &tier}.Apply(s)

	assert.Equal(t, 2, out.NumberOfPersons)
	assert.Equal(t, 50000.0, out.Budget)
	assert.Equal(t, TierLuxury, out.AccommodationTier)
	assert.Equal(t, []FamilyMember{{ID: "a"}}, out.FamilyMembers)
	// the input is left alone
	assert.Len(t, s.FamilyMembers, 3)
}

func TestPriority_Rank(t *testing.T) {
	assert.Equal(t, 1, PriorityHigh.Rank())
	assert.Equal(t, 2, PriorityMedium.Rank())
	assert.Equal(t, 3, PriorityLow.Rank())
	assert.Equal(t, 2, Priority("").Rank())
}

func TestPlanItemUpdate(t *testing.T) {
	item := PlanItem{
		Destination: Destination{ID: "kedarnath"},
		VisitDate:   "2026-05-10",
		TravelMode:  TravelCar,
		Priority:    PriorityMedium,
	}

	high := PriorityHigh
	out := PlanItemUpdate{Priority: &high}.Apply(item)
	assert.Equal(t, PriorityHigh, out.Priority)
	assert.Equal(t, "2026-05-10", out.VisitDate)
	assert.Equal(t, TravelCar, out.TravelMode)

	bad := "tomorrow"
	assert.ErrorIs(t, PlanItemUpdate{VisitDate: &bad}.Validate(), ErrInvalidPlanItem)
	mode := TravelMode("Boat")
	assert.ErrorIs(t, PlanItemUpdate{TravelMode: &mode}.Validate(), ErrInvalidPlanItem)
	assert.NoError(t, PlanItemUpdate{Priority: &high}.Validate())
}

func TestDestination_Localized(t *testing.T) {
	d := Destination{ID: "kashi", Name: "Kashi Vishwanath", Names: map[string]string{"hi": "काशी विश्वनाथ"}}
	assert.Equal(t, "काशी विश्वनाथ", d.Localized("hi").Name)
	assert.Equal(t, "Kashi Vishwanath", d.Localized("ta").Name)
	assert.Equal(t, "Kashi Vishwanath", d.Name)
}
