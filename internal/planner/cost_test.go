package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/ukydev/yatra-planner/internal/models"
)

func settingsFor(persons int, tier models.AccommodationTier, mode models.TransportMode) models.PlanSettings {
	s := models.DefaultSettings()
	s.NumberOfPersons = persons
	s.AccommodationTier = tier
	s.TransportMode = mode
	return s
}

func TestCalculateCosts_ComfortCoachScenario(t *testing.T) {
	items := []models.PlanItem{
		{Destination: models.Destination{ID: "tirupati", EstimatedDays: 2, EstimatedCost: 500}},
	}
	got := CalculateCosts(items, settingsFor(2, models.TierComfort, models.TransportSharedACCoach))

	want := models.CostBreakdown{
		TotalCost:            16000,
		TotalDays:            2,
		AccommodationCost:    12000,
		TransportCost:        3000,
		DestinationEntryCost: 1000,
		CarbonFootprint:      40,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CalculateCosts mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateCosts_EmptyPlan(t *testing.T) {
	got := CalculateCosts(nil, settingsFor(4, models.TierLuxury, models.TransportPrivateSUV))
	assert.Equal(t, models.CostBreakdown{}, got)
}

func TestCalculateCosts_Defaults(t *testing.T) {
	// One destination without duration or cost: 1 day, 200 entry.
	items := []models.PlanItem{{Destination: models.Destination{ID: "x"}}}
	got := CalculateCosts(items, models.DefaultSettings())

	assert.Equal(t, 1, got.TotalDays)
	assert.Equal(t, 800.0, got.AccommodationCost)
	assert.Equal(t, 500.0, got.TransportCost)
	assert.Equal(t, 200.0, got.DestinationEntryCost)
	assert.Equal(t, 1500.0, got.TotalCost)
	assert.Equal(t, 25.0, got.CarbonFootprint)
}

func TestCalculateCosts_TransportNotScaledByPersons(t *testing.T) {
	items := []models.PlanItem{{Destination: models.Destination{ID: "x", EstimatedDays: 3, EstimatedCost: 100}}}

	one := CalculateCosts(items, settingsFor(1, models.TierStandard, models.TransportEV))
	five := CalculateCosts(items, settingsFor(5, models.TierStandard, models.TransportEV))

	assert.Equal(t, 3600.0, one.TransportCost)
	assert.Equal(t, one.TransportCost, five.TransportCost)
	assert.Equal(t, 5*one.AccommodationCost, five.AccommodationCost)
	assert.Equal(t, 5*one.DestinationEntryCost, five.DestinationEntryCost)
	assert.Equal(t, 5*one.CarbonFootprint, five.CarbonFootprint)
}

func TestCalculateCosts_RateTables(t *testing.T) {
	items := []models.PlanItem{{Destination: models.Destination{ID: "x", EstimatedDays: 1, EstimatedCost: 1}}}

	for tier, rate := range map[models.AccommodationTier]float64{
		models.TierStandard: 800, models.TierComfort: 3000, models.TierLuxury: 8000,
	} {
		got := CalculateCosts(items, settingsFor(1, tier, models.TransportOwnCar))
		assert.Equal(t, rate, got.AccommodationCost, string(tier))
	}

	for mode, want := range map[models.TransportMode][2]float64{
		models.TransportOwnCar:        {500, 25},
		models.TransportSharedACCoach: {1500, 10},
		models.TransportEV:            {1200, 2},
		models.TransportPrivateSUV:    {4000, 35},
	} {
		got := CalculateCosts(items, settingsFor(1, models.TierStandard, mode))
		assert.Equal(t, want[0], got.TransportCost, string(mode))
		assert.Equal(t, want[1], got.CarbonFootprint, string(mode))
	}
}

func TestCalculateCosts_UnknownRatesFallBack(t *testing.T) {
	items := []models.PlanItem{{Destination: models.Destination{ID: "x"}}}
	got := CalculateCosts(items, settingsFor(1, "Palace", "Helicopter"))
	assert.Equal(t, CalculateCosts(items, models.DefaultSettings()), got)
}

func TestCalculateCosts_Deterministic(t *testing.T) {
	items := []models.PlanItem{
		{Destination: models.Destination{ID: "a", EstimatedDays: 2, EstimatedCost: 333.33}},
		{Destination: models.Destination{ID: "b", EstimatedDays: 1, EstimatedCost: 0.1}},
		{Destination: models.Destination{ID: "c", EstimatedCost: 0.2}},
	}
	s := settingsFor(3, models.TierComfort, models.TransportEV)

	first := CalculateCosts(items, s)
	second := CalculateCosts(items, s)
	assert.Equal(t, first, second)
}

func TestQuickEstimate_MatchesCalculateCosts(t *testing.T) {
	dests := []models.Destination{
		{ID: "a", EstimatedDays: 2, EstimatedCost: 333.33},
		{ID: "b", EstimatedCost: 0.1},
	}
	s := settingsFor(2, models.TierLuxury, models.TransportPrivateSUV)

	items := []models.PlanItem{
		{Destination: dests[0], VisitDate: "2026-01-01", TravelMode: models.TravelEV, Priority: models.PriorityHigh},
		{Destination: dests[1], VisitDate: "2026-01-02", TravelMode: models.TravelCar, Priority: models.PriorityLow},
	}
	assert.Equal(t, CalculateCosts(items, s), QuickEstimate(dests, s))
}

func TestBudgetStatus(t *testing.T) {
	s := models.DefaultSettings()

	assert.Equal(t, models.BudgetStatus{State: models.BudgetUnset}, BudgetStatus(s, 45000))

	s.Budget = 50000
	assert.Equal(t, models.BudgetStatus{State: models.BudgetUnder, Amount: 5000}, BudgetStatus(s, 45000))
	assert.Equal(t, models.BudgetStatus{State: models.BudgetOver, Amount: 5000}, BudgetStatus(s, 55000))
	assert.Equal(t, models.BudgetStatus{State: models.BudgetUnder, Amount: 0}, BudgetStatus(s, 50000))
}
