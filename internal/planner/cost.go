// Package planner implements the yatra plan store and its cost engine.
package planner

import "github.com/ukydev/yatra-planner/internal/models"

const (
	// DefaultEstimatedDays is used for destinations without a visit duration.
	DefaultEstimatedDays = 1
	// DefaultEstimatedCost is used for destinations without an entry cost.
	DefaultEstimatedCost = 200.0
)

// AccommodationRates is the INR cost per person per day for each tier.
var AccommodationRates = map[models.AccommodationTier]float64{
	models.TierStandard: 800,
	models.TierComfort:  3000,
	models.TierLuxury:   8000,
}

// TransportRates is the INR cost per trip day for each mode. It is shared by
// the whole party and is not scaled by the number of persons.
var TransportRates = map[models.TransportMode]float64{
	models.TransportOwnCar:        500,
	models.TransportSharedACCoach: 1500,
	models.TransportEV:            1200,
	models.TransportPrivateSUV:    4000,
}

// CarbonRates is kg CO2 per person per day for each mode.
var CarbonRates = map[models.TransportMode]float64{
	models.TransportOwnCar:        25,
	models.TransportSharedACCoach: 10,
	models.TransportEV:            2,
	models.TransportPrivateSUV:    35,
}

// CalculateCosts estimates the cost and carbon footprint of a plan.
// Unknown tiers and modes are priced as Standard and OwnCar.
func CalculateCosts(items []models.PlanItem, settings models.PlanSettings) models.CostBreakdown {
	totalDays := 0
	baseDestinationCost := 0.0
	for _, item := range items {
		days := item.Destination.EstimatedDays
		if days == 0 {
			days = DefaultEstimatedDays
		}
		cost := item.Destination.EstimatedCost
		if cost == 0 {
			cost = DefaultEstimatedCost
		}
		totalDays += days
		baseDestinationCost += cost
	}

	accommodationRate, ok := AccommodationRates[settings.AccommodationTier]
	if !ok {
		accommodationRate = AccommodationRates[models.TierStandard]
	}
	mode := settings.TransportMode
	if _, ok := TransportRates[mode]; !ok {
		mode = models.TransportOwnCar
	}

	persons := float64(settings.NumberOfPersons)
	days := float64(totalDays)

	accommodationCost := accommodationRate * days * persons
	transportCost := TransportRates[mode] * days
	destinationEntryCost := baseDestinationCost * persons
	carbonFootprint := days * CarbonRates[mode] * persons

	return models.CostBreakdown{
		TotalCost:            accommodationCost + transportCost + destinationEntryCost,
		TotalDays:            totalDays,
		AccommodationCost:    accommodationCost,
		TransportCost:        transportCost,
		DestinationEntryCost: destinationEntryCost,
		CarbonFootprint:      carbonFootprint,
	}
}

// QuickEstimate prices a set of destinations that are not yet in a plan.
// It agrees exactly with CalculateCosts for the same destinations.
func QuickEstimate(destinations []models.Destination, settings models.PlanSettings) models.CostBreakdown {
	items := make([]models.PlanItem, len(destinations))
	for i, d := range destinations {
		items[i] = models.PlanItem{Destination: d}
	}
	return CalculateCosts(items, settings)
}

// BudgetStatus compares currentCost with the settings budget.
// A zero budget is reported as BudgetUnset so the caller can prompt for one.
func BudgetStatus(settings models.PlanSettings, currentCost float64) models.BudgetStatus {
	if settings.Budget <= 0 {
		return models.BudgetStatus{State: models.BudgetUnset}
	}
	amount := settings.Budget - currentCost
	if amount >= 0 {
		return models.BudgetStatus{State: models.BudgetUnder, Amount: amount}
	}
	return models.BudgetStatus{State: models.BudgetOver, Amount: -amount}
}
