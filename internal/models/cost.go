package models

// CostBreakdown is the estimated cost of a yatra plan.
// Amounts are in INR; CarbonFootprint is in kg CO2.
type CostBreakdown struct {
	TotalCost            float64 `json:"totalCost" bson:"total_cost"`
	TotalDays            int     `json:"totalDays" bson:"total_days"`
	AccommodationCost    float64 `json:"accommodationCost" bson:"accommodation_cost"`
	TransportCost        float64 `json:"transportCost" bson:"transport_cost"`
	DestinationEntryCost float64 `json:"destinationEntryCost" bson:"destination_entry_cost"`
	CarbonFootprint      float64 `json:"carbonFootprint" bson:"carbon_footprint"`
}

// BudgetState labels a plan's cost against its budget.
type BudgetState string

const (
	BudgetUnset BudgetState = "unset"
	BudgetUnder BudgetState = "under"
	BudgetOver  BudgetState = "over"
)

// BudgetStatus reports how far a plan is under or over its budget.
// Amount is always non-negative; it is zero when the budget is unset.
type BudgetStatus struct {
	State  BudgetState `json:"state"`
	Amount float64     `json:"amount"`
}
