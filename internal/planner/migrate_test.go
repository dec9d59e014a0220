package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/yatra-planner/internal/models"
)

const today = "2026-10-19"

func TestDecodePlan_Empty(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]", `{"version":2,"items":[]}`} {
		items, err := DecodePlan(raw, today)
		require.NoError(t, err, raw)
		assert.Empty(t, items, raw)
	}
}

func TestDecodePlan_LegacyDestinationArray(t *testing.T) {
	raw := `[
		{"id":"kedarnath","name":"Kedarnath","location":"Uttarakhand","estimatedDays":2},
		{"id":"badrinath","name":"Badrinath","location":"Uttarakhand"}
	]`
	items, err := DecodePlan(raw, today)
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, item := range items {
		assert.Equal(t, today, item.VisitDate)
		assert.Equal(t, models.TravelCar, item.TravelMode)
		assert.Equal(t, models.PriorityMedium, item.Priority)
	}
	assert.Equal(t, "kedarnath", items[0].Destination.ID)
	assert.Equal(t, 2, items[0].Destination.EstimatedDays)
	assert.Equal(t, "badrinath", items[1].Destination.ID)
}

func TestDecodePlan_MissingPriorityDefaultsToMedium(t *testing.T) {
	raw := `[{"destination":{"id":"puri","name":"Jagannath Temple"},"visitDate":"2026-12-01","travelMode":"EV"}]`
	items, err := DecodePlan(raw, today)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, models.PriorityMedium, items[0].Priority)
	assert.Equal(t, "2026-12-01", items[0].VisitDate)
	assert.Equal(t, models.TravelEV, items[0].TravelMode)
}

func TestDecodePlan_DisplaySpellingOfTravelMode(t *testing.T) {
	raw := `[{"destination":{"id":"puri"},"travelMode":"Shared AC Coach","priority":"High"}]`
	items, err := DecodePlan(raw, today)
	require.NoError(t, err)
	assert.Equal(t, models.TravelSharedACCoach, items[0].TravelMode)
	assert.Equal(t, models.PriorityHigh, items[0].Priority)
}

func TestDecodePlan_DropsDuplicatesAndMissingIDs(t *testing.T) {
	raw := `{"version":2,"items":[
		{"destination":{"id":"a"},"priority":"High"},
		{"destination":{"name":"no id"}},
		{"destination":{"id":"a"},"priority":"Low"},
		{"destination":{"id":"b"}}
	]}`
	items, err := DecodePlan(raw, today)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Destination.ID)
	assert.Equal(t, models.PriorityHigh, items[0].Priority)
	assert.Equal(t, "b", items[1].Destination.ID)
}

func TestDecodePlan_Errors(t *testing.T) {
	_, err := DecodePlan(`{"version":3,"items":[]}`, today)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = DecodePlan(`[{"id":`, today)
	assert.Error(t, err)

	_, err = DecodePlan(`"kedarnath"`, today)
	assert.Error(t, err)
}

func TestEncodePlan_RoundTripKeepsMetadata(t *testing.T) {
	in := []models.PlanItem{
		{Destination: models.Destination{ID: "a", Name: "A"}, VisitDate: "2026-01-01", TravelMode: models.TravelPrivateSUV, Priority: models.PriorityLow},
	}
	raw, err := EncodePlan(in)
	require.NoError(t, err)
	assert.Contains(t, raw, `"version":2`)

	out, err := DecodePlan(raw, today)
	require.NoError(t, err)
	assert.Equal(t, in[0].Destination.ID, out[0].Destination.ID)
	assert.Equal(t, in[0].VisitDate, out[0].VisitDate)
	assert.Equal(t, in[0].TravelMode, out[0].TravelMode)
	assert.Equal(t, in[0].Priority, out[0].Priority)
}

func TestDecodeSettings(t *testing.T) {
	s, err := DecodeSettings("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	s, err = DecodeSettings(`{"numberOfPersons":3,"accommodationTier":"Comfort","budget":25000}`)
	require.NoError(t, err)
	assert.Equal(t, 3, s.NumberOfPersons)
	assert.Equal(t, models.TierComfort, s.AccommodationTier)
	assert.Equal(t, models.FoodSatvik, s.FoodPreference)
	assert.Equal(t, models.TransportOwnCar, s.TransportMode)
	assert.Equal(t, 25000.0, s.Budget)
	assert.NotNil(t, s.FamilyMembers)

	s, err = DecodeSettings(`{"numberOfPersons":0,"transportMode":"Shared AC Coach","foodPreference":"Vegan","budget":-5,
		"familyMembers":[{"id":"1"},{"id":"2"}]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, s.NumberOfPersons)
	assert.Equal(t, models.TransportSharedACCoach, s.TransportMode)
	assert.Equal(t, models.FoodSatvik, s.FoodPreference)
	assert.Zero(t, s.Budget)
	assert.Empty(t, s.FamilyMembers)
	assert.NoError(t, s.Validate())

	_, err = DecodeSettings(`{"numberOfPersons":"two"}`)
	assert.Error(t, err)
}
