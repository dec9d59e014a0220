package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/yatra-planner/internal/models"
)

type recordingNotifier struct {
	notices []Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n Notice) {
	r.notices = append(r.notices, n)
}

var (
	kedarnath = models.Destination{ID: "kedarnath", Name: "Kedarnath", EstimatedDays: 2, EstimatedCost: 500}
	badrinath = models.Destination{ID: "badrinath", Name: "Badrinath", EstimatedDays: 1, EstimatedCost: 300}
	puri      = models.Destination{ID: "puri", Name: "Jagannath Temple"}
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
}

func openStore(t *testing.T, storage Storage) (*Store, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	s, err := Open(context.Background(), storage, KeysFor("pilgrim-1"), WithNotifier(n), WithClock(fixedClock))
	require.NoError(t, err)
	return s, n
}

func TestStore_OpenEmpty(t *testing.T) {
	s, n := openStore(t, NewMemoryStorage())
	assert.Empty(t, s.Items())
	assert.Equal(t, models.DefaultSettings(), s.Settings())
	assert.Empty(t, n.notices)
}

func TestStore_ToggleAddsWithDefaults(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())

	assert.True(t, s.Toggle(ctx, kedarnath))
	require.Equal(t, 1, s.Len())

	item := s.Items()[0]
	assert.Equal(t, kedarnath, item.Destination)
	assert.Equal(t, "2026-10-19", item.VisitDate)
	assert.Equal(t, models.TravelCar, item.TravelMode)
	assert.Equal(t, models.PriorityMedium, item.Priority)
	assert.True(t, s.IsInPlan("kedarnath"))
}

func TestStore_ToggleTwiceIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())

	assert.True(t, s.Toggle(ctx, kedarnath))
	assert.False(t, s.Toggle(ctx, kedarnath))
	assert.Empty(t, s.Items())
	assert.False(t, s.IsInPlan("kedarnath"))
}

func TestStore_SetSemantics(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())

	s.Toggle(ctx, kedarnath)
	s.Toggle(ctx, badrinath)
	s.Toggle(ctx, puri)
	s.Toggle(ctx, badrinath)

	ids := []string{}
	for _, item := range s.Items() {
		ids = append(ids, item.Destination.ID)
	}
	assert.Equal(t, []string{"kedarnath", "puri"}, ids)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())
	s.Toggle(ctx, kedarnath)
	s.Toggle(ctx, badrinath)

	assert.False(t, s.Remove(ctx, "somnath"))
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Remove(ctx, "kedarnath"))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "badrinath", s.Items()[0].Destination.ID)
}

func TestStore_UpdateMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s, _ := openStore(t, storage)
	s.Toggle(ctx, kedarnath)

	before := s.Items()
	high := models.PriorityHigh
	assert.False(t, s.Update(ctx, "somnath", models.PlanItemUpdate{Priority: &high}))
	assert.Equal(t, before, s.Items())
}

func TestStore_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())
	s.Toggle(ctx, kedarnath)

	high := models.PriorityHigh
	date := "2026-05-12"
	assert.True(t, s.Update(ctx, "kedarnath", models.PlanItemUpdate{Priority: &high, VisitDate: &date}))

	item := s.Items()[0]
	assert.Equal(t, models.PriorityHigh, item.Priority)
	assert.Equal(t, "2026-05-12", item.VisitDate)
	assert.Equal(t, models.TravelCar, item.TravelMode)
	assert.Equal(t, kedarnath, item.Destination)
}

func TestStore_SortedByPriorityIsNonDestructive(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())
	s.Toggle(ctx, kedarnath)
	s.Toggle(ctx, badrinath)
	s.Toggle(ctx, puri)

	low, high := models.PriorityLow, models.PriorityHigh
	s.Update(ctx, "kedarnath", models.PlanItemUpdate{Priority: &low})
	s.Update(ctx, "puri", models.PlanItemUpdate{Priority: &high})

	sorted := s.SortedByPriority()
	got := []string{}
	for _, item := range sorted {
		got = append(got, item.Destination.ID)
	}
	assert.Equal(t, []string{"puri", "badrinath", "kedarnath"}, got)

	order := []string{}
	for _, item := range s.Items() {
		order = append(order, item.Destination.ID)
	}
	assert.Equal(t, []string{"kedarnath", "badrinath", "puri"}, order)
}

func TestStore_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s, _ := openStore(t, storage)

	s.Toggle(ctx, kedarnath)
	high := models.PriorityHigh
	s.Update(ctx, "kedarnath", models.PlanItemUpdate{Priority: &high})
	persons := 3
	budget := 40000.0
	_, err := s.UpdateSettings(ctx, models.SettingsUpdate{NumberOfPersons: &persons, Budget: &budget})
	require.NoError(t, err)
	member, err := s.AddFamilyMember(ctx, "Sita Devi", "XXXX-1234")
	require.NoError(t, err)

	reloaded, _ := openStore(t, storage)
	assert.Equal(t, s.Items(), reloaded.Items())
	assert.Equal(t, 3, reloaded.Settings().NumberOfPersons)
	assert.Equal(t, 40000.0, reloaded.Settings().Budget)
	assert.Equal(t, []models.FamilyMember{member}, reloaded.Settings().FamilyMembers)
}

func TestStore_LoadsLegacyPlan(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	keys := KeysFor("pilgrim-1")
	require.NoError(t, storage.Save(ctx, keys.Plan, `[{"destination":{"id":"puri","name":"Jagannath Temple"},"visitDate":"2026-12-01","travelMode":"Car"}]`))

	s, n := openStore(t, storage)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, models.PriorityMedium, s.Items()[0].Priority)
	assert.Empty(t, n.notices)
}

func TestStore_CorruptDocumentsAreReset(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	keys := KeysFor("pilgrim-1")
	require.NoError(t, storage.Save(ctx, keys.Plan, `{not json`))
	require.NoError(t, storage.Save(ctx, keys.Settings, `[]`))

	s, n := openStore(t, storage)
	assert.Empty(t, s.Items())
	assert.Equal(t, models.DefaultSettings(), s.Settings())
	require.Len(t, n.notices, 2)
	assert.Equal(t, PlanLoadFailedMessage, n.notices[0].Message)
	assert.Equal(t, SettingsLoadFailedMessage, n.notices[1].Message)
}

type failingLoadStorage struct{ *MemoryStorage }

func (failingLoadStorage) Load(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestStore_OpenFailsOnStorageError(t *testing.T) {
	_, err := Open(context.Background(), failingLoadStorage{NewMemoryStorage()}, KeysFor("x"))
	assert.Error(t, err)
}

func TestStore_SaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s, n := openStore(t, storage)

	storage.SaveErr = errors.New("quota exceeded")
	assert.True(t, s.Toggle(ctx, kedarnath))
	assert.True(t, s.IsInPlan("kedarnath"))

	persons := 2
	_, err := s.UpdateSettings(ctx, models.SettingsUpdate{NumberOfPersons: &persons})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Settings().NumberOfPersons)

	require.Len(t, n.notices, 2)
	assert.Equal(t, PlanSaveFailedMessage, n.notices[0].Message)
	assert.EqualError(t, n.notices[0].Err, "quota exceeded")
	assert.Equal(t, SettingsSaveFailedMessage, n.notices[1].Message)

	// nothing reached storage
	_, found, _ := storage.Load(ctx, KeysFor("pilgrim-1").Plan)
	assert.False(t, found)
}

func TestStore_UpdateSettingsRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())

	zero := 0
	_, err := s.UpdateSettings(ctx, models.SettingsUpdate{NumberOfPersons: &zero})
	assert.ErrorIs(t, err, models.ErrInvalidSettings)
	assert.Equal(t, 1, s.Settings().NumberOfPersons)
}

func TestStore_FamilyMembers(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())

	_, err := s.AddFamilyMember(ctx, "Ravi", "")
	assert.ErrorIs(t, err, models.ErrPartyFull)

	persons := 3
	_, err = s.UpdateSettings(ctx, models.SettingsUpdate{NumberOfPersons: &persons})
	require.NoError(t, err)

	a, err := s.AddFamilyMember(ctx, "Ravi", "AADHAAR-1")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	_, err = s.AddFamilyMember(ctx, "  ", "")
	assert.ErrorIs(t, err, models.ErrInvalidSettings)
	b, err := s.AddFamilyMember(ctx, "Meena", "")
	require.NoError(t, err)
	_, err = s.AddFamilyMember(ctx, "Extra", "")
	assert.ErrorIs(t, err, models.ErrPartyFull)

	assert.True(t, s.RemoveFamilyMember(ctx, a.ID))
	assert.False(t, s.RemoveFamilyMember(ctx, a.ID))
	assert.Equal(t, []models.FamilyMember{b}, s.Settings().FamilyMembers)

	// shrinking the party drops members that no longer fit
	one := 1
	_, err = s.UpdateSettings(ctx, models.SettingsUpdate{NumberOfPersons: &one})
	require.NoError(t, err)
	assert.Empty(t, s.Settings().FamilyMembers)
}

func TestStore_SummaryAndBudget(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())
	s.Toggle(ctx, kedarnath)

	assert.Equal(t, models.BudgetUnset, s.Budget().State)

	budget := 5000.0
	_, err := s.UpdateSettings(ctx, models.SettingsUpdate{Budget: &budget})
	require.NoError(t, err)

	sum := s.Summary()
	// 2 days: 800*2 + 500*2 + 500 = 3100
	assert.Equal(t, 3100.0, sum.Cost.TotalCost)
	assert.Equal(t, models.BudgetStatus{State: models.BudgetUnder, Amount: 1900}, sum.Budget)
	assert.Equal(t, s.Budget(), sum.Budget)
	assert.Len(t, sum.Items, 1)

	s.Clear(ctx)
	assert.Empty(t, s.Items())
	assert.Equal(t, 5000.0, s.Settings().Budget)
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, NewMemoryStorage())
	s.Toggle(ctx, kedarnath)

	items := s.Items()
	items[0].Priority = models.PriorityLow
	assert.Equal(t, models.PriorityMedium, s.Items()[0].Priority)
}
