package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ukydev/yatra-planner/internal/models"
)

// Messages raised through the Notifier when a save fails.
const (
	PlanSaveFailedMessage     = "Could not save your yatra plan. Your changes are kept for this session."
	SettingsSaveFailedMessage = "Could not save your trip settings. Your changes are kept for this session."
	PlanLoadFailedMessage     = "Your saved yatra plan could not be read and was reset."
	SettingsLoadFailedMessage = "Your saved trip settings could not be read and were reset."
)

// Store is an ordered set of planned destinations plus trip settings.
//
// Every mutation is applied in memory first and then persisted. A failed save
// is reported through the Notifier and never undoes the mutation. A Store is
// not safe for concurrent use; see Sessions.
type Store struct {
	storage  Storage
	keys     Keys
	notifier Notifier
	now      func() time.Time

	items    []models.PlanItem
	settings models.PlanSettings
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the notifier that receives save and load notices.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock sets the clock used to date newly added destinations.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the plan and settings stored under keys. Documents that cannot be
// decoded are reported and replaced with an empty plan or default settings;
// storage errors are returned.
func Open(ctx context.Context, storage Storage, keys Keys, opts ...Option) (*Store, error) {
	s := &Store{
		storage:  storage,
		keys:     keys,
		notifier: discardNotifier{},
		now:      time.Now,
		items:    []models.PlanItem{},
		settings: models.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, found, err := storage.Load(ctx, keys.Plan)
	if err != nil {
		return nil, fmt.Errorf("open plan: load %q: %w", keys.Plan, err)
	}
	if found {
		items, err := DecodePlan(raw, s.today())
		if err != nil {
			s.notifier.Notify(ctx, Notice{Message: PlanLoadFailedMessage, Err: err})
		} else {
			s.items = items
		}
	}

	raw, found, err = storage.Load(ctx, keys.Settings)
	if err != nil {
		return nil, fmt.Errorf("open plan: load %q: %w", keys.Settings, err)
	}
	if found {
		settings, err := DecodeSettings(raw)
		if err != nil {
			s.notifier.Notify(ctx, Notice{Message: SettingsLoadFailedMessage, Err: err})
		}
		s.settings = settings
	}

	return s, nil
}

func (s *Store) today() string {
	return s.now().Format(models.DateLayout)
}

// Items returns the plan in insertion order.
func (s *Store) Items() []models.PlanItem {
	return append([]models.PlanItem(nil), s.items...)
}

// Len is the number of destinations in the plan.
func (s *Store) Len() int {
	return len(s.items)
}

// Settings returns a copy of the trip settings.
func (s *Store) Settings() models.PlanSettings {
	out := s.settings
	out.FamilyMembers = append([]models.FamilyMember{}, s.settings.FamilyMembers...)
	return out
}

func (s *Store) indexOf(destinationID string) int {
	for i, item := range s.items {
		if item.Destination.ID == destinationID {
			return i
		}
	}
	return -1
}

// IsInPlan reports whether the destination is in the plan.
func (s *Store) IsInPlan(destinationID string) bool {
	return s.indexOf(destinationID) >= 0
}

// Toggle removes the destination if it is planned, otherwise appends it dated
// today with travel mode Car and priority Medium. It reports whether the
// destination is in the plan afterwards.
func (s *Store) Toggle(ctx context.Context, d models.Destination) bool {
	if i := s.indexOf(d.ID); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		s.persistPlan(ctx)
		return false
	}
	s.items = append(s.items, models.PlanItem{
		Destination: d,
		VisitDate:   s.today(),
		TravelMode:  models.TravelCar,
		Priority:    models.PriorityMedium,
	})
	s.persistPlan(ctx)
	return true
}

// Remove drops the destination from the plan. It reports whether anything
// was removed; removing an absent destination changes nothing.
func (s *Store) Remove(ctx context.Context, destinationID string) bool {
	i := s.indexOf(destinationID)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.persistPlan(ctx)
	return true
}

// Update merges u into the planned destination. It reports whether the
// destination was found; an absent destination changes nothing.
func (s *Store) Update(ctx context.Context, destinationID string, u models.PlanItemUpdate) bool {
	i := s.indexOf(destinationID)
	if i < 0 {
		return false
	}
	s.items[i] = u.Apply(s.items[i])
	s.persistPlan(ctx)
	return true
}

// Clear empties the plan. Settings are kept.
func (s *Store) Clear(ctx context.Context) {
	s.items = []models.PlanItem{}
	s.persistPlan(ctx)
}

// SortedByPriority returns the plan ordered High, Medium, Low. Destinations of
// equal priority keep their insertion order and the plan itself is unchanged.
func (s *Store) SortedByPriority() []models.PlanItem {
	return SortByPriority(s.items)
}

// SortByPriority returns a priority-ordered copy of items.
func SortByPriority(items []models.PlanItem) []models.PlanItem {
	out := append([]models.PlanItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

// UpdateSettings applies u to the settings. Invalid results are rejected and
// leave the settings unchanged.
func (s *Store) UpdateSettings(ctx context.Context, u models.SettingsUpdate) (models.PlanSettings, error) {
	next := u.Apply(s.Settings())
	if err := next.Validate(); err != nil {
		return s.Settings(), err
	}
	s.settings = next
	s.persistSettings(ctx)
	return s.Settings(), nil
}

// AddFamilyMember registers a co-traveller. It fails with models.ErrPartyFull
// when the party has no room left.
func (s *Store) AddFamilyMember(ctx context.Context, name, idProof string) (models.FamilyMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.FamilyMember{}, fmt.Errorf("%w: family member name is required", models.ErrInvalidSettings)
	}
	if len(s.settings.FamilyMembers) >= s.settings.MaxFamilyMembers() {
		return models.FamilyMember{}, fmt.Errorf("%w: party of %d already has %d family members",
			models.ErrPartyFull, s.settings.NumberOfPersons, len(s.settings.FamilyMembers))
	}
	m := models.FamilyMember{ID: uuid.NewString(), Name: name, IDProof: strings.TrimSpace(idProof)}
	s.settings.FamilyMembers = append(s.Settings().FamilyMembers, m)
	s.persistSettings(ctx)
	return m, nil
}

// RemoveFamilyMember drops a co-traveller and reports whether one was removed.
func (s *Store) RemoveFamilyMember(ctx context.Context, id string) bool {
	members := s.settings.FamilyMembers
	for i, m := range members {
		if m.ID == id {
			s.settings.FamilyMembers = append(members[:i:i], members[i+1:]...)
			s.persistSettings(ctx)
			return true
		}
	}
	return false
}

// Cost prices the current plan with the current settings.
func (s *Store) Cost() models.CostBreakdown {
	return CalculateCosts(s.items, s.settings)
}

// Budget compares the current plan cost with the budget.
func (s *Store) Budget() models.BudgetStatus {
	return BudgetStatus(s.settings, s.Cost().TotalCost)
}

// Summary is the full planner view of a plan.
type Summary struct {
	Items    []models.PlanItem    `json:"items"`
	Settings models.PlanSettings  `json:"settings"`
	Cost     models.CostBreakdown `json:"cost"`
	Budget   models.BudgetStatus  `json:"budget"`
}

// Summary returns the plan, settings, cost and budget status together.
func (s *Store) Summary() Summary {
	cost := s.Cost()
	return Summary{
		Items:    s.Items(),
		Settings: s.Settings(),
		Cost:     cost,
		Budget:   BudgetStatus(s.settings, cost.TotalCost),
	}
}

func (s *Store) persistPlan(ctx context.Context) {
	raw, err := EncodePlan(s.items)
	if err == nil {
		err = s.storage.Save(ctx, s.keys.Plan, raw)
	}
	if err != nil {
		s.notifier.Notify(ctx, Notice{Message: PlanSaveFailedMessage, Err: err})
	}
}

func (s *Store) persistSettings(ctx context.Context) {
	raw, err := EncodeSettings(s.settings)
	if err == nil {
		err = s.storage.Save(ctx, s.keys.Settings, raw)
	}
	if err != nil {
		s.notifier.Notify(ctx, Notice{Message: SettingsSaveFailedMessage, Err: err})
	}
}
