// Package catalog serves the destination catalog from a YAML seed file or
// from MongoDB.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/yatra-planner/internal/db"
	"github.com/ukydev/yatra-planner/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned for an unknown destination ID.
var ErrNotFound = errors.New("destination not found")

// Provider lists catalog destinations.
type Provider interface {
	// ListDestinations returns every destination with its display name
	// localized for locale.
	ListDestinations(ctx context.Context, locale string) ([]models.Destination, error)
	// Destination returns one destination by ID, localized for locale.
	Destination(ctx context.Context, id, locale string) (models.Destination, error)
}

type seedFile struct {
	Destinations []models.Destination `yaml:"destinations"`
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) ([]models.Destination, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(f.Destinations); err != nil {
		return nil, err
	}
	return f.Destinations, nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) ([]models.Destination, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks that every destination has a unique ID, a name and valid
// coordinates.
func Validate(dests []models.Destination) error {
	seen := make(map[string]bool, len(dests))
	for i, d := range dests {
		switch {
		case strings.TrimSpace(d.ID) == "":
			return fmt.Errorf("catalog entry %d: id is required", i)
		case seen[d.ID]:
			return fmt.Errorf("catalog entry %d: duplicate id %q", i, d.ID)
		case strings.TrimSpace(d.Name) == "":
			return fmt.Errorf("catalog entry %q: name is required", d.ID)
		case !d.Coordinates.Valid():
			return fmt.Errorf("catalog entry %q: coordinates out of range", d.ID)
		case d.EstimatedDays < 0 || d.EstimatedCost < 0:
			return fmt.Errorf("catalog entry %q: estimates must not be negative", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

func localize(dests []models.Destination, locale string) []models.Destination {
	out := make([]models.Destination, len(dests))
	for i, d := range dests {
		out[i] = d.Localized(locale)
	}
	return out
}

// Static is a Provider over a fixed list of destinations.
type Static struct {
	dests []models.Destination
}

// NewStatic returns a Provider serving dests in the given order.
func NewStatic(dests []models.Destination) *Static {
	return &Static{dests: append([]models.Destination(nil), dests...)}
}

func (s *Static) ListDestinations(_ context.Context, locale string) ([]models.Destination, error) {
	return localize(s.dests, locale), nil
}

func (s *Static) Destination(_ context.Context, id, locale string) (models.Destination, error) {
	for _, d := range s.dests {
		if d.ID == id {
			return d.Localized(locale), nil
		}
	}
	return models.Destination{}, fmt.Errorf("%q: %w", id, ErrNotFound)
}

// Mongo is a Provider backed by the destinations collection.
type Mongo struct {
	Collection db.DestinationCollection
}

func (m *Mongo) ListDestinations(ctx context.Context, locale string) ([]models.Destination, error) {
	dests, err := m.Collection.FindDestinations(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return localize(dests, locale), nil
}

func (m *Mongo) Destination(ctx context.Context, id, locale string) (models.Destination, error) {
	d, err := m.Collection.FindDestinationByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return models.Destination{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Destination{}, fmt.Errorf("find destination %q: %w", id, err)
	}
	return d.Localized(locale), nil
}

// SeedIfEmpty inserts dests into an empty collection. It returns the number
// of destinations inserted.
func SeedIfEmpty(ctx context.Context, coll db.DestinationCollection, dests []models.Destination) (int, error) {
	n, err := coll.CountDestinations(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed catalog: count: %w", err)
	}
	if n > 0 {
		log.WithField("count", n).Debug("Destination catalog already seeded")
		return 0, nil
	}
	for i, d := range dests {
		if err := coll.InsertDestination(ctx, d); err != nil {
			return i, fmt.Errorf("seed catalog: insert %q: %w", d.ID, err)
		}
	}
	log.WithField("count", len(dests)).Info("Seeded destination catalog")
	return len(dests), nil
}
