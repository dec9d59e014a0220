package db

import (
	"context"
	"errors"

	"github.com/ukydev/yatra-planner/internal/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document with the requested ID does not exist.
var ErrNotFound = errors.New("not found")

// DestinationCollection defines the interface for destination catalog operations.
type DestinationCollection interface {
	InsertDestination(ctx context.Context, d models.Destination) error
	FindDestinations(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Destination, error)
	FindDestinationByID(ctx context.Context, id string) (*models.Destination, error)
	UpdateDestination(ctx context.Context, id string, d models.Destination) error
	DeleteDestination(ctx context.Context, id string) error
	CountDestinations(ctx context.Context) (int64, error)
}

// QuoteCollection defines the interface for quote request operations.
type QuoteCollection interface {
	InsertQuote(ctx context.Context, q models.Quote) error
	FindQuotesByOwner(ctx context.Context, ownerID string) ([]models.Quote, error)
	FindQuoteByID(ctx context.Context, id string) (*models.Quote, error)
	FindQuotesByStatus(ctx context.Context, status string) ([]models.Quote, error)
	// UpdateQuoteStatus writes q's status, quoted cost, handler and update
	// time only while the stored status is still from.
	UpdateQuoteStatus(ctx context.Context, q models.Quote, from string) error
}
