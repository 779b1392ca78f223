package repositories

import (
	"context"
	"errors"

	"inventory/internal/models"
)

// ErrProductNotFound is returned by DeleteByID when no row has the given ID.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Save inserts the product when it has no ID yet and updates the row with
	// the same ID otherwise. Updating an ID that does not exist is a no-op.
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	// FindByID returns nil without an error when the product does not exist.
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByNameContainsIgnoreCase(ctx context.Context, keyword string) ([]models.Product, error)
	DeleteByID(ctx context.Context, id uint) error
}
