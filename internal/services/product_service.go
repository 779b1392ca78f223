package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"inventory/internal/metrics"
	"inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Product event types.
const (
	EventProductSaved   = "product.saved"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers product events to a message broker.
type EventPublisher interface {
	PublishProductEvent(eventType string, body []byte) error
}

// ProductEvent is the message published after a successful store mutation.
type ProductEvent struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	ProductID  uint            `json:"product_id"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	validate  *validator.Validate
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are published.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		validate:  newValidator(),
	}
}

// Search returns the products whose name contains keyword, ignoring case.
func (s *ProductService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	return s.repo.FindByNameContainsIgnoreCase(ctx, keyword)
}

// Get returns the product with the given ID, or nil if there is none.
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Validate checks the product against its field constraints.
func (s *ProductService) Validate(product *models.Product) FieldErrors {
	return validateProduct(s.validate, product)
}

// Save validates the product and persists it. When validation fails the
// field errors are returned and the store is left untouched.
func (s *ProductService) Save(ctx context.Context, product *models.Product) (*models.Product, FieldErrors, error) {
	if fieldErrors := s.Validate(product); fieldErrors.HasErrors() {
		return nil, fieldErrors, nil
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, nil, err
	}

	s.publish(EventProductSaved, saved.ID, saved)
	return saved, nil, nil
}

// Delete deletes a product by its ID. A missing product is reported with an
// error wrapping repositories.ErrProductNotFound.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.publish(EventProductDeleted, id, nil)
	return nil
}

// publish never fails the calling operation: the store write already happened.
func (s *ProductService) publish(eventType string, id uint, product *models.Product) {
	if s.publisher == nil {
		metrics.ProductEvents.WithLabelValues(eventType, "skipped").Inc()
		return
	}

	body, err := json.Marshal(ProductEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		ProductID:  id,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %d: %v", eventType, id, err)
		metrics.ProductEvents.WithLabelValues(eventType, "failed").Inc()
		return
	}

	if err := s.publisher.PublishProductEvent(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", eventType, id, err)
		metrics.ProductEvents.WithLabelValues(eventType, "failed").Inc()
		return
	}
	metrics.ProductEvents.WithLabelValues(eventType, "published").Inc()
}
