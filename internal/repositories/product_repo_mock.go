package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"inventory/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// Save adds a new product or replaces an existing one.
func (r *MockProductRepository) Save(_ context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.IsNew() {
		product.ID = r.nextID
		r.nextID++
		r.products[product.ID] = *product
		return product, nil
	}
	if _, ok := r.products[product.ID]; ok {
		r.products[product.ID] = *product
	}
	return product, nil
}

// FindByID returns a product by its ID, or nil if there is none.
func (r *MockProductRepository) FindByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// FindAll returns all products ordered by ID.
func (r *MockProductRepository) FindAll(_ context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

// FindByNameContainsIgnoreCase returns products whose name contains keyword.
func (r *MockProductRepository) FindByNameContainsIgnoreCase(_ context.Context, keyword string) ([]models.Product, error) {
	keyword = strings.ToLower(keyword)
	return r.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), keyword)
	}), nil
}

// DeleteByID removes a product by its ID.
func (r *MockProductRepository) DeleteByID(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *MockProductRepository) filter(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList
}
