package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"inventory/internal/metrics"
	"inventory/internal/models"

	"gorm.io/gorm"
)

// likeEscaper makes LIKE wildcards in a search keyword match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Save creates the product or updates the existing row with its ID.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.IsNew() {
		defer metrics.ObserveDBQuery("insert", time.Now())
		if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
		return product, nil
	}

	defer metrics.ObserveDBQuery("update", time.Now())
	// Select forces zero values (e.g. a price of 0) into the update.
	res := r.db.WithContext(ctx).Model(product).Select("Name", "Price", "Quantity").Updates(product)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("Product with ID %d does not exist, update skipped", product.ID)
	}
	return product, nil
}

// FindByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// FindAll retrieves all products in insertion order.
func (r *GORMProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// FindByNameContainsIgnoreCase returns the products whose name contains keyword,
// ignoring case. An empty keyword matches every product.
func (r *GORMProductRepository) FindByNameContainsIgnoreCase(ctx context.Context, keyword string) ([]models.Product, error) {
	// SQLite's LOWER only folds ASCII, so the match is done in Go there.
	if r.db.Dialector.Name() == "sqlite" {
		products, err := r.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to search products by name %q: %w", keyword, err)
		}
		return filterByName(products, keyword), nil
	}

	defer metrics.ObserveDBQuery("select", time.Now())

	pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products by name %q: %w", keyword, err)
	}
	return products, nil
}

func filterByName(products []models.Product, keyword string) []models.Product {
	keyword = strings.ToLower(keyword)
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), keyword) {
			matched = append(matched, p)
		}
	}
	return matched
}

// DeleteByID deletes a product by its ID from the database.
func (r *GORMProductRepository) DeleteByID(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return nil
}
