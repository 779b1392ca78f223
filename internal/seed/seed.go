package seed

import (
	"context"
	"fmt"
	"log"

	"inventory/internal/models"
	"inventory/internal/repositories"
)

// Products returns the demo catalog.
func Products() []*models.Product {
	return []*models.Product{
		models.NewProduct("Computer", 4000, 55),
		models.NewProduct("Smartphone", 320, 34),
		models.NewProduct("Printer", 50, 30),
	}
}

// Run inserts the demo catalog into an empty table and logs every row.
// A table that already holds products is left as is.
func Run(ctx context.Context, repo repositories.ProductRepository) error {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		for _, p := range Products() {
			if _, err := repo.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
			}
		}
	} else {
		log.Printf("Catalog already holds %d products, seeding skipped", len(existing))
	}

	products, err := repo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		log.Println(p.String())
	}
	return nil
}
