package repositories_test

import (
	"context"
	"testing"

	"inventory/internal/database"
	"inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGORMRepo backs a repository with a private in-memory SQLite database.
func newGORMRepo(t *testing.T) repositories.ProductRepository {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return repositories.NewGORMProductRepository(db)
}

// forEachRepo runs fn against every ProductRepository implementation.
func forEachRepo(t *testing.T, fn func(t *testing.T, repo repositories.ProductRepository)) {
	t.Run("gorm", func(t *testing.T) { fn(t, newGORMRepo(t)) })
	t.Run("mock", func(t *testing.T) { fn(t, repositories.NewMockProductRepository()) })
}

func seed(t *testing.T, repo repositories.ProductRepository, products ...*models.Product) {
	t.Helper()
	for _, p := range products {
		_, err := repo.Save(context.Background(), p)
		require.NoError(t, err)
	}
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestProductRepository_SaveAssignsID(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		input := models.NewProduct("Computer", 4000, 55)

		saved, err := repo.Save(ctx, input)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)

		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, models.Product{ID: saved.ID, Name: "Computer", Price: 4000, Quantity: 55}, *found)
	})
}

func TestProductRepository_SaveUpdatesExisting(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		p := models.NewProduct("Printer", 50, 30)
		seed(t, repo, p)

		_, err := repo.Save(ctx, &models.Product{ID: p.ID, Name: "Laser Printer", Price: 0, Quantity: 2})
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Laser Printer", found.Name)
		assert.Equal(t, 0.0, found.Price)
		assert.Equal(t, 2.0, found.Quantity)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestProductRepository_SaveUnknownIDIsNoop(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		seed(t, repo, models.NewProduct("Computer", 4000, 55))

		_, err := repo.Save(ctx, &models.Product{ID: 999, Name: "Ghost", Price: 1, Quantity: 1})
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, found)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Computer"}, names(all))
	})
}

func TestProductRepository_FindByIDAbsent(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		found, err := repo.FindByID(context.Background(), 42)
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestProductRepository_FindAllInsertionOrder(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		seed(t, repo,
			models.NewProduct("Computer", 4000, 55),
			models.NewProduct("Smartphone", 320, 34),
			models.NewProduct("Printer", 50, 30),
		)

		all, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Computer", "Smartphone", "Printer"}, names(all))
	})
}

func TestProductRepository_FindByNameContainsIgnoreCase(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		seed(t, repo,
			models.NewProduct("Computer", 4000, 55),
			models.NewProduct("Smartphone", 320, 34),
			models.NewProduct("Printer", 50, 30),
			models.NewProduct("100% Cotton_Shirt", 20, 5),
			models.NewProduct("Écran", 180, 7),
		)

		tests := []struct {
			keyword string
			want    []string
		}{
			{"", []string{"Computer", "Smartphone", "Printer", "100% Cotton_Shirt", "Écran"}},
			{"écran", []string{"Écran"}},
			{"ÉCRAN", []string{"Écran"}},
			{"cran", []string{"Écran"}},
			{"phone", []string{"Smartphone"}},
			{"SMART", []string{"Smartphone"}},
			{"comp", []string{"Computer"}},
			{"er", []string{"Computer", "Printer"}},
			{"tablet", []string{}},
			{"%", []string{"100% Cotton_Shirt"}},
			{"n_s", []string{"100% Cotton_Shirt"}},
			{"r_n", []string{}},
		}

		for _, tt := range tests {
			got, err := repo.FindByNameContainsIgnoreCase(context.Background(), tt.keyword)
			require.NoError(t, err, tt.keyword)
			assert.Equal(t, tt.want, names(got), "keyword %q", tt.keyword)
		}
	})
}

func TestProductRepository_DeleteByID(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()
		p := models.NewProduct("Computer", 4000, 55)
		seed(t, repo, p)

		require.NoError(t, repo.DeleteByID(ctx, p.ID))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		err = repo.DeleteByID(ctx, p.ID)
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	})
}

func TestProductRepository_Lifecycle(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo repositories.ProductRepository) {
		ctx := context.Background()

		saved, err := repo.Save(ctx, models.NewProduct("Computer", 4000, 55))
		require.NoError(t, err)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Contains(t, all, *saved)

		found, err := repo.FindByNameContainsIgnoreCase(ctx, "comp")
		require.NoError(t, err)
		assert.Equal(t, []models.Product{*saved}, found)

		require.NoError(t, repo.DeleteByID(ctx, saved.ID))

		all, err = repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotContains(t, all, *saved)
	})
}
