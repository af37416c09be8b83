package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/inventory_api/internal/database/dbtest"
	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/utils"
)

func newProduct(name, category string, quantity uint32) *models.Product {
	return &models.Product{
		Name:      models.Ptr(name),
		Category:  models.Ptr(category),
		Quantity:  models.Ptr(quantity),
		BarCode:   models.Ptr(int64(8586000000000)),
		CostPrice: models.Ptr(0.8),
		SellPrice: models.Ptr(1.2),
	}
}

func TestProductPartialUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(dbtest.New(t))

	added := models.NewDate(2024, time.January, 2)
	p := newProduct("Green tea", "drinks", 10)
	p.Description = models.Ptr("loose leaf")
	p.EmployeeID = models.Ptr(uint32(7))
	p.DateAdded = &added
	require.NoError(t, repo.Create(ctx, p))

	removed := models.NewDate(2024, time.June, 30)
	ok, err := repo.Update(ctx, &models.Product{ID: p.ID, Quantity: models.Ptr(uint32(0)), DateRemove: &removed})
	require.NoError(t, err)
	require.True(t, ok)

	found, err := repo.Query(ctx, &models.Product{ID: p.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)

	want := *p
	want.Quantity = models.Ptr(uint32(0))
	want.DateRemove = &removed
	assert.Equal(t, want, found[0])
	assert.Nil(t, found[0].Status)
}

func TestProductExactFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(dbtest.New(t))

	a := newProduct("Green tea", "drinks", 10)
	a.DateAdded = models.Ptr(models.NewDate(2024, time.May, 1))
	a.EmployeeID = models.Ptr(uint32(1))
	b := newProduct("Black tea", "drinks", 3)
	b.BarCode = models.Ptr(int64(42))
	b.Description = models.Ptr("Strong and bitter")
	c := newProduct("Tea cup", "kitchen", 3)
	for _, p := range []*models.Product{a, b, c} {
		require.NoError(t, repo.Create(ctx, p))
	}

	cases := []struct {
		name   string
		filter models.Product
		want   int
	}{
		{"category", models.Product{Category: models.Ptr("drinks")}, 2},
		{"quantity", models.Product{Quantity: models.Ptr(uint32(3))}, 2},
		{"bar code", models.Product{BarCode: models.Ptr(int64(42))}, 1},
		{"date added", models.Product{DateAdded: models.Ptr(models.NewDate(2024, time.May, 1))}, 1},
		{"employee", models.Product{EmployeeID: models.Ptr(uint32(1))}, 1},
		{"sell price", models.Product{SellPrice: models.Ptr(1.2)}, 3},
		{"name substring", models.Product{Name: models.Ptr("tea")}, 3},
		{"description substring", models.Product{Description: models.Ptr("BITTER")}, 1},
		{"no match", models.Product{Category: models.Ptr("drinks"), Quantity: models.Ptr(uint32(99))}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := repo.Query(ctx, &tc.filter)
			require.NoError(t, err)
			assert.Len(t, found, tc.want)
		})
	}
}

func TestProductCreateRequiresColumns(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(dbtest.New(t))

	p := &models.Product{Name: models.Ptr("Green tea")}
	assert.Equal(t, []string{"category", "quantity", "bar_code", "cost_price", "sell_price"}, repo.Missing(p))
	assert.Error(t, repo.Create(ctx, p))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProductNarrowingRejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewProductRepository(db)

	cases := map[string]string{
		"quantity":    `INSERT INTO products (name, category, quantity, bar_code, cost_price, sell_price) VALUES ('x', 'y', 4294967296, 1, 1, 1)`,
		"employee_id": `INSERT INTO products (name, category, quantity, bar_code, cost_price, sell_price, employee_id) VALUES ('x', 'y', 1, 1, 1, 1, -1)`,
	}
	for column, insert := range cases {
		t.Run(column, func(t *testing.T) {
			_, err := db.Exec(`DELETE FROM products`)
			require.NoError(t, err)
			_, err = db.Exec(insert)
			require.NoError(t, err)

			_, err = repo.Query(ctx, nil)
			require.ErrorIs(t, err, utils.ErrOutOfRange)
			assert.ErrorContains(t, err, column)
		})
	}
}

func TestProductNarrowingBoundary(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(dbtest.New(t))

	p := newProduct("Bulk rice", "food", 4294967295)
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.Query(ctx, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, uint32(4294967295), *found[0].Quantity)
}

func TestProductMalformedStoredDate(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewProductRepository(db)

	_, err := db.Exec(`INSERT INTO products (name, category, quantity, bar_code, cost_price, sell_price, date_added)
		VALUES ('x', 'y', 1, 1, 1, 1, 'yesterday')`)
	require.NoError(t, err)

	_, err = repo.Query(ctx, nil)
	assert.ErrorContains(t, err, "date_added")
}
