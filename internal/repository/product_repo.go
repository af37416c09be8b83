package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/query"
)

var productSchema = query.Schema[models.Product]{
	Table: "products",
	Columns: []query.Column[models.Product]{
		{Name: "id", Kind: query.Identifier, Get: func(p *models.Product) (any, bool) { return query.Wide(p.ID) }},
		{Name: "name", Kind: query.Substring, Required: true, Get: func(p *models.Product) (any, bool) { return query.Value(p.Name) }},
		{Name: "category", Kind: query.Exact, Required: true, Get: func(p *models.Product) (any, bool) { return query.Value(p.Category) }},
		{Name: "quantity", Kind: query.Exact, Required: true, Get: func(p *models.Product) (any, bool) { return query.Wide(p.Quantity) }},
		{Name: "status", Kind: query.Exact, Get: func(p *models.Product) (any, bool) { return query.Flag(p.Status) }},
		{Name: "bar_code", Kind: query.Exact, Required: true, Get: func(p *models.Product) (any, bool) { return query.Value(p.BarCode) }},
		{Name: "cost_price", Kind: query.Exact, Required: true, Get: func(p *models.Product) (any, bool) { return query.Value(p.CostPrice) }},
		{Name: "sell_price", Kind: query.Exact, Required: true, Get: func(p *models.Product) (any, bool) { return query.Value(p.SellPrice) }},
		{Name: "description", Kind: query.Substring, Get: func(p *models.Product) (any, bool) { return query.Value(p.Description) }},
		{Name: "brand", Kind: query.Exact, Get: func(p *models.Product) (any, bool) { return query.Value(p.Brand) }},
		{Name: "supplier", Kind: query.Exact, Get: func(p *models.Product) (any, bool) { return query.Value(p.Supplier) }},
		{Name: "employee_id", Kind: query.Exact, Get: func(p *models.Product) (any, bool) { return query.Wide(p.EmployeeID) }},
		{Name: "date_added", Kind: query.Exact, Get: func(p *models.Product) (any, bool) { return query.Value(p.DateAdded) }},
		{Name: "date_remove", Kind: query.Exact, Get: func(p *models.Product) (any, bool) { return query.Value(p.DateRemove) }},
	},
}

type productRow struct {
	ID          int64           `db:"id"`
	Name        sql.NullString  `db:"name"`
	Category    sql.NullString  `db:"category"`
	Quantity    sql.NullInt64   `db:"quantity"`
	Status      sql.NullInt64   `db:"status"`
	BarCode     sql.NullInt64   `db:"bar_code"`
	CostPrice   sql.NullFloat64 `db:"cost_price"`
	SellPrice   sql.NullFloat64 `db:"sell_price"`
	Description sql.NullString  `db:"description"`
	Brand       sql.NullString  `db:"brand"`
	Supplier    sql.NullString  `db:"supplier"`
	EmployeeID  sql.NullInt64   `db:"employee_id"`
	DateAdded   sql.NullString  `db:"date_added"`
	DateRemove  sql.NullString  `db:"date_remove"`
}

func (r productRow) model() (models.Product, error) {
	var p models.Product
	id, err := narrow("id", r.ID)
	if err != nil {
		return p, err
	}
	quantity, err := nullUint32("quantity", r.Quantity)
	if err != nil {
		return p, err
	}
	employeeID, err := nullUint32("employee_id", r.EmployeeID)
	if err != nil {
		return p, err
	}
	added, err := nullDate("date_added", r.DateAdded)
	if err != nil {
		return p, err
	}
	removed, err := nullDate("date_remove", r.DateRemove)
	if err != nil {
		return p, err
	}

	p = models.Product{
		ID:          &id,
		Name:        nullString(r.Name),
		Category:    nullString(r.Category),
		Quantity:    quantity,
		Status:      nullFlag(r.Status),
		BarCode:     nullInt64(r.BarCode),
		CostPrice:   nullFloat(r.CostPrice),
		SellPrice:   nullFloat(r.SellPrice),
		Description: nullString(r.Description),
		Brand:       nullString(r.Brand),
		Supplier:    nullString(r.Supplier),
		EmployeeID:  employeeID,
		DateAdded:   added,
		DateRemove:  removed,
	}
	return p, nil
}

// ProductRepository handles data access for products.
type ProductRepository struct {
	t table[models.Product, productRow]
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{t: newTable[models.Product, productRow](db, productSchema, productID)}
}

func productID(p *models.Product) *uint32 { return p.ID }

// Create inserts a new product and sets the assigned id on p.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	id, err := r.t.create(ctx, p)
	if err != nil {
		return err
	}
	p.ID = &id
	return nil
}

// Delete deletes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id uint32) (bool, error) {
	return r.t.delete(ctx, id)
}

// Update applies the set fields of p to the product with p.ID.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) (bool, error) {
	return r.t.update(ctx, p)
}

// Query returns the products matching filter; name and description match by substring.
func (r *ProductRepository) Query(ctx context.Context, filter *models.Product) ([]models.Product, error) {
	return r.t.query(ctx, filter)
}

// Count returns the number of stored products.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	return r.t.count(ctx)
}

// Missing returns the required columns p leaves unset.
func (r *ProductRepository) Missing(p *models.Product) []string {
	return productSchema.Missing(p)
}
