package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/query"
)

// employeeSchema lists the employees columns in declaration order. The order fixes
// the generated SQL and the order of bound arguments.
var employeeSchema = query.Schema[models.Employee]{
	Table: "employees",
	Columns: []query.Column[models.Employee]{
		{Name: "id", Kind: query.Identifier, Get: func(e *models.Employee) (any, bool) { return query.Wide(e.ID) }},
		{Name: "name", Kind: query.Substring, Get: func(e *models.Employee) (any, bool) { return query.Value(e.Name) }},
		{Name: "surname", Kind: query.Substring, Get: func(e *models.Employee) (any, bool) { return query.Value(e.Surname) }},
		{Name: "position", Kind: query.Exact, Required: true, Get: func(e *models.Employee) (any, bool) { return query.Value(e.Position) }},
		{Name: "department", Kind: query.Exact, Get: func(e *models.Employee) (any, bool) { return query.Value(e.Department) }},
		{Name: "shift", Kind: query.Exact, Get: func(e *models.Employee) (any, bool) { return query.Value(e.Shift) }},
		{Name: "salary", Kind: query.Exact, Get: func(e *models.Employee) (any, bool) { return query.Value(e.Salary) }},
		{Name: "phone_number", Kind: query.Exact, Get: func(e *models.Employee) (any, bool) { return query.Value(e.PhoneNumber) }},
		{Name: "email", Kind: query.Exact, Get: func(e *models.Employee) (any, bool) { return query.Value(e.Email) }},
		{Name: "status", Kind: query.Exact, Get: func(e *models.Employee) (any, bool) { return query.Flag(e.Status) }},
		{Name: "note", Kind: query.Substring, Get: func(e *models.Employee) (any, bool) { return query.Value(e.Note) }},
		{Name: "hire_date", Kind: query.Exact, Get: func(e *models.Employee) (any, bool) { return query.Value(e.HireDate) }},
	},
}

type employeeRow struct {
	ID          int64           `db:"id"`
	Name        sql.NullString  `db:"name"`
	Surname     sql.NullString  `db:"surname"`
	Position    sql.NullString  `db:"position"`
	Department  sql.NullString  `db:"department"`
	Shift       sql.NullString  `db:"shift"`
	Salary      sql.NullFloat64 `db:"salary"`
	PhoneNumber sql.NullString  `db:"phone_number"`
	Email       sql.NullString  `db:"email"`
	Status      sql.NullInt64   `db:"status"`
	Note        sql.NullString  `db:"note"`
	HireDate    sql.NullString  `db:"hire_date"`
}

func (r employeeRow) model() (models.Employee, error) {
	id, err := narrow("id", r.ID)
	if err != nil {
		return models.Employee{}, err
	}
	hired, err := nullDate("hire_date", r.HireDate)
	if err != nil {
		return models.Employee{}, err
	}
	return models.Employee{
		ID:          &id,
		Name:        nullString(r.Name),
		Surname:     nullString(r.Surname),
		Position:    nullString(r.Position),
		Department:  nullString(r.Department),
		Shift:       nullString(r.Shift),
		Salary:      nullFloat(r.Salary),
		PhoneNumber: nullString(r.PhoneNumber),
		Email:       nullString(r.Email),
		Status:      nullFlag(r.Status),
		Note:        nullString(r.Note),
		HireDate:    hired,
	}, nil
}

// EmployeeRepository provides data access methods for the employees table.
type EmployeeRepository struct {
	t table[models.Employee, employeeRow]
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{t: newTable[models.Employee, employeeRow](db, employeeSchema, employeeID)}
}

func employeeID(e *models.Employee) *uint32 { return e.ID }

// Create inserts a new employee, ignoring any id it carries, and sets the id
// assigned by the store on e. It fails when a NOT NULL column is unset.
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	id, err := r.t.create(ctx, e)
	if err != nil {
		return err
	}
	e.ID = &id
	return nil
}

// Delete removes the employee with id. It reports whether a row existed.
func (r *EmployeeRepository) Delete(ctx context.Context, id uint32) (bool, error) {
	return r.t.delete(ctx, id)
}

// Update writes the set fields of e to the row identified by e.ID, leaving unset
// fields untouched. It returns false without touching the store when e has no id
// or no field to change, and false when no row matched.
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) (bool, error) {
	return r.t.update(ctx, e)
}

// Query returns the employees matching filter ordered by id. A nil or empty
// filter returns every employee.
func (r *EmployeeRepository) Query(ctx context.Context, filter *models.Employee) ([]models.Employee, error) {
	return r.t.query(ctx, filter)
}

// Count returns the number of stored employees.
func (r *EmployeeRepository) Count(ctx context.Context) (int, error) {
	return r.t.count(ctx)
}

// Missing returns the required columns e leaves unset.
func (r *EmployeeRepository) Missing(e *models.Employee) []string {
	return employeeSchema.Missing(e)
}
