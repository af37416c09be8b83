package service

import "github.com/GTDGit/inventory_api/internal/models"

// EmployeeService handles employee business logic.
type EmployeeService struct {
	entityService[models.Employee]
}

// NewEmployeeService constructs an EmployeeService. cache may be nil.
func NewEmployeeService(store Store[models.Employee], cache Cache) *EmployeeService {
	return &EmployeeService{entityService[models.Employee]{
		entity: "employees",
		store:  store,
		cache:  cache,
		byID:   func(id uint32) *models.Employee { return &models.Employee{ID: &id} },
	}}
}
