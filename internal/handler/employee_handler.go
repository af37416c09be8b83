package handler

import (
	"github.com/GTDGit/inventory_api/internal/models"
)

// EmployeeHandler handles /employees endpoints.
type EmployeeHandler struct {
	entityHandler[models.Employee]
}

// NewEmployeeHandler constructs an EmployeeHandler.
func NewEmployeeHandler(svc EntityService[models.Employee]) *EmployeeHandler {
	return &EmployeeHandler{entityHandler[models.Employee]{
		svc:      svc,
		name:     "employee",
		notFound: "EMPLOYEE_NOT_FOUND",
		setID:    func(e *models.Employee, id *uint32) { e.ID = id },
	}}
}
