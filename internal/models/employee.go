package models

// Employee represents a store employee. Every field is optional: a nil field means
// "no constraint" when used as a filter and "no change" when used as an update.
type Employee struct {
	ID          *uint32  `json:"id,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Surname     *string  `json:"surname,omitempty"`
	Position    *string  `json:"position,omitempty"`
	Department  *string  `json:"department,omitempty"`
	Shift       *string  `json:"shift,omitempty"`
	Salary      *float64 `json:"salary,omitempty"`
	PhoneNumber *string  `json:"phone_number,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Status      *bool    `json:"status,omitempty"`
	Note        *string  `json:"note,omitempty"`
	HireDate    *Date    `json:"hire_date,omitempty"`
}
