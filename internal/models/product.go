package models

// Product represents an item held in the store.
// EmployeeID references Employee.ID; the reference is not enforced.
type Product struct {
	ID          *uint32  `json:"id,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Quantity    *uint32  `json:"quantity,omitempty"`
	Status      *bool    `json:"status,omitempty"`
	BarCode     *int64   `json:"bar_code,omitempty"`
	CostPrice   *float64 `json:"cost_price,omitempty"`
	SellPrice   *float64 `json:"sell_price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Supplier    *string  `json:"supplier,omitempty"`
	EmployeeID  *uint32  `json:"employee_id,omitempty"`
	DateAdded   *Date    `json:"date_added,omitempty"`
	DateRemove  *Date    `json:"date_remove,omitempty"`
}
