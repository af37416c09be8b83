package handler

import (
	"github.com/GTDGit/inventory_api/internal/models"
)

// ProductHandler handles /products endpoints.
type ProductHandler struct {
	entityHandler[models.Product]
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(svc EntityService[models.Product]) *ProductHandler {
	return &ProductHandler{entityHandler[models.Product]{
		svc:      svc,
		name:     "product",
		notFound: "PRODUCT_NOT_FOUND",
		setID:    func(p *models.Product, id *uint32) { p.ID = id },
	}}
}
