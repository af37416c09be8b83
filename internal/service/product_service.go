package service

import "github.com/GTDGit/inventory_api/internal/models"

// ProductService handles product business logic.
type ProductService struct {
	entityService[models.Product]
}

// NewProductService constructs a ProductService. cache may be nil.
func NewProductService(store Store[models.Product], cache Cache) *ProductService {
	return &ProductService{entityService[models.Product]{
		entity: "products",
		store:  store,
		cache:  cache,
		byID:   func(id uint32) *models.Product { return &models.Product{ID: &id} },
	}}
}
