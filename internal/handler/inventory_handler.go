package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/utils"
)

// EntityService is the service contract behind the employee and product endpoints.
type EntityService[T any] interface {
	Create(ctx context.Context, e *T) error
	Update(ctx context.Context, e *T) (bool, error)
	Delete(ctx context.Context, id uint32) (bool, error)
	Query(ctx context.Context, filter *T) ([]T, error)
	Get(ctx context.Context, id uint32) (*T, error)
}

// entityHandler serves the CRUD and search endpoints of one entity.
type entityHandler[T any] struct {
	svc      EntityService[T]
	name     string // singular, for messages and logs
	notFound string // API error code for a missing id
	setID    func(e *T, id *uint32)
}

// storeContext detaches persistence work from the request: a client that goes
// away does not abort a statement already issued.
func storeContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// List handles GET /{entities}
func (h *entityHandler[T]) List(c *gin.Context) {
	rows, err := h.svc.Query(storeContext(c), nil)
	if err != nil {
		h.internalError(c, err, "list")
		return
	}
	utils.List(c, http.StatusOK, "OK", rows)
}

// Search handles POST /{entities}/search
func (h *entityHandler[T]) Search(c *gin.Context) {
	var filter T
	if err := c.ShouldBindJSON(&filter); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rows, err := h.svc.Query(storeContext(c), &filter)
	if err != nil {
		h.internalError(c, err, "search")
		return
	}
	utils.List(c, http.StatusOK, "OK", rows)
}

// Get handles GET /{entities}/:id
func (h *entityHandler[T]) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	e, err := h.svc.Get(storeContext(c), id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, http.StatusNotFound, h.notFound, "Not found")
			return
		}
		h.internalError(c, err, "get")
		return
	}
	utils.Success(c, http.StatusOK, "OK", e)
}

// Create handles POST /{entities}. Any id in the body is ignored.
func (h *entityHandler[T]) Create(c *gin.Context) {
	var e T
	if err := c.ShouldBindJSON(&e); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	h.setID(&e, nil)

	if err := h.svc.Create(storeContext(c), &e); err != nil {
		if errors.Is(err, utils.ErrValidation) {
			utils.Error(c, http.StatusBadRequest, utils.ErrValidation.Error(), err.Error())
			return
		}
		h.internalError(c, err, "create")
		return
	}
	utils.Success(c, http.StatusCreated, "Created", e)
}

// Update handles PUT /{entities}/:id. The id in the path wins over the body.
func (h *entityHandler[T]) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var e T
	if err := c.ShouldBindJSON(&e); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	h.setID(&e, &id)

	ctx := storeContext(c)
	updated, err := h.svc.Update(ctx, &e)
	if err != nil {
		h.internalError(c, err, "update")
		return
	}
	if !updated {
		log.Debug().Str("entity", h.name).Uint32("id", id).Msg("Nothing updated")
		utils.Error(c, http.StatusNotFound, h.notFound, "Not found or nothing to update")
		return
	}

	current, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// Deleted concurrently, right after the update.
			utils.Error(c, http.StatusNotFound, h.notFound, "Not found")
			return
		}
		h.internalError(c, err, "update")
		return
	}
	utils.Success(c, http.StatusOK, "Updated", current)
}

// Delete handles DELETE /{entities}/:id
func (h *entityHandler[T]) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(storeContext(c), id)
	if err != nil {
		h.internalError(c, err, "delete")
		return
	}
	if !deleted {
		utils.Error(c, http.StatusNotFound, h.notFound, "Not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *entityHandler[T]) pathID(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+h.name+" ID")
		return 0, false
	}
	return uint32(id), true
}

// internalError logs the store error and answers with a generic 500; driver
// text never reaches the client.
func (h *entityHandler[T]) internalError(c *gin.Context, err error, op string) {
	log.Error().Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("entity", h.name).
		Str("op", op).
		Msg("Store operation failed")
	utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
