package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/utils"
)

// Cache is the read-through cache for query results. *cache.QueryCache implements it.
type Cache interface {
	// Get returns the generation the lookup ran under alongside the result.
	Get(ctx context.Context, entity string, filter, dst any) (generation string, hit bool, err error)
	// Set files result under the generation returned by the preceding Get.
	Set(ctx context.Context, entity, generation string, filter, result any) error
	Invalidate(ctx context.Context, entity string) error
}

// Store is the persistence contract shared by the entity repositories.
type Store[T any] interface {
	Create(ctx context.Context, e *T) error
	Delete(ctx context.Context, id uint32) (bool, error)
	Update(ctx context.Context, e *T) (bool, error)
	Query(ctx context.Context, filter *T) ([]T, error)
	Count(ctx context.Context) (int, error)
	Missing(e *T) []string
}

// entityService holds the behaviour common to employees and products: create
// validation, cache reads and cache invalidation after writes.
type entityService[T any] struct {
	entity string
	store  Store[T]
	cache  Cache
	byID   func(id uint32) *T
}

// Create validates required fields and inserts e. The store assigns e's id.
func (s *entityService[T]) Create(ctx context.Context, e *T) error {
	if missing := s.store.Missing(e); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", utils.ErrValidation, strings.Join(missing, ", "))
	}
	if err := s.store.Create(ctx, e); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Update applies a partial update. It reports false when there was nothing to
// update or no row with e's id.
func (s *entityService[T]) Update(ctx context.Context, e *T) (bool, error) {
	ok, err := s.store.Update(ctx, e)
	if err != nil || !ok {
		return ok, err
	}
	s.invalidate(ctx)
	return true, nil
}

// Delete removes the row with id and reports whether it existed.
func (s *entityService[T]) Delete(ctx context.Context, id uint32) (bool, error) {
	ok, err := s.store.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	s.invalidate(ctx)
	return true, nil
}

// Query returns the rows matching filter, from the cache when possible.
func (s *entityService[T]) Query(ctx context.Context, filter *T) ([]T, error) {
	if filter == nil {
		filter = new(T)
	}

	// Rows are cached only under the generation seen before the store read, so
	// a write that lands in between leaves them unreachable.
	var gen string
	cacheable := false
	if s.cache != nil {
		var cached []T
		g, hit, err := s.cache.Get(ctx, s.entity, filter, &cached)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("entity", s.entity).Msg("Cache read failed")
		case hit:
			return cached, nil
		default:
			gen, cacheable = g, true
		}
	}

	rows, err := s.store.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, s.entity, gen, filter, rows); err != nil {
			log.Warn().Err(err).Str("entity", s.entity).Msg("Cache write failed")
		}
	}
	return rows, nil
}

// Get returns the row with id or utils.ErrNotFound.
func (s *entityService[T]) Get(ctx context.Context, id uint32) (*T, error) {
	rows, err := s.Query(ctx, s.byID(id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %d: %w", s.entity, id, utils.ErrNotFound)
	}
	return &rows[0], nil
}

// Count returns the number of stored rows, bypassing the cache.
func (s *entityService[T]) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Invalidate drops the cached query results. Writes made past the service, such
// as a snapshot import, call it afterwards.
func (s *entityService[T]) Invalidate(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *entityService[T]) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, s.entity); err != nil {
		log.Error().Err(err).Str("entity", s.entity).Msg("Cache invalidation failed")
	}
}
