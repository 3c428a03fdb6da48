// Package schema holds the notification-type definitions for a session.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"dn-client/internal/common/cache"
	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/common/logger"
	"dn-client/internal/models"
)

// CacheKey is where the fetched schema list is stored.
const CacheKey = "create_info"

// Source produces the full list of notification types.
type Source interface {
	FetchSchemas(ctx context.Context) ([]models.NotificationTypeSchema, error)
}

// Registry fetches schemas once and serves them for the rest of the session.
// Concurrent first calls share a single fetch.
type Registry struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Logger

	mu      sync.Mutex
	loaded  bool
	schemas []models.NotificationTypeSchema
	byType  map[string]models.NotificationTypeSchema
}

// NewRegistry builds a Registry over source. c may be nil, in which case
// only the in-process copy is kept.
func NewRegistry(source Source, c cache.Cache, ttl time.Duration, log logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Registry{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "schema-registry"}),
	}
}

// ListSchemas returns every known notification type in source order.
func (r *Registry) ListSchemas(ctx context.Context) ([]models.NotificationTypeSchema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]models.NotificationTypeSchema, len(r.schemas))
	copy(out, r.schemas)
	return out, nil
}

// FindSchema looks a type up by id.
func (r *Registry) FindSchema(ctx context.Context, typeID string) (models.NotificationTypeSchema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(ctx); err != nil {
		return models.NotificationTypeSchema{}, err
	}
	s, ok := r.byType[typeID]
	if !ok {
		return models.NotificationTypeSchema{}, apperrors.NewSchemaNotFoundError(typeID)
	}
	return s, nil
}

// Invalidate drops the in-process copy and the shared cache entry.
func (r *Registry) Invalidate(ctx context.Context) error {
	r.mu.Lock()
	r.loaded = false
	r.schemas = nil
	r.byType = nil
	r.mu.Unlock()

	if r.cache != nil {
		return r.cache.Del(ctx, CacheKey)
	}
	return nil
}

func (r *Registry) loadLocked(ctx context.Context) error {
	if r.loaded {
		return nil
	}

	if schemas, ok := r.fromCache(ctx); ok {
		r.setLocked(schemas)
		return nil
	}

	schemas, err := r.source.FetchSchemas(ctx)
	if err != nil {
		return err
	}
	r.setLocked(schemas)
	r.logger.Info("schemas loaded", map[string]interface{}{"count": len(schemas)})

	if r.cache != nil {
		if data, err := json.Marshal(schemas); err == nil {
			if err := r.cache.Set(ctx, CacheKey, data, r.ttl); err != nil {
				r.logger.Warn("failed to cache schemas", map[string]interface{}{"error": err})
			}
		}
	}
	return nil
}

func (r *Registry) fromCache(ctx context.Context) ([]models.NotificationTypeSchema, bool) {
	if r.cache == nil {
		return nil, false
	}
	data, err := r.cache.Get(ctx, CacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			r.logger.Warn("schema cache unavailable", map[string]interface{}{"error": err})
		}
		return nil, false
	}
	var schemas []models.NotificationTypeSchema
	if err := json.Unmarshal(data, &schemas); err != nil {
		r.logger.Warn("discarding corrupt schema cache entry", map[string]interface{}{"error": err})
		return nil, false
	}
	r.logger.Debug("schemas served from cache", map[string]interface{}{"count": len(schemas)})
	return schemas, true
}

func (r *Registry) setLocked(schemas []models.NotificationTypeSchema) {
	r.schemas = schemas
	r.byType = make(map[string]models.NotificationTypeSchema, len(schemas))
	for _, s := range schemas {
		if _, dup := r.byType[s.TypeID]; !dup {
			r.byType[s.TypeID] = s
		}
	}
	r.loaded = true
}
