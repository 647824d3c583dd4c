package testutil

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// Cache is an in-memory availability cache that records invalidations
type Cache struct {
	mu          sync.Mutex
	snapshots   map[string]*domain.AvailabilitySnapshot
	invalidated []string
	services    []domain.ServiceType
}

func NewCache() *Cache {
	return &Cache{snapshots: make(map[string]*domain.AvailabilitySnapshot)}
}

func cacheKey(st domain.ServiceType, date string) string {
	return string(st) + ":" + date
}

func (c *Cache) Get(_ context.Context, st domain.ServiceType, date string) (*domain.AvailabilitySnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.snapshots[cacheKey(st, date)]
	return s, ok
}

func (c *Cache) Set(_ context.Context, s *domain.AvailabilitySnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[cacheKey(s.ServiceType, s.Date)] = s
}

func (c *Cache) Invalidate(_ context.Context, st domain.ServiceType, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := cacheKey(st, date)
	delete(c.snapshots, k)
	c.invalidated = append(c.invalidated, k)
}

func (c *Cache) InvalidateService(_ context.Context, st domain.ServiceType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, s := range c.snapshots {
		if s.ServiceType == st {
			delete(c.snapshots, k)
		}
	}
	c.services = append(c.services, st)
}

// Invalidated lists "service:date" keys passed to Invalidate, in call order
func (c *Cache) Invalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

// InvalidatedServices lists services passed to InvalidateService
func (c *Cache) InvalidatedServices() []domain.ServiceType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ServiceType(nil), c.services...)
}
