// Package memory provides an in-process Gateway. State lives only as long as the process.
package memory

import (
	"context"
	"sync"

	"lamx12/nutri-plan/internal/repository"
)

type gateway struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewGateway creates an empty in-memory gateway.
func NewGateway() repository.Gateway {
	return &gateway{data: make(map[string][]byte)}
}

func (g *gateway) Get(_ context.Context, key string) ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (g *gateway) Put(_ context.Context, key string, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	g.data[key] = v
	return nil
}

func (g *gateway) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.data, key)
	return nil
}

func (g *gateway) Close() error { return nil }
