// Package gatewaytest checks that a repository.Gateway implementation honours
// the contract the engine relies on.
package gatewaytest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"lamx12/nutri-plan/internal/repository"
)

// Run exercises a fresh gateway from newGateway for every subtest.
func Run(t *testing.T, newGateway func(t *testing.T) repository.Gateway) {
	ctx := context.Background()

	t.Run("MissingKey", func(t *testing.T) {
		g := newGateway(t)
		if _, err := g.Get(ctx, "nutriai-profile"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
		}
	})

	t.Run("PutGetOverwrite", func(t *testing.T) {
		g := newGateway(t)
		if err := g.Put(ctx, "k", []byte(`{"v":1}`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := g.Put(ctx, "k", []byte(`{"v":2}`)); err != nil {
			t.Fatalf("Put overwrite: %v", err)
		}
		got, err := g.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, []byte(`{"v":2}`)) {
			t.Errorf("Get = %s, want the overwritten value", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		g := newGateway(t)
		_ = g.Put(ctx, "a", []byte("1"))
		_ = g.Put(ctx, "b", []byte("2"))
		if err := g.Delete(ctx, "a"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := g.Get(ctx, "a"); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("deleted key still readable: %v", err)
		}
		if _, err := g.Get(ctx, "b"); err != nil {
			t.Errorf("unrelated key lost: %v", err)
		}
		if err := g.Delete(ctx, "never-written"); err != nil {
			t.Errorf("Delete missing: %v", err)
		}
	})

	t.Run("ValueIsolation", func(t *testing.T) {
		g := newGateway(t)
		value := []byte("abc")
		_ = g.Put(ctx, "k", value)
		value[0] = 'x'
		got, _ := g.Get(ctx, "k")
		if string(got) != "abc" {
			t.Errorf("stored value aliased the caller's slice: %s", got)
		}
	})
}
