package service

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/hugo050303/barber-saas/internal/repository"
)

func TestClientDirectory_ResolveOrCreate(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	dir := NewClientDirectory(repository.NewGormClientRepository(h.db), zaptest.NewLogger(t))

	created, err := dir.ResolveOrCreate(ctx, "María José", "5551234567", "note")
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if !created.Created {
		t.Fatalf("expected new client")
	}

	found, err := dir.ResolveOrCreate(ctx, "MARÍA JOSÉ", "", "note")
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if found.Created || found.ID != created.ID || found.Phone != "5551234567" {
		t.Fatalf("expected existing client untouched, got %+v", found)
	}
}

func TestClientDirectory_FailureIsReturned(t *testing.T) {
	dir := NewClientDirectory(failingClientRepo{}, zaptest.NewLogger(t))

	if _, err := dir.ResolveOrCreate(context.Background(), "Ana", "", ""); err == nil {
		t.Fatalf("expected error")
	}
}
