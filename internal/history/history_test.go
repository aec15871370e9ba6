package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/runger/notepadcc/internal/storage"
)

func newServices(t *testing.T) map[string]*Service {
	t.Helper()

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return map[string]*Service{
		"memory": NewService(NewMemoryStore(), 0, nil),
		"sqlite": NewService(store, 0, nil),
	}
}

func TestService_AddAndList(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, term := range []string{"foo", "", "   ", "bar", "foo", "baz"} {
				if err := svc.Add(ctx, term); err != nil {
					t.Fatalf("Add(%q) error = %v", term, err)
				}
			}

			got, err := svc.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			want := []string{"baz", "bar", "foo"}
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("List() = %v, want %v", got, want)
			}
		})
	}
}

func TestService_KeepsTenNewest(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 1; i <= 12; i++ {
				if err := svc.Add(ctx, fmt.Sprintf("term%d", i)); err != nil {
					t.Fatalf("Add() error = %v", err)
				}
			}

			got, _ := svc.List(ctx)
			if len(got) != DefaultLimit {
				t.Fatalf("List() has %d terms, want %d", len(got), DefaultLimit)
			}
			if got[0] != "term12" || got[9] != "term3" {
				t.Errorf("List() = %v, want term12..term3", got)
			}
		})
	}
}

func TestService_Clear(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = svc.Add(ctx, "x")
			if err := svc.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			got, _ := svc.List(ctx)
			if len(got) != 0 {
				t.Errorf("List() after Clear = %v", got)
			}
		})
	}
}

func TestService_Suggestions(t *testing.T) {
	svc := NewService(NewMemoryStore(), 0, nil)
	ctx := context.Background()
	for _, term := range []string{"git status", "Git push", "grep", "git"} {
		_ = svc.Add(ctx, term)
	}

	tests := []struct {
		prefix   string
		expected string
	}{
		{"git", "Git push"},
		{"GIT S", "git status"},
		{"gr", "grep"},
		{"nothing", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := svc.Suggestion(ctx, tt.prefix); got != tt.expected {
				t.Errorf("Suggestion(%q) = %q, want %q", tt.prefix, got, tt.expected)
			}
		})
	}

	all := svc.Suggestions(ctx, "g", 10)
	if len(all) != 4 {
		t.Errorf("Suggestions(g) = %v, want 4 entries", all)
	}
	if got := svc.Suggestions(ctx, "g", 0); got != nil {
		t.Errorf("Suggestions with limit 0 = %v, want nil", got)
	}
}

func TestService_CustomLimit(t *testing.T) {
	svc := NewService(NewMemoryStore(), 2, nil)
	ctx := context.Background()
	for _, term := range []string{"a", "b", "c"} {
		_ = svc.Add(ctx, term)
	}
	got, _ := svc.List(ctx)
	if fmt.Sprint(got) != "[c b]" {
		t.Errorf("List() = %v, want [c b]", got)
	}
}
