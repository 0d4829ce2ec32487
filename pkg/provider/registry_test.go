// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"testing"
)

type mockStore struct{ name string }

func TestRegistry_RegisterAndNew(t *testing.T) {
	r := NewRegistry[*mockStore]("test")
	r.Register("alpha", func(_ context.Context, params map[string]string) (*mockStore, error) {
		return &mockStore{name: params["name"]}, nil
	})

	s, err := r.New(context.Background(), "alpha", map[string]string{"name": "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.name != "hello" {
		t.Errorf("expected name 'hello', got %q", s.name)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry[*mockStore]("retriever")
	r.Register("a", func(_ context.Context, _ map[string]string) (*mockStore, error) {
		return &mockStore{}, nil
	})

	_, err := r.New(context.Background(), "z", nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	want := `unknown retriever provider: "z" (available: [a])`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestRegistry_Available(t *testing.T) {
	r := NewRegistry[*mockStore]("test")
	r.Register("bravo", func(_ context.Context, _ map[string]string) (*mockStore, error) {
		return &mockStore{}, nil
	})
	r.Register("alpha", func(_ context.Context, _ map[string]string) (*mockStore, error) {
		return &mockStore{}, nil
	})

	avail := r.Available()
	if len(avail) != 2 || avail[0] != "alpha" || avail[1] != "bravo" {
		t.Errorf("Available() = %v, want [alpha bravo]", avail)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry[*mockStore]("test")
	r.Register("dup", func(_ context.Context, _ map[string]string) (*mockStore, error) {
		return &mockStore{}, nil
	})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r.Register("dup", func(_ context.Context, _ map[string]string) (*mockStore, error) {
		return &mockStore{}, nil
	})
}
