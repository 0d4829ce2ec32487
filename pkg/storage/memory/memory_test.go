// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/masumhasan/comAI/pkg/core/schema"
)

func TestStore_SaveAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := s.SaveExchange(ctx, &schema.Exchange{
			ID:        fmt.Sprintf("ex_%d", i),
			Query:     fmt.Sprintf("question %d", i),
			Answer:    "answer",
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := s.ListExchanges(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 exchanges, got %d", len(all))
	}
	// Newest first.
	if all[0].ID != "ex_2" || all[2].ID != "ex_0" {
		t.Errorf("unexpected order: %s .. %s", all[0].ID, all[2].ID)
	}

	limited, err := s.ListExchanges(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(limited))
	}
	if limited[0].ID != "ex_2" {
		t.Errorf("limited[0] = %s, want ex_2", limited[0].ID)
	}
}

func TestStore_DuplicateID(t *testing.T) {
	s := New()
	ctx := context.Background()

	ex := &schema.Exchange{ID: "dup", Query: "q", CreatedAt: time.Now()}
	if err := s.SaveExchange(ctx, ex); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveExchange(ctx, ex); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}
