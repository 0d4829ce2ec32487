// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/masumhasan/comAI/pkg/core/schema"
)

// Store is an in-memory implementation of HistoryStore
type Store struct {
	mu        sync.RWMutex
	exchanges []*schema.Exchange
	byID      map[string]*schema.Exchange
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		byID: make(map[string]*schema.Exchange),
	}
}

// SaveExchange appends an exchange to the history
func (s *Store) SaveExchange(ctx context.Context, exchange *schema.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[exchange.ID]; exists {
		return fmt.Errorf("exchange %s already exists", exchange.ID)
	}

	s.exchanges = append(s.exchanges, exchange)
	s.byID[exchange.ID] = exchange
	return nil
}

// ListExchanges returns up to limit exchanges, newest first. A limit <= 0
// returns everything.
func (s *Store) ListExchanges(ctx context.Context, limit int) ([]*schema.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.exchanges)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*schema.Exchange, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.exchanges[i])
	}
	return out, nil
}

// Close is a no-op for the in-memory store
func (s *Store) Close() error {
	return nil
}
