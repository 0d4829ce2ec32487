// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
)

func init() {
	Providers.Register("memory", func(_ context.Context, _ map[string]string) (Backend, error) {
		return NewMemoryBackend(), nil
	})
}

// MemoryBackend is an in-process Backend used when no hosted search service
// is configured, and as a substitute index in tests. Scoring is a plain
// term-overlap count, which is nowhere near a real ranking function but is
// deterministic and good enough for wiring and development.
type MemoryBackend struct {
	mu   sync.RWMutex
	ids  []string // insertion order, one entry per live document
	docs map[string]Document
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string]Document)}
}

// AddTexts indexes the texts under their derived ids. Re-adding identical
// content replaces the stored document, mirroring the overwrite-by-replace
// semantics of the hosted backend.
func (m *MemoryBackend) AddTexts(_ context.Context, texts []string, metadatas []map[string]any) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, len(texts))
	for i, text := range texts {
		id := DocumentID(text)
		ids[i] = id

		var metadata map[string]any
		if i < len(metadatas) {
			metadata = metadatas[i]
		}
		if _, exists := m.docs[id]; !exists {
			m.ids = append(m.ids, id)
		}
		m.docs[id] = Document{Content: text, Metadata: metadata}
	}
	return ids, nil
}

// Search scores every document by the number of query terms it contains and
// returns the top K. Ties keep insertion order. The filter expression is not
// evaluated locally.
func (m *MemoryBackend) Search(_ context.Context, query string, opts SearchOptions) []ScoredDocument {
	k := opts.K
	if k <= 0 {
		k = DefaultK
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []ScoredDocument
	for _, id := range m.ids {
		doc := m.docs[id]
		content := strings.ToLower(doc.Content)
		score := 0.0
		for _, term := range terms {
			if strings.Contains(content, term) {
				score++
			}
		}
		if score > 0 {
			results = append(results, ScoredDocument{Document: doc, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Len reports the number of live documents. Used by tests.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
