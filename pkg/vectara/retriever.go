// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package vectara

import (
	"context"

	"github.com/masumhasan/comAI/pkg/retrieval"
)

// Retriever wraps a Client behind fixed search parameters so it can be
// composed into a question-answering pipeline. Defaults are k=5 and
// alpha=0.025; override per instance with the With options.
type Retriever struct {
	store  *Client
	k      int
	alpha  float64
	filter string
}

// RetrieverOption customizes a Retriever.
type RetrieverOption func(*Retriever)

// WithK sets the number of documents returned per query.
func WithK(k int) RetrieverOption {
	return func(r *Retriever) { r.k = k }
}

// WithAlpha sets the hybrid lexical/semantic interpolation weight.
func WithAlpha(alpha float64) RetrieverOption {
	return func(r *Retriever) { r.alpha = alpha }
}

// WithFilter sets a server-side metadata filter expression applied to every
// query, e.g. `doc.rating > 3.0 and part.lang = 'deu'`.
func WithFilter(filter string) RetrieverOption {
	return func(r *Retriever) { r.filter = filter }
}

// NewRetriever creates a Retriever over the given store.
func NewRetriever(store *Client, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		store: store,
		k:     retrieval.DefaultK,
		alpha: retrieval.DefaultAlpha,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetRelevantDocuments runs a similarity search with the retriever's fixed
// parameters and returns the matching documents, scores discarded.
func (r *Retriever) GetRelevantDocuments(ctx context.Context, query string) []retrieval.Document {
	return r.store.SimilaritySearch(ctx, query, retrieval.SearchOptions{
		K:      r.k,
		Alpha:  r.alpha,
		Filter: r.filter,
	})
}

// AddTexts passes straight through to the underlying store.
func (r *Retriever) AddTexts(ctx context.Context, texts []string, metadatas []map[string]any) ([]string, error) {
	return r.store.AddTexts(ctx, texts, metadatas)
}
