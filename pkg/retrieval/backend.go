// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package retrieval

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"github.com/masumhasan/comAI/pkg/provider"
)

// Providers is the registry of retrieval backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/masumhasan/comAI/pkg/vectara"
var Providers = provider.NewRegistry[Backend]("retriever")

// Default search parameters used when SearchOptions fields are zero.
const (
	DefaultK     = 5
	DefaultAlpha = 0.025
)

// Document is a unit of retrieved content. Content is opaque text; Metadata
// carries whatever attributes were indexed alongside it (e.g. source URL).
type Document struct {
	Content  string
	Metadata map[string]any
}

// ScoredDocument pairs a Document with the backend's relevance score.
type ScoredDocument struct {
	Document
	Score float64
}

// SearchOptions tunes a similarity search.
type SearchOptions struct {
	// K is the number of results to return. Zero means DefaultK.
	K int
	// Alpha is the hybrid lexical/semantic interpolation weight. Zero means
	// DefaultAlpha. Remote services may call this "lambda".
	Alpha float64
	// Filter is a backend-evaluated boolean predicate over document metadata,
	// e.g. `doc.rating > 3.0 and part.lang = 'deu'`. Empty means no filter.
	Filter string
}

// Backend indexes texts and answers similarity searches.
type Backend interface {
	// AddTexts indexes the given texts with their metadata and returns the
	// derived document ids, one per input text and in input order. The id
	// list is complete even when individual items failed to index; such
	// failures are reported through the error (which callers may ignore).
	AddTexts(ctx context.Context, texts []string, metadatas []map[string]any) ([]string, error)

	// Search returns up to K documents relevant to the query, most relevant
	// first. Transport or backend failures are logged and yield an empty
	// result; callers cannot distinguish them from a legitimate miss.
	Search(ctx context.Context, query string, opts SearchOptions) []ScoredDocument
}

// DocumentID derives the stable id for a text: the hex md5 digest of its
// UTF-8 bytes. Identical content always maps to the same id, which is what
// makes re-indexing idempotent.
func DocumentID(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
