// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package services holds the coordination layer between the document loader
// and the retrieval backend.
package services

import (
	"context"
	"fmt"

	"github.com/masumhasan/comAI/pkg/loader"
	"github.com/masumhasan/comAI/pkg/observability/logging"
	"github.com/masumhasan/comAI/pkg/retrieval"
)

// Loader fetches documents for indexing.
type Loader interface {
	Load(ctx context.Context, urls []string) ([]loader.Page, error)
}

// IndexService builds the corpus from configured URLs. It is an explicit
// startup step invoked before the server accepts traffic, with every
// collaborator injected so tests can run it against fakes.
type IndexService struct {
	loader       Loader
	backend      retrieval.Backend
	logger       *logging.Logger
	chunkSize    int
	chunkOverlap int
}

// NewIndexService creates an IndexService. chunkSize and chunkOverlap of
// zero fall back to the package defaults.
func NewIndexService(l Loader, backend retrieval.Backend, logger *logging.Logger, chunkSize, chunkOverlap int) *IndexService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &IndexService{
		loader:       l,
		backend:      backend,
		logger:       logger,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Run loads every URL, chunks the extracted text, and indexes the chunks
// with their source metadata. Pages that fail to load are skipped; Run only
// fails when nothing could be loaded at all or indexing itself errors.
func (s *IndexService) Run(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	pages, loadErr := s.loader.Load(ctx, urls)
	if len(pages) == 0 {
		if loadErr != nil {
			return fmt.Errorf("load documents: %w", loadErr)
		}
		return nil
	}
	if loadErr != nil {
		s.logger.Warn("some documents failed to load", "error", loadErr)
	}

	indexed := 0
	for _, page := range pages {
		chunks := retrieval.ChunkText(page.Text, s.chunkSize, s.chunkOverlap)
		if len(chunks) == 0 {
			continue
		}

		metadatas := make([]map[string]any, len(chunks))
		for i := range chunks {
			metadatas[i] = page.Metadata
		}

		if _, err := s.backend.AddTexts(ctx, chunks, metadatas); err != nil {
			return fmt.Errorf("index %v: %w", page.Metadata["source"], err)
		}
		indexed += len(chunks)
	}

	s.logger.Info("startup indexing complete", "urls", len(urls), "pages", len(pages), "chunks", indexed)
	return nil
}
