// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine orchestrates question answering: retrieve relevant
// documents from the configured backend, synthesize an answer with the chat
// model, and record the exchange.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/masumhasan/comAI/pkg/core/api"
	"github.com/masumhasan/comAI/pkg/core/schema"
	"github.com/masumhasan/comAI/pkg/observability/logging"
	"github.com/masumhasan/comAI/pkg/retrieval"
	"github.com/masumhasan/comAI/pkg/storage"
)

// Options tune the engine's retrieval and model calls.
type Options struct {
	Search       retrieval.SearchOptions
	ModelTimeout time.Duration // zero means no engine-imposed deadline
}

// Engine processes questions end to end. The retrieval backend is injected
// so tests (and credential-less development) can substitute an in-memory
// index for the hosted one.
type Engine struct {
	backend retrieval.Backend
	chat    api.ChatClient
	history storage.HistoryStore
	logger  *logging.Logger
	opts    Options
}

// New creates an Engine. history may be nil to disable recording.
func New(backend retrieval.Backend, chat api.ChatClient, history storage.HistoryStore, logger *logging.Logger, opts Options) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{
		backend: backend,
		chat:    chat,
		history: history,
		logger:  logger,
		opts:    opts,
	}
}

// Ask answers one question. Failures are typed: a blank query is a
// validation error, a model call that hits its deadline is an upstream
// timeout, any other model failure is an upstream error.
func (e *Engine) Ask(ctx context.Context, req *schema.AskRequest) (*schema.AskResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, schema.NewValidationError("query must not be empty")
	}

	docs := e.backend.Search(ctx, query, e.opts.Search)

	contexts := make([]string, len(docs))
	sources := make([]schema.Source, len(docs))
	for i, doc := range docs {
		contexts[i] = doc.Content
		sources[i] = schema.Source{
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Score:    doc.Score,
		}
	}

	modelCtx := ctx
	if e.opts.ModelTimeout > 0 {
		var cancel context.CancelFunc
		modelCtx, cancel = context.WithTimeout(ctx, e.opts.ModelTimeout)
		defer cancel()
	}

	answer, err := e.chat.Answer(modelCtx, query, contexts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, schema.NewUpstreamTimeoutError("model call timed out", err)
		}
		return nil, schema.NewUpstreamError("model call failed", err)
	}

	resp := &schema.AskResponse{Answer: answer, Sources: sources}
	e.recordExchange(ctx, query, resp)
	return resp, nil
}

// recordExchange saves the exchange best-effort; a failed save must not
// fail the request that produced the answer.
func (e *Engine) recordExchange(ctx context.Context, query string, resp *schema.AskResponse) {
	if e.history == nil {
		return
	}
	exchange := &schema.Exchange{
		ID:        newExchangeID(),
		Query:     query,
		Answer:    resp.Answer,
		Sources:   resp.Sources,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.history.SaveExchange(ctx, exchange); err != nil {
		e.logger.Error("save exchange failed", "exchange_id", exchange.ID, "error", err)
	}
}

// AddDocuments indexes the request texts. The id list is complete even when
// individual items failed; such failures are logged, not surfaced, matching
// the adapter's contract.
func (e *Engine) AddDocuments(ctx context.Context, req *schema.AddDocumentsRequest) (*schema.AddDocumentsResponse, error) {
	if len(req.Texts) == 0 {
		return nil, schema.NewValidationError("texts must not be empty")
	}
	if len(req.Metadatas) > 0 && len(req.Metadatas) != len(req.Texts) {
		return nil, schema.NewValidationError("metadatas must line up with texts")
	}

	ids, err := e.backend.AddTexts(ctx, req.Texts, req.Metadatas)
	if err != nil {
		e.logger.Error("add documents partially failed", "error", err)
	}
	return &schema.AddDocumentsResponse{IDs: ids}, nil
}

// Search runs a raw score-augmented similarity search.
func (e *Engine) Search(ctx context.Context, req *schema.SearchRequest) (*schema.SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, schema.NewValidationError("query must not be empty")
	}

	docs := e.backend.Search(ctx, req.Query, retrieval.SearchOptions{
		K:      req.K,
		Alpha:  req.Alpha,
		Filter: req.Filter,
	})

	results := make([]schema.Source, len(docs))
	for i, doc := range docs {
		results[i] = schema.Source{
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Score:    doc.Score,
		}
	}
	return &schema.SearchResponse{Results: results}, nil
}

// History lists recorded exchanges, newest first.
func (e *Engine) History(ctx context.Context, limit int) ([]*schema.Exchange, error) {
	if e.history == nil {
		return nil, nil
	}
	exchanges, err := e.history.ListExchanges(ctx, limit)
	if err != nil {
		return nil, schema.NewInternalError("list history failed", err)
	}
	return exchanges, nil
}

// newExchangeID generates a unique exchange id.
func newExchangeID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return "ex_" + hex.EncodeToString(b)
}
