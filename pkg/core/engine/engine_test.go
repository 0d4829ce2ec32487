// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/masumhasan/comAI/pkg/core/api"
	"github.com/masumhasan/comAI/pkg/core/schema"
	"github.com/masumhasan/comAI/pkg/retrieval"
	"github.com/masumhasan/comAI/pkg/storage/memory"
)

func seededBackend(t *testing.T) *retrieval.MemoryBackend {
	t.Helper()
	backend := retrieval.NewMemoryBackend()
	_, err := backend.AddTexts(context.Background(), []string{
		"On February 8 forces advanced near the city.",
		"The assessment covers logistics and supply lines.",
	}, []map[string]any{
		{"source": "https://example.com/feb-8"},
		{"source": "https://example.com/feb-9"},
	})
	if err != nil {
		t.Fatalf("seed backend: %v", err)
	}
	return backend
}

func TestAsk(t *testing.T) {
	backend := seededBackend(t)
	chat := &api.MockChatClient{Response: "Forces advanced."}
	history := memory.New()
	e := New(backend, chat, history, nil, Options{})

	resp, err := e.Ask(context.Background(), &schema.AskRequest{Query: "what happened to the forces?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "Forces advanced." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) == 0 {
		t.Error("expected sources from the retrieval backend")
	}

	// The retrieved passages must reach the model as context.
	if len(chat.Contexts) != 1 || len(chat.Contexts[0]) == 0 {
		t.Fatalf("contexts not passed to model: %v", chat.Contexts)
	}

	// The exchange is recorded.
	exchanges, err := history.ListExchanges(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exchanges) != 1 {
		t.Fatalf("expected 1 recorded exchange, got %d", len(exchanges))
	}
	if exchanges[0].Answer != "Forces advanced." {
		t.Errorf("recorded answer = %q", exchanges[0].Answer)
	}
}

func TestAsk_EmptyQueryIsValidationError(t *testing.T) {
	e := New(retrieval.NewMemoryBackend(), &api.MockChatClient{}, nil, nil, Options{})

	_, err := e.Ask(context.Background(), &schema.AskRequest{Query: "   "})
	var typed *schema.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *schema.Error, got %v", err)
	}
	if typed.Code != schema.ErrorCodeValidation {
		t.Errorf("code = %s, want %s", typed.Code, schema.ErrorCodeValidation)
	}
	if typed.HTTPStatus() != http.StatusBadRequest {
		t.Errorf("status = %d", typed.HTTPStatus())
	}
}

func TestAsk_ModelTimeoutIsTyped(t *testing.T) {
	chat := &api.MockChatClient{Err: context.DeadlineExceeded}
	e := New(seededBackend(t), chat, nil, nil, Options{})

	_, err := e.Ask(context.Background(), &schema.AskRequest{Query: "anything"})
	var typed *schema.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *schema.Error, got %v", err)
	}
	if typed.Code != schema.ErrorCodeUpstreamTimeout {
		t.Errorf("code = %s, want %s", typed.Code, schema.ErrorCodeUpstreamTimeout)
	}
}

func TestAsk_ModelFailureIsUpstreamError(t *testing.T) {
	chat := &api.MockChatClient{Err: errors.New("connection reset")}
	e := New(seededBackend(t), chat, nil, nil, Options{})

	_, err := e.Ask(context.Background(), &schema.AskRequest{Query: "anything"})
	var typed *schema.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *schema.Error, got %v", err)
	}
	if typed.Code != schema.ErrorCodeUpstream {
		t.Errorf("code = %s, want %s", typed.Code, schema.ErrorCodeUpstream)
	}
}

// brokenHistory fails every save.
type brokenHistory struct{}

func (brokenHistory) SaveExchange(context.Context, *schema.Exchange) error {
	return errors.New("disk full")
}

func (brokenHistory) ListExchanges(context.Context, int) ([]*schema.Exchange, error) {
	return nil, nil
}

func (brokenHistory) Close() error { return nil }

func TestAsk_HistoryFailureDoesNotFailRequest(t *testing.T) {
	e := New(seededBackend(t), &api.MockChatClient{Response: "ok"}, brokenHistory{}, nil, Options{})

	resp, err := e.Ask(context.Background(), &schema.AskRequest{Query: "logistics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "ok" {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestAddDocuments(t *testing.T) {
	backend := retrieval.NewMemoryBackend()
	e := New(backend, &api.MockChatClient{}, nil, nil, Options{})

	resp, err := e.AddDocuments(context.Background(), &schema.AddDocumentsRequest{
		Texts: []string{"hello world"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.IDs) != 1 || resp.IDs[0] != "5eb63bbbe01eeed093cb22bb8f5acdc3" {
		t.Errorf("ids = %v", resp.IDs)
	}

	if _, err := e.AddDocuments(context.Background(), &schema.AddDocumentsRequest{}); err == nil {
		t.Error("expected validation error for empty texts")
	}

	_, err = e.AddDocuments(context.Background(), &schema.AddDocumentsRequest{
		Texts:     []string{"a", "b"},
		Metadatas: []map[string]any{{"k": "v"}},
	})
	if err == nil {
		t.Error("expected validation error for mismatched metadatas")
	}
}

func TestSearch(t *testing.T) {
	e := New(seededBackend(t), &api.MockChatClient{}, nil, nil, Options{})

	resp, err := e.Search(context.Background(), &schema.SearchRequest{Query: "forces", K: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Metadata["source"] != "https://example.com/feb-8" {
		t.Errorf("metadata = %v", resp.Results[0].Metadata)
	}

	if _, err := e.Search(context.Background(), &schema.SearchRequest{}); err == nil {
		t.Error("expected validation error for empty query")
	}
}

func TestHistory_NilStore(t *testing.T) {
	e := New(retrieval.NewMemoryBackend(), &api.MockChatClient{}, nil, nil, Options{})
	exchanges, err := e.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exchanges != nil {
		t.Errorf("expected nil history, got %v", exchanges)
	}
}
