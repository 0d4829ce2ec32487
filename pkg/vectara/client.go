// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package vectara is a client for the Vectara hosted search service
// (https://vectara.com). The service computes embeddings and ranks results
// server-side, so this client is a thin wire adapter: it indexes text,
// deletes documents, and runs hybrid similarity searches over a corpus
// scoped by customer and corpus ids.
package vectara

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/masumhasan/comAI/pkg/observability/logging"
	"github.com/masumhasan/comAI/pkg/retrieval"
)

// DefaultEndpoint is the public Vectara API endpoint.
const DefaultEndpoint = "https://api.vectara.io"

// Per-call ceilings. Index requests are bounded to 30s and queries to 10s;
// deletes have no bound, matching the service's own guidance for a corpus
// that may be compacting.
const (
	indexTimeout = 30 * time.Second
	queryTimeout = 10 * time.Second
)

const (
	envCustomerID = "VECTARA_CUSTOMER_ID"
	envCorpusID   = "VECTARA_CORPUS_ID"
	envAPIKey     = "VECTARA_API_KEY"
)

// ErrAlreadyExists reports that the corpus already holds a document with the
// same id. AddTexts recovers from it with a delete and a single re-index.
var ErrAlreadyExists = errors.New("vectara: document already exists")

// reservedMetadata keys are injected into every hit by the service and are
// stripped before results reach callers.
var reservedMetadata = map[string]bool{
	"lang":   true,
	"len":    true,
	"offset": true,
}

func init() {
	retrieval.Providers.Register("vectara", func(_ context.Context, params map[string]string) (retrieval.Backend, error) {
		return New(Config{
			CustomerID: params["customer_id"],
			CorpusID:   params["corpus_id"],
			APIKey:     params["api_key"],
			Endpoint:   params["endpoint"],
		}, nil), nil
	})
}

// Config holds the credentials and endpoint for a Client. Every credential
// field falls back to its environment variable when empty.
type Config struct {
	CustomerID string // falls back to VECTARA_CUSTOMER_ID
	CorpusID   string // falls back to VECTARA_CORPUS_ID
	APIKey     string // falls back to VECTARA_API_KEY
	Endpoint   string // falls back to DefaultEndpoint
}

// Client talks to one Vectara corpus over a single reused HTTP connection
// pool. It has no internal locking; concurrent callers must serialize or
// construct one Client each.
type Client struct {
	customerID string
	corpusID   string
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates a Client. Missing credentials are a warning, not an error:
// construction always succeeds and outbound calls fail later instead.
func New(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}

	c := &Client{
		customerID: fallbackEnv(cfg.CustomerID, envCustomerID),
		corpusID:   fallbackEnv(cfg.CorpusID, envCorpusID),
		apiKey:     fallbackEnv(cfg.APIKey, envAPIKey),
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{},
		logger:     logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}

	if c.customerID == "" || c.corpusID == "" || c.apiKey == "" {
		logger.Warn("vectara credentials incomplete; requests will fail",
			"have_customer_id", c.customerID != "",
			"have_corpus_id", c.corpusID != "",
			"have_api_key", c.apiKey != "")
	} else {
		logger.Debug("vectara client configured", "corpus_id", c.corpusID)
	}

	return c
}

// NewFromTexts creates a Client and indexes the given texts immediately.
// Vectara computes embeddings server-side, so unlike vector stores that wrap
// a local index there is no embedder to supply.
func NewFromTexts(ctx context.Context, cfg Config, logger *logging.Logger, texts []string, metadatas []map[string]any) (*Client, error) {
	c := New(cfg, logger)
	_, err := c.AddTexts(ctx, texts, metadatas)
	return c, err
}

func fallbackEnv(value, key string) string {
	if value != "" {
		return value
	}
	return os.Getenv(key)
}

// postHeaders are attached to every request.
func (c *Client) postHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("customer-id", c.customerID)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.postHeaders(req)
	return c.httpClient.Do(req)
}

type indexRequest struct {
	CustomerID string        `json:"customer_id"`
	CorpusID   string        `json:"corpus_id"`
	Document   indexDocument `json:"document"`
}

type indexDocument struct {
	DocumentID   string         `json:"document_id"`
	MetadataJSON string         `json:"metadataJson"`
	Section      []indexSection `json:"section"`
}

type indexSection struct {
	Text         string `json:"text"`
	MetadataJSON string `json:"metadataJson"`
}

type indexResponse struct {
	Status struct {
		Code string `json:"code"`
	} `json:"status"`
}

// indexDoc sends one document to /v1/index. A 409 response, or a structured
// ALREADY_EXISTS status in the body, is reported as ErrAlreadyExists. Any
// other failure (transport, non-200, undecodable body) is an ordinary error.
func (c *Client) indexDoc(ctx context.Context, docID, text string, metadata map[string]any) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	resp, err := c.post(ctx, "/v1/index", indexRequest{
		CustomerID: c.customerID,
		CorpusID:   c.corpusID,
		Document: indexDocument{
			DocumentID:   docID,
			MetadataJSON: string(metadataJSON),
			Section: []indexSection{
				{Text: text, MetadataJSON: string(metadataJSON)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return ErrAlreadyExists
	}

	var result indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode index response (status %d): %w", resp.StatusCode, err)
	}
	if result.Status.Code == "ALREADY_EXISTS" {
		return ErrAlreadyExists
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("index request failed: status %d, code %q", resp.StatusCode, result.Status.Code)
	}
	return nil
}

// AddTexts indexes each text under its content-derived id (hex md5 of the
// UTF-8 bytes). When the corpus reports the id already exists, the prior
// copy is deleted and the text indexed once more, so re-adding identical
// content deterministically replaces it and the last write wins for equal
// text with different metadata.
//
// The returned id list is always complete and ordered like the input, even
// for items whose indexing ultimately failed; those failures are logged and
// joined into the returned error.
func (c *Client) AddTexts(ctx context.Context, texts []string, metadatas []map[string]any) ([]string, error) {
	ids := make([]string, len(texts))
	var errs []error

	for i, text := range texts {
		docID := retrieval.DocumentID(text)
		ids[i] = docID

		metadata := map[string]any{}
		if i < len(metadatas) && metadatas[i] != nil {
			metadata = metadatas[i]
		}

		err := c.indexDoc(ctx, docID, text, metadata)
		if errors.Is(err, ErrAlreadyExists) {
			c.DeleteDocument(ctx, docID)
			err = c.indexDoc(ctx, docID, text, metadata)
			if errors.Is(err, ErrAlreadyExists) {
				// Someone re-indexed the same content between our delete and
				// retry. The content is live, which is the desired end state.
				err = nil
			}
		}
		if err != nil {
			c.logger.Error("index document failed", "document_id", docID, "error", err)
			errs = append(errs, fmt.Errorf("document %s: %w", docID, err))
		}
	}

	return ids, errors.Join(errs...)
}

type deleteRequest struct {
	CustomerID string `json:"customer_id"`
	CorpusID   string `json:"corpus_id"`
	DocumentID string `json:"document_id"`
}

// DeleteDocument removes one document from the corpus. It reports false and
// logs on any failure. There is no per-call timeout and no retry.
func (c *Client) DeleteDocument(ctx context.Context, docID string) bool {
	resp, err := c.post(ctx, "/v1/delete-doc", deleteRequest{
		CustomerID: c.customerID,
		CorpusID:   c.corpusID,
		DocumentID: docID,
	})
	if err != nil {
		c.logger.Error("delete request failed", "document_id", docID, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("delete request failed",
			"document_id", docID,
			"status", resp.StatusCode,
			"body", string(body))
		return false
	}
	return true
}

type queryRequest struct {
	Query []querySpec `json:"query"`
}

type querySpec struct {
	Query         string        `json:"query"`
	Start         int           `json:"start"`
	NumResults    int           `json:"num_results"`
	ContextConfig contextConfig `json:"context_config"`
	CorpusKey     []corpusKey   `json:"corpus_key"`
}

type contextConfig struct {
	SentencesBefore int `json:"sentences_before"`
	SentencesAfter  int `json:"sentences_after"`
}

type corpusKey struct {
	CustomerID                 string      `json:"customer_id"`
	CorpusID                   string      `json:"corpus_id"`
	MetadataFilter             string      `json:"metadataFilter,omitempty"`
	LexicalInterpolationConfig lexicalLerp `json:"lexical_interpolation_config"`
}

type lexicalLerp struct {
	Lambda float64 `json:"lambda"`
}

type queryResponse struct {
	ResponseSet []struct {
		Response []queryHit `json:"response"`
	} `json:"responseSet"`
}

type queryHit struct {
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Metadata []metadataAttr `json:"metadata"`
}

type metadataAttr struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Search returns documents relevant to the query paired with the service's
// relevance scores, in exactly the order the service returned them (the
// service ranks score-descending; this client does not re-sort).
//
// opts.Alpha is the hybrid interpolation weight the service documents as
// "lambda". Each hit carries three sentences of surrounding context on both
// sides. On any failure the error is logged and an empty result returned;
// callers cannot distinguish a failed request from a legitimate miss.
func (c *Client) Search(ctx context.Context, query string, opts retrieval.SearchOptions) []retrieval.ScoredDocument {
	k := opts.K
	if k <= 0 {
		k = retrieval.DefaultK
	}
	alpha := opts.Alpha
	if alpha == 0 {
		alpha = retrieval.DefaultAlpha
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	resp, err := c.post(ctx, "/v1/query", queryRequest{
		Query: []querySpec{{
			Query:      query,
			Start:      0,
			NumResults: k,
			ContextConfig: contextConfig{
				SentencesBefore: 3,
				SentencesAfter:  3,
			},
			CorpusKey: []corpusKey{{
				CustomerID:                 c.customerID,
				CorpusID:                   c.corpusID,
				MetadataFilter:             opts.Filter,
				LexicalInterpolationConfig: lexicalLerp{Lambda: alpha},
			}},
		}},
	})
	if err != nil {
		c.logger.Error("query failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("query failed", "status", resp.StatusCode, "body", string(body))
		return nil
	}

	var result queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Error("query failed", "error", fmt.Errorf("decode response: %w", err))
		return nil
	}
	if len(result.ResponseSet) == 0 {
		return nil
	}

	hits := result.ResponseSet[0].Response
	docs := make([]retrieval.ScoredDocument, 0, len(hits))
	for _, hit := range hits {
		metadata := make(map[string]any)
		for _, attr := range hit.Metadata {
			if !reservedMetadata[attr.Name] {
				metadata[attr.Name] = attr.Value
			}
		}
		docs = append(docs, retrieval.ScoredDocument{
			Document: retrieval.Document{Content: hit.Text, Metadata: metadata},
			Score:    hit.Score,
		})
	}
	return docs
}

// SimilaritySearch is Search with the scores discarded.
func (c *Client) SimilaritySearch(ctx context.Context, query string, opts retrieval.SearchOptions) []retrieval.Document {
	scored := c.Search(ctx, query, opts)
	docs := make([]retrieval.Document, len(scored))
	for i, sd := range scored {
		docs[i] = sd.Document
	}
	return docs
}
