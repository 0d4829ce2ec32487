// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the request/response types of the question
// answering API and the typed errors that cross the engine boundary.
package schema

import "time"

// AskRequest is the body of POST / and POST /v1/ask.
type AskRequest struct {
	Query string `json:"query"`
}

// Source identifies a retrieved document that grounded an answer.
type Source struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    float64        `json:"score,omitempty"`
}

// AskResponse is the answer to an AskRequest.
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}

// AddDocumentsRequest is the body of POST /v1/documents. Metadatas lines up
// with Texts by index; missing entries mean no metadata.
type AddDocumentsRequest struct {
	Texts     []string         `json:"texts"`
	Metadatas []map[string]any `json:"metadatas,omitempty"`
}

// AddDocumentsResponse returns the derived document ids, one per input text
// in input order.
type AddDocumentsResponse struct {
	IDs []string `json:"ids"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query  string  `json:"query"`
	K      int     `json:"k,omitempty"`
	Alpha  float64 `json:"alpha,omitempty"`
	Filter string  `json:"filter,omitempty"`
}

// SearchResponse carries the score-augmented hits in backend order.
type SearchResponse struct {
	Results []Source `json:"results"`
}

// Exchange is one recorded question/answer round trip.
type Exchange struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Sources   []Source  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
