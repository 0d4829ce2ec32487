// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package api holds the clients for the model backends the engine calls.
package api

import "context"

// ChatClient synthesizes an answer to a question from retrieved context
// passages.
type ChatClient interface {
	Answer(ctx context.Context, question string, contexts []string) (string, error)
}
