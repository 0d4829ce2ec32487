// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "context"

// MockChatClient is a canned ChatClient for tests.
type MockChatClient struct {
	Response string
	Err      error

	Questions []string
	Contexts  [][]string
}

// Answer records the call and returns the canned response or error.
func (m *MockChatClient) Answer(_ context.Context, question string, contexts []string) (string, error) {
	m.Questions = append(m.Questions, question)
	m.Contexts = append(m.Contexts, contexts)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
