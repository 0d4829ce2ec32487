// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const answerSystemPrompt = "You are a question answering assistant. " +
	"Answer the question using only the provided context. " +
	"If the context does not contain the answer, say you don't know."

// OpenAIChatClient implements ChatClient using the official OpenAI Go SDK.
// Supports OpenAI, Ollama, vLLM, and other OpenAI-compatible backends.
type OpenAIChatClient struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAIChatClient creates a chat client. The baseURL parameter allows
// connecting to OpenAI-compatible backends like Ollama and vLLM.
func NewOpenAIChatClient(baseURL, apiKey, model string, maxTokens int) *OpenAIChatClient {
	opts := []option.RequestOption{}

	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		// Use a dummy key for local backends that don't require authentication
		opts = append(opts, option.WithAPIKey("dummy"))
	}

	return &OpenAIChatClient{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Answer stuffs the context passages into a single user prompt and asks the
// model for a completion.
func (c *OpenAIChatClient) Answer(ctx context.Context, question string, contexts []string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(answerSystemPrompt),
			openai.UserMessage(buildPrompt(question, contexts)),
		},
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildPrompt(question string, contexts []string) string {
	if len(contexts) == 0 {
		return "Question: " + question
	}

	var sb strings.Builder
	sb.WriteString("Context:\n")
	for _, passage := range contexts {
		sb.WriteString("\n---\n")
		sb.WriteString(passage)
	}
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}
