// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package loader fetches web documents and extracts their readable text so
// they can be indexed into the retrieval backend.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/masumhasan/comAI/pkg/observability/logging"
)

// Page is one fetched document, ready for indexing.
type Page struct {
	Text     string
	Metadata map[string]any
}

// URLLoader fetches URLs over HTTP and extracts text by content type.
type URLLoader struct {
	httpClient *http.Client
	logger     *logging.Logger
}

// NewURLLoader creates a URLLoader.
func NewURLLoader(logger *logging.Logger) *URLLoader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &URLLoader{
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Load fetches every URL and returns the successfully extracted pages, each
// tagged with its source URL. Failures are logged and joined into the
// returned error; pages that did load are returned regardless.
func (l *URLLoader) Load(ctx context.Context, urls []string) ([]Page, error) {
	var pages []Page
	var errs []error

	for _, url := range urls {
		page, err := l.loadOne(ctx, url)
		if err != nil {
			l.logger.Error("load url failed", "url", url, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
			continue
		}
		pages = append(pages, page)
	}

	return pages, errors.Join(errs...)
}

func (l *URLLoader) loadOne(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("fetch: status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("read body: %w", err)
	}

	text, err := ExtractText(content, resp.Header.Get("Content-Type"))
	if err != nil {
		return Page{}, fmt.Errorf("extract text: %w", err)
	}

	return Page{
		Text:     text,
		Metadata: map[string]any{"source": url},
	}, nil
}

// ExtractText extracts plain text from content based on its media type.
// Unknown types are treated as plain text.
func ExtractText(content []byte, contentType string) (string, error) {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return extractHTML(content)
	case "application/pdf":
		return extractPDF(content)
	default:
		return string(content), nil
	}
}
