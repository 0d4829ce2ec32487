// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the persistence interface for recorded
// question/answer exchanges.
package storage

import (
	"context"

	"github.com/masumhasan/comAI/pkg/core/schema"
)

// HistoryStore records question/answer exchanges and lists them back,
// newest first.
type HistoryStore interface {
	SaveExchange(ctx context.Context, exchange *schema.Exchange) error
	ListExchanges(ctx context.Context, limit int) ([]*schema.Exchange, error)
	Close() error
}
