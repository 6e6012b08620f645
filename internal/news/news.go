// Package news fetches market and ticker headlines and derives a coarse
// sentiment label for each article.
package news

import (
	"context"
	"time"
)

type Article struct {
	Title       string
	Description string
	Source      string
	PublishedAt time.Time
	Sentiment   string // positive, negative, neutral
}

// Provider supplies recent articles. Implementations fail soft: an
// unavailable feed returns nil articles, not an error the pipeline must
// handle.
type Provider interface {
	MarketNews(ctx context.Context, n int) []Article
	TickerNews(ctx context.Context, symbol string, n int) []Article
}
