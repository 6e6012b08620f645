package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mwessel/papertrader/internal/logger"
)

const (
	headlinesURL  = "https://newsapi.org/v2/top-headlines"
	everythingURL = "https://newsapi.org/v2/everything"
	cacheDuration = time.Hour
)

var cryptoNames = map[string]string{
	"BTC": "Bitcoin", "ETH": "Ethereum", "BNB": "Binance", "XRP": "Ripple",
	"ADA": "Cardano", "SOL": "Solana", "DOGE": "Dogecoin", "MATIC": "Polygon",
	"DOT": "Polkadot", "AVAX": "Avalanche", "LINK": "Chainlink", "UNI": "Uniswap",
	"ATOM": "Cosmos", "LTC": "Litecoin", "XLM": "Stellar",
}

var companyNames = map[string]string{
	"AAPL": "Apple", "MSFT": "Microsoft", "GOOGL": "Google", "AMZN": "Amazon",
	"TSLA": "Tesla", "META": "Meta", "NVDA": "Nvidia", "AMD": "AMD",
	"INTC": "Intel", "NFLX": "Netflix", "JPM": "JPMorgan", "WMT": "Walmart",
	"V": "Visa", "MA": "Mastercard",
}

// Client fetches headlines from the NewsAPI endpoints with a small
// in-memory cache. All failures degrade to an empty article list.
type Client struct {
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	at       time.Time
	articles []Article
}

func NewClient(apiKey string, log *logger.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log,
		cache:      make(map[string]cacheEntry),
	}
}

type apiResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func (c *Client) MarketNews(ctx context.Context, n int) []Article {
	if cached, ok := c.cached("market"); ok {
		return cached
	}

	params := url.Values{
		"apiKey":   {c.apiKey},
		"category": {"business"},
		"language": {"en"},
		"pageSize": {fmt.Sprint(n)},
	}
	articles := c.fetch(ctx, headlinesURL, params, n)
	c.store("market", articles)
	return articles
}

func (c *Client) TickerNews(ctx context.Context, symbol string, n int) []Article {
	key := "ticker_" + symbol
	if cached, ok := c.cached(key); ok {
		return cached
	}

	params := url.Values{
		"apiKey":   {c.apiKey},
		"q":        {symbolQuery(symbol)},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {fmt.Sprint(n)},
		"from":     {time.Now().AddDate(0, 0, -7).Format("2006-01-02")},
	}
	articles := c.fetch(ctx, everythingURL, params, n)
	c.store(key, articles)
	return articles
}

func (c *Client) fetch(ctx context.Context, base string, params url.Values, n int) []Article {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("fetch news", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("fetch news", "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("parse news response", "error", err)
		return nil
	}

	articles := make([]Article, 0, n)
	for _, a := range parsed.Articles {
		if len(articles) >= n {
			break
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Sentiment:   Sentiment(a.Title + " " + a.Description),
		})
	}
	return articles
}

func (c *Client) cached(key string) ([]Article, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || time.Since(entry.at) > cacheDuration {
		return nil, false
	}
	return entry.articles, true
}

func (c *Client) store(key string, articles []Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{at: time.Now(), articles: articles}
}

// symbolQuery maps a ticker to a search phrase the news index will match.
func symbolQuery(symbol string) string {
	if strings.HasSuffix(symbol, "-USD") {
		name := strings.TrimSuffix(symbol, "-USD")
		if q, ok := cryptoNames[name]; ok {
			return q
		}
		return name
	}
	if q, ok := companyNames[symbol]; ok {
		return q
	}
	return symbol
}
