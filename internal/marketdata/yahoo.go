package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mwessel/papertrader/internal/logger"
)

const (
	chartBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart/"
	summaryBaseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/"
)

// YahooProvider fetches daily series and metadata from the Yahoo Finance
// chart API.
type YahooProvider struct {
	httpClient *http.Client
	logger     *logger.Logger
}

func NewYahooProvider(log *logger.Logger) *YahooProvider {
	return &YahooProvider{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) Fetch(ctx context.Context, symbol, period string) (Series, error) {
	u := chartBaseURL + url.PathEscape(symbol) + "?range=" + chartRange(period) + "&interval=1d"

	body, err := p.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", symbol, err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse chart for %s: %w", symbol, err)
	}

	if parsed.Chart.Error != nil || len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 || len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	quote := result.Indicators.Quote[0]
	series := make(Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bar := Bar{Date: time.Unix(ts, 0).UTC()}
		if i < len(quote.Close) {
			bar.Close = quote.Close[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		series = append(series, bar)
	}

	if series.Days() == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	return series, nil
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				AverageVolume struct {
					Raw float64 `json:"raw"`
				} `json:"averageVolume"`
				MarketCap struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"summaryDetail"`
			Price struct {
				LongName string `json:"longName"`
			} `json:"price"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

func (p *YahooProvider) FetchMeta(ctx context.Context, symbol string) (Meta, error) {
	u := summaryBaseURL + url.PathEscape(symbol) + "?modules=summaryDetail,price,assetProfile"

	body, err := p.get(ctx, u)
	if err != nil {
		return Meta{}, fmt.Errorf("fetch meta for %s: %w", symbol, err)
	}

	var parsed summaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Meta{}, fmt.Errorf("parse meta for %s: %w", symbol, err)
	}

	if len(parsed.QuoteSummary.Result) == 0 {
		return Meta{}, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	r := parsed.QuoteSummary.Result[0]
	return Meta{
		Name:      r.Price.LongName,
		Sector:    r.AssetProfile.Sector,
		MarketCap: r.SummaryDetail.MarketCap.Raw,
		AvgVolume: r.SummaryDetail.AverageVolume.Raw,
	}, nil
}

func (p *YahooProvider) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "papertrader/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, nil
}

func chartRange(period string) string {
	switch period {
	case PeriodDay:
		return "5d" // last close survives weekends and holidays
	case PeriodSixMonth:
		return "6mo"
	case PeriodYear:
		return "1y"
	default:
		return period
	}
}
