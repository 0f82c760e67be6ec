package server

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"
)

// ChartPoint is one observation in a price-history series.
type ChartPoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// ChartSeries is the chart payload for one symbol. Source is "upstream" or
// "mock" so the UI can label best-effort data.
type ChartSeries struct {
	Symbol string       `json:"symbol"`
	Source string       `json:"source"`
	Points []ChartPoint `json:"points"`
}

// ChartClient fetches price-history series from an upstream service.
// Chart data is strictly best-effort: any upstream problem degrades to a
// deterministic mock series rather than an error.
type ChartClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewChartClient creates a chart client. An empty baseURL disables
// upstream fetches entirely.
func NewChartClient(baseURL string, timeout time.Duration, logger *slog.Logger) *ChartClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("component", "chart_client")),
	}
}

// Series returns the price history for symbol, from the upstream service
// when possible and from the mock generator otherwise.
func (c *ChartClient) Series(ctx context.Context, symbol string) ChartSeries {
	if c.baseURL == "" {
		return mockSeries(symbol)
	}

	series, err := c.fetch(ctx, symbol)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream chart fetch failed, serving mock series",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		return mockSeries(symbol)
	}
	return series
}

func (c *ChartClient) fetch(ctx context.Context, symbol string) (ChartSeries, error) {
	u := fmt.Sprintf("%s/chart/%s", c.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ChartSeries{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ChartSeries{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ChartSeries{}, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var points []ChartPoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return ChartSeries{}, err
	}
	return ChartSeries{Symbol: symbol, Source: "upstream", Points: points}, nil
}

// mockSeries generates a stable pseudo-random walk seeded by the symbol,
// so repeated requests chart the same shape.
func mockSeries(symbol string) ChartSeries {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	seed := float64(h.Sum32()%1000) + 50

	const days = 90
	points := make([]ChartPoint, 0, days)
	price := seed
	start := time.Now().AddDate(0, 0, -days)
	for i := range days {
		// Bounded oscillation keeps the walk positive and repeatable.
		price += seed * 0.02 * math.Sin(float64(i)/7+seed)
		points = append(points, ChartPoint{
			Date:  start.AddDate(0, 0, i).Format("2006-01-02"),
			Close: math.Round(price*100) / 100,
		})
	}
	return ChartSeries{Symbol: symbol, Source: "mock", Points: points}
}
