package stockapi

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/stockdesk/console/internal/apiclient"
	"github.com/stockdesk/console/internal/errors"
)

// Doer is the subset of *apiclient.Client used here.
type Doer interface {
	Do(ctx context.Context, req apiclient.Request) (*apiclient.Response, error)
}

// Client exposes one method per endpoint. Responses are returned undecoded;
// callers pick the members they need.
type Client struct {
	api    Doer
	logger *slog.Logger
}

// New creates a Client over api.
func New(api Doer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: api, logger: logger.With("component", "stockapi")}
}

// Call invokes ep with path arguments, query params and a JSON body.
func (c *Client) Call(ctx context.Context, ep Endpoint, args []string, params map[string]any, data any) (*apiclient.Response, error) {
	path, err := ep.Resolve(args...)
	if err != nil {
		return nil, err
	}
	resp, err := c.api.Do(ctx, apiclient.Request{
		Method:   ep.Method,
		Path:     path,
		Params:   params,
		Data:     data,
		Timeout:  ep.Timeout,
		Sanitize: ep.Sanitize,
		Blob:     ep.Blob,
	})
	if err != nil {
		c.logger.DebugContext(ctx, "endpoint call failed", "endpoint", ep.Name, "error", err)
		return nil, err
	}
	return resp, nil
}

func keyword(kw string) map[string]any {
	return map[string]any{"keyword": kw}
}

// ListStocks pages through displayed stocks.
func (c *Client) ListStocks(ctx context.Context, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, StockList, nil, params, nil)
}

// SearchStocks matches stocks by code or name.
func (c *Client) SearchStocks(ctx context.Context, kw string) (*apiclient.Response, error) {
	return c.Call(ctx, StockSearch, nil, keyword(kw), nil)
}

// StockDetail fetches one stock by code.
func (c *Client) StockDetail(ctx context.Context, code string) (*apiclient.Response, error) {
	return c.Call(ctx, StockDetail, []string{code}, nil, nil)
}

// WatchlistEntry is the body of a watchlist addition.
type WatchlistEntry struct {
	StockCode string `json:"stockCode"`
	UserID    string `json:"userId,omitempty"`
}

// Watchlist lists the watched stocks of userID. An empty userID lets the server
// use the caller's identity.
func (c *Client) Watchlist(ctx context.Context, userID string) (*apiclient.Response, error) {
	var params map[string]any
	if userID != "" {
		params = map[string]any{"userId": userID}
	}
	return c.Call(ctx, WatchlistList, nil, params, nil)
}

// AddToWatchlist watches a stock.
func (c *Client) AddToWatchlist(ctx context.Context, entry WatchlistEntry) (*apiclient.Response, error) {
	if entry.StockCode == "" {
		return nil, errors.ValidationField("stockCode", "stock code is required")
	}
	return c.Call(ctx, WatchlistAdd, nil, nil, entry)
}

// RemoveFromWatchlist stops watching code.
func (c *Client) RemoveFromWatchlist(ctx context.Context, code, userID string) (*apiclient.Response, error) {
	var params map[string]any
	if userID != "" {
		params = map[string]any{"userId": userID}
	}
	return c.Call(ctx, WatchlistRemove, []string{code}, params, nil)
}

// ClearWatchlist removes every watched stock.
func (c *Client) ClearWatchlist(ctx context.Context) (*apiclient.Response, error) {
	return c.Call(ctx, WatchlistClear, nil, nil, nil)
}

// ListStockInfo pages through stock information records.
func (c *Client) ListStockInfo(ctx context.Context, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, InfoList, nil, params, nil)
}

// StockInfo fetches one stock information record.
func (c *Client) StockInfo(ctx context.Context, id string) (*apiclient.Response, error) {
	return c.Call(ctx, InfoDetail, []string{id}, nil, nil)
}

// StockHistory fetches daily history for code between two dates (YYYY-MM-DD).
func (c *Client) StockHistory(ctx context.Context, code, startDate, endDate string) (*apiclient.Response, error) {
	if code == "" {
		return nil, errors.ValidationField("stockCode", "stock code is required")
	}
	return c.Call(ctx, InfoHistory, nil, map[string]any{
		"stockCode": code,
		"startDate": startDate,
		"endDate":   endDate,
	}, nil)
}

// InfoStocks lists stocks available for charting.
func (c *Client) InfoStocks(ctx context.Context, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, InfoStocks, nil, params, nil)
}

// InfoKline loads candlestick data for code.
func (c *Client) InfoKline(ctx context.Context, code string, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, InfoKline, []string{code}, params, nil)
}

// InfoSimilar lists stocks similar to code.
func (c *Client) InfoSimilar(ctx context.Context, code string) (*apiclient.Response, error) {
	return c.Call(ctx, InfoSimilar, []string{code}, nil, nil)
}

// ListHistory pages through similarity query history.
func (c *Client) ListHistory(ctx context.Context, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, HistoryList, nil, params, nil)
}

// AddHistory records a similarity query.
func (c *Client) AddHistory(ctx context.Context, data any) (*apiclient.Response, error) {
	return c.Call(ctx, HistoryAdd, nil, nil, data)
}

// HistoryDetail fetches one history record.
func (c *Client) HistoryDetail(ctx context.Context, id string) (*apiclient.Response, error) {
	return c.Call(ctx, HistoryDetail, []string{id}, nil, nil)
}

// DeleteHistory removes one history record.
func (c *Client) DeleteHistory(ctx context.Context, id string) (*apiclient.Response, error) {
	return c.Call(ctx, HistoryDelete, []string{id}, nil, nil)
}

// DeleteHistoryBatch removes several history records.
func (c *Client) DeleteHistoryBatch(ctx context.Context, ids []string) (*apiclient.Response, error) {
	if len(ids) == 0 {
		return nil, errors.ValidationField("historyIds", "at least one history id is required")
	}
	return c.Call(ctx, HistoryBatch, nil, nil, map[string]any{"historyIds": ids})
}

// SearchHistory fuzzy-matches history records.
func (c *Client) SearchHistory(ctx context.Context, kw string) (*apiclient.Response, error) {
	return c.Call(ctx, HistorySearch, nil, keyword(kw), nil)
}

// HistoryResult fetches the similar-stock result set of a history record.
func (c *Client) HistoryResult(ctx context.Context, id string) (*apiclient.Response, error) {
	return c.Call(ctx, HistoryResult, []string{id}, nil, nil)
}

// ExportHistory downloads history records as a spreadsheet. The file is in Response.Blob.
func (c *Client) ExportHistory(ctx context.Context, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, HistoryExport, nil, nil, params)
}

// HistoryStatistics fetches aggregate history statistics.
func (c *Client) HistoryStatistics(ctx context.Context, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, HistoryStatistics, nil, params, nil)
}

// RecentHistory fetches the latest limit history records. limit <= 0 selects DefaultRecentLimit.
func (c *Client) RecentHistory(ctx context.Context, limit int) (*apiclient.Response, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return c.Call(ctx, HistoryRecent, nil, map[string]any{"limit": strconv.Itoa(limit)}, nil)
}

// ClearHistory removes every history record.
func (c *Client) ClearHistory(ctx context.Context) (*apiclient.Response, error) {
	return c.Call(ctx, HistoryClear, nil, nil, nil)
}

// CalculateSimilarity runs a similarity computation. It may take minutes.
func (c *Client) CalculateSimilarity(ctx context.Context, data any) (*apiclient.Response, error) {
	return c.Call(ctx, SimilarityCalculate, nil, nil, data)
}

// SearchSimilarity fuzzy-matches stocks for a similarity query.
func (c *Client) SearchSimilarity(ctx context.Context, kw string) (*apiclient.Response, error) {
	return c.Call(ctx, SimilaritySearch, nil, keyword(kw), nil)
}

// SimilarityMethods lists the available similarity measures.
func (c *Client) SimilarityMethods(ctx context.Context) (*apiclient.Response, error) {
	return c.Call(ctx, SimilarityMethods, nil, nil, nil)
}

// SimilarityIndicators lists the indicators a computation can compare.
func (c *Client) SimilarityIndicators(ctx context.Context) (*apiclient.Response, error) {
	return c.Call(ctx, SimilarityIndicators, nil, nil, nil)
}

// PerformanceComparison compares similarity methods.
func (c *Client) PerformanceComparison(ctx context.Context, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, SimilarityPerformance, nil, params, nil)
}

// LLMAnalysis asks the server for a language-model write-up of a result.
func (c *Client) LLMAnalysis(ctx context.Context, data any) (*apiclient.Response, error) {
	return c.Call(ctx, SimilarityLLMAnalysis, nil, nil, data)
}

// ListReturns pages through return analysis rows.
func (c *Client) ListReturns(ctx context.Context, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, ReturnList, nil, params, nil)
}

// ReturnKline loads return-annotated candlesticks for code.
func (c *Client) ReturnKline(ctx context.Context, code string, params map[string]any) (*apiclient.Response, error) {
	return c.Call(ctx, ReturnKline, []string{code}, params, nil)
}

// SimilarReturns lists stocks with return profiles similar to code.
func (c *Client) SimilarReturns(ctx context.Context, code string) (*apiclient.Response, error) {
	return c.Call(ctx, ReturnSimilar, []string{code}, nil, nil)
}
