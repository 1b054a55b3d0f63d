// Package stockapi wraps the console's stock data endpoints. Each endpoint has
// exactly one wrapper, and whether its payloads pass through the non-finite
// number sanitizer is declared once in the endpoint table.
package stockapi

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stockdesk/console/internal/errors"
)

// Endpoint describes one server route and how it is called.
type Endpoint struct {
	Name   string
	Method string
	// Path may hold {placeholders} filled in order by Resolve.
	Path     string
	Sanitize bool
	Timeout  time.Duration
	Blob     bool
}

// Resolve substitutes args into the path placeholders, escaping each one.
func (e Endpoint) Resolve(args ...string) (string, error) {
	path := e.Path
	for _, arg := range args {
		start := strings.IndexByte(path, '{')
		end := strings.IndexByte(path, '}')
		if start < 0 || end < start {
			return "", errors.Internalf("%s: too many path arguments", e.Name)
		}
		name := path[start+1 : end]
		if strings.TrimSpace(arg) == "" {
			return "", errors.ValidationField(name, name+" is required")
		}
		path = path[:start] + url.PathEscape(arg) + path[end+1:]
	}
	if strings.ContainsRune(path, '{') {
		return "", errors.Internalf("%s: missing path arguments", e.Name)
	}
	return path, nil
}

const (
	// WatchlistAddTimeout is the extended timeout for adding to the watchlist.
	WatchlistAddTimeout = 30 * time.Second
	// CalculateTimeout bounds a similarity computation.
	CalculateTimeout = 180 * time.Second
	// DefaultRecentLimit is the number of recent history entries fetched by default.
	DefaultRecentLimit = 10
)

// Stock display and watchlist.
var (
	StockList       = Endpoint{Name: "stock.list", Method: http.MethodGet, Path: "/system/show/list"}
	StockSearch     = Endpoint{Name: "stock.search", Method: http.MethodGet, Path: "/system/show/search"}
	StockDetail     = Endpoint{Name: "stock.detail", Method: http.MethodGet, Path: "/system/show/{code}"}
	WatchlistList   = Endpoint{Name: "watchlist.list", Method: http.MethodGet, Path: "/system/show/watchlist"}
	WatchlistAdd    = Endpoint{Name: "watchlist.add", Method: http.MethodPost, Path: "/system/show/watchlist", Timeout: WatchlistAddTimeout}
	WatchlistRemove = Endpoint{Name: "watchlist.remove", Method: http.MethodDelete, Path: "/system/show/watchlist/{code}"}
	WatchlistClear  = Endpoint{Name: "watchlist.clear", Method: http.MethodDelete, Path: "/system/show/watchlist"}
)

// Stock information.
var (
	InfoList    = Endpoint{Name: "info.list", Method: http.MethodGet, Path: "/system/stockInfo/list"}
	InfoDetail  = Endpoint{Name: "info.detail", Method: http.MethodGet, Path: "/system/stockInfo/{id}"}
	InfoHistory = Endpoint{Name: "info.history", Method: http.MethodGet, Path: "/system/stockInfo/history"}
	InfoStocks  = Endpoint{Name: "info.stocks", Method: http.MethodGet, Path: "/system/stockInfo/stocks"}
	InfoKline   = Endpoint{Name: "info.kline", Method: http.MethodGet, Path: "/system/stockInfo/stocks/{code}/kline"}
	InfoSimilar = Endpoint{Name: "info.similar", Method: http.MethodGet, Path: "/system/stockInfo/stocks/{code}/similar"}
)

// Similarity query history.
var (
	HistoryList       = Endpoint{Name: "history.list", Method: http.MethodGet, Path: "/system/history"}
	HistoryAdd        = Endpoint{Name: "history.add", Method: http.MethodPost, Path: "/system/history"}
	HistoryDetail     = Endpoint{Name: "history.detail", Method: http.MethodGet, Path: "/system/history/{id}"}
	HistoryDelete     = Endpoint{Name: "history.delete", Method: http.MethodDelete, Path: "/system/history/{id}"}
	HistoryBatch      = Endpoint{Name: "history.batch_delete", Method: http.MethodDelete, Path: "/system/history/batch"}
	HistorySearch     = Endpoint{Name: "history.search", Method: http.MethodGet, Path: "/system/history/fuzzySearch"}
	HistoryResult     = Endpoint{Name: "history.result", Method: http.MethodGet, Path: "/system/history/result/{id}"}
	HistoryExport     = Endpoint{Name: "history.export", Method: http.MethodPost, Path: "/system/history/export", Blob: true}
	HistoryStatistics = Endpoint{Name: "history.statistics", Method: http.MethodGet, Path: "/system/history/statistics"}
	HistoryRecent     = Endpoint{Name: "history.recent", Method: http.MethodGet, Path: "/system/history/recent"}
	HistoryClear      = Endpoint{Name: "history.clear", Method: http.MethodDelete, Path: "/system/history/clear"}
)

// Similarity computation.
var (
	SimilarityCalculate   = Endpoint{Name: "similarity.calculate", Method: http.MethodPost, Path: "/system/stockSimilarity/calculate", Timeout: CalculateTimeout}
	SimilaritySearch      = Endpoint{Name: "similarity.search", Method: http.MethodGet, Path: "/system/stockSimilarity/fuzzySearch"}
	SimilarityMethods     = Endpoint{Name: "similarity.methods", Method: http.MethodGet, Path: "/system/stockSimilarity/methods"}
	SimilarityIndicators  = Endpoint{Name: "similarity.indicators", Method: http.MethodGet, Path: "/system/stockSimilarity/indicators"}
	SimilarityPerformance = Endpoint{Name: "similarity.performance", Method: http.MethodGet, Path: "/system/stockSimilarity/performanceComparison"}
	SimilarityLLMAnalysis = Endpoint{Name: "similarity.llm_analysis", Method: http.MethodPost, Path: "/system/stockSimilarity/llmAnalysis"}
)

// Return analysis. List and kline payloads carry float analytics and are sanitized.
var (
	ReturnList    = Endpoint{Name: "return.list", Method: http.MethodGet, Path: "/system/return/list", Sanitize: true}
	ReturnKline   = Endpoint{Name: "return.kline", Method: http.MethodGet, Path: "/system/return/kline/{code}", Sanitize: true}
	ReturnSimilar = Endpoint{Name: "return.similar", Method: http.MethodGet, Path: "/system/return/similar/{code}"}
)

// Endpoints returns every endpoint in table order.
func Endpoints() []Endpoint {
	return []Endpoint{
		StockList, StockSearch, StockDetail,
		WatchlistList, WatchlistAdd, WatchlistRemove, WatchlistClear,
		InfoList, InfoDetail, InfoHistory, InfoStocks, InfoKline, InfoSimilar,
		HistoryList, HistoryAdd, HistoryDetail, HistoryDelete, HistoryBatch, HistorySearch,
		HistoryResult, HistoryExport, HistoryStatistics, HistoryRecent, HistoryClear,
		SimilarityCalculate, SimilaritySearch, SimilarityMethods, SimilarityIndicators,
		SimilarityPerformance, SimilarityLLMAnalysis,
		ReturnList, ReturnKline, ReturnSimilar,
	}
}

// Lookup finds an endpoint by name.
func Lookup(name string) (Endpoint, bool) {
	for _, e := range Endpoints() {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}
