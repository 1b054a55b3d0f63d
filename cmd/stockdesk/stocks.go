package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stockdesk/console/internal/apiclient"
	"github.com/stockdesk/console/internal/core"
	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/stockapi"
)

// dashboardCacheKey holds the last dashboard snapshot in the persistent scope.
const dashboardCacheKey = "stockdesk-dashboard"

type pageOptions struct {
	Page  int
	Size  int
	Query string
}

func (p pageOptions) params() map[string]any {
	params := map[string]any{}
	if p.Page > 0 {
		params["pageNum"] = p.Page
	}
	if p.Size > 0 {
		params["pageSize"] = p.Size
	}
	return params
}

func runStocks(cmdCtx *commandContext, args []string) error {
	var opts pageOptions
	var keyword string
	fs := newFlagSet("stocks", &opts.Query)
	fs.IntVar(&opts.Page, "page", 1, "Page number")
	fs.IntVar(&opts.Size, "size", 10, "Page size")
	fs.StringVar(&keyword, "keyword", "", "Search by code or name instead of listing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withStocks(cmdCtx, opts.Query, func(c *stockapi.Client) (*apiclient.Response, error) {
		if strings.TrimSpace(keyword) != "" {
			return c.SearchStocks(cmdCtx.Ctx, keyword)
		}
		return c.ListStocks(cmdCtx.Ctx, opts.params())
	})
}

func runStock(cmdCtx *commandContext, args []string) error {
	var query string
	var info bool
	fs := newFlagSet("stock", &query)
	fs.BoolVar(&info, "info", false, "Show the stock info record instead of the listing entry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: stock [--info] <code>")
	}
	code := fs.Arg(0)
	return withStocks(cmdCtx, query, func(c *stockapi.Client) (*apiclient.Response, error) {
		if info {
			return c.StockInfo(cmdCtx.Ctx, code)
		}
		return c.StockDetail(cmdCtx.Ctx, code)
	})
}

func runWatchlist(cmdCtx *commandContext, args []string) error {
	var query, user string
	var clearAll bool
	fs := newFlagSet("watchlist", &query)
	fs.StringVar(&user, "user", "", "User id (defaults to the signed-in user)")
	fs.BoolVar(&clearAll, "clear", false, "Remove every watched stock")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withStocks(cmdCtx, query, func(c *stockapi.Client) (*apiclient.Response, error) {
		if clearAll {
			return c.ClearWatchlist(cmdCtx.Ctx)
		}
		return c.Watchlist(cmdCtx.Ctx, user)
	})
}

func runWatch(cmdCtx *commandContext, args []string) error {
	var query, user string
	fs := newFlagSet("watch", &query)
	fs.StringVar(&user, "user", "", "User id (defaults to the signed-in user)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: watch <code>")
	}
	entry := stockapi.WatchlistEntry{StockCode: fs.Arg(0), UserID: user}
	return withStocks(cmdCtx, query, func(c *stockapi.Client) (*apiclient.Response, error) {
		return c.AddToWatchlist(cmdCtx.Ctx, entry)
	})
}

func runUnwatch(cmdCtx *commandContext, args []string) error {
	var query, user string
	fs := newFlagSet("unwatch", &query)
	fs.StringVar(&user, "user", "", "User id (defaults to the signed-in user)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: unwatch <code>")
	}
	code := fs.Arg(0)
	return withStocks(cmdCtx, query, func(c *stockapi.Client) (*apiclient.Response, error) {
		return c.RemoveFromWatchlist(cmdCtx.Ctx, code, user)
	})
}

type historyOptions struct {
	pageOptions
	ID      string
	Result  bool
	Recent  int
	Stats   bool
	Delete  string
	Export  string
	Keyword string
	Clear   bool
}

func parseHistoryFlags(args []string) (historyOptions, error) {
	var opts historyOptions
	fs := newFlagSet("history", &opts.Query)
	fs.IntVar(&opts.Page, "page", 1, "Page number")
	fs.IntVar(&opts.Size, "size", 10, "Page size")
	fs.StringVar(&opts.ID, "id", "", "Show one history record")
	fs.BoolVar(&opts.Result, "result", false, "With --id, show the stored calculation result")
	fs.IntVar(&opts.Recent, "recent", 0, "Show the most recent N records")
	fs.BoolVar(&opts.Stats, "stats", false, "Show history statistics")
	fs.StringVar(&opts.Delete, "delete", "", "Comma separated history ids to delete")
	fs.StringVar(&opts.Export, "export", "", "Export history to this file")
	fs.StringVar(&opts.Keyword, "keyword", "", "Search history by keyword")
	fs.BoolVar(&opts.Clear, "clear", false, "Remove every history record")
	if err := fs.Parse(args); err != nil {
		return historyOptions{}, err
	}
	if opts.Result && opts.ID == "" {
		return historyOptions{}, errors.New("--result requires --id")
	}
	return opts, nil
}

func runHistory(cmdCtx *commandContext, args []string) error {
	opts, err := parseHistoryFlags(args)
	if err != nil {
		return err
	}
	if opts.Export != "" {
		return exportHistory(cmdCtx, opts)
	}
	return withStocks(cmdCtx, opts.Query, func(c *stockapi.Client) (*apiclient.Response, error) {
		ctx := cmdCtx.Ctx
		switch {
		case opts.Clear:
			return c.ClearHistory(ctx)
		case opts.Delete != "":
			ids := splitList(opts.Delete)
			if len(ids) == 1 {
				return c.DeleteHistory(ctx, ids[0])
			}
			return c.DeleteHistoryBatch(ctx, ids)
		case opts.ID != "" && opts.Result:
			return c.HistoryResult(ctx, opts.ID)
		case opts.ID != "":
			return c.HistoryDetail(ctx, opts.ID)
		case opts.Recent > 0:
			return c.RecentHistory(ctx, opts.Recent)
		case opts.Stats:
			return c.HistoryStatistics(ctx, nil)
		case opts.Keyword != "":
			return c.SearchHistory(ctx, opts.Keyword)
		default:
			return c.ListHistory(ctx, opts.params())
		}
	})
}

func exportHistory(cmdCtx *commandContext, opts historyOptions) error {
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	resp, err := app.Stocks.ExportHistory(cmdCtx.Ctx, opts.params())
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	if err := os.WriteFile(opts.Export, resp.Blob, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return writef(cmdCtx.Out, "Wrote %d bytes to %s\n", len(resp.Blob), opts.Export)
}

type similarOptions struct {
	Query      string
	Methods    bool
	Indicators bool
	Compare    bool
	Calculate  string
	Analyze    string
	Keyword    string
}

func runSimilar(cmdCtx *commandContext, args []string) error {
	var opts similarOptions
	fs := newFlagSet("similar", &opts.Query)
	fs.BoolVar(&opts.Methods, "methods", false, "List similarity methods")
	fs.BoolVar(&opts.Indicators, "indicators", false, "List similarity indicators")
	fs.BoolVar(&opts.Compare, "compare", false, "Show method performance comparison")
	fs.StringVar(&opts.Calculate, "calculate", "", "JSON calculation request, or @file")
	fs.StringVar(&opts.Analyze, "analyze", "", "JSON analysis request, or @file")
	fs.StringVar(&opts.Keyword, "keyword", "", "Search similarity records")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var code string
	if fs.NArg() > 0 {
		code = fs.Arg(0)
	}
	return withStocks(cmdCtx, opts.Query, func(c *stockapi.Client) (*apiclient.Response, error) {
		ctx := cmdCtx.Ctx
		switch {
		case opts.Methods:
			return c.SimilarityMethods(ctx)
		case opts.Indicators:
			return c.SimilarityIndicators(ctx)
		case opts.Compare:
			return c.PerformanceComparison(ctx, nil)
		case opts.Calculate != "":
			body, err := readJSONArg(opts.Calculate)
			if err != nil {
				return nil, err
			}
			return c.CalculateSimilarity(ctx, body)
		case opts.Analyze != "":
			body, err := readJSONArg(opts.Analyze)
			if err != nil {
				return nil, err
			}
			return c.LLMAnalysis(ctx, body)
		case opts.Keyword != "":
			return c.SearchSimilarity(ctx, opts.Keyword)
		case code != "":
			return c.InfoSimilar(ctx, code)
		default:
			return nil, errors.New("usage: similar [--methods|--indicators|--compare|--calculate JSON|--analyze JSON|--keyword KW|<code>]")
		}
	})
}

func runReturns(cmdCtx *commandContext, args []string) error {
	var opts pageOptions
	var similarTo string
	fs := newFlagSet("returns", &opts.Query)
	fs.IntVar(&opts.Page, "page", 1, "Page number")
	fs.IntVar(&opts.Size, "size", 10, "Page size")
	fs.StringVar(&similarTo, "similar", "", "List returns similar to this stock code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withStocks(cmdCtx, opts.Query, func(c *stockapi.Client) (*apiclient.Response, error) {
		if similarTo != "" {
			return c.SimilarReturns(cmdCtx.Ctx, similarTo)
		}
		return c.ListReturns(cmdCtx.Ctx, opts.params())
	})
}

func runKline(cmdCtx *commandContext, args []string) error {
	var query, start, end, source string
	fs := newFlagSet("kline", &query)
	fs.StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	fs.StringVar(&source, "source", "returns", "Data source: returns, info or history")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: kline [--start DATE] [--end DATE] [--source returns|info|history] <code>")
	}
	code := fs.Arg(0)
	params := map[string]any{"startDate": start, "endDate": end}
	return withStocks(cmdCtx, query, func(c *stockapi.Client) (*apiclient.Response, error) {
		switch source {
		case "returns":
			return c.ReturnKline(cmdCtx.Ctx, code, params)
		case "info":
			return c.InfoKline(cmdCtx.Ctx, code, params)
		case "history":
			return c.StockHistory(cmdCtx.Ctx, code, start, end)
		default:
			return nil, fmt.Errorf("unknown kline source %q", source)
		}
	})
}

// dashboardView is the combined snapshot printed by the dashboard command.
type dashboardView struct {
	FetchedAt  time.Time           `json:"fetchedAt"`
	Identity   domainauth.Identity `json:"identity"`
	Watchlist  json.RawMessage     `json:"watchlist,omitempty"`
	Recent     json.RawMessage     `json:"recent,omitempty"`
	Statistics json.RawMessage     `json:"statistics,omitempty"`
}

func runDashboard(cmdCtx *commandContext, args []string) error {
	var query string
	var cached bool
	fs := newFlagSet("dashboard", &query)
	fs.BoolVar(&cached, "cached", false, "Print the last stored snapshot without calling the server")
	if err := fs.Parse(args); err != nil {
		return err
	}
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}

	if cached {
		var view dashboardView
		ok, err := app.Cache.GetJSON(cmdCtx.Ctx, core.ScopePersistent, dashboardCacheKey, &view)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no dashboard snapshot stored")
		}
		return printJSON(cmdCtx.Out, view, query)
	}

	if _, err := app.Session.FetchIdentity(cmdCtx.Ctx); err != nil {
		return fmt.Errorf("fetch identity: %w", err)
	}
	id := app.Session.Identity()
	view := dashboardView{FetchedAt: time.Now().UTC(), Identity: id}

	g, gctx := errgroup.WithContext(cmdCtx.Ctx)
	g.Go(func() error {
		resp, err := app.Stocks.Watchlist(gctx, string(id.ID))
		if err != nil {
			return fmt.Errorf("watchlist: %w", err)
		}
		view.Watchlist = resp.Body
		return nil
	})
	g.Go(func() error {
		resp, err := app.Stocks.RecentHistory(gctx, stockapi.DefaultRecentLimit)
		if err != nil {
			return fmt.Errorf("recent history: %w", err)
		}
		view.Recent = resp.Body
		return nil
	})
	g.Go(func() error {
		resp, err := app.Stocks.HistoryStatistics(gctx, nil)
		if err != nil {
			return fmt.Errorf("history statistics: %w", err)
		}
		view.Statistics = resp.Body
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := app.Cache.SetJSON(cmdCtx.Ctx, core.ScopePersistent, dashboardCacheKey, view); err != nil {
		cmdCtx.Logger.Warn("store dashboard snapshot failed", "error", err)
	}
	return printJSON(cmdCtx.Out, view, query)
}

// withStocks runs fn against the stock API and prints the response.
func withStocks(cmdCtx *commandContext, query string, fn func(*stockapi.Client) (*apiclient.Response, error)) error {
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	resp, err := fn(app.Stocks)
	if err != nil {
		return err
	}
	return printResponse(cmdCtx.Out, resp, query)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readJSONArg decodes an inline JSON document or the file named after "@".
func readJSONArg(arg string) (any, error) {
	raw := []byte(arg)
	if name, ok := strings.CutPrefix(arg, "@"); ok {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		raw = b
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON argument: %w", err)
	}
	return v, nil
}
