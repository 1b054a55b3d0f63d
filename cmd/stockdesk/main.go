// Command stockdesk is a terminal client for the stock admin console.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/stockdesk/console/config"
	"github.com/stockdesk/console/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	In     io.Reader
	Out    io.Writer

	app *bootstrap.App
}

// App builds the wired client on first use.
func (c *commandContext) App() (*bootstrap.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	app, err := bootstrap.BuildApp(c.Ctx, c.Config, c.Logger)
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

func (c *commandContext) Close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		c.Logger.Warn("close app failed", "error", err)
	}
	c.app = nil
}

func main() {
	if len(os.Args) < 2 {
		_ = printUsage(os.Stdout)
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		_ = writef(os.Stderr, "unknown command %q\n\n", cmdName)
		_ = printUsage(os.Stderr)
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.Observability.Logging, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
	runErr := cmd.run(cmdCtx, os.Args[2:])
	cmdCtx.Close()
	stop()
	if runErr != nil {
		logger.ErrorContext(ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	list := []command{
		{"login", "Sign in and store the session token", runLogin},
		{"logout", "Sign out and clear the stored token", runLogout},
		{"whoami", "Fetch and print the signed-in identity", runWhoami},
		{"status", "Print session state and storage configuration", runStatus},
		{"token", "Print the stored bearer token", runToken},
		{"captcha", "Request a login captcha challenge", runCaptcha},
		{"cache-get", "Read a key from a cache scope", runCacheGet},
		{"cache-set", "Write a key to a cache scope", runCacheSet},
		{"cache-rm", "Remove a key from a cache scope", runCacheRemove},
		{"stocks", "List or search stocks", runStocks},
		{"stock", "Show one stock", runStock},
		{"watchlist", "List watched stocks", runWatchlist},
		{"watch", "Add a stock to the watchlist", runWatch},
		{"unwatch", "Remove a stock from the watchlist", runUnwatch},
		{"history", "List, inspect or export similarity history", runHistory},
		{"similar", "Similarity lookups and calculation", runSimilar},
		{"returns", "List return data", runReturns},
		{"kline", "Print kline data for a stock", runKline},
		{"dashboard", "Fetch identity, watchlist and recent history together", runDashboard},
	}
	m := make(map[string]command, len(list))
	for _, c := range list {
		m[c.name] = c
	}
	return m
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: stockdesk <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
