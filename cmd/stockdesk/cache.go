package main

import (
	"errors"
	"flag"
	"os"

	"github.com/stockdesk/console/internal/core"
)

func parseCacheFlags(name string, args []string, want int) (core.Scope, []string, error) {
	scope := string(core.ScopePersistent)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&scope, "scope", scope, "Cache scope: session or persistent")
	if err := fs.Parse(args); err != nil {
		return "", nil, err
	}
	s := core.Scope(scope)
	if !s.Valid() {
		return "", nil, errors.New("--scope must be session or persistent")
	}
	if fs.NArg() != want {
		return "", nil, errors.New("wrong number of arguments")
	}
	return s, fs.Args(), nil
}

func runCacheGet(cmdCtx *commandContext, args []string) error {
	scope, rest, err := parseCacheFlags("cache-get", args, 1)
	if err != nil {
		return err
	}
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	v, ok, err := app.Cache.Get(cmdCtx.Ctx, scope, rest[0])
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("key not found")
	}
	return writeln(cmdCtx.Out, v)
}

func runCacheSet(cmdCtx *commandContext, args []string) error {
	scope, rest, err := parseCacheFlags("cache-set", args, 2)
	if err != nil {
		return err
	}
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	if !app.Cache.Available(scope) {
		cmdCtx.Logger.Warn("cache scope unavailable, value not stored", "scope", scope)
	}
	return app.Cache.Set(cmdCtx.Ctx, scope, rest[0], rest[1])
}

func runCacheRemove(cmdCtx *commandContext, args []string) error {
	scope, rest, err := parseCacheFlags("cache-rm", args, 1)
	if err != nil {
		return err
	}
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	return app.Cache.Remove(cmdCtx.Ctx, scope, rest[0])
}
