package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/stockdesk/console/internal/apiclient"
)

// newFlagSet returns a flag set carrying the shared --query flag.
func newFlagSet(name string, query *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(query, "query", "", "JMESPath expression applied to the JSON output")
	return fs
}

// printJSON writes v as indented JSON, filtered through query when set.
func printJSON(w io.Writer, v any, query string) error {
	if query != "" {
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		v, err = jmespath.Search(query, generic)
		if err != nil {
			return fmt.Errorf("query %q: %w", query, err)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printResponse prints the full response body.
func printResponse(w io.Writer, resp *apiclient.Response, query string) error {
	v, err := resp.Value()
	if err != nil {
		return err
	}
	return printJSON(w, v, query)
}

// toGeneric round-trips v through JSON so JMESPath sees maps and slices.
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	return out, nil
}
