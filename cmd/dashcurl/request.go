package main

import (
	"context"
	"dash-api/client"
	"dash-api/protocol"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
)

func runRequest(ctx context.Context, opts *options, method string, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%s needs exactly one PATH", strings.ToLower(method))
	}
	call, err := buildCall(opts, method, args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	api, cleanup, err := newRequester(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var body client.Raw
	if err := api.Do(ctx, call, &body); err != nil {
		return err
	}
	return printBody(stdout, body, opts)
}

// buildCall turns the command line into a call. Every call gets an
// X-Request-ID unless -H sets one.
func buildCall(opts *options, method, path string) (*protocol.Call, error) {
	call := &protocol.Call{
		Method: method,
		Path:   path,
		Header: map[string]string{protocol.HeaderRequestID: uuid.NewString()},
	}

	for _, q := range opts.query {
		k, v, ok := strings.Cut(q, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("query %q: want KEY=VALUE", q)
		}
		call.Query = append(call.Query, protocol.Q(k, v))
	}

	for _, h := range opts.headers {
		k, v, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("header %q: want 'Name: value'", h)
		}
		k = strings.TrimSpace(k)
		if http.CanonicalHeaderKey(k) == http.CanonicalHeaderKey(protocol.HeaderRequestID) {
			delete(call.Header, protocol.HeaderRequestID)
		}
		call.Header[k] = strings.TrimSpace(v)
	}

	if opts.data != "" {
		data := []byte(opts.data)
		if name, ok := strings.CutPrefix(opts.data, "@"); ok {
			var err error
			if data, err = os.ReadFile(name); err != nil {
				return nil, err
			}
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("request body is not valid JSON")
		}
		call.Body = json.RawMessage(data)
	}
	return call, nil
}
