package middleware

import (
	"context"
	"dash-api/client"
	"dash-api/protocol"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

const maxLoggedBody = 512

// Header names whose values are replaced by "<redacted>" in logs.
var redactedHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"x-api-key":     {},
}

// LoggingMiddleware logs each call before handing it on, and its outcome
// afterwards.
//
// Only what the caller put into the protocol.Call is visible here. Headers the
// client adds itself, notably Authorization from the token provider, happen
// further down and never show up in these logs.
func LoggingMiddleware(logger zerolog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *protocol.Call, out any) error {
			l := logger.With().Str("call_id", xid.New().String()).Logger()
			l.Info().
				Str("method", methodOf(call)).
				Str("path", call.Path).
				Msg(Describe(call))

			start := time.Now()
			err := next(ctx, call, out)
			duration := time.Since(start)

			if err != nil {
				ev := l.Warn().Err(err).Dur("duration", duration)
				var ce *client.Error
				if errors.As(err, &ce) {
					ev = ev.Stringer("kind", ce.Kind)
					if ce.Kind == client.KindHTTPStatus {
						ev = ev.Int("status", ce.StatusCode)
					}
				}
				ev.Msg("Request failed")
				return err
			}
			l.Debug().Dur("duration", duration).Msg("Request done")
			return nil
		}
	}
}

// Describe renders the caller-supplied parts of call as one line:
//
//	POST /habits?date=2026-10-19 headers={X-Request-ID: 42} body={"name":"Read"}
func Describe(call *protocol.Call) string {
	var sb strings.Builder
	sb.WriteString(methodOf(call))
	sb.WriteByte(' ')
	sb.WriteString(call.Path)

	sep := "?"
	for _, p := range call.Query {
		sb.WriteString(sep)
		sep = "&"
		sb.WriteString(p.Key)
		if p.Value == nil {
			sb.WriteString("=<nil>")
			continue
		}
		sb.WriteByte('=')
		sb.WriteString(*p.Value)
	}

	if len(call.Header) > 0 {
		keys := make([]string, 0, len(call.Header))
		for k := range call.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" headers={")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			v := call.Header[k]
			if _, ok := redactedHeaders[strings.ToLower(k)]; ok {
				v = "<redacted>"
			}
			fmt.Fprintf(&sb, "%s: %s", k, v)
		}
		sb.WriteByte('}')
	}

	if call.Body != nil {
		sb.WriteString(" body=")
		b, err := json.Marshal(call.Body)
		switch {
		case err != nil:
			fmt.Fprintf(&sb, "<%T>", call.Body)
		case len(b) > maxLoggedBody:
			sb.Write(b[:maxLoggedBody])
			sb.WriteString("...")
		default:
			sb.Write(b)
		}
	}
	return sb.String()
}

func methodOf(call *protocol.Call) string {
	if call.Method == "" {
		return "GET"
	}
	return strings.ToUpper(call.Method)
}
