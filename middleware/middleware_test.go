package middleware

import (
	"bytes"
	"context"
	"dash-api/client"
	"dash-api/protocol"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type reply struct {
	OK bool `json:"ok"`
}

// echoHandler fills out like a successful call.
func echoHandler(ctx context.Context, call *protocol.Call, out any) error {
	if r, ok := out.(*reply); ok {
		r.OK = true
	}
	return nil
}

func failingHandler(ctx context.Context, call *protocol.Call, out any) error {
	return &client.Error{Kind: client.KindHTTPStatus, StatusCode: 404, Body: []byte(`{"error":"not found"}`)}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := LoggingMiddleware(logger)(echoHandler)

	call := &protocol.Call{
		Method: "post",
		Path:   "/habits",
		Query:  []protocol.Param{protocol.Q("date", "2026-10-19"), protocol.QNil("tz")},
		Header: map[string]string{"X-Request-ID": "42", "Authorization": "Bearer caller-secret"},
		Body:   map[string]string{"name": "Read"},
	}
	r := &reply{}
	if err := handler(context.Background(), call, r); err != nil {
		t.Fatal(err)
	}
	if !r.OK {
		t.Fatal("expect call to reach the handler")
	}

	logged := buf.String()
	for _, want := range []string{`POST /habits?date=2026-10-19&tz=<nil>`, `X-Request-ID: 42`, `body={\"name\":\"Read\"}`, `"call_id":`} {
		if !strings.Contains(logged, want) {
			t.Errorf("log %q does not contain %q", logged, want)
		}
	}
	if strings.Contains(logged, "caller-secret") {
		t.Errorf("log leaked authorization header: %s", logged)
	}
}

func TestLoggingFailure(t *testing.T) {
	var buf bytes.Buffer
	handler := LoggingMiddleware(zerolog.New(&buf))(failingHandler)

	err := handler(context.Background(), &protocol.Call{Path: "/missing"}, nil)
	if !client.IsKind(err, client.KindHTTPStatus) {
		t.Fatalf("expect error passed through, got %v", err)
	}
	if !strings.Contains(buf.String(), `"kind":"HTTPStatus"`) || !strings.Contains(buf.String(), `"status":404`) {
		t.Fatalf("failure not logged: %s", buf.String())
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(&protocol.Call{Path: "/tasks"})
	if got != "GET /tasks" {
		t.Fatalf("got %q", got)
	}

	got = Describe(&protocol.Call{Method: "PUT", Path: "/tasks/1", Body: make(chan int)})
	if got != "PUT /tasks/1 body=<chan int>" {
		t.Fatalf("got %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	// rate=1 per second, burst=2: the first 2 pass at once, the 3rd has to wait
	handler := RateLimitMiddleware(1, 2)(echoHandler)
	call := &protocol.Call{Path: "/habits"}

	for i := 0; i < 2; i++ {
		if err := handler(context.Background(), call, nil); err != nil {
			t.Fatalf("request %d should pass, got error: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := handler(ctx, call, nil)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("request 3 should be rate limited, got: %v", err)
	}
}

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, call *protocol.Call, out any) error {
				order = append(order, name)
				return next(ctx, call, out)
			}
		}
	}

	handler := Chain(mark("a"), mark("b"), LoggingMiddleware(zerolog.Nop()))(echoHandler)
	r := &reply{}
	if err := handler(context.Background(), &protocol.Call{Path: "/x"}, r); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "a,b" || !r.OK {
		t.Fatalf("unexpected order %v (ok=%v)", order, r.OK)
	}
}

func TestWrap(t *testing.T) {
	var seen []string
	base := HandlerFunc(func(ctx context.Context, call *protocol.Call, out any) error {
		seen = append(seen, call.Path)
		return echoHandler(ctx, call, out)
	})

	wrapped := Wrap(base, LoggingMiddleware(zerolog.Nop()))
	got, err := client.Request[reply](context.Background(), wrapped, &protocol.Call{Path: "/today"})
	if err != nil {
		t.Fatal(err)
	}
	if !got.OK || len(seen) != 1 || seen[0] != "/today" {
		t.Fatalf("unexpected result %+v, seen %v", got, seen)
	}
}
