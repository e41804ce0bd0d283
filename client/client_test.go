package client

import (
	"context"
	"dash-api/codec"
	"dash-api/internal/testutil"
	"dash-api/protocol"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type habit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	_, err = New(WithBaseURL(""))
	assert.Error(t, err)
}

func TestDoQueryAndDecode(t *testing.T) {
	var gotQuery, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`{"id":7,"name":"Read"}`))
	})

	got, err := Request[habit](context.Background(), c, &protocol.Call{
		Path:  "/habits/7",
		Query: []protocol.Param{protocol.Q("a", "1"), protocol.QNil("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, habit{ID: 7, Name: "Read"}, got)
	assert.Equal(t, "/habits/7", gotPath)
	assert.Equal(t, "a=1", gotQuery)
}

func TestDoHeaders(t *testing.T) {
	var got http.Header
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}, WithTokenProvider(StaticToken("tok")))

	err := c.Do(context.Background(), &protocol.Call{
		Method: http.MethodPost,
		Path:   "habits",
		Body:   habit{Name: "Walk"},
	}, &NoContent{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.JSONEq(t, `{"id":0,"name":"Walk"}`, string(body))

	// caller headers win over the token
	err = c.Do(context.Background(), &protocol.Call{
		Path:   "habits",
		Header: map[string]string{"Authorization": "Basic abc", "X-Request-ID": "1"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Basic abc", got.Get("Authorization"))
	assert.Equal(t, "1", got.Get("X-Request-ID"))
	assert.Empty(t, got.Get("Content-Type"))
}

func TestDoEmptyToken(t *testing.T) {
	var auth []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
	}, WithTokenProvider(StaticToken("")))

	require.NoError(t, c.Do(context.Background(), &protocol.Call{Path: "/"}, nil))
	assert.Empty(t, auth)
}

func TestDoTokenError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}, WithTokenProvider(TokenFunc(func(context.Context) (string, error) {
		return "", errors.New("keychain locked")
	})))

	err := c.Do(context.Background(), &protocol.Call{Path: "/"}, nil)
	assert.True(t, IsKind(err, KindTransport), "got %v", err)
}

func TestDoHTTPStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	_, err := Request[habit](context.Background(), c, &protocol.Call{Path: "/habits/404"})
	var ce *Error
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, KindHTTPStatus, ce.Kind)
	assert.Equal(t, 404, ce.StatusCode)
	assert.Equal(t, `{"error":"not found"}`, string(ce.Body))
}

func TestDoDecodingFailed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"seven"}`))
	})

	_, err := Request[habit](context.Background(), c, &protocol.Call{Path: "/habits/7"})
	assert.True(t, IsKind(err, KindDecodingFailed), "got %v", err)
}

func TestDoNoContentRequiresEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	// a non-empty body is decoded like any other result
	require.NoError(t, c.Do(context.Background(), &protocol.Call{Path: "/"}, &NoContent{}))

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	require.NoError(t, c.Do(context.Background(), &protocol.Call{Path: "/"}, &NoContent{}))

	_, err := Request[habit](context.Background(), c, &protocol.Call{Path: "/"})
	assert.True(t, IsKind(err, KindDecodingFailed), "got %v", err)
}

func TestDoInvalidURL(t *testing.T) {
	c, err := New(WithBaseURL("not a url"))
	require.NoError(t, err)

	err = c.Do(context.Background(), &protocol.Call{Path: "/habits"}, nil)
	assert.True(t, IsKind(err, KindInvalidURL), "got %v", err)
}

func TestDoInvalidRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	err := c.Do(context.Background(), &protocol.Call{Method: "POST", Path: "/", Body: make(chan int)}, nil)
	assert.True(t, IsKind(err, KindInvalidRequest), "got %v", err)
}

type nilDoer struct{}

func (nilDoer) Do(*http.Request) (*http.Response, error) { return nil, nil }

func TestDoInvalidResponse(t *testing.T) {
	c, err := New(WithBaseURL("http://api.test"), WithHTTPClient(nilDoer{}))
	require.NoError(t, err)

	err = c.Do(context.Background(), &protocol.Call{Path: "/"}, nil)
	assert.True(t, IsKind(err, KindInvalidResponse), "got %v", err)
}

func TestDoCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Do(ctx, &protocol.Call{Path: "/slow"}, nil)
	assert.True(t, IsKind(err, KindTransport), "got %v", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoEncodedResponses(t *testing.T) {
	const key = "habit-key"
	plain := []byte(`{"id":3,"name":"Stretch"}`)
	aes, err := testutil.AESBase64(plain, key, []byte("0123456789abcdef"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		payload  string
		encoding string
	}{
		{"base64", testutil.Base64(plain), "base64"},
		{"binary", testutil.Binary(plain), "binary"},
		{"hex", testutil.Hex(plain), "HEX"},
		{"xor", testutil.XORBase64(plain, key), "xor"},
		{"aes", aes, "aes"},
		{"default type", aes, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write(testutil.Envelope(tt.payload, tt.encoding))
			}, WithEncoding(codec.Config{Enabled: true, Type: codec.CodecTypeAES, Key: key}))

			got, err := Request[habit](context.Background(), c, &protocol.Call{Path: "/habits/3"})
			require.NoError(t, err)
			assert.Equal(t, habit{ID: 3, Name: "Stretch"}, got)
		})
	}
}

func TestDoEncodingDisabled(t *testing.T) {
	body := testutil.Envelope(testutil.Base64([]byte(`{"id":1}`)), "base64")
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}, WithEncoding(codec.Config{Enabled: false, Type: codec.CodecTypeBase64}))

	got, err := Request[map[string]string](context.Background(), c, &protocol.Call{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, "base64", got["encoding"])
}

func TestDoUnknownEncodingKeepsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"abc","encoding":"none","message":"ok"}`))
	}, WithEncoding(codec.Config{Enabled: true, Type: codec.CodecTypeBase64}))

	got, err := Request[map[string]string](context.Background(), c, &protocol.Call{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"data": "abc", "encoding": "none", "message": "ok"}, got)
}

func TestDoResponseDecodingFailed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(testutil.Envelope("not base64!", "base64"))
	}, WithEncoding(codec.Config{Enabled: true, Type: codec.CodecTypeBase64}))

	_, err := Request[habit](context.Background(), c, &protocol.Call{Path: "/"})
	assert.True(t, IsKind(err, KindResponseDecodingFailed), "got %v", err)
	assert.ErrorIs(t, err, codec.ErrInvalidBase64)
}

func TestEncodingIsCopied(t *testing.T) {
	cfg := codec.Config{Enabled: true, Type: codec.CodecTypeXOR, Key: "k"}
	c, err := New(WithBaseURL("http://api.test"), WithEncoding(cfg))
	require.NoError(t, err)

	cfg.Key = "changed"
	got := c.Encoding()
	got.Type = codec.CodecTypeHex
	assert.Equal(t, "k", c.Encoding().Key)
	assert.Equal(t, codec.CodecTypeXOR, c.Encoding().Type)

	c, err = New(WithBaseURL("http://api.test"))
	require.NoError(t, err)
	assert.Nil(t, c.Encoding())
}

func TestDoConcurrent(t *testing.T) {
	var hits atomic.Int64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(testutil.Envelope(testutil.Hex([]byte(`{"id":1,"name":"x"}`)), "hex"))
	}, WithEncoding(codec.Config{Enabled: true, Type: codec.CodecTypeBase64}))

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Request[habit](context.Background(), c, &protocol.Call{Path: "/habits/1"})
			if err == nil && got.ID != 1 {
				err = errors.New("unexpected result")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(32), hits.Load())
}

func TestErrorString(t *testing.T) {
	err := &Error{Kind: KindHTTPStatus, StatusCode: 500, Body: []byte("boom")}
	assert.Equal(t, "client.Error(HTTPStatus 500: boom)", err.Error())

	cause := errors.New("eof")
	err = newError(KindTransport, cause, "GET %s", "/x")
	assert.Equal(t, "client.Error(Transport: GET /x: eof)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestDoRaw(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			return
		}
		w.Write(testutil.Envelope(testutil.Base64([]byte(`{"b":1,"a":[true,null]}`)), "base64"))
	}, WithEncoding(codec.Config{Enabled: true}))

	var raw Raw
	require.NoError(t, c.Do(context.Background(), &protocol.Call{Path: "/"}, &raw))
	assert.Equal(t, `{"a":[true,null],"b":1}`, string(raw))

	require.NoError(t, c.Do(context.Background(), &protocol.Call{Path: "/empty"}, &raw))
	assert.Empty(t, raw)
}
