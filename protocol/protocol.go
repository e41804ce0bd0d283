// Package protocol defines the HTTP contract between the client and the API:
// how a call is described, how its URL is assembled, and how a response is
// classified.
//
// URL assembly:
//
//	base  https://api.example.com/v1
//	path  /habits/today              (one leading "/" is dropped)
//	query [{a 1} {b <nil>} {c x y}]  (nil values are left out)
//	=>    https://api.example.com/v1/habits/today?a=1&c=x+y
package protocol

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderRequestID     = "X-Request-ID"

	ContentTypeJSON = "application/json"
)

// Param is one query parameter. A nil Value means the parameter is absent and
// is not written to the URL at all.
type Param struct {
	Key   string
	Value *string
}

// Q returns a present query parameter.
func Q(key, value string) Param {
	return Param{Key: key, Value: &value}
}

// QNil returns an absent query parameter.
func QNil(key string) Param {
	return Param{Key: key}
}

// QOpt returns a parameter that is present only when value is non-nil.
func QOpt(key string, value *string) Param {
	return Param{Key: key, Value: value}
}

// Call is everything a caller supplies for one request.
type Call struct {
	Method string
	Path   string
	Query  []Param
	Header map[string]string
	// Body is marshaled as JSON when non-nil.
	Body any
}

// BuildURL joins base and path and appends the present query parameters in
// order.
func BuildURL(base, path string, query []Param) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q has no scheme or host", base)
	}

	path = strings.TrimPrefix(path, "/")
	if path != "" {
		u = u.JoinPath(path)
	}

	var sb strings.Builder
	sb.WriteString(u.RawQuery)
	for _, p := range query {
		if p.Value == nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(*p.Value))
	}
	u.RawQuery = sb.String()
	return u, nil
}

// Bearer formats an Authorization header value.
func Bearer(token string) string {
	return "Bearer " + token
}

// Outcome is the buffered result of one HTTP exchange.
type Outcome struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status code is in 200..299.
func (o *Outcome) Success() bool {
	return IsSuccess(o.StatusCode)
}

func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode <= 299
}
