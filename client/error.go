package client

import (
	"errors"
	"fmt"
)

// Kind classifies why a request failed.
type Kind uint8

const (
	// KindInvalidURL: base URL, path or query could not form a valid URL.
	KindInvalidURL Kind = iota + 1
	// KindInvalidResponse: the transport produced no HTTP response.
	KindInvalidResponse
	// KindHTTPStatus: the server answered outside 200..299. Body holds the raw response.
	KindHTTPStatus
	// KindDecodingFailed: the decoded body did not fit the caller's type.
	KindDecodingFailed
	// KindResponseDecodingFailed: the encoded payload could not be decoded or decrypted.
	KindResponseDecodingFailed
	// KindTransport: the exchange itself failed (network, cancellation, token lookup).
	KindTransport
	// KindInvalidRequest: the request body could not be marshaled.
	KindInvalidRequest
)

var kindNames = map[Kind]string{
	KindInvalidURL:             "InvalidURL",
	KindInvalidResponse:        "InvalidResponse",
	KindHTTPStatus:             "HTTPStatus",
	KindDecodingFailed:         "DecodingFailed",
	KindResponseDecodingFailed: "ResponseDecodingFailed",
	KindTransport:              "Transport",
	KindInvalidRequest:         "InvalidRequest",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is returned by Client.Do for every failure.
type Error struct {
	Kind Kind

	// StatusCode and Body are set for KindHTTPStatus.
	StatusCode int
	Body       []byte

	Message string
	// Err is the underlying cause, if any.
	Err error
}

func newError(kind Kind, err error, msg string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(msg, args...),
		Err:     err,
	}
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTPStatus:
		return fmt.Sprintf("client.Error(%s %d: %s)", e.Kind, e.StatusCode, truncate(e.Body, 256))
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("client.Error(%s: %s: %v)", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("client.Error(%s: %v)", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("client.Error(%s: %s)", e.Kind, e.Message)
	}
	return fmt.Sprintf("client.Error(%s)", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
