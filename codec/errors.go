package codec

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidBase64        = errors.New("codec: invalid base64")
	ErrEmptyPayload         = errors.New("codec: decoded payload is empty")
	ErrMalformedPayload     = errors.New("codec: decoded payload is not valid UTF-8 JSON")
	ErrMissingKey           = errors.New("codec: encryption key is empty")
	ErrInvalidPayloadLength = errors.New("codec: payload too short")
	ErrUnknownEncoding      = errors.New("codec: unknown encoding")
)
