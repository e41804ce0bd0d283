package codec

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// Base64Codec decodes standard base64. Unpadded input is accepted too.
type Base64Codec struct{}

func (c *Base64Codec) Decode(payload string, key string) ([]byte, error) {
	return decodeBase64(payload)
}

func (c *Base64Codec) Type() CodecType {
	return CodecTypeBase64
}

func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, errors.Wrap(ErrInvalidBase64, err.Error())
}
