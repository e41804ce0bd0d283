package codec

import (
	"dash-api/message"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Dispatch decodes payload according to the declared encoding and returns
// canonical JSON bytes. declared is matched case-insensitively. An encoding
// that is not supported fails with ErrUnknownEncoding; DecodeIfNeeded checks
// for it first and passes the whole body through instead.
func Dispatch(payload, declared string, cfg Config) ([]byte, error) {
	codecType, ok := ParseCodecType(declared)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEncoding, "%q", declared)
	}
	v, err := DispatchValue(payload, codecType, cfg.Key)
	if err != nil {
		return nil, err
	}
	return v.MarshalJSON()
}

// DispatchValue runs the codec for codecType and parses its output as JSON.
// It never returns bytes that failed to parse.
func DispatchValue(payload string, codecType CodecType, key string) (message.Value, error) {
	c := GetCodec(codecType)
	if c == nil {
		return message.Value{}, errors.Wrapf(ErrUnknownEncoding, "%q", codecType)
	}
	data, err := c.Decode(payload, key)
	if err != nil {
		return message.Value{}, errors.WithMessagef(err, "decode %s payload", codecType)
	}
	v, err := parseDecoded(data)
	if err != nil {
		return message.Value{}, errors.WithMessagef(err, "decode %s payload", codecType)
	}
	return v, nil
}

func parseDecoded(data []byte) (message.Value, error) {
	if len(data) == 0 {
		return message.Value{}, ErrEmptyPayload
	}
	if !utf8.Valid(data) {
		return message.Value{}, ErrMalformedPayload
	}
	v, err := message.Parse(data)
	if err != nil {
		return message.Value{}, errors.Wrap(ErrMalformedPayload, err.Error())
	}
	return v, nil
}
