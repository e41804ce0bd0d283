package codec

import (
	"dash-api/message"
)

// Keys looked up in a response envelope, in order.
var (
	PayloadKeys  = []string{"data", "Data"}
	EncodingKeys = []string{"encoding", "Encoding"}
)

// DecodeIfNeeded decides whether a response body carries an encoded payload
// and decodes it. raw is returned unchanged when cfg is nil or disabled, when
// raw is not a JSON object, or when the object has no non-empty string
// payload. The encoding declared by the body wins over cfg.Type. An encoding
// that is not supported also leaves raw unchanged, envelope and all.
//
//	{"data": "eyJpZCI6MX0=", "encoding": "base64"}  ->  {"id":1}
func DecodeIfNeeded(raw []byte, cfg *Config) ([]byte, error) {
	if cfg == nil || !cfg.Enabled {
		return raw, nil
	}
	env, ok := message.ParseEnvelope(raw)
	if !ok {
		return raw, nil
	}
	payload, ok := env.String(PayloadKeys...)
	if !ok || payload == "" {
		return raw, nil
	}
	encoding, ok := env.String(EncodingKeys...)
	if !ok {
		encoding = string(cfg.Type)
	}
	if _, ok := ParseCodecType(encoding); !ok {
		return raw, nil
	}
	return Dispatch(payload, encoding, *cfg)
}
