package codec

import (
	"encoding/json"
)

// JSONCodec marshals request bodies and decodes canonical JSON into the
// caller's typed result. It is the last step of the pipeline, after Dispatch
// has produced plain JSON.
type JSONCodec struct{}

func (c *JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
