package codec

import (
	"strings"
)

// CodecType names a response payload wire encoding.
type CodecType string

const (
	CodecTypeBase64 CodecType = "base64"
	CodecTypeBinary CodecType = "binary"
	CodecTypeHex    CodecType = "hex"
	CodecTypeXOR    CodecType = "xor"
	CodecTypeAES    CodecType = "aes"
)

// CodecTypes lists every supported encoding.
var CodecTypes = []CodecType{CodecTypeBase64, CodecTypeBinary, CodecTypeHex, CodecTypeXOR, CodecTypeAES}

// ParseCodecType matches s against the supported encodings, ignoring case and
// surrounding whitespace.
func ParseCodecType(s string) (CodecType, bool) {
	t := CodecType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range CodecTypes {
		if t == known {
			return t, true
		}
	}
	return t, false
}

// Codec turns one encoded payload string back into the bytes the server
// encoded. key is the configured encryption key; codecs that do not need it
// ignore it.
type Codec interface {
	Decode(payload string, key string) ([]byte, error)
	Type() CodecType
}

// GetCodec returns the codec for codecType, or nil if it is not supported.
func GetCodec(codecType CodecType) Codec {
	switch codecType {
	case CodecTypeBase64:
		return &Base64Codec{}
	case CodecTypeBinary:
		return &BinaryCodec{}
	case CodecTypeHex:
		return &HexCodec{}
	case CodecTypeXOR:
		return &XORCodec{}
	case CodecTypeAES:
		return &AESCodec{}
	}
	return nil
}

// Config is the response encoding configuration of a client. It is set once
// when the client is built and never changes afterwards.
type Config struct {
	Enabled bool
	// Type is assumed when a response does not declare its encoding.
	Type CodecType
	// Key is used by the xor and aes encodings.
	Key string
}
