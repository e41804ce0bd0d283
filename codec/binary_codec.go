package codec

import (
	"strconv"
)

// BinaryCodec decodes a string of concatenated 8-digit base-2 groups, one per
// byte. A group that is short or not binary is dropped without error.
type BinaryCodec struct{}

func (c *BinaryCodec) Decode(payload string, key string) ([]byte, error) {
	return decodeChunks(payload, 8, 2), nil
}

func (c *BinaryCodec) Type() CodecType {
	return CodecTypeBinary
}

// HexCodec decodes a string of 2-digit base-16 groups with the same lenient
// chunking as BinaryCodec.
type HexCodec struct{}

func (c *HexCodec) Decode(payload string, key string) ([]byte, error) {
	return decodeChunks(payload, 2, 16), nil
}

func (c *HexCodec) Type() CodecType {
	return CodecTypeHex
}

// decodeChunks splits s into size-character groups and parses each one as a
// byte in base. Groups that do not parse are skipped.
func decodeChunks(s string, size int, base int) []byte {
	runes := []rune(s)
	out := make([]byte, 0, len(runes)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			break
		}
		b, err := strconv.ParseUint(string(runes[i:end]), base, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(b))
	}
	return out
}
