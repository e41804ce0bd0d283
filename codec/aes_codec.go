package codec

import (
	"dash-api/cipher"

	"github.com/pkg/errors"
)

// AESCodec decodes base64(IV || AES-256-CBC ciphertext).
type AESCodec struct{}

func (c *AESCodec) Decode(payload string, key string) ([]byte, error) {
	blob, err := decodeBase64(payload)
	if err != nil {
		return nil, err
	}
	if len(blob) <= cipher.IVSize {
		return nil, errors.Wrapf(ErrInvalidPayloadLength, "aes blob is %d bytes, need more than %d", len(blob), cipher.IVSize)
	}
	return cipher.Decrypt(blob[cipher.IVSize:], AESKey(key), blob[:cipher.IVSize])
}

func (c *AESCodec) Type() CodecType {
	return CodecTypeAES
}

// AESKey turns the configured key string into a 32-byte cipher key: the UTF-8
// bytes truncated to 32, or zero-padded on the right. This must match the
// server byte for byte; it is not a key derivation function.
func AESKey(key string) []byte {
	k := make([]byte, cipher.KeySize)
	copy(k, key)
	return k
}
