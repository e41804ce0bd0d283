package codec

// XORCodec decodes base64 ciphertext xored with the repeating UTF-8 bytes of
// the key.
type XORCodec struct{}

func (c *XORCodec) Decode(payload string, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	data, err := decodeBase64(payload)
	if err != nil {
		return nil, err
	}
	k := []byte(key)
	for i := range data {
		data[i] ^= k[i%len(k)]
	}
	return data, nil
}

func (c *XORCodec) Type() CodecType {
	return CodecTypeXOR
}
