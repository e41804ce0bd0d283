// Package testutil produces server-side encodings of response payloads so
// tests can feed the decoding pipeline realistic bodies.
package testutil

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Base64 encodes plain with standard padded base64.
func Base64(plain []byte) string {
	return base64.StdEncoding.EncodeToString(plain)
}

// Binary renders every byte as 8 binary digits.
func Binary(plain []byte) string {
	var sb strings.Builder
	for _, b := range plain {
		fmt.Fprintf(&sb, "%08b", b)
	}
	return sb.String()
}

// Hex renders every byte as 2 lowercase hex digits.
func Hex(plain []byte) string {
	return hex.EncodeToString(plain)
}

// XOR xors plain with the repeating key and returns the raw bytes.
func XOR(plain []byte, key string) []byte {
	k := []byte(key)
	out := make([]byte, len(plain))
	for i, b := range plain {
		out[i] = b ^ k[i%len(k)]
	}
	return out
}

// XORBase64 is the "xor" wire form: base64(XOR(plain, key)).
func XORBase64(plain []byte, key string) string {
	return Base64(XOR(plain, key))
}

// Encrypt is a reference AES-CBC encryptor with PKCS#7 padding.
func Encrypt(plain, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	pad := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append(append([]byte{}, plain...), bytes.Repeat([]byte{byte(pad)}, pad)...)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// AESBase64 is the "aes" wire form: base64(IV || Encrypt(plain)). key is
// stretched to 32 bytes the same way the client does it.
func AESBase64(plain []byte, key string, iv []byte) (string, error) {
	k := make([]byte, 32)
	copy(k, key)
	ct, err := Encrypt(plain, k, iv)
	if err != nil {
		return "", err
	}
	return Base64(append(append([]byte{}, iv...), ct...)), nil
}

// Envelope builds the JSON body `{"data": payload, "encoding": encoding}`.
// An empty encoding leaves the field out.
func Envelope(payload, encoding string) []byte {
	m := map[string]string{"data": payload}
	if encoding != "" {
		m["encoding"] = encoding
	}
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return b
}
