// Package cipher implements the AES-256-CBC decryption used by the "aes"
// response encoding.
//
// Only the decrypt direction exists: the client never encrypts, it only reads
// payloads the server has encrypted.
//
//	blob = IV (16 bytes) || ciphertext (n * 16 bytes)
//	plaintext = PKCS#7-unpad(CBC-decrypt(key, IV, ciphertext))
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

const (
	KeySize   = 32            // AES-256
	IVSize    = aes.BlockSize // CBC initialization vector
	BlockSize = aes.BlockSize
)

var (
	ErrInvalidKeySize = errors.New("cipher: invalid key size")
	ErrInvalidIVSize  = errors.New("cipher: invalid iv size")
	ErrCipherFailure  = errors.New("cipher: decryption failed")
)

// Failure reports why the block cipher could not produce plaintext.
// errors.Is(f, ErrCipherFailure) is true for every Failure.
type Failure struct {
	Status string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("cipher: decryption failed: %s", f.Status)
}

func (f *Failure) Is(target error) bool {
	return target == ErrCipherFailure
}

// Decrypt decrypts ciphertext with AES-256-CBC and strips PKCS#7 padding.
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIVSize, len(iv), IVSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, &Failure{Status: fmt.Sprintf("ciphertext length %d is not a positive multiple of %d", len(ciphertext), BlockSize)}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &Failure{Status: err.Error()}
	}

	// One block of headroom, then truncate to the unpadded length.
	out := make([]byte, len(ciphertext)+BlockSize)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out[:len(ciphertext)], ciphertext)

	n, err := unpad(out[:len(ciphertext)])
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// unpad returns the length of data once its PKCS#7 padding is removed.
func unpad(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, &Failure{Status: "empty block"}
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > BlockSize || pad > len(data) {
		return 0, &Failure{Status: fmt.Sprintf("invalid padding byte %d", pad)}
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return 0, &Failure{Status: "inconsistent padding"}
		}
	}
	return len(data) - pad, nil
}
