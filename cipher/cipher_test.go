package cipher

import (
	"bytes"
	"dash-api/internal/testutil"
	"errors"
	"testing"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i * 7)
	}
	return key
}

func testIV() []byte {
	return []byte("0123456789abcdef")
}

func TestDecryptRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"a",
		"exactly16bytes!!",
		`{"habit":{"id":"abc","streak":12}}`,
		"日本語のテキストとemoji 🌍 mixed in a longer plaintext spanning several blocks",
	}

	for _, plain := range cases {
		ct, err := testutil.Encrypt([]byte(plain), testKey(), testIV())
		if err != nil {
			t.Fatalf("reference encrypt failed: %v", err)
		}
		got, err := Decrypt(ct, testKey(), testIV())
		if err != nil {
			t.Fatalf("Decrypt(%q) failed: %v", plain, err)
		}
		if !bytes.Equal(got, []byte(plain)) {
			t.Errorf("round trip mismatch: got %q, want %q", got, plain)
		}
	}
}

func TestDecryptInvalidKeySize(t *testing.T) {
	ct, _ := testutil.Encrypt([]byte("hello"), testKey(), testIV())
	for _, n := range []int{0, 1, 16, 24, 31, 33, 64} {
		_, err := Decrypt(ct, make([]byte, n), testIV())
		if !errors.Is(err, ErrInvalidKeySize) {
			t.Errorf("key len %d: expect ErrInvalidKeySize, got %v", n, err)
		}
	}
}

func TestDecryptInvalidIVSize(t *testing.T) {
	ct, _ := testutil.Encrypt([]byte("hello"), testKey(), testIV())
	for _, n := range []int{0, 1, 8, 15, 17, 32} {
		_, err := Decrypt(ct, testKey(), make([]byte, n))
		if !errors.Is(err, ErrInvalidIVSize) {
			t.Errorf("iv len %d: expect ErrInvalidIVSize, got %v", n, err)
		}
	}
}

func TestDecryptCipherFailure(t *testing.T) {
	ct, _ := testutil.Encrypt([]byte("hello world"), testKey(), testIV())

	// Not a multiple of the block size.
	if _, err := Decrypt(ct[:len(ct)-1], testKey(), testIV()); !errors.Is(err, ErrCipherFailure) {
		t.Fatalf("truncated ciphertext: expect ErrCipherFailure, got %v", err)
	}

	// Empty ciphertext.
	if _, err := Decrypt(nil, testKey(), testIV()); !errors.Is(err, ErrCipherFailure) {
		t.Fatalf("empty ciphertext: expect ErrCipherFailure, got %v", err)
	}

	// Flipping the IV flips the first plaintext block, so the single block
	// of "hello world" ends in an out of range padding byte.
	iv := testIV()
	iv[BlockSize-1] ^= 0x40
	_, err := Decrypt(ct, testKey(), iv)
	var f *Failure
	if !errors.As(err, &f) || f.Status == "" {
		t.Fatalf("expect *Failure with status, got %v", err)
	}
}
