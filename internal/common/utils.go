package common

import "crypto/rand"

// randRead is a test seam for crypto/rand.Read.
var randRead = rand.Read

// RandomBytes returns n bytes from the system CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := randRead(b); err != nil {
		return nil, err
	}
	return b, nil
}

// WipeByteArray overwrites the contents of b with zeros. Use it on password
// buffers once they are no longer needed. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
