package util

import "fmt"

// IntLowHigh splits n into b little-endian parameter bytes (nL nH ...) as
// ESC/POS commands expect them.
func IntLowHigh(n int, b int) ([]byte, error) {
	if b < 1 || b > 4 {
		return nil, fmt.Errorf("IntLowHigh: 1-4 bytes only, got %d", b)
	}
	if n < 0 || (b < 4 && n >= 1<<(8*uint(b))) {
		return nil, fmt.Errorf("IntLowHigh: %d does not fit in %d bytes", n, b)
	}

	out := make([]byte, b)
	for i := 0; i < b; i++ {
		out[i] = byte(n % 256)
		n = n / 256
	}
	return out, nil
}

// MustIntLowHigh is IntLowHigh for values already known to fit.
func MustIntLowHigh(n int, b int) []byte {
	out, err := IntLowHigh(n, b)
	if err != nil {
		panic(err)
	}
	return out
}
