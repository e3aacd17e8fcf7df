package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// randomCode draws a fixed-width numeric code uniformly from [0, 10^digits).
func randomCode(digits int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
