package archive

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/voidshard/archivist/pkg/errors"
)

const (
	// MinPasswordLength is the shortest password we'll generate
	MinPasswordLength = 20

	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// NewPassword returns a random alphanumeric password of length n.
func NewPassword(n int) (string, error) {
	if n < MinPasswordLength {
		return "", fmt.Errorf("%w password length %d is less than %d", errors.ErrInvalidArg, n, MinPasswordLength)
	}
	max := big.NewInt(int64(len(alphanumeric)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("%w generating password: %v", errors.ErrInternal, err)
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out), nil
}
