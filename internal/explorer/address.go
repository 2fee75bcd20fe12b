package explorer

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// ValidateAddress checks that token looks like a Solana public key: base58 that
// decodes to 32 bytes. Callers treat a failure as a warning, not a rejection.
func ValidateAddress(token string) error {
	raw, err := base58.Decode(token)
	if err != nil {
		return fmt.Errorf("not base58: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("decodes to %d bytes, want 32", len(raw))
	}
	return nil
}
