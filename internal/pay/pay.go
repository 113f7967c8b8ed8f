// internal/pay/pay.go
//
// Payment collaborator boundary.
// The game core only validates the *format* of a score-attestation proof
// (a transaction hash); trusting its on-chain validity is delegated to the
// caller. Reward payouts go through the Treasury interface so tests can
// substitute a fake.

package pay

import "context"

// TransferResult is the outcome of a single payout attempt.
type TransferResult struct {
	TxHash string `json:"txHash"`
}

// Treasury submits USD-denominated transfers from the sponsor wallet.
type Treasury interface {
	// SubmitTransfer sends amountUSD to the wallet address and returns
	// the resulting transaction hash. A returned error means the payout
	// did not happen and may be retried.
	SubmitTransfer(ctx context.Context, toAddress string, amountUSD int, memo string) (*TransferResult, error)

	// SponsorBalance reports the sponsor wallet's remaining USD balance.
	SponsorBalance(ctx context.Context) (float64, error)
}

// IsValidProof reports whether s looks like a transaction hash:
// "0x" followed by exactly 64 hex characters.
func IsValidProof(s string) bool {
	return isHexWithLen(s, 64)
}

// IsValidAddress reports whether s looks like a wallet address:
// "0x" followed by exactly 40 hex characters.
func IsValidAddress(s string) bool {
	return isHexWithLen(s, 40)
}

func isHexWithLen(s string, n int) bool {
	if len(s) != n+2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
