package request

import "strings"

type ValidateClaimRequest struct {
	Code string `json:"code" binding:"required"`
}

type CompleteClaimRequest struct {
	Code              string   `json:"code" binding:"required"`
	TransactionAmount *float64 `json:"transaction_amount,omitempty"`
}

// NormalizedCode uppercases and trims so codes survive being read aloud or
// typed from a phone screen.
func NormalizedCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
