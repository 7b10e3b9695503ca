package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session does not belong to caller")

	// Opportunity errors
	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrOpportunityGone     = errors.New("opportunity no longer available")
	ErrValueRuleViolation  = errors.New("value details below minimum value rule")

	// Partner errors
	ErrPartnerNotFound  = errors.New("partner not found")
	ErrPartnerInactive  = errors.New("partner is inactive")
	ErrPartnerForbidden = errors.New("record belongs to another partner")
	ErrQuotaExceeded    = errors.New("active opportunity quota exceeded")

	// Claim errors
	ErrClaimInvalid  = errors.New("claim code invalid")
	ErrClaimRedeemed = errors.New("claim code already redeemed")
	ErrClaimExpired  = errors.New("claim code expired")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
