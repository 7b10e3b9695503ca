package preferences

import "errors"

var ErrInvalidFrequencyTier = errors.New("invalid frequency tier")

// FrequencyTier throttles how many offers a user is shown per discovery call.
type FrequencyTier string

const (
	TierAll        FrequencyTier = "all"
	TierOccasional FrequencyTier = "occasional"
	TierMinimal    FrequencyTier = "minimal"
)

func ParseFrequencyTier(s string) (FrequencyTier, error) {
	switch FrequencyTier(s) {
	case TierAll, TierOccasional, TierMinimal:
		return FrequencyTier(s), nil
	}
	return "", ErrInvalidFrequencyTier
}

// MaxResults maps the tier to a hard cap on offers per discovery response.
func (t FrequencyTier) MaxResults() int {
	switch t {
	case TierOccasional:
		return 2
	case TierMinimal:
		return 1
	default:
		return 3
	}
}
