package opportunity

import "errors"

// ErrBelowMinimumValue rejects offers too thin to be worth a user's walk:
// at least a 10% or 5-currency-unit discount, or 15 minutes of parking,
// or one named perk.
var ErrBelowMinimumValue = errors.New("value details fail minimum value rule")

// ValueDetails describes the concrete benefit of an opportunity as an open
// key-value map, mirroring TriggerRules: raw keys stay extensible, reads go
// through typed accessors.
type ValueDetails map[string]any

const (
	valueDiscountPercentage      = "discount_percentage"
	valueDiscountAmount          = "discount_amount"
	valueParkingExtensionMinutes = "parking_extension_minutes"
	valuePerks                   = "perks"
)

func (v ValueDetails) DiscountPercentage() float64 {
	return v.floatValue(valueDiscountPercentage)
}

func (v ValueDetails) DiscountAmount() float64 {
	return v.floatValue(valueDiscountAmount)
}

func (v ValueDetails) ParkingExtensionMinutes() int {
	return int(v.floatValue(valueParkingExtensionMinutes))
}

func (v ValueDetails) Perks() []string {
	raw, ok := v[valuePerks]
	if !ok {
		return nil
	}

	switch items := raw.(type) {
	case []string:
		return items
	case []any:
		perks := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				perks = append(perks, s)
			}
		}
		return perks
	}
	return nil
}

const (
	minDiscountPercentage      = 10.0
	minDiscountAmount          = 5.0
	minParkingExtensionMinutes = 15
)

// ValidateMinimumValue enforces the floor on what a partner may publish.
func (v ValueDetails) ValidateMinimumValue() error {
	if v.DiscountPercentage() >= minDiscountPercentage {
		return nil
	}
	if v.DiscountAmount() >= minDiscountAmount {
		return nil
	}
	if v.ParkingExtensionMinutes() >= minParkingExtensionMinutes {
		return nil
	}
	if len(v.Perks()) >= 1 {
		return nil
	}
	return ErrBelowMinimumValue
}

func (v ValueDetails) floatValue(key string) float64 {
	raw, ok := v[key]
	if !ok {
		return 0
	}
	switch n := raw.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
