package interaction

import "errors"

var ErrInvalidType = errors.New("invalid interaction type")

// Type is the closed set of engagement events. There is no enforced state
// machine here; business meaning comes from last-write and aggregate queries.
type Type string

const (
	TypeImpressed Type = "impressed"
	TypeViewed    Type = "viewed"
	TypeAccepted  Type = "accepted"
	TypeDismissed Type = "dismissed"
	TypeCompleted Type = "completed"
	TypeExpired   Type = "expired"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeImpressed, TypeViewed, TypeAccepted, TypeDismissed, TypeCompleted, TypeExpired:
		return Type(s), nil
	}
	return "", ErrInvalidType
}

func (t Type) String() string {
	return string(t)
}
