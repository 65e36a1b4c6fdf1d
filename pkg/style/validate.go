package style

import (
	"slices"

	"github.com/matzehuels/boxsvg/pkg/errors"
)

// Validate checks every enumerated property against its allowed values and
// returns the first violation as *errors.InvalidPropertyValueError.
func Validate(s Style) error {
	for _, p := range properties {
		if p.allowed == nil {
			continue
		}
		v, ok := formatField(p.field(&s))
		if !ok {
			continue
		}
		if !slices.Contains(p.allowed, v) {
			return &errors.InvalidPropertyValueError{
				Property: p.name,
				Received: v,
				Allowed:  slices.Clone(p.allowed),
			}
		}
	}
	return nil
}

// IsFlexOrNone reports whether the style may hold more than one child.
func (s Style) IsFlexOrNone() bool {
	return s.Display == "flex" || s.Display == "none"
}
