package fragment

import (
	"errors"
	"fmt"
)

// ErrConsumed is returned when fragment text is rewritten after header
// extraction has already started.
var ErrConsumed = errors.New("fragment text is already partially consumed")

// ConstructionError reports locator which does not follow expected naming.
type ConstructionError struct {
	Locator string
	Pattern string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("locator %q does not match %q", e.Locator, e.Pattern)
}

// NibbleError reports header step which did not match the front of remaining
// text. Document specific patch is usually required to get past it.
type NibbleError struct {
	Code    string
	Pattern string
	Preview string
}

func (e *NibbleError) Error() string {
	return fmt.Sprintf("header field %q: pattern %q does not match", e.Code, e.Pattern)
}

// FieldRecordedError reports header field code recorded twice, which means
// grammar extracts the same field in more than one step.
type FieldRecordedError struct {
	Code string
}

func (e *FieldRecordedError) Error() string {
	return fmt.Sprintf("header field %q is already recorded", e.Code)
}
