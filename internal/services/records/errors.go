package records

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is returned when the event subtree could not be read or
// holds nothing usable.
var ErrDataUnavailable = errors.New("handwashing data unavailable")

// MalformedTimestampError reports an entry whose timestamp cannot be parsed.
type MalformedTimestampError struct {
	Key   string
	Value string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("entry %s: malformed timestamp %q", e.Key, e.Value)
}

func fieldError(key, field, reason string) error {
	return fmt.Errorf("%w: entry %s: %s %s", ErrDataUnavailable, key, field, reason)
}
