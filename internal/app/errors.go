package app

import (
	"errors"
	"fmt"

	"github.com/j-veylop/handwash-dashboard-tui/internal/services"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/devices"
	"github.com/j-veylop/handwash-dashboard-tui/internal/services/records"
	"github.com/j-veylop/handwash-dashboard-tui/internal/store"
)

// DescribeError renders an error for the operator, naming its kind so a
// malformed record, an unreachable store and a failed toggle read differently.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}

	var malformed *records.MalformedTimestampError
	var unreachable *devices.UnreachableError

	switch {
	case errors.As(err, &malformed):
		return fmt.Sprintf("Malformed timestamp in record %s: %q", malformed.Key, malformed.Value)
	case errors.As(err, &unreachable):
		prefix := "Device unreachable"
		if errors.Is(err, store.ErrTimeout) {
			prefix = "Device timed out"
		}
		return fmt.Sprintf("%s (unit %s, %s): %v", prefix, unreachable.Unit, unreachable.Op, unreachable.Err)
	case errors.Is(err, records.ErrDataUnavailable):
		if errors.Is(err, store.ErrTimeout) {
			return fmt.Sprintf("Data unavailable (timed out): %v", err)
		}
		return fmt.Sprintf("Data unavailable: %v", err)
	case errors.Is(err, services.ErrNoReport):
		return "Nothing to export yet: refresh first"
	default:
		return err.Error()
	}
}
