package devices

import (
	"errors"
	"fmt"
)

// ErrDeviceUnreachable matches every failed toggle read or write.
var ErrDeviceUnreachable = errors.New("device unreachable")

// UnreachableError describes a failed remote read or write for one unit.
type UnreachableError struct {
	Err  error
	Unit string
	Op   string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("unit %s: %s failed: %v", e.Unit, e.Op, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDeviceUnreachable.
func (e *UnreachableError) Is(target error) bool {
	return target == ErrDeviceUnreachable
}
