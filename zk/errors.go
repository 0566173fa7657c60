package zk

import "fmt"

// InvalidArraySizeError is returned when upgrading a historical shape whose variable-length hash does not have the
// size of the current fixed-size array.
type InvalidArraySizeError struct {
	Field    string
	Expected int
	Found    int
}

func (e *InvalidArraySizeError) Error() string {
	return fmt.Sprintf("invalid size of %s: expected %d bytes, found %d bytes", e.Field, e.Expected, e.Found)
}
