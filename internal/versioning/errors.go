package versioning

import (
	"errors"
	"fmt"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
)

// ErrUpgrade is matched (via errors.Is) by every UpgradeError.
var ErrUpgrade = errors.New("versioning: upgrade failed")

// UpgradeError reports a failed step of an upgrade chain, i.e., a historical value that has no valid counterpart in
// the next shape.
type UpgradeError struct {
	Type string
	From Tag
	To   Tag
	Err  error
}

func (e *UpgradeError) Error() string {
	return fmt.Sprintf("failed to upgrade %s from V%d to V%d: %v", e.Type, e.From, e.To, e.Err)
}

func (e *UpgradeError) Unwrap() error {
	return e.Err
}

func (e *UpgradeError) Is(target error) bool {
	return target == ErrUpgrade
}

// UnknownTagError reports a shape tag newer than the current shape known to this build.
type UnknownTagError struct {
	Type    string
	Tag     Tag
	Current Tag
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown shape V%d for %s, the most recent known shape is V%d", e.Tag, e.Type, e.Current)
}

func (e *UnknownTagError) Is(target error) bool {
	return target == codec.ErrMalformed
}
