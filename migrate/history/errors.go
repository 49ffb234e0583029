package history

import "fmt"

// AlreadyAppliedError indicates an attempt to record a version that is
// already present in the ledger.
type AlreadyAppliedError struct {
	Version int64
}

func (e *AlreadyAppliedError) Error() string {
	return fmt.Sprintf("migration %d is already recorded as applied", e.Version)
}

// NotAppliedError indicates an attempt to revert a version that has no
// ledger row.
type NotAppliedError struct {
	Version int64
}

func (e *NotAppliedError) Error() string {
	return fmt.Sprintf("migration %d is not recorded as applied", e.Version)
}
