package filtersync

import (
	"errors"
	"fmt"
)

// ErrNavigationInProgress is returned for a navigation that arrives while
// another one is still processing. The later call is dropped, not queued.
var ErrNavigationInProgress = errors.New("navigation already in progress")

// StateRestoreError reports a stored snapshot that could not be parsed. It
// never leaves the synchronizer: the snapshot is treated as absent.
type StateRestoreError struct {
	Err error
}

func (e *StateRestoreError) Error() string {
	return fmt.Sprintf("restore filter snapshot: %v", e.Err)
}

func (e *StateRestoreError) Unwrap() error { return e.Err }
