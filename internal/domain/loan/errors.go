package loan

import "errors"

var (
	ErrLoanNotFound = errors.New("loan not found")

	// ErrLoanExceedsCap rejects creation when principal exceeds the salary cap.
	ErrLoanExceedsCap = errors.New("loan principal exceeds salary cap")

	// ErrStaleVersion means the write lost an optimistic-version race;
	// the caller must re-read and retry.
	ErrStaleVersion = errors.New("loan version is stale")
)
