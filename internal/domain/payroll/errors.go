package payroll

import "errors"

var (
	ErrAdjustmentNotFound = errors.New("adjustment not found")

	// ErrStaleVersion means the write lost an optimistic-version race;
	// the caller must re-read and retry.
	ErrStaleVersion = errors.New("adjustment version is stale")
)
