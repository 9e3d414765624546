package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found,
// including a currency pair with no resolvable rate.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrTransientFetch indicates an external rate source failure during a
// scheduled or manual update. Recorded per pair; never aborts sibling pairs.
var ErrTransientFetch = errors.New("transient rate fetch failure")

// ErrScheduleExhausted indicates a schedule was disabled after exceeding its
// max retry budget. Terminal until the schedule is manually re-enabled.
var ErrScheduleExhausted = errors.New("schedule retries exhausted")
