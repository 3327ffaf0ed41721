package models

import "errors"

var ErrNotFound = errors.New("order not found")
var ErrVersionConflict = errors.New("order was modified concurrently, reload and retry")
var ErrInvalidTransition = errors.New("operation not allowed in current order status")

// ErrSubmissionInFlight means a previous submit attempt may have reached the
// carrier. The operator has to confirm (force) before resubmitting the same
// reference.
var ErrSubmissionInFlight = errors.New("a submission for this order is already in flight")
