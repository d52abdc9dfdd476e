// errors.go: structured errors for the chaining map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package chainmap

import "github.com/agilira/go-errors"

// Error codes for chaining map construction failures.
const (
	ErrCodeInvalidLoadFactor errors.ErrorCode = "HYDRA_CHAINMAP_INVALID_LOAD_FACTOR"
)

const (
	msgInvalidLoadFactor = "load factor must be in (0, 1]"
)

// NewErrInvalidLoadFactor creates an error for an out-of-range load factor.
// A zero LoadFactor is treated as "unset" and defaulted to 0.75 — Go's
// functional-options pattern can't distinguish an unset field from an
// explicit zero, so only the out-of-range case (negative, or above 1) is
// a hard construction error.
func NewErrInvalidLoadFactor(factor float64) error {
	return errors.NewWithContext(ErrCodeInvalidLoadFactor, msgInvalidLoadFactor, map[string]interface{}{
		"provided_load_factor": factor,
	})
}

// IsInvalidLoadFactor reports whether err is an invalid-load-factor error.
func IsInvalidLoadFactor(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidLoadFactor)
}
