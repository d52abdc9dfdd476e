// errors.go: structured errors for the flat map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package flatmap

import "github.com/agilira/go-errors"

// Error codes for flat map construction failures.
const (
	ErrCodeInvalidPageSize errors.ErrorCode = "HYDRA_FLATMAP_INVALID_PAGE_SIZE"
)

const (
	msgInvalidPageSize = "page size must be a non-zero power of two"
)

// NewErrInvalidPageSize creates an error for a zero or non-power-of-two
// page size supplied to New.
func NewErrInvalidPageSize(pageSize uint64) error {
	return errors.NewWithContext(ErrCodeInvalidPageSize, msgInvalidPageSize, map[string]interface{}{
		"provided_page_size": pageSize,
	})
}

// IsInvalidPageSize reports whether err is an invalid-page-size error.
func IsInvalidPageSize(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidPageSize)
}
