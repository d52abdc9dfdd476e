// errors.go: structured errors for the RCU reclamation engine.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package rcu

import "github.com/agilira/go-errors"

// Error codes for the RCU engine.
const (
	// ErrCodeGCClosed marks a Defer call made after the engine was closed.
	// The source silently drops the deferred record in this situation —
	// a latent leak the module's design notes call out explicitly — so
	// this port surfaces it as an error instead.
	ErrCodeGCClosed errors.ErrorCode = "HYDRA_RCU_GC_CLOSED"
)

const (
	msgGCClosed = "rcu: engine is closed, deferred destruction record dropped"
)

// NewErrGCClosed creates an error for a Defer call against a closed engine.
func NewErrGCClosed() error {
	return errors.NewWithContext(ErrCodeGCClosed, msgGCClosed, map[string]interface{}{
		"reason": "engine closed",
	})
}

// IsGCClosed reports whether err indicates a closed-engine Defer rejection.
func IsGCClosed(err error) bool {
	return errors.HasCode(err, ErrCodeGCClosed)
}
