// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hydra

const (
	// Version of the hydra concurrent-containers toolkit.
	Version = "v0.1.0-dev"
)
