// Package hash provides the one non-cryptographic hash function every
// container in this module needs. The algorithm itself is out of scope —
// any stable, well-distributed bytes -> uint32 function suffices — so this
// is a plain FNV-1a implementation rather than a port of anything in the
// source material.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package hash

import "encoding/binary"

const (
	offset32 = 2166136261
	prime32  = 16777619
)

// Bytes hashes an arbitrary byte slice to a 32-bit value.
func Bytes(b []byte) uint32 {
	h := uint32(offset32)
	for _, c := range b {
		h ^= uint32(c)
		h *= prime32
	}
	return h
}

// Uint64 hashes the 8 raw bytes of k, little-endian.
func Uint64(k uint64) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], k)
	return Bytes(b[:])
}

// String hashes a string's bytes.
func String(s string) uint32 {
	return Bytes([]byte(s))
}

// Uint64Seeded hashes k under a distinct seed, giving independent
// probe sequences for the same key — the cuckoo map's two tables each
// hash with their own seed rather than sharing a single hash function.
func Uint64Seeded(k uint64, seed uint32) uint32 {
	var b [12]byte
	binary.LittleEndian.PutUint64(b[:8], k)
	binary.LittleEndian.PutUint32(b[8:], seed)
	return Bytes(b[:])
}
