// Package xsync provides the low-level synchronization primitives shared by
// every concurrent container in this module: a binary rendezvous Event and,
// built on top of it, the write-preferring reader/writer lock lives in the
// sibling rwlock package.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xsync

import "sync"

// Event is a mutex + condition-variable bundle: wait/post/broadcast.
// Semantics match a standard condition variable — spurious wakeups are
// possible, so any caller using the raw Wait must recheck its own
// condition after waking. Wait(cond) folds that recheck loop in for
// callers that can express their condition as a predicate.
type Event struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// NewEvent returns a ready-to-use Event.
func NewEvent() *Event {
	e := &Event{}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Wait blocks until cond reports true, rechecking after every wakeup.
// Because the check and the park happen under the same internal mutex
// that Post/Broadcast also acquire, no signal delivered after cond last
// read false can be missed.
func (e *Event) Wait(cond func() bool) {
	e.mu.Lock()
	for !cond() {
		e.cond.Wait()
	}
	e.mu.Unlock()
}

// WaitRaw parks the caller until the next Post or Broadcast with no
// predicate. Spurious wakeups are possible; only use this when the
// caller's own state check happens entirely under a lock that also
// serializes against whatever posts this Event. Nothing in this module
// calls it; rwlock and rcu use Wait.
func (e *Event) WaitRaw() {
	e.mu.Lock()
	e.cond.Wait()
	e.mu.Unlock()
}

// Post wakes one waiter, if any are parked.
func (e *Event) Post() {
	e.mu.Lock()
	e.cond.Signal()
	e.mu.Unlock()
}

// Broadcast wakes every waiter currently parked.
func (e *Event) Broadcast() {
	e.mu.Lock()
	e.cond.Broadcast()
	e.mu.Unlock()
}
