// Copyright 2025 The aclsync Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package acl

import (
	"errors"
	"fmt"
	"io"
)

// ErrRead wraps failures to read the current ACL state of a path (missing
// path, unsupported filesystem, unavailable ACL subsystem).
var ErrRead = errors.New("reading ACL entries failed")

// ErrApply wraps failures to apply a computed change (permission denial,
// unsupported filesystem, partial failure).
var ErrApply = errors.New("applying ACL entries failed")

// Provider is the narrow boundary to the OS-level ACL mechanism. Reads and
// applies are opaque synchronous calls; cancellation, timeouts and
// per-path concurrency safety are the implementation's concern.
type Provider interface {
	// CurrentEntries reads the entries currently set on path, descending
	// into the tree when recursive is true. Failures wrap ErrRead.
	CurrentEntries(path string, recursive bool) (Set, error)
	// Capabilities reports what the backing mechanism supports.
	Capabilities() Capabilities
	// Apply makes the path's ACL satisfy desired under the given action.
	// Failures wrap ErrApply.
	Apply(path string, recursive bool, action Action, desired Set) error
}

// Outcome is the result of one reconciliation.
type Outcome struct {
	// Changed is true when the path was out of sync and an apply was
	// requested (and succeeded).
	Changed bool
	// Current is the entry set read from the provider before any change.
	Current Set
}

// Reconciler drives one reconciliation cycle per call: read current state,
// evaluate it against the resource, and request the corresponding apply when
// out of sync. A failed apply is never retried here; retry policy belongs to
// the caller.
//
// Reconciliations of distinct paths are independent and may run concurrently.
// Reconciling the same path concurrently is not safe, since the read and the
// apply are not transactional.
type Reconciler struct {
	Provider Provider
	// Trace, when non-nil, receives one line around the evaluate/apply
	// boundary per reconciliation. The comparison functions themselves
	// never emit diagnostics.
	Trace io.Writer
}

// Reconcile evaluates res and applies its action if needed. Provider errors
// propagate verbatim, scoped to this path only.
func (r *Reconciler) Reconcile(res *Resource) (Outcome, error) {
	current, err := r.Provider.CurrentEntries(res.Path, res.Recursive)
	if err != nil {
		return Outcome{}, err
	}

	inSync := InSync(current, res.Entries, res.Action, r.Provider.Capabilities())
	r.tracef("%s: action=%s in_sync=%v current=%s desired=%s\n",
		res.Path, res.Action, inSync, current, res.Entries)
	if inSync {
		return Outcome{Current: current}, nil
	}

	if err := r.Provider.Apply(res.Path, res.Recursive, res.Action, res.Entries); err != nil {
		return Outcome{Current: current}, err
	}
	r.tracef("%s: applied %s\n", res.Path, res.Action)
	return Outcome{Changed: true, Current: current}, nil
}

func (r *Reconciler) tracef(format string, args ...any) {
	if r.Trace != nil {
		fmt.Fprintf(r.Trace, format, args...)
	}
}
