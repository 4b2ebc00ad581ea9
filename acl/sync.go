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

// Capabilities describes what the backing ACL mechanism can do. The evaluator
// queries it rather than the provider implementation directly, so providers
// with different backends stay interchangeable.
type Capabilities struct {
	// AdditiveCheck is true when the backend can apply entries
	// incrementally, which lets the set policy tolerate current entries
	// beyond the desired ones. Backends without it fall back to
	// exact-equality matching under set.
	AdditiveCheck bool
}

// InSync decides whether current satisfies desired under the given action.
// It is a total function over validated entry sets: comparison is on the
// canonical string form, case-sensitive, with no unification of octal and
// symbolic permission spellings.
func InSync(current, desired Set, action Action, caps Capabilities) bool {
	switch action {
	case ActionExact:
		return current.Equal(desired)

	case ActionSet:
		if current.Equal(desired) {
			return true
		}
		// Extra current entries are tolerated, but only when the backend
		// can add entries without replacing the whole ACL.
		return caps.AdditiveCheck && current.ContainsAll(desired)

	case ActionUnset:
		// The goal is met only when no desired principal carries any
		// entry at all, whatever its bits; partial removal is drift.
		cur := make(map[string]struct{})
		for _, id := range StripPerms(current.Strings()) {
			cur[id] = struct{}{}
		}
		for _, id := range StripPerms(desired.Strings()) {
			if _, present := cur[id]; present {
				return false
			}
		}
		return true

	case ActionPurge:
		// The desired set is irrelevant; only the shape of the current
		// ACL matters.
		for _, e := range current.Entries() {
			if !PurgeCompatible(e) {
				return false
			}
		}
		return true
	}
	return false
}
