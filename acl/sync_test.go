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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInSyncExact(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		desired []string
		inSync  bool
	}{
		{
			name:    "identical sets",
			current: []string{"user::rwx", "group::r-x", "other::r--"},
			desired: []string{"user::rwx", "group::r-x", "other::r--"},
			inSync:  true,
		},
		{
			name:    "identical sets different order",
			current: []string{"other::r--", "user::rwx", "group::r-x"},
			desired: []string{"user::rwx", "group::r-x", "other::r--"},
			inSync:  true,
		},
		{
			name:    "extra current entry",
			current: []string{"user::rwx", "group::r-x"},
			desired: []string{"user::rwx"},
			inSync:  false,
		},
		{
			name:    "missing desired entry",
			current: []string{"user::rwx"},
			desired: []string{"user::rwx", "group::r-x"},
			inSync:  false,
		},
		{
			name:    "same entries different bits",
			current: []string{"user:alice:r--"},
			desired: []string{"user:alice:rwx"},
			inSync:  false,
		},
		{
			name:    "octal does not match equivalent symbolic",
			current: []string{"user::rwx"},
			desired: []string{"user::777"},
			inSync:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := mustSet(t, tt.current...)
			desired := mustSet(t, tt.desired...)
			assert.Equal(t, tt.inSync, InSync(current, desired, ActionExact, Capabilities{}))
			// exact is symmetric: drift in either direction is drift.
			assert.Equal(t, tt.inSync, InSync(desired, current, ActionExact, Capabilities{}))
		})
	}
}

func TestInSyncSet(t *testing.T) {
	tests := []struct {
		name          string
		current       []string
		desired       []string
		additiveCheck bool
		inSync        bool
	}{
		{
			name:          "exact match without additive check",
			current:       []string{"user::rwx", "group::r-x"},
			desired:       []string{"user::rwx", "group::r-x"},
			additiveCheck: false,
			inSync:        true,
		},
		{
			name:          "extra current entries tolerated with additive check",
			current:       []string{"user::rwx", "group::r-x"},
			desired:       []string{"user::rwx"},
			additiveCheck: true,
			inSync:        true,
		},
		{
			name:          "extra current entries are drift without additive check",
			current:       []string{"user::rwx", "group::r-x"},
			desired:       []string{"user::rwx"},
			additiveCheck: false,
			inSync:        false,
		},
		{
			name:          "missing desired entry is always drift",
			current:       []string{"user::rwx", "group::r-x"},
			desired:       []string{"user::rwx", "user:alice:rwx"},
			additiveCheck: true,
			inSync:        false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := mustSet(t, tt.current...)
			desired := mustSet(t, tt.desired...)
			caps := Capabilities{AdditiveCheck: tt.additiveCheck}
			assert.Equal(t, tt.inSync, InSync(current, desired, ActionSet, caps))
		})
	}
}

// With the additive check disabled, set must decide exactly like exact.
func TestInSyncSetReducesToExact(t *testing.T) {
	currents := [][]string{
		{"user::rwx"},
		{"user::rwx", "group::r-x"},
		{"user:alice:rwx", "mask::rwx"},
		{},
	}
	desired := mustSet(t, "user::rwx", "group::r-x")
	for _, raw := range currents {
		current := mustSet(t, raw...)
		assert.Equal(t,
			InSync(current, desired, ActionExact, Capabilities{}),
			InSync(current, desired, ActionSet, Capabilities{}),
			"current=%v", raw)
	}
}

func TestInSyncUnset(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		desired []string
		inSync  bool
	}{
		{
			name:    "desired principal still present with different bits",
			current: []string{"user:alice:r--"},
			desired: []string{"user:alice:rwx"},
			inSync:  false,
		},
		{
			name:    "desired principal fully removed",
			current: []string{"user::rwx", "group::r-x"},
			desired: []string{"user:alice:rwx"},
			inSync:  true,
		},
		{
			name:    "partial removal is still drift",
			current: []string{"user:alice:rwx"},
			desired: []string{"user:alice:rwx", "user:bob:r--"},
			inSync:  false,
		},
		{
			name:    "default and access scope are distinct principals",
			current: []string{"default:user:alice:rwx"},
			desired: []string{"user:alice:rwx"},
			inSync:  true,
		},
		{
			name:    "empty current",
			current: nil,
			desired: []string{"user:alice:rwx"},
			inSync:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := mustSet(t, tt.current...)
			desired := mustSet(t, tt.desired...)
			assert.Equal(t, tt.inSync, InSync(current, desired, ActionUnset, Capabilities{}))
		})
	}
}

func TestInSyncPurge(t *testing.T) {
	// The desired set is ignored under purge; only the current shape counts.
	desired := mustSet(t, "user::rwx")

	tests := []struct {
		name    string
		current []string
		inSync  bool
	}{
		{
			name:    "base entries only",
			current: []string{"user::rwx", "group::r-x", "other::r--"},
			inSync:  true,
		},
		{
			name:    "named entry present",
			current: []string{"user::rwx", "user:alice:r-x"},
			inSync:  false,
		},
		{
			name:    "mask entry present",
			current: []string{"user::rwx", "mask::rwx"},
			inSync:  false,
		},
		{
			name:    "default entry present",
			current: []string{"default:mask::rwx", "user::rwx"},
			inSync:  false,
		},
		{
			name:    "empty current",
			current: nil,
			inSync:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := mustSet(t, tt.current...)
			assert.Equal(t, tt.inSync, InSync(current, desired, ActionPurge, Capabilities{}))
		})
	}
}
