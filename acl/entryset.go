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
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// Set is a duplicate-free collection of entries, kept sorted ascending by
// canonical string form. Order of construction is irrelevant; two sets built
// from the same entries in any order are equal.
type Set struct {
	entries []Entry
}

// NewSet builds a Set from entries, dropping duplicates (by canonical string)
// and sorting.
func NewSet(entries ...Entry) Set {
	byKey := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byKey[e.String()] = e
	}
	keys := maps.Keys(byKey)
	sort.Strings(keys)
	sorted := make([]Entry, len(keys))
	for i, k := range keys {
		sorted[i] = byKey[k]
	}
	return Set{entries: sorted}
}

// ParseAll parses each raw permission string and returns the resulting set.
// It fails on the first malformed string, so a set is either fully valid or
// not constructed at all.
func ParseAll(raw []string) (Set, error) {
	entries := make([]Entry, 0, len(raw))
	for _, s := range raw {
		e, err := Parse(s)
		if err != nil {
			return Set{}, err
		}
		entries = append(entries, e)
	}
	return NewSet(entries...), nil
}

// Entries returns the entries in sorted order. The returned slice must not be
// modified.
func (s Set) Entries() []Entry {
	return s.entries
}

// Len returns the number of entries.
func (s Set) Len() int {
	return len(s.entries)
}

// IsEmpty reports whether the set has no entries.
func (s Set) IsEmpty() bool {
	return len(s.entries) == 0
}

// Strings returns the sorted canonical string forms of all entries.
func (s Set) Strings() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.String()
	}
	return out
}

// String renders the set for reporting. An empty set renders as the literal
// token "absent" rather than an empty joined string.
func (s Set) String() string {
	if s.IsEmpty() {
		return Absent.String()
	}
	return strings.Join(s.Strings(), ",")
}

// Equal reports whether both sets contain exactly the same entries.
func (s Set) Equal(other Set) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for i, e := range s.entries {
		if e.String() != other.entries[i].String() {
			return false
		}
	}
	return true
}

// ContainsAll reports whether every entry of other is present in s.
func (s Set) ContainsAll(other Set) bool {
	have := make(map[string]struct{}, len(s.entries))
	for _, e := range s.entries {
		have[e.String()] = struct{}{}
	}
	for _, e := range other.entries {
		if _, ok := have[e.String()]; !ok {
			return false
		}
	}
	return true
}
