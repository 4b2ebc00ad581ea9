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
)

// isBareClause reports whether s is exactly a principal clause with nothing
// following: one of "user:", "group:", "mask:", "other:" or an abbreviation
// thereof. Such strings carry no trailing permission field to strip.
func isBareClause(s string) bool {
	trimmed, ok := strings.CutSuffix(s, ":")
	if !ok {
		return false
	}
	_, known := tagAbbrevs[trimmed]
	return known
}

// StripPerms reduces each entry string to its identity portion by dropping
// the content of the final colon-delimited field, so "user:alice:rwx" becomes
// "user:alice:". Strings that are already a bare principal clause pass
// through unchanged. The result is deduplicated and sorted; the unset policy
// depends on that ordering for its set-difference comparison.
func StripPerms(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	stripped := make([]string, 0, len(entries))
	for _, s := range entries {
		if !isBareClause(s) {
			s = s[:strings.LastIndexByte(s, ':')+1]
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		stripped = append(stripped, s)
	}
	sort.Strings(stripped)
	return stripped
}

// PurgeCompatible reports whether an entry survives a purge: only the base
// user, group and other access entries do. Default-scope entries, named
// entries and mask entries all make a purge necessary. Note that mask is
// excluded here even though the bare-clause check above accepts it; a present
// mask always forces a purge out of sync.
func PurgeCompatible(e Entry) bool {
	return !e.Default && e.Qualifier == "" && e.Tag != TagMask && !e.IsAbsent()
}
