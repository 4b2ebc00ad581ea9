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

// Package acl implements the reconciliation engine for POSIX-style access
// control list entries: parsing and validating permission strings, comparing
// declared state against on-disk state under the four action modes, and
// deciding which change (if any) a provider must apply.
package acl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSyntax is wrapped by all parse failures. A permission string that
// does not match the accepted grammar is a configuration error; callers should
// surface it to the user rather than retry.
var ErrInvalidSyntax = errors.New("invalid ACL entry syntax")

// Tag identifies the kind of principal an ACL entry applies to.
type Tag string

const (
	TagUser  Tag = "user"
	TagGroup Tag = "group"
	TagMask  Tag = "mask"
	TagOther Tag = "other"
)

// tagAbbrevs maps every accepted spelling of a tag token (first letter or the
// whole word) to its canonical form.
var tagAbbrevs = map[string]Tag{
	"u": TagUser, "user": TagUser,
	"g": TagGroup, "group": TagGroup,
	"m": TagMask, "mask": TagMask,
	"o": TagOther, "other": TagOther,
}

// Entry is one ACL rule: an optional default scope, a principal (tag plus
// optional qualifier), and a permission text. Entries are immutable value
// objects; equality and ordering throughout the engine are by the canonical
// string form returned by String.
//
// The zero Entry is the distinguished "absent" marker. It never matches any
// parsed entry and renders as the literal token "absent".
type Entry struct {
	// Default is true for entries in the default scope ("default:" prefix),
	// inherited by new files created under a directory.
	Default bool
	// Tag is the principal kind. Empty only for the absent marker.
	Tag Tag
	// Qualifier names a specific user or group. Empty for the base owner,
	// owning group, mask and other entries.
	Qualifier string
	// Perms is the permission text exactly as written: either a symbolic
	// combination of r, w, x, X and - or a 3-4 digit octal number. Octal and
	// symbolic spellings of the same bits are deliberately not unified, so
	// "user::7" style drift between notations compares as different.
	Perms string
}

// Absent is the marker entry used where a permission value is missing
// entirely. It compares unequal to every valid entry.
var Absent = Entry{}

// IsAbsent reports whether e is the absent marker.
func (e Entry) IsAbsent() bool {
	return e.Tag == ""
}

// String returns the canonical long form of the entry, e.g. "user:alice:rwx"
// or "default:group::r-x". Abbreviated input spellings are expanded; the
// permission text is preserved verbatim.
func (e Entry) String() string {
	if e.IsAbsent() {
		return "absent"
	}
	var b strings.Builder
	if e.Default {
		b.WriteString("default:")
	}
	b.WriteString(string(e.Tag))
	b.WriteByte(':')
	b.WriteString(e.Qualifier)
	b.WriteByte(':')
	b.WriteString(e.Perms)
	return b.String()
}

// IdentityKey returns the entry's string form with the permission text
// removed, e.g. "user:alice:" for "user:alice:rwx". Two entries with the same
// identity key address the same principal in the same scope.
func (e Entry) IdentityKey() string {
	if e.IsAbsent() {
		return "absent"
	}
	s := e.String()
	return s[:strings.LastIndexByte(s, ':')+1]
}

// Parse parses a single ACL permission string into an Entry. The accepted
// grammar is an optional "default:" prefix (abbreviable to "d:"), a principal
// clause user[:id], group[:id], mask or other (each abbreviable to its first
// letter), and a colon plus the permission text. Both "u:alice:rwx" and
// "default:group::0750" are valid. Failures wrap ErrInvalidSyntax.
func Parse(raw string) (Entry, error) {
	fields := strings.Split(raw, ":")

	var e Entry
	if len(fields) > 0 && (fields[0] == "d" || fields[0] == "default") {
		e.Default = true
		fields = fields[1:]
	}
	if len(fields) != 3 {
		return Entry{}, fmt.Errorf("%w: %q: expected [default:]tag:qualifier:perms", ErrInvalidSyntax, raw)
	}

	tag, ok := tagAbbrevs[fields[0]]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q: unknown principal type %q", ErrInvalidSyntax, raw, fields[0])
	}
	e.Tag = tag

	e.Qualifier = fields[1]
	if e.Qualifier != "" && (tag == TagMask || tag == TagOther) {
		return Entry{}, fmt.Errorf("%w: %q: %s entries take no qualifier", ErrInvalidSyntax, raw, tag)
	}

	e.Perms = fields[2]
	if !validPerms(e.Perms) {
		return Entry{}, fmt.Errorf("%w: %q: bad permission text %q", ErrInvalidSyntax, raw, e.Perms)
	}
	return e, nil
}

// validPerms accepts a non-empty combination of the symbolic characters
// r, w, x, X and -, or a 3-4 digit octal number.
func validPerms(p string) bool {
	if p == "" {
		return false
	}
	if isOctal(p) {
		return len(p) >= 3 && len(p) <= 4
	}
	for _, c := range p {
		switch c {
		case 'r', 'w', 'x', 'X', '-':
		default:
			return false
		}
	}
	return true
}

func isOctal(p string) bool {
	for _, c := range p {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}
