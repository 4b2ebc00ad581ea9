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
	"path/filepath"
)

// ErrMissingPermission is returned when a resource is declared with no
// permission entries. An empty desired set is a configuration error caught at
// construction, before any provider interaction.
var ErrMissingPermission = errors.New("at least one permission entry is required")

// Resource binds a filesystem path to the ACL state declared for it. It is
// built once from configuration, validated eagerly, and then evaluated
// repeatedly; a changed declaration produces a new Resource.
type Resource struct {
	// Path is the absolute path whose ACL is reconciled.
	Path string
	// Action selects the sync policy and apply semantics. Defaults to
	// ActionSet.
	Action Action
	// Recursive applies the reconciliation to the whole tree under Path.
	Recursive bool
	// Entries is the validated desired entry set. Never empty.
	Entries Set
}

// NewResource validates the declaration and returns the resource. Validation
// is fail-fast: a relative path, an empty permission list, or any single
// malformed permission string rejects the whole resource.
func NewResource(path string, action Action, recursive bool, permissions []string) (*Resource, error) {
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("path %q must be absolute", path)
	}
	if len(permissions) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingPermission)
	}
	entries, err := ParseAll(permissions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Resource{
		Path:      path,
		Action:    action,
		Recursive: recursive,
		Entries:   entries,
	}, nil
}
