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

import "fmt"

// Action selects both the sync-evaluation policy and the change a provider
// must apply when a resource is out of sync.
type Action int

const (
	// ActionSet ensures every desired entry is present; extra current
	// entries are tolerated when the provider supports the additive check.
	// This is the default action.
	ActionSet Action = iota
	// ActionUnset removes the desired principals' entries regardless of
	// their permission bits.
	ActionUnset
	// ActionExact replaces the ACL so it equals the desired set exactly.
	ActionExact
	// ActionPurge strips the ACL down to the base user/group/other access
	// entries, removing all extended, mask and default entries.
	ActionPurge
)

var actionNames = map[Action]string{
	ActionSet:   "set",
	ActionUnset: "unset",
	ActionExact: "exact",
	ActionPurge: "purge",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction maps a configuration string to an Action. The empty string maps
// to the default, ActionSet.
func ParseAction(s string) (Action, error) {
	switch s {
	case "", "set":
		return ActionSet, nil
	case "unset":
		return ActionUnset, nil
	case "exact":
		return ActionExact, nil
	case "purge":
		return ActionPurge, nil
	default:
		return ActionSet, fmt.Errorf("unknown action %q (want set, unset, exact or purge)", s)
	}
}
