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

package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag/v2"

	"github.com/aclsync/aclsync/acl"
	"github.com/aclsync/aclsync/manifest"
	"github.com/aclsync/aclsync/setfacl"
)

// DefaultFs can be set by tests to use an in-memory filesystem. If nil, the
// commands use the real OS filesystem.
var DefaultFs afero.Fs

// NewProviderFn builds the ACL provider for the given command overrides.
// Tests may override this to inject a fake provider.
var NewProviderFn = func(vfs afero.Fs, getfaclCmd, setfaclCmd string) (acl.Provider, error) {
	return setfacl.NewFromTemplates(vfs, getfaclCmd, setfaclCmd)
}

// actionIds maps the --action enum flag values to their spellings.
var actionIds = map[acl.Action][]string{
	acl.ActionSet:   {"set"},
	acl.ActionUnset: {"unset"},
	acl.ActionExact: {"exact"},
	acl.ActionPurge: {"purge"},
}

// NewRootCmd returns the aclsync root command with subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "aclsync",
		Short:        "Reconcile declared POSIX ACL state against the filesystem",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewApplyCmd())
	return rootCmd
}

// targetFlags holds the flags shared by check and apply that select which
// resources to reconcile: either a manifest file or a single ad hoc path.
type targetFlags struct {
	manifestPath string
	path         string
	action       acl.Action
	recursive    bool
	permissions  []string
}

func (t *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&t.manifestPath, "manifest", "f", "", "YAML manifest declaring resources")
	cmd.Flags().StringVar(&t.path, "path", "", "Single path to reconcile (alternative to --manifest)")
	cmd.Flags().Var(
		enumflag.New(&t.action, "action", actionIds, enumflag.EnumCaseInsensitive),
		"action", "Sync policy for --path: set, unset, exact or purge")
	cmd.Flags().BoolVarP(&t.recursive, "recursive", "R", false, "Apply to the whole tree under --path")
	cmd.Flags().StringArrayVarP(&t.permissions, "perm", "p", nil, "Desired ACL entry for --path (repeatable)")
}

// resolve turns the flags into validated resources plus the provider to use.
func (t *targetFlags) resolve(vfs afero.Fs) ([]*acl.Resource, acl.Provider, error) {
	if t.manifestPath != "" && t.path != "" {
		return nil, nil, fmt.Errorf("--manifest and --path are mutually exclusive")
	}

	if t.manifestPath != "" {
		m, err := manifest.Load(vfs, t.manifestPath)
		if err != nil {
			return nil, nil, err
		}
		resources, err := m.Resources()
		if err != nil {
			return nil, nil, err
		}
		provider, err := NewProviderFn(vfs, m.GetfaclCmd, m.SetfaclCmd)
		if err != nil {
			return nil, nil, err
		}
		return resources, provider, nil
	}

	if t.path == "" {
		return nil, nil, fmt.Errorf("either --manifest or --path is required")
	}
	res, err := acl.NewResource(t.path, t.action, t.recursive, t.permissions)
	if err != nil {
		return nil, nil, err
	}
	provider, err := NewProviderFn(vfs, "", "")
	if err != nil {
		return nil, nil, err
	}
	return []*acl.Resource{res}, provider, nil
}

func commandFs() afero.Fs {
	if DefaultFs != nil {
		return DefaultFs
	}
	return afero.NewOsFs()
}
