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

	"github.com/spf13/cobra"

	"github.com/aclsync/aclsync/acl"
)

// NewCheckCmd returns the check command: evaluate every resource and report
// drift without changing anything.
func NewCheckCmd() *cobra.Command {
	var target targetFlags
	var verbose bool

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Report which declared paths are out of sync (read-only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, provider, err := target.resolve(commandFs())
			if err != nil {
				return err
			}

			caps := provider.Capabilities()
			drift := 0
			for _, res := range resources {
				current, err := provider.CurrentEntries(res.Path, res.Recursive)
				if err != nil {
					return err
				}
				if acl.InSync(current, res.Entries, res.Action, caps) {
					if verbose {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: in sync (action=%s)\n", res.Path, res.Action)
					}
					continue
				}
				drift++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: out of sync (action=%s)\n", res.Path, res.Action)
				fmt.Fprintf(cmd.OutOrStdout(), "  current: %s\n", current)
				fmt.Fprintf(cmd.OutOrStdout(), "  desired: %s\n", res.Entries)
			}

			if drift > 0 {
				return fmt.Errorf("check failed: %d path(s) out of sync", drift)
			}
			return nil
		},
	}
	target.register(checkCmd)
	checkCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also report in-sync paths")
	return checkCmd
}
