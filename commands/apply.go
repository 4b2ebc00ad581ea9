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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aclsync/aclsync/acl"
)

// ConfirmPrompt is used to ask the user for confirmation before applying
// changes. Tests can override this to avoid interactive prompts. The default
// refuses when stdin is not a terminal, so unattended runs must pass --yes.
var ConfirmPrompt = func(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal; use --yes to apply without confirmation")
	}
	fmt.Print(prompt)
	r := bufio.NewReader(os.Stdin)
	s, err := r.ReadString('\n')
	if err != nil {
		return false, err
	}
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "y" || s == "yes", nil
}

// NewApplyCmd returns the apply command: reconcile every declared resource,
// applying changes where paths are out of sync.
func NewApplyCmd() *cobra.Command {
	var target targetFlags
	var dryRun bool
	var yes bool
	var verbose bool

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile declared ACL state, applying changes where needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, provider, err := target.resolve(commandFs())
			if err != nil {
				return err
			}

			if dryRun {
				caps := provider.Capabilities()
				for _, res := range resources {
					current, err := provider.CurrentEntries(res.Path, res.Recursive)
					if err != nil {
						return err
					}
					if acl.InSync(current, res.Entries, res.Action, caps) {
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Action: %s %s (%s)\n", res.Action, res.Path, res.Entries)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "dry-run complete")
				return nil
			}

			if !yes {
				ok, err := ConfirmPrompt(fmt.Sprintf("Reconcile %d path(s)? [y/N]: ", len(resources)))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("aborted by user")
				}
			}

			reconciler := &acl.Reconciler{Provider: provider}
			if verbose {
				reconciler.Trace = cmd.OutOrStdout()
			}

			changed := 0
			var failures []string
			for _, res := range resources {
				outcome, err := reconciler.Reconcile(res)
				if err != nil {
					// A failed path does not stop the others; retrying is
					// the caller's business, not ours.
					failures = append(failures, fmt.Sprintf("%s: %v", res.Path, err))
					continue
				}
				if outcome.Changed {
					changed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: applied %s\n", res.Path, res.Action)
				}
			}

			if len(failures) > 0 {
				for _, f := range failures {
					fmt.Fprintln(cmd.OutOrStdout(), "Error:", f)
				}
				return fmt.Errorf("apply completed with %d error(s)", len(failures))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "apply complete: %d path(s) changed\n", changed)
			return nil
		},
	}
	target.register(applyCmd)
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Don't modify anything; show planned changes")
	applyCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply changes without confirmation")
	applyCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	return applyCmd
}
