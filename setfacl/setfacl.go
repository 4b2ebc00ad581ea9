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

// Package setfacl implements acl.Provider on top of the getfacl and setfacl
// command pair shipped with the Linux acl package.
package setfacl

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/afero"

	"github.com/aclsync/aclsync/acl"
)

// Provider reads ACL state with getfacl and applies changes with setfacl.
// Fs is used for existence checks only; CmdRunner runs the commands and can
// be swapped out in unit tests so nothing is ever executed.
type Provider struct {
	Fs        afero.Fs
	CmdRunner func(string, ...string) ([]byte, error)

	// GetfaclCmd and SetfaclCmd are the argv prefixes the provider invokes.
	// They default to the system commands but may be overridden, e.g. to
	// point at a wrapper on hosts where the tools live outside PATH.
	GetfaclCmd []string
	SetfaclCmd []string
}

var defaultGetfacl = []string{"getfacl", "--absolute-names", "--no-effective"}
var defaultSetfacl = []string{"setfacl"}

// New returns a provider using the default getfacl/setfacl commands.
func New(fs afero.Fs) *Provider {
	return &Provider{
		Fs:         fs,
		CmdRunner:  ExecCmd,
		GetfaclCmd: defaultGetfacl,
		SetfaclCmd: defaultSetfacl,
	}
}

// NewFromTemplates builds a provider whose commands are given as shell-quoted
// strings, e.g. "sudo setfacl". An empty template keeps the default command.
func NewFromTemplates(fs afero.Fs, getfaclTmpl, setfaclTmpl string) (*Provider, error) {
	p := New(fs)
	if getfaclTmpl != "" {
		argv, err := shellquote.Split(getfaclTmpl)
		if err != nil {
			return nil, fmt.Errorf("bad getfacl command %q: %w", getfaclTmpl, err)
		}
		p.GetfaclCmd = argv
	}
	if setfaclTmpl != "" {
		argv, err := shellquote.Split(setfaclTmpl)
		if err != nil {
			return nil, fmt.Errorf("bad setfacl command %q: %w", setfaclTmpl, err)
		}
		p.SetfaclCmd = argv
	}
	return p, nil
}

// ExecCmd runs a command and returns its combined output.
func ExecCmd(name string, arg ...string) ([]byte, error) {
	cmd := exec.Command(name, arg...)
	return cmd.CombinedOutput()
}

// Capabilities reports that setfacl -m applies entries incrementally, so the
// set policy may use subset matching.
func (p *Provider) Capabilities() acl.Capabilities {
	return acl.Capabilities{AdditiveCheck: true}
}

// CurrentEntries reads the entries currently set on path. With recursive it
// reads the whole tree and returns the union of all entries found.
func (p *Provider) CurrentEntries(path string, recursive bool) (acl.Set, error) {
	if _, err := p.Fs.Stat(path); err != nil {
		return acl.Set{}, fmt.Errorf("%w: %v", acl.ErrRead, err)
	}

	args := append([]string(nil), p.GetfaclCmd[1:]...)
	if recursive {
		args = append(args, "-R")
	}
	args = append(args, path)
	out, err := p.CmdRunner(p.GetfaclCmd[0], args...)
	if err != nil {
		return acl.Set{}, fmt.Errorf("%w: %s %s: %v: %s",
			acl.ErrRead, p.GetfaclCmd[0], path, err, strings.TrimSpace(string(out)))
	}
	return parseGetfaclOutput(string(out))
}

// parseGetfaclOutput turns getfacl text into an entry set. Header comments
// ("# file:", "# owner:", ...) and blank block separators are skipped; with
// -R the per-file blocks simply union into one set.
func parseGetfaclOutput(out string) (acl.Set, error) {
	var entries []acl.Entry
	for _, line := range strings.Split(out, "\n") {
		line = cleanLine(line)
		if line == "" {
			continue
		}
		e, err := acl.Parse(line)
		if err != nil {
			return acl.Set{}, fmt.Errorf("%w: unexpected getfacl line: %v", acl.ErrRead, err)
		}
		entries = append(entries, e)
	}
	return acl.NewSet(entries...), nil
}

// cleanLine drops comments and surrounding whitespace.
func cleanLine(line string) string {
	line = strings.Split(line, "#")[0]
	return strings.TrimSpace(line)
}

// Apply runs the setfacl invocation matching the action: --set for exact
// replacement, -m for additive set, -x for removal of the desired principals
// and -b for a purge back to the base entries.
func (p *Provider) Apply(path string, recursive bool, action acl.Action, desired acl.Set) error {
	args := append([]string(nil), p.SetfaclCmd[1:]...)
	if recursive {
		args = append(args, "-R")
	}

	switch action {
	case acl.ActionExact:
		args = append(args, "--set", strings.Join(desired.Strings(), ","))
	case acl.ActionSet:
		args = append(args, "-m", strings.Join(desired.Strings(), ","))
	case acl.ActionUnset:
		args = append(args, "-x", strings.Join(identitySpecs(desired), ","))
	case acl.ActionPurge:
		args = append(args, "-b")
	default:
		return fmt.Errorf("%w: unsupported action %s", acl.ErrApply, action)
	}
	args = append(args, path)

	out, err := p.CmdRunner(p.SetfaclCmd[0], args...)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v: %s",
			acl.ErrApply, p.SetfaclCmd[0], path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// identitySpecs renders the desired entries in the perms-less form setfacl -x
// expects ("user:alice", not "user:alice:rwx").
func identitySpecs(desired acl.Set) []string {
	specs := make([]string, 0, desired.Len())
	for _, e := range desired.Entries() {
		specs = append(specs, strings.TrimSuffix(e.IdentityKey(), ":"))
	}
	return specs
}
