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

// Package manifest loads the YAML file declaring which paths to reconcile
// and the ACL state desired for each.
package manifest

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/aclsync/aclsync/acl"
)

// ResourceSpec is one declared path in the manifest.
type ResourceSpec struct {
	Path        string   `yaml:"path"`
	Action      string   `yaml:"action"`
	Recursive   bool     `yaml:"recursive"`
	Permissions []string `yaml:"permissions"`
}

// Manifest is the full declaration file.
//
//	getfacl_cmd: sudo getfacl
//	resources:
//	  - path: /srv/shared
//	    action: set
//	    recursive: true
//	    permissions:
//	      - user:alice:rwx
//	      - default:group:staff:r-x
type Manifest struct {
	// GetfaclCmd and SetfaclCmd optionally override the commands the
	// default provider invokes.
	GetfaclCmd string `yaml:"getfacl_cmd"`
	SetfaclCmd string `yaml:"setfacl_cmd"`

	ResourceSpecs []ResourceSpec `yaml:"resources"`
}

// Load reads and parses the manifest at path.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in manifest %s: %w", path, err)
	}
	return &m, nil
}

// Resources validates every declared resource and returns them. Validation is
// fail-fast across the whole manifest: the first bad declaration (relative
// path, unknown action, empty or malformed permissions) rejects the load.
func (m *Manifest) Resources() ([]*acl.Resource, error) {
	resources := make([]*acl.Resource, 0, len(m.ResourceSpecs))
	for _, spec := range m.ResourceSpecs {
		action, err := acl.ParseAction(spec.Action)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Path, err)
		}
		res, err := acl.NewResource(spec.Path, action, spec.Recursive, spec.Permissions)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, nil
}
