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

package manifest

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclsync/aclsync/acl"
)

func writeManifest(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/aclsync.yml", []byte(content), 0640))
	return fs
}

func TestLoad(t *testing.T) {
	fs := writeManifest(t, `
getfacl_cmd: sudo getfacl
setfacl_cmd: sudo setfacl
resources:
  - path: /srv/shared
    action: set
    recursive: true
    permissions:
      - user:alice:rwx
      - default:group:staff:r-x
  - path: /var/log/app
    action: purge
    permissions:
      - user::rwx
`)

	m, err := Load(fs, "/etc/aclsync.yml")
	require.NoError(t, err)
	assert.Equal(t, "sudo getfacl", m.GetfaclCmd)
	assert.Equal(t, "sudo setfacl", m.SetfaclCmd)
	require.Len(t, m.ResourceSpecs, 2)

	resources, err := m.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 2)

	assert.Equal(t, "/srv/shared", resources[0].Path)
	assert.Equal(t, acl.ActionSet, resources[0].Action)
	assert.True(t, resources[0].Recursive)
	assert.Equal(t, []string{"default:group:staff:r-x", "user:alice:rwx"}, resources[0].Entries.Strings())

	assert.Equal(t, acl.ActionPurge, resources[1].Action)
	assert.False(t, resources[1].Recursive)
}

// An omitted action defaults to set.
func TestLoadDefaultAction(t *testing.T) {
	fs := writeManifest(t, `
resources:
  - path: /srv/shared
    permissions:
      - user::rwx
`)

	m, err := Load(fs, "/etc/aclsync.yml")
	require.NoError(t, err)
	resources, err := m.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, acl.ActionSet, resources[0].Action)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/etc/aclsync.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}

func TestLoadBadYAML(t *testing.T) {
	fs := writeManifest(t, "resources: [whoops")
	_, err := Load(fs, "/etc/aclsync.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestResourcesValidation(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		errIs    error
		contains string
	}{
		{
			name: "unknown action",
			content: `
resources:
  - path: /srv/shared
    action: replace
    permissions: [ "user::rwx" ]
`,
			contains: "unknown action",
		},
		{
			name: "empty permissions",
			content: `
resources:
  - path: /srv/shared
    action: set
`,
			errIs: acl.ErrMissingPermission,
		},
		{
			name: "malformed permission",
			content: `
resources:
  - path: /srv/shared
    permissions: [ "user::rwq" ]
`,
			errIs: acl.ErrInvalidSyntax,
		},
		{
			name: "relative path",
			content: `
resources:
  - path: srv/shared
    permissions: [ "user::rwx" ]
`,
			contains: "absolute",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(writeManifest(t, tt.content), "/etc/aclsync.yml")
			require.NoError(t, err)
			_, err = m.Resources()
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}
