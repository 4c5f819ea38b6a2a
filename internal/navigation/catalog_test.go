package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/backoffice/internal/access"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	catalog := DefaultCatalog()
	require.NoError(t, catalog.Validate())

	paths := make(map[string]bool)
	for _, e := range catalog.Entries() {
		assert.False(t, paths[e.Path], "duplicate path %s", e.Path)
		paths[e.Path] = true
		assert.NotEmpty(t, e.Roles, "entry %s has no roles", e.Path)
		assert.NotEmpty(t, e.Label, "entry %s has no label", e.Path)
	}
}

func TestNewCatalog_Order(t *testing.T) {
	catalog := NewCatalog(
		[]Entry{{Path: "/a", Roles: []access.Role{access.RoleAdmin}}},
		[]Entry{{Path: "/b", Roles: []access.Role{access.RoleAdmin}}},
		nil,
		[]Entry{{Path: "/c", Roles: []access.Role{access.RoleAdmin}}},
	)

	var paths []string
	for _, e := range catalog.Entries() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"/a", "/b", "/c"}, paths)
}

func TestCatalog_Immutable(t *testing.T) {
	base := []Entry{{Path: "/a", Roles: []access.Role{access.RoleAdmin}}}
	catalog := NewCatalog(base)

	base[0].Path = "/changed"
	base[0].Roles[0] = access.RoleSalesperson

	entries := catalog.Entries()
	entries[0].Label = "mutated"
	entries[0].Roles[0] = access.RoleSuperAdmin

	got, ok := catalog.Lookup("/a")
	require.True(t, ok)
	assert.Empty(t, got.Label)
	assert.Equal(t, []access.Role{access.RoleAdmin}, got.Roles)
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr []error
	}{
		{
			name: "valid",
			entries: []Entry{
				{Path: "/a", Roles: []access.Role{access.RoleAdmin}},
				{Path: "/b", Roles: []access.Role{access.RoleSalesperson}},
			},
		},
		{
			name: "duplicate path",
			entries: []Entry{
				{Path: "/a", Roles: []access.Role{access.RoleAdmin}},
				{Path: "/a", Roles: []access.Role{access.RoleSalesperson}},
			},
			wantErr: []error{ErrDuplicatePath},
		},
		{
			name: "empty roles",
			entries: []Entry{
				{Path: "/a"},
			},
			wantErr: []error{ErrNoRoles},
		},
		{
			name: "both",
			entries: []Entry{
				{Path: "/a", Roles: []access.Role{access.RoleAdmin}},
				{Path: "/a"},
			},
			wantErr: []error{ErrDuplicatePath, ErrNoRoles},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCatalog(tt.entries).Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}
