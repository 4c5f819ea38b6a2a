package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect Role
		ok     bool
	}{
		{name: "super admin", input: "ROLE_SUPER_ADMIN", expect: RoleSuperAdmin, ok: true},
		{name: "tenant admin", input: "ROLE_ADMIN", expect: RoleAdmin, ok: true},
		{name: "salesperson", input: "ROLE_VENDEDOR", expect: RoleSalesperson, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "lower case", input: "role_admin", ok: false},
		{name: "unknown", input: "ROLE_AUDITOR", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := ParseRole(tt.input)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expect, role)
		})
	}
}

func TestModuleSet(t *testing.T) {
	t.Run("zero value is empty", func(t *testing.T) {
		var set ModuleSet
		assert.Equal(t, 0, set.Len())
		assert.False(t, set.Has(ModuleCommission))
		assert.Empty(t, set.Keys())
	})

	t.Run("collapses duplicates and ignores empty keys", func(t *testing.T) {
		set := NewModuleSet("COMISSAO_CORE", "", "COMISSAO_CORE", "ESTOQUE")
		assert.Equal(t, 2, set.Len())
		assert.True(t, set.Has(ModuleCommission))
		assert.True(t, set.Has(Module("ESTOQUE")))
		assert.Equal(t, []string{"COMISSAO_CORE", "ESTOQUE"}, set.Strings())
	})

	t.Run("unrelated keys do not grant the commission module", func(t *testing.T) {
		set := NewModuleSet("ESTOQUE")
		assert.False(t, set.Has(ModuleCommission))
	})

	t.Run("typed constructor", func(t *testing.T) {
		set := ModulesOf(ModuleCommission)
		assert.Equal(t, []Module{ModuleCommission}, set.Keys())
	})
}
