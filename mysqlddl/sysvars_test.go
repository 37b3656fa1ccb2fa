package mysqlddl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemVariablesScopes(t *testing.T) {
	var vars = NewSystemVariables()

	t.Run("UnsetIsUnset", func(t *testing.T) {
		var _, ok = vars.Get("nope")
		require.False(t, ok)
	})

	t.Run("DefaultScopeIsSession", func(t *testing.T) {
		vars.Set("v1", "a", ScopeDefault)
		var value, ok = vars.GetScoped("v1", ScopeSession)
		require.True(t, ok)
		require.Equal(t, "a", value)
		_, ok = vars.GetScoped("v1", ScopeGlobal)
		require.False(t, ok)
	})

	t.Run("SessionAndLocalAreSynonyms", func(t *testing.T) {
		vars.Set("v2", "b", ScopeLocal)
		var value, ok = vars.GetScoped("v2", ScopeSession)
		require.True(t, ok)
		require.Equal(t, "b", value)
		value, ok = vars.GetScoped("v2", ScopeLocal)
		require.True(t, ok)
		require.Equal(t, "b", value)
	})

	t.Run("GlobalDoesNotSatisfySessionLookup", func(t *testing.T) {
		vars.Set("v3", "c", ScopeGlobal)
		var _, ok = vars.GetScoped("v3", ScopeSession)
		require.False(t, ok)
	})

	t.Run("UnscopedFallsBackToGlobal", func(t *testing.T) {
		var value, ok = vars.Get("v3")
		require.True(t, ok)
		require.Equal(t, "c", value)
	})

	t.Run("SessionShadowsGlobal", func(t *testing.T) {
		vars.Set("v4", "global", ScopeGlobal)
		vars.Set("v4", "session", ScopeSession)
		var value, _ = vars.Get("v4")
		require.Equal(t, "session", value)
	})

	t.Run("NamesAreCaseInsensitive", func(t *testing.T) {
		vars.Set("Character_Set_Server", "utf8", ScopeGlobal)
		var value, ok = vars.Get("character_set_server")
		require.True(t, ok)
		require.Equal(t, "utf8", value)
	})

	t.Run("Unset", func(t *testing.T) {
		vars.Set("v5", "x", ScopeGlobal)
		vars.Set("v5", "y", ScopeSession)
		vars.Unset("v5")
		var _, ok = vars.Get("v5")
		require.False(t, ok)
	})
}
