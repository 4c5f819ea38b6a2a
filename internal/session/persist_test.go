package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore(t *testing.T) {
	t.Run("creates directory with correct permissions", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "session")

		store, err := NewFileStore(dir)
		require.NoError(t, err)
		assert.NotNil(t, store)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})

	t.Run("uses default directory when baseDir is empty", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		store, err := NewFileStore("")
		require.NoError(t, err)
		assert.Contains(t, store.Path(), ".backoffice")
	})
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(&State{Token: "t0k3n", Permissions: []string{"COMISSAO_CORE"}}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// both keys live in the same document
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "t0k3n", doc["token"])
	assert.Equal(t, []any{"COMISSAO_CORE"}, doc["permissions"])

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp file must be renamed away")

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "t0k3n", state.Token)
	assert.Equal(t, []string{"COMISSAO_CORE"}, state.Permissions)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)

	// clearing twice is fine
	require.NoError(t, store.Clear())
}

func TestFileStore_ConcurrentSaves(t *testing.T) {
	dir := t.TempDir()

	// two processes sharing one session directory
	first, err := NewFileStore(dir)
	require.NoError(t, err)
	second, err := NewFileStore(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, first.Save(&State{Token: fmt.Sprintf("first-%d", i), Permissions: []string{"COMISSAO_CORE"}}))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, second.Save(&State{Token: fmt.Sprintf("second-%d", i), Permissions: []string{}}))
		}()
	}
	wg.Wait()

	state, err := first.Load()
	require.NoError(t, err)
	if strings.HasPrefix(state.Token, "first-") {
		assert.Equal(t, []string{"COMISSAO_CORE"}, state.Permissions)
	} else {
		assert.True(t, strings.HasPrefix(state.Token, "second-"))
		assert.Empty(t, state.Permissions)
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStore_LoadEmptyToken(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"token":"","permissions":["COMISSAO_CORE"]}`), 0600))

	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	store := NewMemoryStore()
	perms := []string{"COMISSAO_CORE"}
	require.NoError(t, store.Save(&State{Token: "a", Permissions: perms}))

	perms[0] = "CHANGED"

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"COMISSAO_CORE"}, state.Permissions)
}
