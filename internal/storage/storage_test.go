package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceRosterAndBackup(t *testing.T) {
	store := New(t.TempDir())

	_, ok := store.RosterPath()
	assert.False(t, ok)

	require.NoError(t, store.ReplaceRoster(strings.NewReader("first version"), "roster.csv"))
	path, ok := store.RosterPath()
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first version", string(data))

	require.NoError(t, store.ReplaceRoster(strings.NewReader("second version"), "roster.csv"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second version", string(data))

	backup, err := os.ReadFile(path + ".backup")
	require.NoError(t, err)
	assert.Equal(t, "first version", string(backup))
}

func TestReplaceRosterSwitchesType(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.ReplaceRoster(strings.NewReader("csv roster"), "old.csv"))
	csvPath, ok := store.RosterPath()
	require.True(t, ok)

	require.NoError(t, store.ReplaceRoster(strings.NewReader("xlsx roster"), "new.XLSX"))
	path, ok := store.RosterPath()
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(path, ".xlsx"))

	_, err := os.Stat(csvPath)
	assert.True(t, os.IsNotExist(err), "previous csv roster should be removed")
}

func TestReplaceRosterRejectsUnknownTypes(t *testing.T) {
	store := New(t.TempDir())
	err := store.ReplaceRoster(strings.NewReader("x"), "roster.pdf")
	require.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestRosterInfo(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.RosterInfo()
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, store.ReplaceRoster(strings.NewReader("roster"), "employees.csv"))
	info, err := store.RosterInfo()
	require.NoError(t, err)
	assert.Equal(t, int64(len("roster")), info.Size())
}
