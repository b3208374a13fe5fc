package harvest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDirSnapshotStore(t *testing.T) {
	store, err := NewDirSnapshotStore(filepath.Join(t.TempDir(), "data_snapshots"))
	require.NoError(t, err)

	date := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)

	path, err := store.Write("data", date, []AnimalRecord{{ID: 1, Name: "Daisy"}})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "data_2026-08-29.json"))

	// human readable output
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "\n  ")

	var records []AnimalRecord
	err = store.Read("data", date, &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Daisy", records[0].Name)

	// same label and date overwrites
	_, err = store.Write("data", date, []AnimalRecord{{ID: 2, Name: "Rex"}})
	require.NoError(t, err)
	err = store.Read("data", date, &records)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Rex", records[0].Name)

	// a later day produces an additional file rather than overwriting
	nextDay := date.AddDate(0, 0, 1)
	nextPath, err := store.Write("data", nextDay, []AnimalRecord{{ID: 3}})
	require.NoError(t, err)
	require.NotEqual(t, path, nextPath)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestMemSnapshotStore(t *testing.T) {
	store := NewMemSnapshotStore()
	date := time.Now()

	var out []OrganizationRecord
	err := store.Read("organizations", date, &out)
	require.ErrorIs(t, err, ErrMissingSnapshot)

	_, err = store.Write("organizations", date, []OrganizationRecord{{ID: "FL53"}})
	require.NoError(t, err)

	err = store.Read("organizations", date, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "FL53", out[0].ID)
}
