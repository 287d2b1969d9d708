package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Embedded(t *testing.T) {
	migs, err := loadMigrations(embedded, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, migs)

	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "matching_schema", migs[0].Name)
	assert.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS categories")
	assert.Len(t, migs[0].Checksum, 64)
}

func TestLoadMigrations_OrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"m/V2__second.sql": {Data: []byte("SELECT 2;")},
		"m/V1__first.sql":  {Data: []byte("SELECT 1;")},
		"m/README.md":      {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, "first", migs[0].Name)
	assert.Equal(t, "second", migs[1].Name)
}

func TestLoadMigrations_Errors(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{"m/V1__empty.sql": {Data: []byte("  ")}}, "m")
	assert.Error(t, err)

	_, err = loadMigrations(fstest.MapFS{
		"m/V1__a.sql":  {Data: []byte("SELECT 1;")},
		"m/V01__b.sql": {Data: []byte("SELECT 2;")},
	}, "m")
	assert.Error(t, err)

	migs, err := loadMigrations(fstest.MapFS{}, "missing")
	assert.NoError(t, err)
	assert.Empty(t, migs)
}
