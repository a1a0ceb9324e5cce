package featurestore_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-utfgrid/featurestore"
	"github.com/eak1mov/go-utfgrid/grid"
	"github.com/eak1mov/go-utfgrid/internal/gridtest"
	"github.com/eak1mov/go-utfgrid/utfgrid"
	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func createDatabase(t *testing.T) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), "features.sqlite")
	db, err := sql.Open("sqlite3", filePath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE countries (code TEXT, name TEXT, population INTEGER, area REAL);
		INSERT INTO countries VALUES ('a', 'Alpha', 1000, 1.5);
		INSERT INTO countries VALUES ('b', 'Beta', 20, NULL);
	`)
	require.NoError(t, err)

	return filePath
}

func TestReadFeature(t *testing.T) {
	store, err := featurestore.Open(createDatabase(t), featurestore.WithTable("countries"), featurestore.WithKeyColumn("code"))
	require.NoError(t, err)
	defer store.Close()

	props, err := store.ReadFeature("a")
	require.NoError(t, err)
	want := grid.Properties{"code": "a", "name": "Alpha", "population": int64(1000), "area": 1.5}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Errorf("ReadFeature mismatch (-want+got):\n%v", diff)
	}

	props, err = store.ReadFeature("missing")
	require.NoError(t, err)
	require.Nil(t, props)
}

func TestEncodeWithStore(t *testing.T) {
	store, err := featurestore.Open(createDatabase(t), featurestore.WithTable("countries"), featurestore.WithKeyColumn("code"))
	require.NoError(t, err)
	defer store.Close()

	g := gridtest.New(t, []string{
		"aabb",
		"aacc",
	})
	e := utfgrid.NewEncoder(utfgrid.WithFeatureWriter(store))
	result, err := e.EncodeSync(gridtest.FullView(t, g), utfgrid.WithResolution(2))
	require.NoError(t, err)

	require.Equal(t, []string{"", "a", "b"}, result.Keys)
	want := map[string]grid.Properties{
		"a": {"code": "a", "name": "Alpha", "population": int64(1000), "area": 1.5},
		"b": {"code": "b", "name": "Beta", "population": int64(20), "area": nil},
	}
	if diff := cmp.Diff(want, result.Data); diff != "" {
		t.Errorf("Data mismatch (-want+got):\n%v", diff)
	}
}

func TestOpenErrors(t *testing.T) {
	filePath := createDatabase(t)

	_, err := featurestore.Open(filePath, featurestore.WithTable("countries; DROP TABLE countries"))
	require.ErrorIs(t, err, featurestore.ErrInvalidIdentifier)

	_, err = featurestore.Open(filePath, featurestore.WithTable("countries"), featurestore.WithKeyColumn(""))
	require.ErrorIs(t, err, featurestore.ErrInvalidIdentifier)

	_, err = featurestore.Open(filePath, featurestore.WithTable("missing"))
	require.Error(t, err)
}
