package pulses

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterStore(t *testing.T) {
	store, err := OpenClusterStore(filepath.Join(t.TempDir(), "clusters.db"))
	require.NoError(t, err)
	defer store.Close()

	opts := DefaultClusterOptions()
	results := []ClusterResult{
		{EventID: 24, NumSensors: 10, NumClusters: 3},
		{EventID: 7, NumSensors: 1, NumClusters: 1},
	}
	require.NoError(t, store.Save(results, opts))

	entry, err := store.Get(24)
	require.NoError(t, err)
	assert.Equal(t, ClusterCountEntry{
		EventID:    24,
		NumSensors: 10,
		NumCluster: 3,
		Threshold:  150,
		Criterion:  "distance",
		Method:     "single",
	}, entry)

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(7), all[0].EventID)

	_, err = store.Get(99)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClusterStore_Upsert(t *testing.T) {
	store, err := OpenClusterStore(filepath.Join(t.TempDir(), "clusters.db"))
	require.NoError(t, err)
	defer store.Close()

	opts := DefaultClusterOptions()
	require.NoError(t, store.Save([]ClusterResult{{EventID: 1, NumSensors: 4, NumClusters: 4}}, opts))

	opts.Threshold = 1000
	require.NoError(t, store.Save([]ClusterResult{{EventID: 1, NumSensors: 4, NumClusters: 1}}, opts))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].NumCluster)
	assert.Equal(t, 1000.0, all[0].Threshold)
}
