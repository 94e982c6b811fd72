package pulses

import (
	"path/filepath"
	"testing"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Features(t *testing.T) {
	geometry := twoSensorGeometry(t)
	path := filepath.Join(t.TempDir(), "features.h5")

	writer, err := NewWriter(path, geometry, 4)
	require.NoError(t, err)

	events := []Event{
		{EventID: 24, Pulses: []Pulse{pulse(1, 100, 2, false), pulse(2, 120, 3, false)}},
		{EventID: 41, Pulses: []Pulse{pulse(2, 80, 1, false)}},
	}
	expected := make([]float64, 0)
	for _, e := range events {
		row, err := Vectorize(e, geometry, DefaultFeatureOptions())
		require.NoError(t, err)
		require.NoError(t, writer.WriteFeatures(row))
		expected = append(expected, row.Values...)
	}
	require.NoError(t, writer.WriteClusters(ClusterResult{EventID: 24, NumSensors: 2, NumClusters: 1}))
	assert.Equal(t, 2, writer.EvtCounter)
	assert.Equal(t, 1, writer.ClusterCounter)
	require.NoError(t, writer.Close())

	file, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	require.NoError(t, err)
	defer file.Close()

	dset, err := file.OpenDataset("/Features/features")
	require.NoError(t, err)
	defer dset.Close()

	space := dset.Space()
	dims, _, err := space.SimpleExtentDims()
	space.Close()
	require.NoError(t, err)
	assert.Equal(t, []uint{2, uint(RowWidth(2))}, dims)

	values := make([]float64, len(expected))
	require.NoError(t, dset.Read(&values))
	assert.Equal(t, expected, values)
}

func TestNewWriter_BadPath(t *testing.T) {
	geometry := twoSensorGeometry(t)
	_, err := NewWriter(filepath.Join(t.TempDir(), "missing", "out.h5"), geometry, 0)
	var openErr *ErrOpenFile
	require.ErrorAs(t, err, &openErr)
}
