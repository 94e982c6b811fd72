package pulses

import (
	"testing"

	"github.com/next-exp/pulses_go/pkg/hcluster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountClusters_Threshold(t *testing.T) {
	geometry := twoSensorGeometry(t)
	event := Event{EventID: 1, Pulses: []Pulse{pulse(1, 0, 1, false), pulse(2, 5, 1, false)}}

	opts := DefaultClusterOptions()
	opts.Threshold = 5
	result, err := CountClusters(event, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NumClusters)
	assert.Equal(t, 2, result.NumSensors)
	assert.Equal(t, []int32{1, 2}, result.SensorIDs)

	opts.Threshold = 20
	result, err = CountClusters(event, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumClusters)
}

// Sensors exactly at the threshold distance are joined.
func TestCountClusters_ThresholdInclusive(t *testing.T) {
	geometry := twoSensorGeometry(t)
	event := Event{EventID: 1, Pulses: []Pulse{pulse(1, 0, 1, false), pulse(2, 5, 1, false)}}

	opts := DefaultClusterOptions()
	opts.Threshold = 10
	result, err := CountClusters(event, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumClusters)
}

func TestCountClusters_SingleSensor(t *testing.T) {
	geometry := lineGeometry(t, 5, 100)
	event := Event{EventID: 3, Pulses: []Pulse{pulse(2, 0, 1, false), pulse(2, 7, 4, false)}}

	result, err := CountClusters(event, geometry, DefaultClusterOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumClusters)
	assert.Equal(t, 1, result.NumSensors)
}

func TestCountClusters_Bounds(t *testing.T) {
	geometry := lineGeometry(t, 6, 100)
	pulses := make([]Pulse, 0)
	for id := int32(0); id < 6; id++ {
		pulses = append(pulses, pulse(id, 0, 1, false))
	}
	event := Event{EventID: 9, Pulses: pulses}

	opts := DefaultClusterOptions()
	opts.Threshold = 1
	result, err := CountClusters(event, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, 6, result.NumClusters)

	opts.Threshold = 1e6
	result, err = CountClusters(event, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumClusters)

	for _, threshold := range []float64{0, 50, 120, 250, 400} {
		opts.Threshold = threshold
		result, err = CountClusters(event, geometry, opts)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.NumClusters, 1)
		assert.LessOrEqual(t, result.NumClusters, result.NumSensors)
	}
}

func TestCountClusters_AuxiliaryPulses(t *testing.T) {
	geometry := twoSensorGeometry(t)
	event := Event{EventID: 4, Pulses: []Pulse{pulse(1, 0, 1, false), pulse(2, 5, 1, true)}}
	opts := DefaultClusterOptions()
	opts.Threshold = 5

	result, err := CountClusters(event, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumSensors)
	assert.Equal(t, 1, result.NumClusters)

	opts.IncludeAux = true
	result, err = CountClusters(event, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NumSensors)
	assert.Equal(t, 2, result.NumClusters)
}

func TestCountClusters_NoActiveSensors(t *testing.T) {
	geometry := twoSensorGeometry(t)

	_, err := CountClusters(Event{EventID: 5}, geometry, DefaultClusterOptions())
	require.ErrorIs(t, err, ErrNoActiveSensors)

	onlyAux := Event{EventID: 6, Pulses: []Pulse{pulse(1, 0, 1, true)}}
	_, err = CountClusters(onlyAux, geometry, DefaultClusterOptions())
	require.ErrorIs(t, err, ErrNoActiveSensors)
}

func TestCountClusters_UnknownSensor(t *testing.T) {
	geometry := twoSensorGeometry(t)
	event := Event{EventID: 8, Pulses: []Pulse{pulse(1, 0, 1, false), pulse(42, 0, 1, false)}}

	_, err := CountClusters(event, geometry, DefaultClusterOptions())
	var unknown *ErrUnknownSensor
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int32(42), unknown.SensorID)
	assert.Equal(t, int64(8), unknown.EventID)

	opts := DefaultClusterOptions()
	opts.OnUnknown = LookupSkip
	result, err := CountClusters(event, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, []int32{42}, result.SkippedSensors)
	assert.Equal(t, 1, result.NumClusters)

	onlyUnknown := Event{EventID: 9, Pulses: []Pulse{pulse(42, 0, 1, false)}}
	_, err = CountClusters(onlyUnknown, geometry, opts)
	require.ErrorIs(t, err, ErrNoActiveSensors)
}

func TestCountClusters_MaxClust(t *testing.T) {
	geometry, err := NewGeometry([]Sensor{{ID: 0, X: 0}, {ID: 1, X: 1}, {ID: 2, X: 10}, {ID: 3, X: 11}})
	require.NoError(t, err)
	pulses := []Pulse{pulse(0, 0, 1, false), pulse(1, 0, 1, false), pulse(2, 0, 1, false), pulse(3, 0, 1, false)}

	opts := DefaultClusterOptions()
	opts.Criterion = hcluster.MaxClust
	opts.Threshold = 2
	result, err := CountClusters(Event{EventID: 1, Pulses: pulses}, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NumClusters)
	assert.Equal(t, []int{1, 1, 2, 2}, result.Labels)
}

// Cluster counts do not depend on the order pulses appear in.
func TestCountClusters_PulseOrder(t *testing.T) {
	geometry := lineGeometry(t, 8, 60)
	pulses := make([]Pulse, 0)
	for _, id := range []int32{7, 0, 3, 1, 6, 2} {
		pulses = append(pulses, pulse(id, 0, 1, false))
	}
	reversed := make([]Pulse, len(pulses))
	for i, p := range pulses {
		reversed[len(pulses)-1-i] = p
	}

	opts := DefaultClusterOptions()
	opts.Threshold = 100
	a, err := CountClusters(Event{EventID: 1, Pulses: pulses}, geometry, opts)
	require.NoError(t, err)
	b, err := CountClusters(Event{EventID: 1, Pulses: reversed}, geometry, opts)
	require.NoError(t, err)
	assert.Equal(t, a.NumClusters, b.NumClusters)
	assert.Equal(t, a.Labels, b.Labels)
}
