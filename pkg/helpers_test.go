package pulses

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// twoSensorGeometry is {S1:(0,0,0), S2:(10,0,0)}.
func twoSensorGeometry(t *testing.T) *Geometry {
	t.Helper()
	g, err := NewGeometry([]Sensor{
		{ID: 1, X: 0, Y: 0, Z: 0},
		{ID: 2, X: 10, Y: 0, Z: 0},
	})
	require.NoError(t, err)
	return g
}

// lineGeometry places n sensors with ids 0..n-1 on the x axis, step apart.
func lineGeometry(t *testing.T, n int, step float64) *Geometry {
	t.Helper()
	sensors := make([]Sensor, n)
	for i := range sensors {
		sensors[i] = Sensor{ID: int32(i), X: float64(i) * step, Y: -float64(i), Z: 2 * float64(i)}
	}
	g, err := NewGeometry(sensors)
	require.NoError(t, err)
	return g
}

func pulse(sensor int32, time float64, charge float64, aux bool) Pulse {
	return Pulse{SensorID: sensor, Time: time, Charge: charge, Auxiliary: aux}
}
