package pulses

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeometry_SlotsFollowSortedIDs(t *testing.T) {
	g, err := NewGeometry([]Sensor{
		{ID: 30, X: 3},
		{ID: 10, X: 1},
		{ID: 20, X: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumSensors())

	for id, want := range map[int32]int{10: 0, 20: 1, 30: 2} {
		slot, ok := g.Slot(id)
		require.True(t, ok)
		assert.Equal(t, want, slot)
	}
	pos, ok := g.Position(20)
	require.True(t, ok)
	assert.Equal(t, Position{X: 2}, pos)

	_, ok = g.Position(99)
	assert.False(t, ok)
	_, ok = g.Slot(99)
	assert.False(t, ok)
}

func TestNewGeometry_Errors(t *testing.T) {
	_, err := NewGeometry(nil)
	require.ErrorIs(t, err, ErrEmptyGeometry)

	_, err = NewGeometry([]Sensor{{ID: 1}, {ID: 1}})
	require.ErrorIs(t, err, ErrDuplicateSensor)

	_, err = NewGeometry([]Sensor{{ID: 1, Z: math.NaN()}})
	require.ErrorIs(t, err, ErrBadCoordinate)
}

func TestNewGeometry_DoesNotAliasInput(t *testing.T) {
	sensors := []Sensor{{ID: 2, X: 2}, {ID: 1, X: 1}}
	g, err := NewGeometry(sensors)
	require.NoError(t, err)
	sensors[0].X = 100

	pos, _ := g.Position(2)
	assert.Equal(t, 2.0, pos.X)
}

func TestReadGeometryCSV(t *testing.T) {
	// Header as written by a dataframe with its index: extra leading column.
	input := `,sensor_id,x,y,z
0,0,-256.14,-521.08,496.03
1,1,-256.14,-521.08,479.01
2,2,-256.14,-521.08,461.99
`
	g, err := ReadGeometryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 3, g.NumSensors())

	pos, ok := g.Position(2)
	require.True(t, ok)
	assert.Equal(t, Position{X: -256.14, Y: -521.08, Z: 461.99}, pos)
}

func TestReadGeometryCSV_ColumnOrderFromHeader(t *testing.T) {
	input := "z,y,x,sensor_id\n3,2,1,7\n"
	g, err := ReadGeometryCSV(strings.NewReader(input))
	require.NoError(t, err)
	pos, ok := g.Position(7)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 2, Z: 3}, pos)
}

func TestReadGeometryCSV_Errors(t *testing.T) {
	cases := map[string]string{
		"missing column": "sensor_id,x,y\n0,1,2\n",
		"bad id":         "sensor_id,x,y,z\nfoo,1,2,3\n",
		"bad coordinate": "sensor_id,x,y,z\n0,1,bar,3\n",
		"short row":      "sensor_id,x,y,z\n0,1,2\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadGeometryCSV(strings.NewReader(input))
			require.Error(t, err)
		})
	}

	_, err := ReadGeometryCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyGeometry)

	_, err = ReadGeometryCSV(strings.NewReader("sensor_id,x,y,z\n"))
	require.ErrorIs(t, err, ErrEmptyGeometry)
}

func TestLoadGeometryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor_geometry.csv")
	require.NoError(t, os.WriteFile(path, []byte("sensor_id,x,y,z\n0,1,2,3\n1,4,5,6\n"), 0o644))

	g, err := LoadGeometryCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumSensors())

	_, err = LoadGeometryCSV(filepath.Join(t.TempDir(), "missing.csv"))
	var openErr *ErrOpenFile
	require.ErrorAs(t, err, &openErr)
}

func TestParseLookupPolicy(t *testing.T) {
	p, err := ParseLookupPolicy("SKIP")
	require.NoError(t, err)
	assert.Equal(t, LookupSkip, p)

	p, err = ParseLookupPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LookupAbort, p)

	_, err = ParseLookupPolicy("ignore")
	require.Error(t, err)
}
