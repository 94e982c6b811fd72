package pulses

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

type Position struct {
	X float64
	Y float64
	Z float64
}

type Sensor struct {
	ID int32   `db:"SensorID"`
	X  float64 `db:"X"`
	Y  float64 `db:"Y"`
	Z  float64 `db:"Z"`
}

func (s Sensor) Position() Position {
	return Position{X: s.X, Y: s.Y, Z: s.Z}
}

// Geometry is the static sensor table. Sensors are kept sorted by id and the
// index in that order is the sensor slot, used as the column index of the
// feature rows.
type Geometry struct {
	sensors []Sensor
	slots   map[int32]int
}

func NewGeometry(sensors []Sensor) (*Geometry, error) {
	if len(sensors) == 0 {
		return nil, ErrEmptyGeometry
	}
	sorted := make([]Sensor, len(sensors))
	copy(sorted, sensors)
	slices.SortFunc(sorted, func(a, b Sensor) int {
		return int(a.ID) - int(b.ID)
	})

	slots := make(map[int32]int, len(sorted))
	for i, s := range sorted {
		if _, ok := slots[s.ID]; ok {
			return nil, fmt.Errorf("sensor %d: %w", s.ID, ErrDuplicateSensor)
		}
		if !finite(s.X) || !finite(s.Y) || !finite(s.Z) {
			return nil, fmt.Errorf("sensor %d: %w", s.ID, ErrBadCoordinate)
		}
		slots[s.ID] = i
	}
	return &Geometry{sensors: sorted, slots: slots}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (g *Geometry) NumSensors() int {
	return len(g.sensors)
}

// Sensors returns the sensors in slot order. The slice must not be modified.
func (g *Geometry) Sensors() []Sensor {
	return g.sensors
}

func (g *Geometry) Slot(id int32) (int, bool) {
	slot, ok := g.slots[id]
	return slot, ok
}

func (g *Geometry) Position(id int32) (Position, bool) {
	slot, ok := g.slots[id]
	if !ok {
		return Position{}, false
	}
	return g.sensors[slot].Position(), true
}

// LookupPolicy decides what happens with pulses whose sensor is not in the
// geometry.
type LookupPolicy string

const (
	LookupAbort LookupPolicy = "abort"
	LookupSkip  LookupPolicy = "skip"
)

func ParseLookupPolicy(s string) (LookupPolicy, error) {
	switch LookupPolicy(strings.ToLower(s)) {
	case LookupAbort, "":
		return LookupAbort, nil
	case LookupSkip:
		return LookupSkip, nil
	}
	return LookupAbort, fmt.Errorf("invalid on_unknown_sensor policy: %q", s)
}

// LoadGeometryCSV reads a geometry table with a sensor_id,x,y,z header.
// Extra columns, like a dataframe index, are ignored.
func LoadGeometryCSV(filename string) (*Geometry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	geometry, err := ReadGeometryCSV(file)
	if err != nil {
		return nil, fmt.Errorf("error reading geometry %s: %w", filename, err)
	}
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Read %d sensors from %s", geometry.NumSensors(), filename)
		logger.Info(message, "geometry")
	}
	return geometry, nil
}

func ReadGeometryCSV(r io.Reader) (*Geometry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyGeometry
		}
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	columns := map[string]int{"sensor_id": -1, "x": -1, "y": -1, "z": -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := columns[name]; ok {
			columns[name] = i
		}
	}
	for name, index := range columns {
		if index < 0 {
			return nil, fmt.Errorf("missing column %q in geometry header", name)
		}
	}

	sensors := make([]Sensor, 0, 5160)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(record[columns["sensor_id"]]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid sensor_id: %w", line, err)
		}
		var coords [3]float64
		for i, name := range []string{"x", "y", "z"} {
			coords[i], err = strconv.ParseFloat(strings.TrimSpace(record[columns[name]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %w", line, name, err)
			}
		}
		sensors = append(sensors, Sensor{ID: int32(id), X: coords[0], Y: coords[1], Z: coords[2]})
	}
	return NewGeometry(sensors)
}
