package pulses

import (
	"fmt"
	"math"
	"strconv"
)

// MissingFeature is the value of every feature of a sensor that was not hit
// in the event.
const MissingFeature = 0.0

// Azimuth and zenith are not reconstructed; rows carry these fixed values.
const (
	PlaceholderAzimuth = math.Pi
	PlaceholderZenith  = math.Pi / 2
)

type FeatureOptions struct {
	OnUnknown LookupPolicy
	Azimuth   float64
	Zenith    float64
}

func DefaultFeatureOptions() FeatureOptions {
	return FeatureOptions{
		OnUnknown: LookupAbort,
		Azimuth:   PlaceholderAzimuth,
		Zenith:    PlaceholderZenith,
	}
}

// FeatureRow is the fixed-width vector of one event. Values is laid out as
// x of every slot, then y, then z, then time, then azimuth and zenith.
type FeatureRow struct {
	EventID       int64
	Values        []float64
	SkippedPulses int
}

func RowWidth(nSensors int) int {
	return 4*nSensors + 2
}

func (r FeatureRow) numSensors() int {
	return (len(r.Values) - 2) / 4
}

func (r FeatureRow) X(slot int) float64    { return r.Values[slot] }
func (r FeatureRow) Y(slot int) float64    { return r.Values[r.numSensors()+slot] }
func (r FeatureRow) Z(slot int) float64    { return r.Values[2*r.numSensors()+slot] }
func (r FeatureRow) Time(slot int) float64 { return r.Values[3*r.numSensors()+slot] }
func (r FeatureRow) Azimuth() float64      { return r.Values[len(r.Values)-2] }
func (r FeatureRow) Zenith() float64       { return r.Values[len(r.Values)-1] }

// Vectorize builds the feature row of one event. Auxiliary pulses are
// dropped, charge is summed per sensor and each sensor position is weighted
// by that sum. The time feature is the time of the sensor's first pulse.
func Vectorize(event Event, geometry *Geometry, opts FeatureOptions) (FeatureRow, error) {
	n := geometry.NumSensors()
	row := FeatureRow{
		EventID: event.EventID,
		Values:  make([]float64, RowWidth(n)),
	}

	charges := make(map[int]float64)
	firstTimes := make(map[int]float64)
	for _, p := range event.ActivePulses(false) {
		slot, ok := geometry.Slot(p.SensorID)
		if !ok {
			if opts.OnUnknown == LookupSkip {
				row.SkippedPulses++
				continue
			}
			return row, &ErrUnknownSensor{EventID: event.EventID, SensorID: p.SensorID}
		}
		charges[slot] += p.Charge
		if _, seen := firstTimes[slot]; !seen {
			firstTimes[slot] = p.Time
		}
	}

	sensors := geometry.Sensors()
	for slot, charge := range charges {
		s := sensors[slot]
		row.Values[slot] = s.X * charge
		row.Values[n+slot] = s.Y * charge
		row.Values[2*n+slot] = s.Z * charge
		row.Values[3*n+slot] = firstTimes[slot]
	}
	row.Values[4*n] = opts.Azimuth
	row.Values[4*n+1] = opts.Zenith

	if row.SkippedPulses > 0 && configuration.Verbosity > 1 {
		message := fmt.Sprintf("Event %d: skipped %d pulses from unknown sensors", event.EventID, row.SkippedPulses)
		logger.Info(message, "features")
	}
	return row, nil
}

// ColumnNames returns one name per feature column: <id>x, <id>y, <id>z,
// time_<id>, az, ze.
func ColumnNames(geometry *Geometry) []string {
	n := geometry.NumSensors()
	names := make([]string, RowWidth(n))
	for slot, s := range geometry.Sensors() {
		id := strconv.Itoa(int(s.ID))
		names[slot] = id + "x"
		names[n+slot] = id + "y"
		names[2*n+slot] = id + "z"
		names[3*n+slot] = "time_" + id
	}
	names[4*n] = "az"
	names[4*n+1] = "ze"
	return names
}

// FeatureTable collects rows produced independently for each event.
type FeatureTable struct {
	Columns []string
	Rows    []FeatureRow
}

func NewFeatureTable(geometry *Geometry) *FeatureTable {
	return &FeatureTable{Columns: ColumnNames(geometry)}
}

func (t *FeatureTable) Append(row FeatureRow) error {
	if len(row.Values) != len(t.Columns) {
		return fmt.Errorf("event %d: row has %d values, table has %d columns", row.EventID, len(row.Values), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// NonZero returns the columns of a row that differ from MissingFeature.
func (t *FeatureTable) NonZero(i int) map[string]float64 {
	values := make(map[string]float64)
	for j, v := range t.Rows[i].Values {
		if v != MissingFeature {
			values[t.Columns[j]] = v
		}
	}
	return values
}
