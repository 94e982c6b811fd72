package pulses

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// PulseRow is one row of the on-disk pulse table. The event id is the index
// of the original dataframe and is stored as a regular column. Sensor ids are
// stored with the INT(16) logical type of the pandas files.
type PulseRow struct {
	EventID   int64   `parquet:"event_id"`
	SensorID  int32   `parquet:"sensor_id,int(16)"`
	Time      int64   `parquet:"time"`
	Charge    float64 `parquet:"charge"`
	Auxiliary bool    `parquet:"auxiliary"`
}

func (r PulseRow) Pulse() Pulse {
	return Pulse{
		SensorID:  r.SensorID,
		Time:      float64(r.Time),
		Charge:    r.Charge,
		Auxiliary: r.Auxiliary,
	}
}

// ReadPulsesParquet loads the whole pulse table in memory and groups it into
// events.
func ReadPulsesParquet(filename string) ([]Event, error) {
	rows, err := parquet.ReadFile[PulseRow](filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	events := GroupEvents(rows)
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Read %d pulses in %d events from %s", len(rows), len(events), filename)
		logger.Info(message, "parquet")
	}
	return events, nil
}

// WritePulsesParquet stores events back in the pulse table layout, one row per
// pulse, events one after the other. The time column holds integer ticks:
// fractional pulse times are truncated toward zero.
func WritePulsesParquet(filename string, events []Event) error {
	rows := make([]PulseRow, 0)
	for _, e := range events {
		for _, p := range e.Pulses {
			rows = append(rows, PulseRow{
				EventID:   e.EventID,
				SensorID:  p.SensorID,
				Time:      int64(p.Time),
				Charge:    p.Charge,
				Auxiliary: p.Auxiliary,
			})
		}
	}
	if err := parquet.WriteFile(filename, rows); err != nil {
		return fmt.Errorf("error writing parquet file %s: %w", filename, err)
	}
	return nil
}
