package pulses

import (
	"fmt"
)

// LoadGeometry reads the sensor table from the run database when
// GeometryFromDB is set, from the geometry CSV file otherwise.
func LoadGeometry(config Configuration) (*Geometry, error) {
	if !config.GeometryFromDB {
		return LoadGeometryCSV(config.FileGeometry)
	}

	dbConn, err := ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	defer dbConn.Close()

	geometry, err := GetGeometryFromDB(dbConn)
	if err != nil {
		return nil, fmt.Errorf("error getting sensor geometry from database: %w", err)
	}
	return geometry, nil
}

// LoadEvents reads the pulse table and applies the skip/max_events sample.
func LoadEvents(config Configuration) ([]Event, error) {
	events, err := ReadPulsesParquet(config.FilePulses)
	if err != nil {
		return nil, err
	}
	selected := SelectEvents(events, config.Skip, config.MaxEvents)
	if config.Verbosity > 0 {
		message := fmt.Sprintf("Selected %d of %d events", len(selected), len(events))
		logger.Info(message, "inputs")
	}
	return selected, nil
}
