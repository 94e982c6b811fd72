package pulses

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Writer stores feature rows and cluster counts in an HDF5 file:
//
//	/Sensors/DataSensor   slot -> sensor id and position
//	/Features/events      event number of each feature row
//	/Features/features    [events x (4*sensors+2)] float64
//	/Clusters/counts      event number, active sensors, clusters
type Writer struct {
	File           *hdf5.File
	Filename       string
	SensorsGroup   *hdf5.Group
	FeaturesGroup  *hdf5.Group
	ClustersGroup  *hdf5.Group
	SensorTable    *hdf5.Dataset
	EventTable     *hdf5.Dataset
	FeatureArray   *hdf5.Dataset
	ClusterTable   *hdf5.Dataset
	NumColumns     int
	EvtCounter     int
	ClusterCounter int
}

func NewWriter(filename string, geometry *Geometry, compressionLevel int) (*Writer, error) {
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Creating file: %s", filename), "writer")
	}

	var err error
	writer := &Writer{Filename: filename, NumColumns: RowWidth(geometry.NumSensors())}
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, err
	}

	steps := []func() error{
		func() (err error) {
			writer.SensorsGroup, err = createGroup(writer.File, "Sensors")
			return err
		},
		func() (err error) {
			writer.FeaturesGroup, err = createGroup(writer.File, "Features")
			return err
		},
		func() (err error) {
			writer.ClustersGroup, err = createGroup(writer.File, "Clusters")
			return err
		},
		func() (err error) {
			writer.SensorTable, err = createTable(writer.SensorsGroup, "DataSensor", SensorHDF5{}, compressionLevel)
			return err
		},
		func() (err error) {
			writer.EventTable, err = createTable(writer.FeaturesGroup, "events", EventDataHDF5{}, compressionLevel)
			return err
		},
		func() (err error) {
			writer.FeatureArray, err = create2dArray(writer.FeaturesGroup, "features", writer.NumColumns, compressionLevel)
			return err
		},
		func() (err error) {
			writer.ClusterTable, err = createTable(writer.ClustersGroup, "counts", ClusterCountHDF5{}, compressionLevel)
			return err
		},
		func() error {
			sensors := sensorsToHDF5(geometry)
			return writeArrayToTable(writer.SensorTable, &sensors, 0)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			writer.Close()
			return nil, err
		}
	}
	return writer, nil
}

func sensorsToHDF5(geometry *Geometry) []SensorHDF5 {
	// The array MUST be allocated at creation, if not, HDF5 will panic
	// doing appends will not work
	sensors := make([]SensorHDF5, geometry.NumSensors())
	for slot, s := range geometry.Sensors() {
		sensors[slot] = SensorHDF5{
			slot:     int32(slot),
			sensorID: s.ID,
			x:        s.X,
			y:        s.Y,
			z:        s.Z,
		}
	}
	return sensors
}

func (w *Writer) WriteFeatures(row FeatureRow) error {
	if err := writeEntryToTable(w.EventTable, EventDataHDF5{evt_number: row.EventID}, w.EvtCounter); err != nil {
		return fmt.Errorf("error writing event %d: %w", row.EventID, err)
	}
	values := row.Values
	if err := write2dArray(w.FeatureArray, &values, w.EvtCounter, w.NumColumns); err != nil {
		return fmt.Errorf("error writing features of event %d: %w", row.EventID, err)
	}
	w.EvtCounter++
	return nil
}

func (w *Writer) WriteClusters(result ClusterResult) error {
	entry := ClusterCountHDF5{
		evt_number: result.EventID,
		nsensors:   int32(result.NumSensors),
		nclusters:  int32(result.NumClusters),
	}
	if err := writeEntryToTable(w.ClusterTable, entry, w.ClusterCounter); err != nil {
		return fmt.Errorf("error writing clusters of event %d: %w", result.EventID, err)
	}
	w.ClusterCounter++
	return nil
}

func (w *Writer) Close() error {
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Closing file hdf writer %s", w.Filename), "writer")
	}
	var errs []error

	datasets := []struct {
		name string
		dset *hdf5.Dataset
	}{
		{"sensor table", w.SensorTable},
		{"event table", w.EventTable},
		{"feature array", w.FeatureArray},
		{"cluster table", w.ClusterTable},
	}
	for _, d := range datasets {
		if d.dset == nil {
			continue
		}
		if err := d.dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", d.name, err))
		}
	}

	groups := []struct {
		name  string
		group *hdf5.Group
	}{
		{"sensors group", w.SensorsGroup},
		{"features group", w.FeaturesGroup},
		{"clusters group", w.ClustersGroup},
	}
	for _, g := range groups {
		if g.group == nil {
			continue
		}
		if err := g.group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", g.name, err))
		}
	}

	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
