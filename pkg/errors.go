package pulses

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveSensors is returned when an event has nothing left to
	// cluster once auxiliary pulses and unknown sensors are dropped.
	ErrNoActiveSensors = errors.New("event has no active sensors")
	ErrEmptyGeometry   = errors.New("geometry has no sensors")
	ErrDuplicateSensor = errors.New("duplicate sensor id in geometry")
	ErrBadCoordinate   = errors.New("sensor coordinate is NaN or Inf")
)

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error {
	return e.Err
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error {
	return e.Err
}

// ErrUnknownSensor is a pulse referencing a sensor id absent from the geometry.
type ErrUnknownSensor struct {
	EventID  int64
	SensorID int32
}

func (e *ErrUnknownSensor) Error() string {
	return fmt.Sprintf("event %d: sensor %d not found in geometry", e.EventID, e.SensorID)
}
