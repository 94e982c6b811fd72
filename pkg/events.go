package pulses

import "golang.org/x/exp/slices"

// Pulse is one sensor reading inside an event.
type Pulse struct {
	SensorID  int32
	Time      float64
	Charge    float64
	Auxiliary bool
}

// Event keeps its pulses in the order they appear in the input table. The
// first pulse of a sensor is defined by that order.
type Event struct {
	EventID int64
	Pulses  []Pulse
}

// ActivePulses returns the pulses used for analysis: all of them when
// includeAux is set, otherwise only the ones without the auxiliary flag.
func (e Event) ActivePulses(includeAux bool) []Pulse {
	if includeAux {
		return e.Pulses
	}
	active := make([]Pulse, 0, len(e.Pulses))
	for _, p := range e.Pulses {
		if !p.Auxiliary {
			active = append(active, p)
		}
	}
	return active
}

// ActiveSensors returns the sorted, unique sensor ids of the active pulses.
func (e Event) ActiveSensors(includeAux bool) []int32 {
	pulses := e.ActivePulses(includeAux)
	ids := make([]int32, len(pulses))
	for i, p := range pulses {
		ids[i] = p.SensorID
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// GroupEvents splits a flat pulse table into events. Events are returned in
// order of first appearance and pulses keep their row order.
func GroupEvents(rows []PulseRow) []Event {
	index := make(map[int64]int)
	events := make([]Event, 0)
	for _, row := range rows {
		i, ok := index[row.EventID]
		if !ok {
			i = len(events)
			index[row.EventID] = i
			events = append(events, Event{EventID: row.EventID})
		}
		events[i].Pulses = append(events[i].Pulses, row.Pulse())
	}
	return events
}

// SelectEvents skips the first skip events and keeps at most maxEvents of the rest.
// A maxEvents of zero keeps everything.
func SelectEvents(events []Event, skip int, maxEvents int) []Event {
	if skip >= len(events) {
		return nil
	}
	events = events[skip:]
	if maxEvents > 0 && maxEvents < len(events) {
		events = events[:maxEvents]
	}
	return events
}

// FindEvent returns the event with the given id.
func FindEvent(events []Event, eventID int64) (Event, bool) {
	for _, e := range events {
		if e.EventID == eventID {
			return e, true
		}
	}
	return Event{}, false
}
