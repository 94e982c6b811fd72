package pulses

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedEvents(n int) []Event {
	events := make([]Event, n)
	for i := range events {
		events[i] = Event{EventID: int64(1000 + i)}
	}
	return events
}

func TestProcessEvents_KeepsInputOrder(t *testing.T) {
	events := numberedEvents(57)
	results, err := ProcessEvents(context.Background(), events, 4, func(e Event) (int64, error) {
		return e.EventID * 2, nil
	})
	require.NoError(t, err)
	require.Len(t, results, len(events))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, events[i].EventID, r.EventID)
		assert.Equal(t, events[i].EventID*2, r.Value)
		assert.NoError(t, r.Err)
	}
}

// The same events give the same results whatever the number of workers.
func TestProcessEvents_WorkerCountIndependent(t *testing.T) {
	geometry := lineGeometry(t, 10, 50)
	events := make([]Event, 0)
	for i := 0; i < 20; i++ {
		e := Event{EventID: int64(i)}
		for id := int32(0); id < 10; id++ {
			if (int(id)+i)%3 != 0 {
				e.Pulses = append(e.Pulses, pulse(id, float64(i), 1, false))
			}
		}
		events = append(events, e)
	}
	count := func(e Event) (int, error) {
		r, err := CountClusters(e, geometry, DefaultClusterOptions())
		return r.NumClusters, err
	}

	serial, err := ProcessEvents(context.Background(), events, 1, count)
	require.NoError(t, err)
	parallel, err := ProcessEvents(context.Background(), events, 8, count)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestProcessEvents_ErrorsAndPanics(t *testing.T) {
	events := numberedEvents(6)
	boom := errors.New("boom")
	results, err := ProcessEvents(context.Background(), events, 3, func(e Event) (string, error) {
		switch e.EventID {
		case 1002:
			return "", boom
		case 1004:
			panic("corrupted event")
		}
		return "ok", nil
	})
	require.NoError(t, err)

	require.ErrorIs(t, results[2].Err, boom)
	require.Error(t, results[4].Err)
	assert.Contains(t, results[4].Err.Error(), "recovered from panic")

	values, failed := SplitResults(results)
	assert.Equal(t, []string{"ok", "ok", "ok", "ok"}, values)
	require.Len(t, failed, 2)
	assert.Equal(t, int64(1002), failed[0].EventID)
	assert.Equal(t, int64(1004), failed[1].EventID)
}

func TestProcessEvents_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ProcessEvents(ctx, numberedEvents(100), 2, func(e Event) (int, error) {
		return 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcessEvents_NoEvents(t *testing.T) {
	results, err := ProcessEvents(context.Background(), nil, 0, func(e Event) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}
