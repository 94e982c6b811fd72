package pulses

import (
	"context"
	"fmt"
	"sync"

	"github.com/mdobak/go-xerrors"
)

type workerData struct {
	Index int
	Event Event
}

// EventResult is the output of the per-event function. Index is the position
// of the event in the input slice.
type EventResult[T any] struct {
	Index   int
	EventID int64
	Value   T
	Err     error
}

// ProcessEvents runs fn over every event on numWorkers goroutines and returns
// the results in input order. fn must not share mutable state across events.
// A panic in fn is recovered and reported as that event's error.
func ProcessEvents[T any](ctx context.Context, events []Event, numWorkers int,
	fn func(Event) (T, error)) ([]EventResult[T], error) {
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan workerData, numWorkers)
	results := make(chan EventResult[T], numWorkers)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 1; w <= numWorkers; w++ {
		go func(id int) {
			defer wg.Done()
			worker(ctx, id, jobs, results, fn)
		}(w)
	}
	go sendEventsToWorkers(ctx, events, jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]EventResult[T], len(events))
	evtsProcessed := 0
	for result := range results {
		collected[result.Index] = result
		evtsProcessed++
		if configuration.Verbosity > 1 && evtsProcessed%10 == 0 {
			message := fmt.Sprintf("Processed %d of %d events", evtsProcessed, len(events))
			logger.Info(message, "workers")
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return collected, nil
}

func worker[T any](ctx context.Context, id int, jobs <-chan workerData, results chan<- EventResult[T],
	fn func(Event) (T, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if configuration.Verbosity > 2 {
				message := fmt.Sprintf("Worker %d processing event %d", id, job.Event.EventID)
				logger.Info(message, "workers")
			}
			result := processJob(id, job, fn)
			select {
			case results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

func processJob[T any](id int, job workerData, fn func(Event) (T, error)) (result EventResult[T]) {
	result.Index = job.Index
	result.EventID = job.Event.EventID
	defer func() {
		if r := recover(); r != nil {
			message := fmt.Sprintf("worker %d recovered from panic on event %d: %v", id, job.Event.EventID, r)
			result.Err = xerrors.New(message)
			logger.Error(message)
		}
	}()
	result.Value, result.Err = fn(job.Event)
	return result
}

func sendEventsToWorkers(ctx context.Context, events []Event, jobs chan<- workerData) {
	defer close(jobs)
	for i, event := range events {
		select {
		case <-ctx.Done():
			return
		case jobs <- workerData{Index: i, Event: event}:
		}
	}
}

// SplitResults separates successful values from failed events.
func SplitResults[T any](results []EventResult[T]) ([]T, []EventResult[T]) {
	values := make([]T, 0, len(results))
	failed := make([]EventResult[T], 0)
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		values = append(values, r.Value)
	}
	return values, failed
}
