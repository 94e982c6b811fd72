package pulses

import (
	"fmt"

	"github.com/next-exp/pulses_go/pkg/hcluster"
	"gonum.org/v1/gonum/mat"
)

type ClusterOptions struct {
	IncludeAux bool
	Threshold  float64
	Method     hcluster.Method
	Criterion  hcluster.Criterion
	OnUnknown  LookupPolicy
}

// DefaultClusterOptions excludes auxiliary pulses and cuts single-linkage
// trees at 150 distance units.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{
		IncludeAux: false,
		Threshold:  150,
		Method:     hcluster.Single,
		Criterion:  hcluster.Distance,
		OnUnknown:  LookupAbort,
	}
}

type ClusterResult struct {
	EventID        int64
	NumSensors     int
	NumClusters    int
	SensorIDs      []int32
	Labels         []int
	SkippedSensors []int32
}

func parseMethod(s string) (hcluster.Method, error) {
	if s == "" {
		return hcluster.Single, nil
	}
	return hcluster.ParseMethod(s)
}

func parseCriterion(s string) (hcluster.Criterion, error) {
	if s == "" {
		return hcluster.Distance, nil
	}
	return hcluster.ParseCriterion(s)
}

// CountClusters counts the spatial clusters formed by the unique active
// sensors of an event.
func CountClusters(event Event, geometry *Geometry, opts ClusterOptions) (ClusterResult, error) {
	result := ClusterResult{EventID: event.EventID}

	ids := event.ActiveSensors(opts.IncludeAux)
	positions := make([]float64, 0, 3*len(ids))
	resolved := make([]int32, 0, len(ids))
	for _, id := range ids {
		pos, ok := geometry.Position(id)
		if !ok {
			if opts.OnUnknown == LookupSkip {
				result.SkippedSensors = append(result.SkippedSensors, id)
				continue
			}
			return result, &ErrUnknownSensor{EventID: event.EventID, SensorID: id}
		}
		positions = append(positions, pos.X, pos.Y, pos.Z)
		resolved = append(resolved, id)
	}
	if len(result.SkippedSensors) > 0 && configuration.Verbosity > 1 {
		message := fmt.Sprintf("Event %d: skipped %d unknown sensors", event.EventID, len(result.SkippedSensors))
		logger.Info(message, "clusters")
	}

	if len(resolved) == 0 {
		return result, fmt.Errorf("event %d: %w", event.EventID, ErrNoActiveSensors)
	}

	points := mat.NewDense(len(resolved), 3, positions)
	labels, err := hcluster.FClusterData(points, opts.Threshold,
		hcluster.WithMethod(opts.Method), hcluster.WithCriterion(opts.Criterion))
	if err != nil {
		return result, fmt.Errorf("event %d: clustering failed: %w", event.EventID, err)
	}

	result.NumSensors = len(resolved)
	result.SensorIDs = resolved
	result.Labels = labels
	result.NumClusters = hcluster.NumClusters(labels)

	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Event %d: %d sensors in %d clusters", event.EventID, result.NumSensors, result.NumClusters)
		logger.Info(message, "clusters")
	}
	return result, nil
}
