package hcluster

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FCluster cuts the dendrogram into flat clusters and returns one label per
// observation, numbered 1..k in order of first appearance.
//
// Error Conditions:
//   - ErrBadThreshold     : Distance with t < 0 or NaN; MaxClust with int(t) < 1.
//   - ErrUnknownCriterion : criterion outside the Criterion enum.
func (l *Linkage) FCluster(t float64, criterion Criterion) ([]int, error) {
	if l == nil || l.N == 0 {
		return nil, ErrEmptyInput
	}
	if math.IsNaN(t) {
		return nil, ErrBadThreshold
	}

	var cut float64
	switch criterion {
	case Distance:
		if t < 0 {
			return nil, ErrBadThreshold
		}
		cut = t
	case MaxClust:
		k := int(t)
		if k < 1 {
			return nil, ErrBadThreshold
		}
		if k >= l.N {
			cut = math.Inf(-1)
		} else {
			// Lowest height leaving at most k clusters: the (N−k)-th merge.
			cut = l.Merges[l.N-k-1].Distance
		}
	default:
		return nil, ErrUnknownCriterion
	}

	uf := newUnionFind(l.N)
	for k, m := range l.Merges {
		if m.Distance > cut {
			break
		}
		uf.union(l.pairs[k][0], l.pairs[k][1])
	}

	labels := make([]int, l.N)
	byRoot := make(map[int]int)
	for i := range labels {
		root := uf.find(i)
		id, ok := byRoot[root]
		if !ok {
			id = len(byRoot) + 1
			byRoot[root] = id
		}
		labels[i] = id
	}
	return labels, nil
}

// FClusterData links the rows of points and cuts the tree at t in one call.
// Defaults: Single linkage, Distance criterion.
func FClusterData(points *mat.Dense, t float64, opts ...Option) ([]int, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	link, err := Link(points, o.Method)
	if err != nil {
		return nil, err
	}
	return link.FCluster(t, o.Criterion)
}

// NumClusters counts the distinct labels.
func NumClusters(labels []int) int {
	seen := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
