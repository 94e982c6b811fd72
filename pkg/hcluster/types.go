package hcluster

import (
	"fmt"
	"strings"
)

// Method selects the Lance–Williams update used when two clusters merge.
type Method int

const (
	// Single linkage: distance between the closest members.
	Single Method = iota
	// Complete linkage: distance between the farthest members.
	Complete
	// Average linkage (UPGMA): mean of all pairwise distances.
	Average
	// Weighted linkage (WPGMA): mean of the two merged clusters' distances.
	Weighted
	// Ward linkage: minimum increase of within-cluster variance.
	Ward
)

var methodNames = [...]string{"single", "complete", "average", "weighted", "ward"}

func (m Method) String() string {
	if m < Single || m > Ward {
		return "unknown"
	}
	return methodNames[m]
}

// ParseMethod maps a method name ("single", "complete", ...) to a Method.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, v := range methodNames {
		if v == name {
			return Method(i), nil
		}
	}
	return Single, fmt.Errorf("%q: %w", s, ErrUnknownMethod)
}

// Criterion selects how FCluster interprets its threshold.
type Criterion int

const (
	// Distance: observations in a flat cluster have cophenetic distance ≤ t.
	Distance Criterion = iota
	// MaxClust: cut so that at most int(t) flat clusters remain.
	MaxClust
)

var criterionNames = [...]string{"distance", "maxclust"}

func (c Criterion) String() string {
	if c < Distance || c > MaxClust {
		return "unknown"
	}
	return criterionNames[c]
}

// ParseCriterion maps a criterion name ("distance", "maxclust") to a Criterion.
func ParseCriterion(s string) (Criterion, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, v := range criterionNames {
		if v == name {
			return Criterion(i), nil
		}
	}
	return Distance, fmt.Errorf("%q: %w", s, ErrUnknownCriterion)
}

// Merge is one row of the linkage matrix.
//
// A and B are cluster ids: 0..n-1 are the original observations and n+k is
// the cluster created by the k-th merge. A < B always holds.
type Merge struct {
	A        int
	B        int
	Distance float64
	Size     int
}

// Linkage is a dendrogram over N observations: N−1 merges sorted by height.
type Linkage struct {
	N      int
	Merges []Merge

	// pairs[k] holds one observation from each side of Merges[k].
	pairs [][2]int
}

// Options configures FClusterData.
type Options struct {
	Method    Method
	Criterion Criterion
}

// Option modifies Options.
type Option func(*Options)

// WithMethod sets the linkage method.
func WithMethod(m Method) Option {
	return func(o *Options) {
		o.Method = m
	}
}

// WithCriterion sets the flat-cluster criterion.
func WithCriterion(c Criterion) Option {
	return func(o *Options) {
		o.Criterion = c
	}
}

// DefaultOptions returns Single linkage with the Distance criterion.
func DefaultOptions() Options {
	return Options{
		Method:    Single,
		Criterion: Distance,
	}
}
