package hcluster

import "errors"

var (
	// ErrEmptyInput is returned when there are no observations to cluster.
	ErrEmptyInput = errors.New("hcluster: no observations")

	// ErrNaNInf is returned when an observation has a NaN or ±Inf coordinate.
	ErrNaNInf = errors.New("hcluster: NaN or Inf coordinate")

	// ErrUnknownMethod is returned for a linkage method outside the enum.
	ErrUnknownMethod = errors.New("hcluster: unknown linkage method")

	// ErrUnknownCriterion is returned for a flat-cluster criterion outside the enum.
	ErrUnknownCriterion = errors.New("hcluster: unknown criterion")

	// ErrBadThreshold is returned for a negative or NaN distance threshold, or
	// a cluster count below one.
	ErrBadThreshold = errors.New("hcluster: invalid threshold")
)
