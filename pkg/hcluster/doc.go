// Package hcluster implements agglomerative (hierarchical) clustering of
// points in Euclidean space and the extraction of flat clusters from the
// resulting dendrogram.
//
// Building a linkage
//
//   - Link(points, method) takes an n×d matrix, one observation per row, and
//     returns the n−1 merges of the dendrogram sorted by merge height.
//
//   - Strategy: nearest-neighbour chain over a dense symmetric distance matrix
//     with Lance–Williams updates. Every supported method is reducible, so the
//     chain produces the same dendrogram as the naive O(n³) algorithm.
//
//   - Complexity: O(n²·d) to fill the distance matrix, O(n²) for the chain.
//     Memory: O(n²) for the symmetric matrix.
//
//   - Methods: Single (default), Complete, Average, Weighted, Ward.
//
// Flat clusters
//
//   - (*Linkage).FCluster(t, Distance) keeps every merge whose height is ≤ t,
//     so two observations share a label when their cophenetic distance is at
//     most t. With Single linkage this is exactly the set of connected
//     components of the graph joining points closer than t.
//
//   - (*Linkage).FCluster(t, MaxClust) cuts the tree at the lowest height that
//     leaves at most int(t) clusters.
//
//   - Labels are 1..k, numbered in order of first appearance by observation
//     index. Only the partition is meaningful, not the numbering.
//
// # Errors
//
// All failures are reported with the sentinels in errors.go; use errors.Is.
// Empty input is an error, never an empty result: a caller asking how many
// clusters an empty set has made a mistake upstream.
package hcluster
