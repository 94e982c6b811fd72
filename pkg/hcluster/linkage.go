package hcluster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// rawMerge is a merge as produced by the chain, before sorting. X and Y are
// the matrix slots of the two clusters; the merged cluster lives in slot Y.
type rawMerge struct {
	x, y int
	d    float64
}

// Link runs agglomerative clustering on the rows of points.
//
// Error Conditions:
//   - ErrEmptyInput    : points is nil or has no rows.
//   - ErrNaNInf        : a coordinate is NaN or ±Inf.
//   - ErrUnknownMethod : method is outside the Method enum.
//
// Steps:
//  1. Validate input and fill the symmetric Euclidean distance matrix.
//  2. Grow a nearest-neighbour chain from the first active slot until its
//     last two elements are reciprocal nearest neighbours; merge them.
//  3. Update distances from the merged cluster with Lance–Williams and
//     deactivate one of the two slots. Repeat n−1 times.
//  4. Stable-sort merges by height and relabel them with dendrogram ids.
//
// Complexity: O(n²·d) time for distances, O(n²) for the chain. Memory: O(n²).
func Link(points *mat.Dense, method Method) (*Linkage, error) {
	if points == nil || points.IsEmpty() {
		return nil, ErrEmptyInput
	}
	if method < Single || method > Ward {
		return nil, ErrUnknownMethod
	}
	n, _ := points.Dims()
	for i := 0; i < n; i++ {
		for _, v := range points.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, ErrNaNInf
			}
		}
	}
	if n == 1 {
		return &Linkage{N: 1}, nil
	}

	// 1. Pairwise distances.
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		ri := points.RawRowView(i)
		for j := i + 1; j < n; j++ {
			dist.SetSym(i, j, floats.Distance(ri, points.RawRowView(j), 2))
		}
	}

	size := make([]int, n)
	active := make([]bool, n)
	for i := range size {
		size[i] = 1
		active[i] = true
	}

	raw := make([]rawMerge, 0, n-1)
	chain := make([]int, 0, n)

	for k := 0; k < n-1; k++ {
		// 2. Start a new chain from the first active slot when empty.
		if len(chain) == 0 {
			for i := 0; i < n; i++ {
				if active[i] {
					chain = append(chain, i)
					break
				}
			}
		}

		var x, y int
		var current float64
		for {
			x = chain[len(chain)-1]
			y = -1
			current = math.Inf(1)
			if len(chain) > 1 {
				// Prefer the previous element on ties so the chain terminates.
				y = chain[len(chain)-2]
				current = dist.At(x, y)
			}
			for i := 0; i < n; i++ {
				if !active[i] || i == x {
					continue
				}
				if d := dist.At(x, i); y < 0 || d < current {
					current = d
					y = i
				}
			}
			if len(chain) > 1 && y == chain[len(chain)-2] {
				break
			}
			chain = append(chain, y)
		}
		chain = chain[:len(chain)-2]

		// 3. Merge: keep the cluster in the higher slot.
		if x > y {
			x, y = y, x
		}
		raw = append(raw, rawMerge{x: x, y: y, d: current})

		nx, ny := size[x], size[y]
		for i := 0; i < n; i++ {
			if !active[i] || i == x || i == y {
				continue
			}
			d := lanceWilliams(method, dist.At(i, x), dist.At(i, y), current, nx, ny, size[i])
			dist.SetSym(i, y, d)
		}
		size[y] = nx + ny
		active[x] = false
	}

	// 4. Sort by height and assign dendrogram ids.
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].d < raw[j].d
	})
	return label(n, raw), nil
}

// lanceWilliams returns the distance between cluster i and the union of
// clusters x and y.
func lanceWilliams(method Method, dix, diy, dxy float64, nx, ny, ni int) float64 {
	switch method {
	case Complete:
		return math.Max(dix, diy)
	case Average:
		fx, fy := float64(nx), float64(ny)
		return (fx*dix + fy*diy) / (fx + fy)
	case Weighted:
		return (dix + diy) / 2
	case Ward:
		fx, fy, fi := float64(nx), float64(ny), float64(ni)
		v := ((fi+fx)*dix*dix + (fi+fy)*diy*diy - fi*dxy*dxy) / (fx + fy + fi)
		return math.Sqrt(math.Max(v, 0))
	default:
		return math.Min(dix, diy)
	}
}

// label converts sorted slot merges into linkage rows with dendrogram ids.
func label(n int, raw []rawMerge) *Linkage {
	uf := newUnionFind(n)
	ids := make([]int, n)
	sizes := make([]int, n)
	for i := range ids {
		ids[i] = i
		sizes[i] = 1
	}

	link := &Linkage{
		N:      n,
		Merges: make([]Merge, len(raw)),
		pairs:  make([][2]int, len(raw)),
	}
	for k, m := range raw {
		ra, rb := uf.find(m.x), uf.find(m.y)
		a, b := ids[ra], ids[rb]
		if a > b {
			a, b = b, a
		}
		root := uf.union(ra, rb)
		ids[root] = n + k
		sizes[root] = sizes[ra] + sizes[rb]

		link.Merges[k] = Merge{A: a, B: b, Distance: m.d, Size: sizes[root]}
		link.pairs[k] = [2]int{m.x, m.y}
	}
	return link
}
