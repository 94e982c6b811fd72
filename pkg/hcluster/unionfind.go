package hcluster

// unionFind is a disjoint-set over 0..n-1 with path halving and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(u int) int {
	for uf.parent[u] != u {
		uf.parent[u] = uf.parent[uf.parent[u]]
		u = uf.parent[u]
	}
	return u
}

// union merges the sets of u and v and returns the new root.
func (uf *unionFind) union(u, v int) int {
	ru, rv := uf.find(u), uf.find(v)
	if ru == rv {
		return ru
	}
	if uf.rank[ru] < uf.rank[rv] {
		ru, rv = rv, ru
	}
	uf.parent[rv] = ru
	if uf.rank[ru] == uf.rank[rv] {
		uf.rank[ru]++
	}
	return ru
}
