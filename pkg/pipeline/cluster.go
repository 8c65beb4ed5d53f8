package pipeline

import "math"

// duplicateMergeThreshold is the cosine distance under which two clusters are
// considered the same story and merged even after the target count is
// reached. It makes maxClusters an upper bound rather than an exact count, so
// near-duplicate coverage collapses into one event instead of padding out k.
const duplicateMergeThreshold = 0.05

// Cluster partitions embedding vectors into at most k = min(maxClusters, n)
// groups using bottom-up agglomerative clustering with average linkage over
// cosine distance. Cosine is used because embedding magnitude carries no
// meaning for these vectors; the metric must stay fixed across a deployment
// since labels are not stable across metric changes.
//
// The merge order is deterministic for identical inputs: the closest pair
// wins, ties go to the lowest cluster indices. Labels are dense in [0, k) and
// assigned by order of each cluster's first member in the input.
func Cluster(embeddings [][]float64, maxClusters int) []int {
	n := len(embeddings)
	if n == 0 {
		return []int{}
	}

	k := maxClusters
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	// Pairwise article distances, computed once.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := cosineDistance(embeddings[i], embeddings[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	// Each cluster is a sorted slice of member indices.
	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	for len(clusters) > 1 {
		bestI, bestJ := 0, 1
		bestD := math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				d := averageLinkage(clusters[i], clusters[j], dist)
				if d < bestD {
					bestD = d
					bestI, bestJ = i, j
				}
			}
		}

		if len(clusters) <= k && bestD > duplicateMergeThreshold {
			break
		}

		clusters[bestI] = append(clusters[bestI], clusters[bestJ]...)
		clusters = append(clusters[:bestJ], clusters[bestJ+1:]...)
	}

	// Label clusters by first appearance so output is stable.
	first := make([]int, len(clusters))
	for ci, members := range clusters {
		f := members[0]
		for _, m := range members[1:] {
			if m < f {
				f = m
			}
		}
		first[ci] = f
	}

	order := make([]int, len(clusters))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if first[order[j]] < first[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	labels := make([]int, n)
	for rank, ci := range order {
		for _, m := range clusters[ci] {
			labels[m] = rank
		}
	}

	return labels
}

func averageLinkage(a, b []int, dist [][]float64) float64 {
	total := 0.0
	for _, i := range a {
		for _, j := range b {
			total += dist[i][j]
		}
	}
	return total / float64(len(a)*len(b))
}

// cosineDistance is 1 - cosine similarity. Zero or mismatched vectors get the
// maximum distance so degraded (zeroed) embeddings do not attract each other
// into one cluster artificially.
func cosineDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
