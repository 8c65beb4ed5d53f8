package pipeline

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func labelSet(labels []int) map[int]bool {
	set := make(map[int]bool)
	for _, l := range labels {
		set[l] = true
	}
	return set
}

func TestClusterEmptyInput(t *testing.T) {
	labels := Cluster(nil, 5)
	assert.Equal(t, 0, len(labels))
}

func TestClusterOneLabelPerArticle(t *testing.T) {
	embeddings := [][]float64{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
		{0, 0.9, 0.1},
		{0, 0, 1},
	}

	labels := Cluster(embeddings, 3)

	assert.Equal(t, len(embeddings), len(labels))

	set := labelSet(labels)
	if len(set) > 3 {
		t.Errorf("got %d distinct labels, want at most 3", len(set))
	}
	for _, l := range labels {
		if l < 0 || l >= 3 {
			t.Errorf("label %d outside [0, 3)", l)
		}
	}
}

func TestClusterClampsToItemCount(t *testing.T) {
	embeddings := [][]float64{
		{1, 0},
		{0, 1},
	}

	labels := Cluster(embeddings, 5)

	assert.Equal(t, 2, len(labels))
	set := labelSet(labels)
	if len(set) > 2 {
		t.Errorf("got %d distinct labels for 2 items", len(set))
	}
}

func TestClusterSeparatesDistinctTopics(t *testing.T) {
	// Two tight groups along orthogonal directions.
	embeddings := [][]float64{
		{1, 0.05, 0},
		{0.95, 0.1, 0},
		{0, 1, 0.05},
		{0.05, 0.95, 0},
	}

	labels := Cluster(embeddings, 2)

	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[2], labels[3])
	assert.NotEqual(t, labels[0], labels[2])
}

func TestClusterDeterministic(t *testing.T) {
	embeddings := [][]float64{
		{1, 0, 0},
		{0.8, 0.2, 0},
		{0, 1, 0},
		{0.1, 0.8, 0.1},
		{0, 0, 1},
		{0.1, 0, 0.9},
	}

	first := Cluster(embeddings, 3)
	for i := 0; i < 10; i++ {
		again := Cluster(embeddings, 3)
		assert.Equal(t, first, again)
	}
}

func TestClusterLabelsAreDense(t *testing.T) {
	embeddings := [][]float64{
		{1, 0},
		{0.9, 0.1},
		{0, 1},
	}

	labels := Cluster(embeddings, 2)

	set := labelSet(labels)
	for l := range set {
		if l < 0 || l >= len(set) {
			t.Errorf("labels not dense: %v", labels)
		}
	}
}

func TestClusterCollapsesNearDuplicates(t *testing.T) {
	// Four articles covering two stories. Even with room for four clusters,
	// near-identical coverage should fold into one cluster per story.
	embeddings := [][]float64{
		{1, 0.05, 0},
		{1, 0.05, 0},
		{0, 1, 0.05},
		{0, 1, 0.05},
	}

	labels := Cluster(embeddings, 5)

	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[2], labels[3])
	assert.NotEqual(t, labels[0], labels[2])
	assert.Equal(t, 2, len(labelSet(labels)))
}

func TestClusterSingleArticle(t *testing.T) {
	labels := Cluster([][]float64{{0.5, 0.5}}, 5)
	assert.Equal(t, []int{0}, labels)
}
