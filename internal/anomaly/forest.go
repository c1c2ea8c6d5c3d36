package anomaly

import (
	"math"
	"math/rand"
)

const (
	maxSampleSize = 256
	eulerGamma    = 0.5772156649015329
)

// Forest is an isolation forest over one-dimensional data. Points that are
// isolated after few random splits get low scores.
type Forest struct {
	trees      []*isoNode
	sampleSize int
}

type isoNode struct {
	split       float64
	left, right *isoNode
	size        int
}

func (n *isoNode) leaf() bool {
	return n.left == nil
}

// NewForest grows trees over values, each from a subsample drawn without
// replacement.
func NewForest(values []float64, trees int, rng *rand.Rand) *Forest {
	sampleSize := len(values)
	if sampleSize > maxSampleSize {
		sampleSize = maxSampleSize
	}
	limit := int(math.Ceil(math.Log2(float64(max(sampleSize, 2)))))

	f := &Forest{
		trees:      make([]*isoNode, 0, trees),
		sampleSize: sampleSize,
	}
	for i := 0; i < trees; i++ {
		perm := rng.Perm(len(values))[:sampleSize]
		sample := make([]float64, sampleSize)
		for j, idx := range perm {
			sample[j] = values[idx]
		}
		f.trees = append(f.trees, growTree(sample, 0, limit, rng))
	}
	return f
}

func growTree(values []float64, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(values) <= 1 {
		return &isoNode{size: len(values)}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &isoNode{size: len(values)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, v := range values {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}

	return &isoNode{
		split: split,
		left:  growTree(left, depth+1, limit, rng),
		right: growTree(right, depth+1, limit, rng),
		size:  len(values),
	}
}

// Score returns the negated anomaly score of v, in [-1, 0). Lower is more
// anomalous.
func (f *Forest) Score(v float64) float64 {
	if len(f.trees) == 0 {
		return -0.5
	}
	var total float64
	for _, t := range f.trees {
		total += pathLength(t, v, 0)
	}
	mean := total / float64(len(f.trees))

	norm := averagePathLength(f.sampleSize)
	if norm == 0 {
		return -0.5
	}
	return -math.Pow(2, -mean/norm)
}

func pathLength(n *isoNode, v float64, depth int) float64 {
	for !n.leaf() {
		if v < n.split {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(n.size)
}

// averagePathLength is the expected path length of an unsuccessful search in
// a binary search tree of n nodes.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}
