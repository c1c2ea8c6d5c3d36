package anomaly

import (
	"math"
	"sort"
)

// Statistics describes a set of load values. StdDev is the population
// standard deviation; quartiles use linear interpolation between ranks.
type Statistics struct {
	Mean   float64 `json:"media"`
	Median float64 `json:"mediana"`
	StdDev float64 `json:"desvio_padrao"`
	Min    float64 `json:"minimo"`
	Max    float64 `json:"maximo"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
}

// Describe computes Statistics for values, which must not be empty.
func Describe(values []float64) Statistics {
	sorted := sortedCopy(values)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var sq float64
	for _, v := range sorted {
		d := v - mean
		sq += d * d
	}

	q1 := Percentile(sorted, 25)
	q3 := Percentile(sorted, 75)
	return Statistics{
		Mean:   mean,
		Median: Percentile(sorted, 50),
		StdDev: math.Sqrt(sq / float64(len(sorted))),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     q1,
		Q3:     q3,
		IQR:    q3 - q1,
	}
}

// finite reports whether every field can be encoded as a JSON number. Values
// close to the float64 limits overflow the mean or the spread.
func (s Statistics) finite() bool {
	for _, f := range []float64{s.Mean, s.Median, s.StdDev, s.Min, s.Max, s.Q1, s.Q3, s.IQR} {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return false
		}
	}
	return true
}

// Percentile returns the p-th percentile (0..100) of an ascending slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}
