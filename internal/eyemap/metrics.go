package eyemap

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MetricSummary is the descriptive statistics block reported alongside an
// eyemap. All statistics are computed over the strictly positive values only;
// zeros mean "no data" in this dataset. Skewness and kurtosis are the
// population (biased) standardized moments, kurtosis as excess over the
// normal distribution.
type MetricSummary struct {
	Count    int
	Mean     float64
	Median   float64
	Std      float64
	Variance float64
	Min      float64
	Max      float64
	P25      float64
	P75      float64
	Skewness float64
	Kurtosis float64
}

// SummarizeMetric computes descriptive statistics over the positive entries
// of values. An all-zero or empty input yields the zero summary with Count 0.
func SummarizeMetric(values []float64) MetricSummary {
	pos := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			pos = append(pos, v)
		}
	}
	if len(pos) == 0 {
		return MetricSummary{}
	}
	sort.Float64s(pos)

	s := MetricSummary{
		Count:  len(pos),
		Mean:   stat.Mean(pos, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, pos, nil),
		Min:    pos[0],
		Max:    pos[len(pos)-1],
		P25:    stat.Quantile(0.25, stat.LinInterp, pos, nil),
		P75:    stat.Quantile(0.75, stat.LinInterp, pos, nil),
	}

	m2 := stat.Moment(2, pos, nil)
	s.Variance = m2
	s.Std = math.Sqrt(m2)
	if m2 > 0 {
		s.Skewness = stat.Moment(3, pos, nil) / math.Pow(s.Std, 3)
		s.Kurtosis = stat.Moment(4, pos, nil)/math.Pow(m2, 2) - 3
	}
	return s
}

// ShannonEntropy computes the natural-log Shannon entropy of the value
// proportions. Non-positive entries contribute nothing. Returns 0 when the
// values sum to zero.
func ShannonEntropy(values []float64) float64 {
	var sum float64
	for _, v := range values {
		if v > 0 {
			sum += v
		}
	}
	if sum == 0 {
		return 0
	}
	p := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			p = append(p, v/sum)
		}
	}
	return stat.Entropy(p)
}

// GiniCoefficient computes the population Gini inequality coefficient over
// the values. 0 means perfectly even counts across layers, values near 1
// mean almost everything sits in one layer. Negative entries are treated as
// zero; an all-zero input yields 0.
func GiniCoefficient(values []float64) float64 {
	xs := make([]float64, len(values))
	var total float64
	for i, v := range values {
		if v > 0 {
			xs[i] = v
			total += v
		}
	}
	if total == 0 {
		return 0
	}
	sort.Float64s(xs)
	n := float64(len(xs))
	var weighted float64
	for i, v := range xs {
		weighted += float64(i+1) * v
	}
	return (2*weighted)/(n*total) - (n+1)/n
}

// DistributionClass labels how a column's metric is spread across its depth
// layers, keyed off the dominant-layer proportion.
type DistributionClass string

const (
	DistConcentrated DistributionClass = "concentrated" // dominant layer > 0.8
	DistSkewed       DistributionClass = "skewed"       // dominant layer > 0.6
	DistUniform      DistributionClass = "uniform"      // all proportions in [0.1, 0.4]
	DistDistributed  DistributionClass = "distributed"
	DistEmpty        DistributionClass = "empty"
)

// ClassifyDistribution maps per-layer values to a DistributionClass.
func ClassifyDistribution(layerValues []float64) DistributionClass {
	var sum float64
	for _, v := range layerValues {
		if v > 0 {
			sum += v
		}
	}
	if sum == 0 {
		return DistEmpty
	}

	dominant := 0.0
	uniform := len(layerValues) > 0
	for _, v := range layerValues {
		p := 0.0
		if v > 0 {
			p = v / sum
		}
		if p > dominant {
			dominant = p
		}
		if p < 0.1 || p > 0.4 {
			uniform = false
		}
	}

	switch {
	case dominant > 0.8:
		return DistConcentrated
	case dominant > 0.6:
		return DistSkewed
	case uniform:
		return DistUniform
	default:
		return DistDistributed
	}
}
