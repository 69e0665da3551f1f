package app

import (
	"fmt"
	"math"

	"vision-match/internal/domain/entity"
)

// Metric способ сравнения гистограмм. Все метрики приведены к виду «больше = похожее».
type Metric string

const (
	MetricCorrelation   Metric = "correl"        // корреляция, [-1, 1]
	MetricIntersection  Metric = "intersect"     // пересечение, сумма минимумов к меньшей из сумм, [0, 1]
	MetricChiSquare     Metric = "chisqr"        // 1/(1+χ²), (0, 1]
	MetricBhattacharyya Metric = "bhattacharyya" // 1 - расстояние Бхаттачарьи, [0, 1]
)

// ParseMetric разбирает название метрики.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricCorrelation, MetricIntersection, MetricChiSquare, MetricBhattacharyya:
		return m, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// SimilarityScorer сравнивает две сигнатуры.
type SimilarityScorer struct {
	metric Metric
}

// NewSimilarityScorer создаёт сравниватель с выбранной метрикой.
func NewSimilarityScorer(metric Metric) (*SimilarityScorer, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	return &SimilarityScorer{metric: metric}, nil
}

// Score возвращает сходство сигнатур. Отсутствующие или несравнимые сигнатуры дают 0.
func (s *SimilarityScorer) Score(a, b entity.Signature) float64 {
	if !a.Comparable(b) {
		return 0
	}

	switch s.metric {
	case MetricIntersection:
		return intersection(a.Values, b.Values)
	case MetricChiSquare:
		return 1 / (1 + chiSquare(a.Values, b.Values))
	case MetricBhattacharyya:
		return 1 - bhattacharyya(a.Values, b.Values)
	default:
		return correlation(a.Values, b.Values)
	}
}

func correlation(a, b []float64) float64 {
	n := float64(len(a))
	var ma, mb float64
	for i := range a {
		ma += a[i]
		mb += b[i]
	}
	ma /= n
	mb /= n

	var num, da, db float64
	for i := range a {
		x := a[i] - ma
		y := b[i] - mb
		num += x * y
		da += x * x
		db += y * y
	}

	// Плоская гистограмма коррелирует только с такой же плоской.
	if da == 0 || db == 0 {
		if da == 0 && db == 0 {
			return 1
		}
		return 0
	}

	r := num / math.Sqrt(da*db)
	return math.Max(-1, math.Min(1, r))
}

// intersection делится на меньшую из сумм, поэтому не зависит от нормы и не превышает 1.
func intersection(a, b []float64) float64 {
	var s, sa, sb float64
	for i := range a {
		s += math.Min(a[i], b[i])
		sa += a[i]
		sb += b[i]
	}
	total := math.Min(sa, sb)
	if total <= 0 {
		return 0
	}
	return math.Min(1, s/total)
}

func chiSquare(a, b []float64) float64 {
	var s float64
	for i := range a {
		if a[i] > 0 {
			d := a[i] - b[i]
			s += d * d / a[i]
		}
	}
	return s
}

func bhattacharyya(a, b []float64) float64 {
	var sa, sb, bc float64
	for i := range a {
		sa += a[i]
		sb += b[i]
		bc += math.Sqrt(a[i] * b[i])
	}
	if sa == 0 || sb == 0 {
		return 1
	}
	return math.Sqrt(math.Max(1-bc/math.Sqrt(sa*sb), 0))
}
