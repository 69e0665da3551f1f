package app

import (
	"fmt"
	"image"
	"math"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// Normalization способ нормализации гистограммы.
type Normalization string

const (
	NormL2 Normalization = "l2" // единичная евклидова норма
	NormL1 Normalization = "l1" // сумма корзин равна 1
)

// ParseNormalization разбирает название нормы.
func ParseNormalization(s string) (Normalization, error) {
	switch n := Normalization(s); n {
	case NormL2, NormL1:
		return n, nil
	}
	return "", fmt.Errorf("unknown normalization %q", s)
}

// SignatureExtractor превращает область в нормализованную сигнатуру.
// Нормализация делает сигнатуру независимой от площади области.
type SignatureExtractor struct {
	histogram port.HistogramComputer
	bins      entity.Bins
	norm      Normalization
}

// NewSignatureExtractor создаёт экстрактор с фиксированной конфигурацией корзин.
func NewSignatureExtractor(histogram port.HistogramComputer, bins entity.Bins, norm Normalization) *SignatureExtractor {
	return &SignatureExtractor{histogram: histogram, bins: bins, norm: norm}
}

// Extract возвращает сигнатуру области или false, если её не построить.
func (e *SignatureExtractor) Extract(img image.Image, region entity.Region) (entity.Signature, bool) {
	sig, err := e.Compute(img, region)
	return sig, err == nil
}

// Compute как Extract, но с причиной отказа. Ошибки оборачивают entity.ErrNoSignature.
func (e *SignatureExtractor) Compute(img image.Image, region entity.Region) (entity.Signature, error) {
	if img == nil || region.Empty() {
		return entity.Signature{}, fmt.Errorf("%w: empty region", entity.ErrNoSignature)
	}
	if e.histogram == nil {
		return entity.Signature{}, fmt.Errorf("%w: histogram is not configured", entity.ErrNoSignature)
	}

	raw, err := e.histogram.Histogram(img, region, e.bins)
	if err != nil {
		return entity.Signature{}, fmt.Errorf("%w: %w", entity.ErrNoSignature, err)
	}
	if len(raw) != e.bins.Total() {
		return entity.Signature{}, fmt.Errorf("%w: got %d bins, want %d", entity.ErrNoSignature, len(raw), e.bins.Total())
	}

	values, err := normalize(raw, e.norm)
	if err != nil {
		return entity.Signature{}, fmt.Errorf("%w: %w", entity.ErrNoSignature, err)
	}
	return entity.Signature{Bins: e.bins, Values: values}, nil
}

func normalize(raw []float64, norm Normalization) ([]float64, error) {
	var total float64
	for i, v := range raw {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid bin %d value %v", i, v)
		}
		if norm == NormL1 {
			total += v
		} else {
			total += v * v
		}
	}
	if norm != NormL1 {
		total = math.Sqrt(total)
	}
	if total == 0 {
		return nil, fmt.Errorf("histogram is empty")
	}

	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = v / total
	}
	return out, nil
}
