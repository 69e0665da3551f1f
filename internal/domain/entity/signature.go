package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultBins конфигурация гистограммы по умолчанию: 8×8×8 = 512 корзин.
var DefaultBins = Bins{8, 8, 8}

// Bins число корзин гистограммы для каналов H, S и V.
type Bins [3]int

// Total общее число корзин совместной гистограммы.
func (b Bins) Total() int {
	return b[0] * b[1] * b[2]
}

// Validate проверяет, что все каналы имеют положительное число корзин.
func (b Bins) Validate() error {
	for i, n := range b {
		if n <= 0 {
			return fmt.Errorf("invalid bins %v: channel %d must be positive", b, i)
		}
	}
	return nil
}

// String возвращает конфигурацию в виде "8,8,8".
func (b Bins) String() string {
	return fmt.Sprintf("%d,%d,%d", b[0], b[1], b[2])
}

// ParseBins разбирает строку вида "8,8,8" или "8x8x8".
func ParseBins(s string) (Bins, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == 'x' || r == 'X' || r == '×'
	})
	if len(parts) != 3 {
		return Bins{}, fmt.Errorf("invalid bins %q: want three values", s)
	}

	var b Bins
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Bins{}, fmt.Errorf("invalid bins %q: %w", s, err)
		}
		b[i] = n
	}
	if err := b.Validate(); err != nil {
		return Bins{}, err
	}
	return b, nil
}

// Signature нормализованная цветовая гистограмма области.
// Values развёрнута в порядке H, затем S, затем V: индекс (h*B2+s)*B3+v.
type Signature struct {
	Bins   Bins      `json:"bins"`
	Values []float64 `json:"values"`
}

// Valid сообщает, что сигнатура присутствует и согласована с конфигурацией корзин.
func (s Signature) Valid() bool {
	return len(s.Values) > 0 && len(s.Values) == s.Bins.Total()
}

// Comparable сообщает, можно ли поэлементно сравнивать две сигнатуры.
func (s Signature) Comparable(other Signature) bool {
	return s.Valid() && other.Valid() && s.Bins == other.Bins
}

// Index возвращает позицию корзины (h, sat, v) в развёрнутом векторе.
func (b Bins) Index(h, sat, v int) int {
	return (h*b[1]+sat)*b[2] + v
}
