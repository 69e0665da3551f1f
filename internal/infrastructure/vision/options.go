package vision

import "errors"

// ErrGoCVDisabled возвращается реализациями-заглушками, если сборка без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// DetectorOptions параметры HOG-детектора людей.
// Stride и Padding задают шаг окна и отступ вокруг него в пикселях,
// Scale коэффициент уменьшения между уровнями пирамиды.
// Меньший шаг и коэффициент ближе к 1 дают больше находок ценой времени.
type DetectorOptions struct {
	Stride         int
	Padding        int
	Scale          float64
	HitThreshold   float64 // порог расстояния до разделяющей плоскости SVM
	FinalThreshold float64 // минимальное число пересекающихся окон для группировки
	MaxSide        int     // 0 — не уменьшать изображение перед поиском
}

// DefaultDetectorOptions возвращает параметры по умолчанию.
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		Stride:         4,
		Padding:        8,
		Scale:          1.05,
		HitThreshold:   0,
		FinalThreshold: 2,
	}
}
