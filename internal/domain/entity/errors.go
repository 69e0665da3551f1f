package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Stage шаг конвейера, на котором произошёл сбой.
type Stage string

const (
	StageLoad    Stage = "load"    // чтение и декодирование файла
	StageDetect  Stage = "detect"  // поиск человека
	StageExtract Stage = "extract" // построение сигнатуры
	StageList    Stage = "list"    // перечисление каталога кандидатов
)

var (
	// ErrNoRegion детектор не нашёл человека на изображении.
	ErrNoRegion = errors.New("no person region detected")
	// ErrNoSignature не удалось построить сигнатуру области.
	ErrNoSignature = errors.New("signature could not be computed")
)

// SetupError ошибка подготовки прогона: эталон или каталог недоступны.
// Прогон завершается с пустым результатом.
type SetupError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed at %s for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// ItemError ошибка обработки одного кандидата. Кандидат пропускается, прогон продолжается.
type ItemError struct {
	Stage Stage  `json:"stage"`
	Path  string `json:"path"`
	Err   error  `json:"-"`
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("skipped %s at %s: %v", e.Path, e.Stage, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Expected сообщает, что пропуск штатный: на кадре просто нет человека.
func (e *ItemError) Expected() bool {
	return errors.Is(e.Err, ErrNoRegion) || errors.Is(e.Err, ErrNoSignature)
}

// MarshalJSON позволяет выводить причину пропуска в JSON.
func (e ItemError) MarshalJSON() ([]byte, error) {
	reason := ""
	if e.Err != nil {
		reason = e.Err.Error()
	}
	return json.Marshal(struct {
		Stage  Stage  `json:"stage"`
		Path   string `json:"path"`
		Reason string `json:"reason"`
	}{e.Stage, e.Path, reason})
}
