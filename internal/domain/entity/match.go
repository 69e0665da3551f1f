package entity

// Match кандидат, сходство которого с эталоном превысило порог.
type Match struct {
	Path   string  `json:"path"`   // путь к изображению-кандидату
	Score  float64 `json:"score"`  // оценка сходства, больше = похожее
	Region Region  `json:"region"` // область, найденная детектором
}

// MatchResult итог прогона по каталогу кандидатов.
// Matches упорядочены так же, как отсортированные имена файлов.
type MatchResult struct {
	Matches []Match     `json:"matches"`
	Scanned int         `json:"scanned"` // сколько кандидатов было обработано
	Skipped []ItemError `json:"skipped,omitempty"`
}

// NewMatchResult создаёт пустой результат.
func NewMatchResult() *MatchResult {
	return &MatchResult{Matches: []Match{}}
}

// HasMatches флаг наличия совпадений
func (r *MatchResult) HasMatches() bool {
	return r != nil && len(r.Matches) > 0
}

// Paths возвращает пути совпавших кандидатов в порядке обработки.
func (r *MatchResult) Paths() []string {
	if r == nil {
		return nil
	}
	paths := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		paths = append(paths, m.Path)
	}
	return paths
}
