package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vision-match/internal/domain/port"
)

// CandidateExtensions расширения файлов, которые считаются кадрами-кандидатами.
var CandidateExtensions = []string{".png", ".jpg", ".jpeg"}

// FileLoader читает изображения с локального диска
type FileLoader struct{}

// NewFileLoader создаёт загрузчик изображений
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load читает файл и декодирует его в image.Image
func (l *FileLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return Decode(data)
}

// Decode декодирует байты изображения, полученные не с диска
func (l *FileLoader) Decode(data []byte) (image.Image, error) {
	return Decode(data)
}

// Decode декодирует байты изображения
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image file")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	return img, nil
}

// DirSource перечисляет кадры-кандидаты в каталоге
type DirSource struct {
	Extensions []string
}

// NewDirSource создаёт источник с расширениями по умолчанию
func NewDirSource() *DirSource {
	return &DirSource{Extensions: CandidateExtensions}
}

// List возвращает пути к изображениям каталога, отсортированные по имени файла.
// Подкаталоги не просматриваются.
func (s *DirSource) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !s.accepts(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

func (s *DirSource) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range s.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Проверка реализации интерфейсов
var (
	_ port.ImageLoader     = (*FileLoader)(nil)
	_ port.ImageDecoder    = (*FileLoader)(nil)
	_ port.CandidateSource = (*DirSource)(nil)
)
