package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sort"
	"sync"

	"vision-match/internal/domain/entity"
)

var (
	red   = color.RGBA{R: 220, G: 20, B: 20, A: 255}
	blue  = color.RGBA{R: 20, G: 20, B: 220, A: 255}
	green = color.RGBA{R: 20, G: 200, B: 40, A: 255}
)

// outfit рисует кадр: верхняя половина одного цвета, нижняя другого.
func outfit(w, h int, top, bottom color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := top
		if y >= h/2 {
			c = bottom
		}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

type fakeLoader struct {
	mu     sync.Mutex
	images map[string]image.Image
	errs   map[string]error
	panics map[string]bool
	opened []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		images: make(map[string]image.Image),
		errs:   make(map[string]error),
		panics: make(map[string]bool),
	}
}

func (l *fakeLoader) Load(ctx context.Context, path string) (image.Image, error) {
	l.mu.Lock()
	l.opened = append(l.opened, path)
	img, ok := l.images[path]
	err := l.errs[path]
	boom := l.panics[path]
	l.mu.Unlock()

	if boom {
		panic("decoder crashed")
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("file does not exist")
	}
	return img, nil
}

func (l *fakeLoader) Decode(data []byte) (image.Image, error) {
	return l.Load(context.Background(), string(data))
}

func (l *fakeLoader) Opened() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.opened...)
}

type fakeSource struct {
	dirs  map[string][]string
	calls int
}

func (s *fakeSource) List(ctx context.Context, dir string) ([]string, error) {
	s.calls++
	paths, ok := s.dirs[dir]
	if !ok {
		return nil, errors.New("directory does not exist")
	}
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out, nil
}

// fakeDetector по умолчанию находит человека на всём кадре.
type fakeDetector struct {
	mu      sync.Mutex
	regions map[image.Image][]entity.Region
	fails   map[image.Image]error
	err     error
}

func (d *fakeDetector) Detect(ctx context.Context, img image.Image) ([]entity.Region, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.fails[img]; ok {
		return nil, err
	}
	if regions, ok := d.regions[img]; ok {
		return regions, nil
	}
	return []entity.Region{entity.RegionFromRect(img.Bounds())}, nil
}

func (d *fakeDetector) set(img image.Image, regions ...entity.Region) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.regions == nil {
		d.regions = make(map[image.Image][]entity.Region)
	}
	d.regions[img] = regions
}

func (d *fakeDetector) fail(img image.Image, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fails == nil {
		d.fails = make(map[image.Image]error)
	}
	d.fails[img] = err
}

type fakeHistogram struct {
	values []float64
	err    error
}

func (h fakeHistogram) Histogram(img image.Image, region entity.Region, bins entity.Bins) ([]float64, error) {
	return h.values, h.err
}

func rgba(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}
