package summary

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Writer appends scalar series and image snapshots under a run
// directory. Scalars land in <dir>/scalars/<tag>.csv, one row per
// recorded value; images in <dir>/images/<tag>/<epoch>.png. Tags may
// contain slashes, which become subdirectories.
type Writer struct {
	dir   string
	files map[string]*scalarFile
}

type scalarFile struct {
	f *os.File
	w *csv.Writer
}

// NewWriter creates (if needed) the run directory and returns a writer
// rooted at it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("summary: create run dir: %w", err)
	}
	return &Writer{dir: dir, files: make(map[string]*scalarFile)}, nil
}

// Dir returns the run directory.
func (w *Writer) Dir() string { return w.dir }

// AddScalar appends one value for tag at epoch.
func (w *Writer) AddScalar(tag string, value float64, epoch int) error {
	return w.appendRow(tag, []string{strconv.Itoa(epoch), strconv.FormatFloat(value, 'g', -1, 64)})
}

// AddScalars appends a named group of values for tag at epoch, one row
// per name in sorted order so the series stays diffable.
func (w *Writer) AddScalars(tag string, values map[string]float64, epoch int) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row := []string{strconv.Itoa(epoch), name, strconv.FormatFloat(values[name], 'g', -1, 64)}
		if err := w.appendRow(tag, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) appendRow(tag string, row []string) error {
	sf, ok := w.files[tag]
	if !ok {
		path := filepath.Join(w.dir, "scalars", tag+".csv")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		sf = &scalarFile{f: f, w: csv.NewWriter(f)}
		w.files[tag] = sf
	}
	if err := sf.w.Write(row); err != nil {
		return err
	}
	sf.w.Flush()
	return sf.w.Error()
}

// AddImage writes img as <dir>/images/<tag>/<epoch>.png.
func (w *Writer) AddImage(tag string, img image.Image, epoch int) error {
	path := filepath.Join(w.dir, "images", tag, fmt.Sprintf("%d.png", epoch))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close flushes and closes all scalar files.
func (w *Writer) Close() error {
	var first error
	for _, sf := range w.files {
		sf.w.Flush()
		if err := sf.w.Error(); err != nil && first == nil {
			first = err
		}
		if err := sf.f.Close(); err != nil && first == nil {
			first = err
		}
	}
	w.files = make(map[string]*scalarFile)
	return first
}
