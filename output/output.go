// Package output writes solver results: per-angle steady snapshots and
// append-only unsteady time series, one record per saved timestep per field,
// ordered by simulation time.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer manages the output directory of one run.
type Writer struct {
	Dir string

	files map[string]*os.File
}

func NewWriter(dir string) (w *Writer, err error) {
	if err = os.MkdirAll(filepath.Join(dir, "solutions"), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}
	w = &Writer{
		Dir:   dir,
		files: make(map[string]*os.File),
	}
	return
}

func (w *Writer) Close() (err error) {
	for _, f := range w.files {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	w.files = make(map[string]*os.File)
	return
}

func (w *Writer) field(name string) (f *os.File, err error) {
	if f = w.files[name]; f != nil {
		return
	}
	path := filepath.Join(w.Dir, "solutions", name+".dat")
	if f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644); err != nil {
		return nil, fmt.Errorf("unable to open output file: %w", err)
	}
	w.files[name] = f
	return
}

// AppendRecord appends one time-stamped field record.
func (w *Writer) AppendRecord(name string, t float64, values []float64) (err error) {
	f, err := w.field(name)
	if err != nil {
		return
	}
	if _, err = fmt.Fprintf(f, "t %.10g n %d\n", t, len(values)); err != nil {
		return
	}
	for _, v := range values {
		if _, err = fmt.Fprintf(f, "%.10g\n", v); err != nil {
			return
		}
	}
	return
}

// WriteSnapshot writes one standalone field record, labeled by the sweep
// iteration value (for the steady and multi-angle solvers).
func (w *Writer) WriteSnapshot(name string, iterVal float64, values []float64) (err error) {
	path := filepath.Join(w.Dir, "solutions", fmt.Sprintf("%s_%.6g.dat", name, iterVal))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create snapshot file: %w", err)
	}
	defer f.Close()
	if _, err = fmt.Fprintf(f, "n %d\n", len(values)); err != nil {
		return
	}
	for _, v := range values {
		if _, err = fmt.Fprintf(f, "%.10g\n", v); err != nil {
			return
		}
	}
	return
}
