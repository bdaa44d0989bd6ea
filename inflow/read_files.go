package inflow

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ReadDirectory loads the five inflow arrays from a fixed directory layout:
// u.dat, v.dat, w.dat hold `ny nz ntime` headers followed by values ordered
// y-major with time fastest; y.dat and z.dat hold a count followed by the
// coordinate values. All files are whitespace-separated numeric text.
func ReadDirectory(dir string) (in *Interpolator, err error) {
	y, err := readVector(filepath.Join(dir, "y.dat"))
	if err != nil {
		return nil, err
	}
	z, err := readVector(filepath.Join(dir, "z.dat"))
	if err != nil {
		return nil, err
	}
	var comps [3][][]float64
	for k, name := range []string{"u.dat", "v.dat", "w.dat"} {
		if comps[k], err = readSlices(filepath.Join(dir, name), len(y), len(z)); err != nil {
			return nil, err
		}
	}
	return New(y, z, comps[0], comps[1], comps[2])
}

func newWordScanner(file *os.File) *bufio.Scanner {
	s := bufio.NewScanner(file)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)
	s.Split(bufio.ScanWords)
	return s
}

func scanFloat(s *bufio.Scanner, path string) (v float64, err error) {
	if !s.Scan() {
		return 0, fmt.Errorf("unexpected end of %s", path)
	}
	if v, err = strconv.ParseFloat(s.Text(), 64); err != nil {
		return 0, fmt.Errorf("bad value %q in %s: %w", s.Text(), path, err)
	}
	return
}

func scanInt(s *bufio.Scanner, path string) (v int, err error) {
	if !s.Scan() {
		return 0, fmt.Errorf("unexpected end of %s", path)
	}
	if v, err = strconv.Atoi(s.Text()); err != nil {
		return 0, fmt.Errorf("bad count %q in %s: %w", s.Text(), path, err)
	}
	return
}

func readVector(path string) (v []float64, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open inflow file: %w", err)
	}
	defer file.Close()
	s := newWordScanner(file)
	n, err := scanInt(s, path)
	if err != nil {
		return nil, err
	}
	v = make([]float64, n)
	for i := range v {
		if v[i], err = scanFloat(s, path); err != nil {
			return nil, err
		}
	}
	return
}

func readSlices(path string, ny, nz int) (slices [][]float64, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open inflow file: %w", err)
	}
	defer file.Close()
	s := newWordScanner(file)
	gotNy, err := scanInt(s, path)
	if err != nil {
		return nil, err
	}
	gotNz, err := scanInt(s, path)
	if err != nil {
		return nil, err
	}
	nt, err := scanInt(s, path)
	if err != nil {
		return nil, err
	}
	if gotNy != ny || gotNz != nz {
		return nil, fmt.Errorf("%s: grid is %dx%d but coordinate vectors are %dx%d", path, gotNy, gotNz, ny, nz)
	}
	slices = make([][]float64, nt)
	for t := range slices {
		slices[t] = make([]float64, ny*nz)
	}
	// file order is [ny][nz][ntime]
	for iy := 0; iy < ny; iy++ {
		for iz := 0; iz < nz; iz++ {
			for t := 0; t < nt; t++ {
				v, err := scanFloat(s, path)
				if err != nil {
					return nil, err
				}
				slices[t][iy*nz+iz] = v
			}
		}
	}
	return
}
