package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	assert.NoError(t, err)
	{ // the solutions subdirectory exists up front
		info, serr := os.Stat(filepath.Join(dir, "solutions"))
		assert.NoError(t, serr)
		assert.True(t, info.IsDir())
	}
	{ // records append in order with a time-stamped header each
		assert.NoError(t, w.AppendRecord("velocity", 0.5, []float64{1, 2}))
		assert.NoError(t, w.AppendRecord("velocity", 1.5, []float64{3, 4}))
		assert.NoError(t, w.Close())
		data, rerr := os.ReadFile(filepath.Join(dir, "solutions", "velocity.dat"))
		assert.NoError(t, rerr)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Equal(t, []string{"t 0.5 n 2", "1", "2", "t 1.5 n 2", "3", "4"}, lines)
	}
	{ // snapshots are standalone files labeled by the iteration value
		assert.NoError(t, w.WriteSnapshot("pressure", 0.25, []float64{7}))
		data, rerr := os.ReadFile(filepath.Join(dir, "solutions", "pressure_0.25.dat"))
		assert.NoError(t, rerr)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Equal(t, []string{"n 1", "7"}, lines)
	}
}
