// Package synth generates synthetic scan datasets for benchmarks and
// end-to-end tests. Generation is seeded, so the same configuration
// always yields the same dataset.
package synth

import (
	"math/rand"

	"github.com/lcdata/scancache/scantable"
)

// Config controls the shape of a generated dataset.
type Config struct {
	// Rows is the primary table row count.
	Rows int

	// Windows is the number of fragment isolation windows.
	Windows int

	// WindowRows is the row count per fragment window.
	WindowRows int

	// Seed seeds the generator. Zero is a valid seed.
	Seed int64
}

const (
	lowMZ         = 400.0
	highMZ        = 1600.0
	scansPerFrame = 927 // TIMS ramp length
)

// Dataset generates a primary table and its fragment window table.
// Retention times ascend, frame and scan indices follow the instrument
// raster, and the remaining columns are drawn from ranges typical for
// timsTOF acquisitions.
func Dataset(cfg Config) (*scantable.Table, []scantable.Window) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	primary := fillTable(rng, cfg.Rows, lowMZ, highMZ)

	windows := make([]scantable.Window, cfg.Windows)
	if cfg.Windows > 0 {
		width := (highMZ - lowMZ) / float64(cfg.Windows)
		for i := range windows {
			low := lowMZ + float64(i)*width
			windows[i] = scantable.Window{
				Range: scantable.Range{Low: float32(low), High: float32(low + width)},
				Data:  fillTable(rng, cfg.WindowRows, low, low+width),
			}
		}
	}
	return primary, windows
}

func fillTable(rng *rand.Rand, rows int, mzLow, mzHigh float64) *scantable.Table {
	t := scantable.NewTable(rows)
	rt := float32(0)
	for i := 0; i < rows; i++ {
		if i%scansPerFrame == 0 {
			rt += 0.1 + rng.Float32()*0.01 // frame cycle time
		}
		t.RT = append(t.RT, rt)
		t.Mobility = append(t.Mobility, 0.55+rng.Float32()*0.9)
		t.MZ = append(t.MZ, float32(mzLow+rng.Float64()*(mzHigh-mzLow)))
		t.Intensity = append(t.Intensity, uint32(rng.ExpFloat64()*800)+1)
		t.FrameIndex = append(t.FrameIndex, uint32(i/scansPerFrame))
		t.ScanIndex = append(t.ScanIndex, uint32(i%scansPerFrame))
	}
	return t
}
