package stemplay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/viterin/vek/vek32"
)

// ErrNoTracks is returned when an operation needs at least one loaded
// track.
var ErrNoTracks = errors.New("no tracks loaded")

// Exporter renders the full-length mixdown of a Store without real-time
// constraints, using the same mute/solo/gain policy as the live Mixer.
// Export always reads every track from frame 0; the transport cursors
// are neither consulted nor moved.
type Exporter struct {
	Store *Store
	PCM16 bool // write 16-bit PCM instead of float32
}

// Mixdown sums all audible tracks over the length of the longest track.
// The result is exactly the gain-weighted sum of each zero-padded
// track, so two mixdowns with unchanged state are identical.
func (e *Exporter) Mixdown() ([]float32, error) {
	tracks := e.Store.Tracks()
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}
	maxLen := e.Store.MaxFrames()
	mix := make([]float32, maxLen)
	chunk := make([]float32, maxLen)
	soloActive := e.Store.SoloActive()
	for _, t := range tracks {
		if !audible(t, soloActive) {
			continue
		}
		t.ReadAt(chunk, 0)
		vek32.MulNumber_Inplace(chunk, t.Gain())
		vek32.Add_Inplace(mix, chunk)
	}
	return mix, nil
}

// Export writes the mixdown as a single-channel .wav file at the
// session sample rate. The file is written next to its destination and
// renamed into place, so a failed export leaves no partial output.
func (e *Exporter) Export(path string) error {
	mix, err := e.Mixdown()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	data, err := Wav(mix, e.Store.SampleRate(), e.PCM16)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("export: could not write %v: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("export: could not rename %v to %v: %w", tmp, path, err)
	}
	return nil
}
