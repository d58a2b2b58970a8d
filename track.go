package stemplay

import (
	"math"
	"sync/atomic"
)

// TrackName identifies one stem of a song. The vocabulary is fixed; a
// session holds at most one track per name.
type TrackName string

const (
	Instrumental TrackName = "instrumental"
	Drums        TrackName = "drums"
	Vocals       TrackName = "vocals"
	Bass         TrackName = "bass"
	Others       TrackName = "others"
)

// TrackNames lists the stem vocabulary in scan order.
var TrackNames = [...]TrackName{Instrumental, Drums, Vocals, Bass, Others}

// DefaultGain is the gain every track starts with after a load.
const DefaultGain = 0.8

type (
	// Track owns the decoded mono samples of one stem together with its
	// playback state. The samples are never written after load; gain,
	// mute, solo and the read cursor are single-word atomic fields, so
	// the control surface can poke them while the device callback mixes.
	// The cursor is advanced only by the mixing pass while a stream is
	// running; it may run past the end of the samples, in which case
	// reads yield silence.
	Track struct {
		name       TrackName
		samples    []float32
		sampleRate int

		gainBits atomic.Uint32
		muted    atomic.Bool
		solo     atomic.Bool
		pos      atomic.Int64
	}
)

func NewTrack(name TrackName, samples []float32, sampleRate int) *Track {
	t := &Track{name: name, samples: samples, sampleRate: sampleRate}
	t.SetGain(DefaultGain)
	return t
}

func (t *Track) Name() TrackName    { return t.name }
func (t *Track) SampleRate() int    { return t.sampleRate }
func (t *Track) FrameCount() int    { return len(t.samples) }
func (t *Track) Samples() []float32 { return t.samples }

func (t *Track) Gain() float32 { return math.Float32frombits(t.gainBits.Load()) }

// SetGain clamps to [0,1]; the mixer applies the gain as a plain linear
// multiplier.
func (t *Track) SetGain(gain float32) {
	if gain < 0 {
		gain = 0
	} else if gain > 1 {
		gain = 1
	}
	t.gainBits.Store(math.Float32bits(gain))
}

func (t *Track) Muted() bool { return t.muted.Load() }
func (t *Track) Solo() bool  { return t.solo.Load() }

// ToggleMute flips the mute flag and returns the new value. The control
// surface is the only writer, so load-then-store is enough.
func (t *Track) ToggleMute() bool {
	v := !t.muted.Load()
	t.muted.Store(v)
	return v
}

func (t *Track) ToggleSolo() bool {
	v := !t.solo.Load()
	t.solo.Store(v)
	return v
}

// Pos returns the current read cursor in frames.
func (t *Track) Pos() int { return int(t.pos.Load()) }

// ReadAt copies frames starting at from into dst, zero-filling anything
// past the end of the track. It never fails and does not move the
// cursor.
func (t *Track) ReadAt(dst []float32, from int) {
	n := 0
	if from >= 0 && from < len(t.samples) {
		n = copy(dst, t.samples[from:])
	}
	clear(dst[n:])
}
