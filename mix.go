package stemplay

import "github.com/viterin/vek/vek32"

// Mixer sums audible tracks from a Store into fixed-size output blocks.
// MixBlock is driven by the device callback, so after the scratch buffer
// has grown to the device block size it neither allocates nor blocks.
type Mixer struct {
	store   *Store
	scratch []float32
}

// defaultBlockFrames matches the usual device block; the scratch grows
// if the driver asks for more.
const defaultBlockFrames = 512

func NewMixer(store *Store) *Mixer {
	return &Mixer{store: store, scratch: make([]float32, defaultBlockFrames)}
}

// MixBlock fills dst with the gain-weighted sum of all audible tracks at
// their current cursors, then advances every track cursor by len(dst)
// frames. Silenced tracks advance too: muting must not freeze a cursor,
// or un-muting would desynchronize the stem from the rest. Tracks past
// their end contribute silence and keep advancing; output is not
// clipped.
func (m *Mixer) MixBlock(dst []float32) {
	clear(dst)
	tracks := m.store.Tracks()
	if len(tracks) == 0 {
		return
	}
	if len(m.scratch) < len(dst) {
		m.scratch = make([]float32, len(dst))
	}
	soloActive := false
	for _, t := range tracks {
		if t.solo.Load() {
			soloActive = true
			break
		}
	}
	chunk := m.scratch[:len(dst)]
	for _, t := range tracks {
		pos := int(t.pos.Load())
		t.pos.Store(int64(pos + len(dst)))
		if !audible(t, soloActive) {
			continue
		}
		t.ReadAt(chunk, pos)
		vek32.MulNumber_Inplace(chunk, t.Gain())
		vek32.Add_Inplace(dst, chunk)
	}
}

// audible applies the mute/solo policy shared by live mixing and
// export: mute always wins, and while any track is soloed only soloed
// tracks pass.
func audible(t *Track, soloActive bool) bool {
	if t.muted.Load() {
		return false
	}
	if soloActive && !t.solo.Load() {
		return false
	}
	return true
}
