package stemplay

import (
	"math"
	"sync"
	"sync/atomic"
)

// Store owns the tracks of one session. The track table is an immutable
// slice swapped atomically on every change of membership, so the device
// callback iterates it without taking any lock; per-track state is
// atomic (see Track). Loads are serialized by a mutex held only on the
// control side.
//
// The session sample rate is the rate of the first successfully loaded
// track. Tracks with a different native rate are not resampled; they
// play back at the session rate. Callers are expected to surface the
// mismatch to the user.
type Store struct {
	mu         sync.Mutex
	sampleRate int
	tracks     atomic.Pointer[[]*Track]
}

func NewStore() *Store {
	s := &Store{}
	s.tracks.Store(&[]*Track{})
	return s
}

// Tracks returns the current track table. The slice is immutable; it
// stays valid even if the store is reloaded concurrently.
func (s *Store) Tracks() []*Track {
	return *s.tracks.Load()
}

// Track returns the track with the given name, or nil.
func (s *Store) Track(name TrackName) *Track {
	for _, t := range s.Tracks() {
		if t.name == name {
			return t
		}
	}
	return nil
}

func (s *Store) Len() int { return len(s.Tracks()) }

func (s *Store) SampleRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate
}

// Load stores decoded mono samples under name, replacing any previous
// track with that name. The new track starts at position 0, unmuted,
// unsoloed, at DefaultGain. The first load after NewStore or Clear
// decides the session sample rate. Returns the created track.
func (s *Store) Load(name TrackName, samples []float32, sampleRate int) *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := *s.tracks.Load()
	next := make([]*Track, 0, len(old)+1)
	for _, t := range old {
		if t.name != name {
			next = append(next, t)
		}
	}
	t := NewTrack(name, samples, sampleRate)
	next = append(next, t)
	if s.sampleRate == 0 {
		s.sampleRate = sampleRate
	}
	s.tracks.Store(&next)
	return t
}

// Clear drops all tracks and forgets the session sample rate, so the
// next load starts a fresh session. A mix pass holding the old table
// keeps reading the old samples; nothing is freed under it.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleRate = 0
	s.tracks.Store(&[]*Track{})
}

// ReadBlock returns frameCount samples of the named track starting at
// its current cursor, zero-padded past the end. The cursor does not
// move; reading is free of side effects so it can be used for metering.
// An unknown name yields nil.
func (s *Store) ReadBlock(name TrackName, frameCount int) []float32 {
	t := s.Track(name)
	if t == nil {
		return nil
	}
	dst := make([]float32, frameCount)
	t.ReadAt(dst, t.Pos())
	return dst
}

// Seek moves every track to percent of its own length, so shorter
// tracks seek proportionally rather than to a shared absolute frame.
// Seeking an empty store is a no-op. Must not be called from the
// control side while a stream is running; route the request through the
// player instead, which applies it between blocks.
func (s *Store) Seek(percent float64) {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	for _, t := range s.Tracks() {
		t.pos.Store(int64(math.Round(percent / 100 * float64(len(t.samples)))))
	}
}

// SetGain, ToggleMute and ToggleSolo mutate one track's state and
// report whether the track exists. Safe to call from the control
// surface at any time.
func (s *Store) SetGain(name TrackName, gain float32) bool {
	t := s.Track(name)
	if t == nil {
		return false
	}
	t.SetGain(gain)
	return true
}

func (s *Store) ToggleMute(name TrackName) bool {
	t := s.Track(name)
	if t == nil {
		return false
	}
	t.ToggleMute()
	return true
}

func (s *Store) ToggleSolo(name TrackName) bool {
	t := s.Track(name)
	if t == nil {
		return false
	}
	t.ToggleSolo()
	return true
}

// SoloActive reports whether at least one track is soloed; while true,
// only soloed tracks are audible.
func (s *Store) SoloActive() bool {
	for _, t := range s.Tracks() {
		if t.solo.Load() {
			return true
		}
	}
	return false
}

// MaxFrames returns the frame count of the longest track.
func (s *Store) MaxFrames() int {
	max := 0
	for _, t := range s.Tracks() {
		if len(t.samples) > max {
			max = len(t.samples)
		}
	}
	return max
}

// Percent returns the master transport position, derived from the first
// track's cursor against its length. 0 when the store is empty.
func (s *Store) Percent() float64 {
	tracks := s.Tracks()
	if len(tracks) == 0 || len(tracks[0].samples) == 0 {
		return 0
	}
	return float64(tracks[0].Pos()) / float64(len(tracks[0].samples)) * 100
}
