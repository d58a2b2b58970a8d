package stemplay_test

import (
	"math"
	"testing"

	"github.com/stemplay/stemplay"
)

const tolerance = 1e-6

func almostEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > tolerance {
			return false
		}
	}
	return true
}

func TestMixBlockSumsWithGain(t *testing.T) {
	store := stemplay.NewStore()
	store.Load(stemplay.Drums, []float32{0.2, 0.2, 0.2, 0.2}, 44100)
	store.Load(stemplay.Vocals, []float32{1.0, 1.0}, 44100)
	store.SetGain(stemplay.Drums, 1.0)
	store.SetGain(stemplay.Vocals, 0.5)

	out := make([]float32, 4)
	stemplay.NewMixer(store).MixBlock(out)
	want := []float32{0.7, 0.7, 0.2, 0.2}
	if !almostEqual(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

func TestMixBlockEmptyStoreIsSilent(t *testing.T) {
	store := stemplay.NewStore()
	out := []float32{9, 9, 9}
	stemplay.NewMixer(store).MixBlock(out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: got %v, want 0", i, v)
		}
	}
}

func TestMutedTrackContributesNothing(t *testing.T) {
	store := stemplay.NewStore()
	store.Load(stemplay.Drums, []float32{1, 1}, 44100)
	store.Load(stemplay.Vocals, []float32{1, 1}, 44100)
	store.SetGain(stemplay.Drums, 1)
	store.SetGain(stemplay.Vocals, 1)
	store.ToggleMute(stemplay.Vocals)

	out := make([]float32, 2)
	stemplay.NewMixer(store).MixBlock(out)
	if !almostEqual(out, []float32{1, 1}) {
		t.Fatalf("got %v, want only the drums", out)
	}
}

func TestSoloGatesNonSoloedTracks(t *testing.T) {
	store := stemplay.NewStore()
	store.Load(stemplay.Drums, []float32{1, 1}, 44100)
	store.Load(stemplay.Vocals, []float32{0.5, 0.5}, 44100)
	store.SetGain(stemplay.Drums, 1)
	store.SetGain(stemplay.Vocals, 1)
	store.ToggleSolo(stemplay.Vocals)

	out := make([]float32, 2)
	stemplay.NewMixer(store).MixBlock(out)
	if !almostEqual(out, []float32{0.5, 0.5}) {
		t.Fatalf("got %v, want only the soloed vocals", out)
	}
}

func TestMuteBeatsSolo(t *testing.T) {
	store := stemplay.NewStore()
	store.Load(stemplay.Drums, []float32{1, 1}, 44100)
	store.Load(stemplay.Vocals, []float32{0.5, 0.5}, 44100)
	store.SetGain(stemplay.Drums, 1)
	store.SetGain(stemplay.Vocals, 1)
	store.ToggleSolo(stemplay.Vocals)
	store.ToggleMute(stemplay.Vocals)

	out := make([]float32, 2)
	stemplay.NewMixer(store).MixBlock(out)
	// vocals is both soloed and muted: mute wins, and the active solo
	// still gates the drums
	if !almostEqual(out, []float32{0, 0}) {
		t.Fatalf("got %v, want silence", out)
	}
}

func TestMixOrderIndependent(t *testing.T) {
	a := []float32{0.1, 0.2, 0.3}
	b := []float32{0.4, 0.5}
	c := []float32{0.6}

	first := stemplay.NewStore()
	first.Load(stemplay.Drums, a, 44100)
	first.Load(stemplay.Vocals, b, 44100)
	first.Load(stemplay.Bass, c, 44100)

	second := stemplay.NewStore()
	second.Load(stemplay.Bass, c, 44100)
	second.Load(stemplay.Drums, a, 44100)
	second.Load(stemplay.Vocals, b, 44100)

	out1 := make([]float32, 3)
	out2 := make([]float32, 3)
	stemplay.NewMixer(first).MixBlock(out1)
	stemplay.NewMixer(second).MixBlock(out2)
	if !almostEqual(out1, out2) {
		t.Fatalf("permuted stores mixed differently: %v vs %v", out1, out2)
	}
}

func TestEveryTrackAdvances(t *testing.T) {
	store := stemplay.NewStore()
	store.Load(stemplay.Drums, make([]float32, 1024), 44100)
	store.Load(stemplay.Vocals, make([]float32, 64), 44100) // ends mid-test
	store.Load(stemplay.Bass, make([]float32, 1024), 44100)
	store.ToggleMute(stemplay.Bass)
	store.ToggleSolo(stemplay.Drums) // vocals soloed out

	mixer := stemplay.NewMixer(store)
	out := make([]float32, 128)
	const blocks = 5
	for i := 0; i < blocks; i++ {
		mixer.MixBlock(out)
	}
	for _, name := range []stemplay.TrackName{stemplay.Drums, stemplay.Vocals, stemplay.Bass} {
		if pos := store.Track(name).Pos(); pos != blocks*len(out) {
			t.Errorf("%s: cursor at %d, want %d", name, pos, blocks*len(out))
		}
	}
}

func TestMutingNeverFreezesCursor(t *testing.T) {
	store := stemplay.NewStore()
	store.Load(stemplay.Drums, make([]float32, 4096), 44100)
	store.Load(stemplay.Vocals, make([]float32, 4096), 44100)
	mixer := stemplay.NewMixer(store)
	out := make([]float32, 256)

	mixer.MixBlock(out)
	store.ToggleMute(stemplay.Vocals)
	mixer.MixBlock(out)
	store.ToggleMute(stemplay.Vocals)
	mixer.MixBlock(out)

	drums := store.Track(stemplay.Drums).Pos()
	vocals := store.Track(stemplay.Vocals).Pos()
	if drums != vocals {
		t.Fatalf("cursors desynchronized: drums %d, vocals %d", drums, vocals)
	}
}

func TestFinishedTrackEmitsSilenceAndKeepsAdvancing(t *testing.T) {
	store := stemplay.NewStore()
	store.Load(stemplay.Vocals, []float32{1, 1}, 44100)
	store.SetGain(stemplay.Vocals, 1)
	mixer := stemplay.NewMixer(store)
	out := make([]float32, 4)

	mixer.MixBlock(out)
	if !almostEqual(out, []float32{1, 1, 0, 0}) {
		t.Fatalf("got %v, want zero-padded tail", out)
	}
	mixer.MixBlock(out)
	if !almostEqual(out, []float32{0, 0, 0, 0}) {
		t.Fatalf("got %v, want silence past the end", out)
	}
	if pos := store.Track(stemplay.Vocals).Pos(); pos != 8 {
		t.Fatalf("cursor at %d, want 8", pos)
	}
}

func TestGainChangeAppliesNextBlock(t *testing.T) {
	store := stemplay.NewStore()
	store.Load(stemplay.Drums, []float32{1, 1, 1, 1}, 44100)
	store.SetGain(stemplay.Drums, 1)
	mixer := stemplay.NewMixer(store)
	out := make([]float32, 2)

	mixer.MixBlock(out)
	if !almostEqual(out, []float32{1, 1}) {
		t.Fatalf("got %v, want unity gain", out)
	}
	store.SetGain(stemplay.Drums, 0.25)
	mixer.MixBlock(out)
	if !almostEqual(out, []float32{0.25, 0.25}) {
		t.Fatalf("got %v, want quarter gain", out)
	}
}
