package stemplay_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stemplay/stemplay"
)

func exportStore() *stemplay.Store {
	store := stemplay.NewStore()
	store.Load(stemplay.Drums, []float32{0.2, 0.2, 0.2, 0.2}, 44100)
	store.Load(stemplay.Vocals, []float32{1.0, 1.0}, 44100)
	store.SetGain(stemplay.Drums, 1.0)
	store.SetGain(stemplay.Vocals, 0.5)
	return store
}

func TestMixdownLengthAndContent(t *testing.T) {
	store := exportStore()
	mix, err := (&stemplay.Exporter{Store: store}).Mixdown()
	if err != nil {
		t.Fatalf("Mixdown failed: %v", err)
	}
	if len(mix) != store.MaxFrames() {
		t.Fatalf("mixdown has %d frames, want %d", len(mix), store.MaxFrames())
	}
	if !almostEqual(mix, []float32{0.7, 0.7, 0.2, 0.2}) {
		t.Fatalf("got %v, want [0.7 0.7 0.2 0.2]", mix)
	}
}

func TestMixdownIgnoresTransportPosition(t *testing.T) {
	store := exportStore()
	store.Seek(75)
	mix, err := (&stemplay.Exporter{Store: store}).Mixdown()
	if err != nil {
		t.Fatalf("Mixdown failed: %v", err)
	}
	if !almostEqual(mix, []float32{0.7, 0.7, 0.2, 0.2}) {
		t.Fatalf("export must start from frame 0, got %v", mix)
	}
	if pos := store.Track(stemplay.Drums).Pos(); pos != 3 {
		t.Fatalf("export moved the transport cursor to %d", pos)
	}
}

func TestExportDeterministic(t *testing.T) {
	store := exportStore()
	dir := t.TempDir()
	first := filepath.Join(dir, "first.wav")
	second := filepath.Join(dir, "second.wav")
	exporter := &stemplay.Exporter{Store: store, PCM16: true}
	if err := exporter.Export(first); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if err := exporter.Export(second); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if len(a) == 0 || !bytes.Equal(a, b) {
		t.Fatal("repeated exports with unchanged state must be byte-identical")
	}
}

func TestExportRespectsMuteSolo(t *testing.T) {
	store := exportStore()
	store.ToggleSolo(stemplay.Drums)
	mix, err := (&stemplay.Exporter{Store: store}).Mixdown()
	if err != nil {
		t.Fatalf("Mixdown failed: %v", err)
	}
	if !almostEqual(mix, []float32{0.2, 0.2, 0.2, 0.2}) {
		t.Fatalf("got %v, want only the soloed drums", mix)
	}
}

func TestExportEmptyStore(t *testing.T) {
	store := stemplay.NewStore()
	err := (&stemplay.Exporter{Store: store}).Export(filepath.Join(t.TempDir(), "out.wav"))
	if !errors.Is(err, stemplay.ErrNoTracks) {
		t.Fatalf("got %v, want ErrNoTracks", err)
	}
}

func TestExportLeavesNoPartialFile(t *testing.T) {
	store := exportStore()
	dir := filepath.Join(t.TempDir(), "does", "not", "exist")
	path := filepath.Join(dir, "out.wav")
	if err := (&stemplay.Exporter{Store: store}).Export(path); err == nil {
		t.Fatal("expected an error for an unwritable destination")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("a failed export must not leave output behind")
	}
}
