package stemplay_test

import (
	"encoding/binary"
	"testing"

	"github.com/stemplay/stemplay"
)

func TestWavPCM16Header(t *testing.T) {
	data, err := stemplay.Wav([]float32{0, 0.5, -0.5, 1}, 44100, true)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if format := binary.LittleEndian.Uint16(data[20:22]); format != 1 {
		t.Errorf("wave format %d, want 1 (PCM)", format)
	}
	if channels := binary.LittleEndian.Uint16(data[22:24]); channels != 1 {
		t.Errorf("%d channels, want mono", channels)
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 44100 {
		t.Errorf("sample rate %d, want 44100", rate)
	}
	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != 16 {
		t.Errorf("%d bits per sample, want 16", bits)
	}
	// 44-byte PCM header + 2 bytes per sample
	if want := 44 + 2*4; len(data) != want {
		t.Errorf("file is %d bytes, want %d", len(data), want)
	}
}

func TestWavFloatHeader(t *testing.T) {
	data, err := stemplay.Wav(make([]float32, 8), 22050, false)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if format := binary.LittleEndian.Uint16(data[20:22]); format != 3 {
		t.Errorf("wave format %d, want 3 (IEEE float)", format)
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 22050 {
		t.Errorf("sample rate %d, want 22050", rate)
	}
	// extended fmt chunk + fact chunk before data
	if string(data[38:42]) != "fact" {
		t.Error("float layout must carry a fact chunk")
	}
	if want := 58 + 4*8; len(data) != want {
		t.Errorf("file is %d bytes, want %d", len(data), want)
	}
}

func TestWavPCM16Clamps(t *testing.T) {
	data, err := stemplay.Wav([]float32{2.0, -2.0}, 44100, true)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	samples := data[44:]
	if got := int16(binary.LittleEndian.Uint16(samples[0:2])); got != 32767 {
		t.Errorf("over-full-scale sample %d, want 32767", got)
	}
	if got := int16(binary.LittleEndian.Uint16(samples[2:4])); got != -32768 {
		t.Errorf("under-full-scale sample %d, want -32768", got)
	}
}

func TestRawHasNoHeader(t *testing.T) {
	data, err := stemplay.Raw([]float32{1, 2, 3}, false)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if len(data) != 3*4 {
		t.Fatalf("raw float output is %d bytes, want 12", len(data))
	}
}
