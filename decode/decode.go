// Package decode turns audio files into mono float32 sample buffers at
// their native sample rate. Multichannel sources are downmixed by
// channel mean. Formats: wav, flac, mp3.
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// ErrUnsupported is returned for file extensions no decoder handles.
var ErrUnsupported = errors.New("unsupported audio format")

// Decode reads path into mono samples and reports the file's native
// sample rate.
func Decode(path string) ([]float32, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(path)
	case ".flac":
		return decodeFLAC(path)
	case ".mp3":
		return decodeMP3(path)
	default:
		return nil, 0, fmt.Errorf("decode %v: %w", path, ErrUnsupported)
	}
}

// IsAudioFile reports whether path has an extension Decode handles.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".flac", ".mp3":
		return true
	}
	return false
}

func decodeWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav %v: %w", path, err)
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav %v: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, 0, fmt.Errorf("decode wav %v: missing format header", path)
	}
	bits := int(dec.BitDepth)
	if bits <= 0 || bits > 32 {
		return nil, 0, fmt.Errorf("decode wav %v: bad bit depth %d", path, bits)
	}
	samples := downmixInts(buf.Data, buf.Format.NumChannels, float32(int64(1)<<(bits-1)))
	return samples, buf.Format.SampleRate, nil
}

func decodeFLAC(path string) ([]float32, int, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("decode flac %v: %w", path, err)
	}
	defer stream.Close()
	info := stream.Info
	channels := int(info.NChannels)
	if channels <= 0 {
		return nil, 0, fmt.Errorf("decode flac %v: no channels", path)
	}
	scale := float32(int64(1) << (info.BitsPerSample - 1))
	out := make([]float32, 0, info.NSamples)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode flac %v: %w", path, err)
		}
		for i := 0; i < len(frame.Subframes[0].Samples); i++ {
			var sum float32
			for c := 0; c < channels; c++ {
				sum += float32(frame.Subframes[c].Samples[i])
			}
			out = append(out, sum/(float32(channels)*scale))
		}
	}
	return out, int(info.SampleRate), nil
}

// go-mp3 always emits 16-bit little-endian stereo.
func decodeMP3(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("decode mp3 %v: %w", path, err)
	}
	defer f.Close()
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decode mp3 %v: %w", path, err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("decode mp3 %v: %w", path, err)
	}
	frames := len(raw) / 4
	out := make([]float32, frames)
	for i := range out {
		l := int16(binary.LittleEndian.Uint16(raw[4*i:]))
		r := int16(binary.LittleEndian.Uint16(raw[4*i+2:]))
		out[i] = (float32(l) + float32(r)) / (2 * 32768)
	}
	return out, dec.SampleRate(), nil
}

func downmixInts(data []int, channels int, scale float32) []float32 {
	if channels == 1 {
		out := make([]float32, len(data))
		for i, v := range data {
			out[i] = float32(v) / scale
		}
		return out
	}
	frames := len(data) / channels
	out := make([]float32, frames)
	for i := range out {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(data[i*channels+c])
		}
		out[i] = sum / (float32(channels) * scale)
	}
	return out
}
