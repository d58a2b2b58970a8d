package oto

import (
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/stemplay/stemplay"
)

type (
	// Context wraps an oto/v3 context as a stemplay.AudioContext with a
	// single mono float32 output stream.
	Context struct {
		context    *oto.Context
		sampleRate int
	}

	stream struct {
		player *oto.Player
	}

	// reader adapts the mix callback to the io.Reader the oto player
	// pulls from. Read runs on the device goroutine; it never returns an
	// error and never lets a panic escape. Failed blocks come out as
	// silence, the player reports the failure on its own side channel.
	reader struct {
		callback func(buf stemplay.AudioBuffer) error
		floatBuf stemplay.AudioBuffer
	}
)

// bufferLength is the driver-side buffering. The device then pulls
// blocks of roughly this many frames from the callback.
const bufferLength = 40 * time.Millisecond

const bytesPerFrame = 4 // mono float32

// NewContext opens the audio device at the given sample rate. There can
// be only one Context per process.
func NewContext(sampleRate int) (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferLength,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context, sampleRate: sampleRate}, nil
}

func (c *Context) SampleRate() int { return c.sampleRate }

// Play opens an output stream pulling blocks through callback and
// starts it immediately.
func (c *Context) Play(callback func(buf stemplay.AudioBuffer) error) (stemplay.Stream, error) {
	player := c.context.NewPlayer(&reader{callback: callback})
	player.Play()
	return &stream{player: player}, nil
}

// Close suspends the device. oto contexts cannot be torn down, so this
// is as released as the device gets.
func (c *Context) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (s *stream) Pause()  { s.player.Pause() }
func (s *stream) Resume() { s.player.Play() }

// Close releases the stream. oto waits for the device side to finish
// with the buffer, so no callback is in flight once this returns.
func (s *stream) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

func (r *reader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if cap(r.floatBuf) < frames {
		r.floatBuf = make(stemplay.AudioBuffer, frames)
	}
	buf := r.floatBuf[:frames]
	r.fill(buf)
	for i, v := range buf {
		bits := math.Float32bits(v)
		p[bytesPerFrame*i] = byte(bits)
		p[bytesPerFrame*i+1] = byte(bits >> 8)
		p[bytesPerFrame*i+2] = byte(bits >> 16)
		p[bytesPerFrame*i+3] = byte(bits >> 24)
	}
	return frames * bytesPerFrame, nil
}

// fill runs the callback behind a recover fence. Whatever happens, the
// device read sees a fully written buffer.
func (r *reader) fill(buf stemplay.AudioBuffer) {
	defer func() {
		if recover() != nil {
			clear(buf)
		}
	}()
	if err := r.callback(buf); err != nil {
		clear(buf)
	}
}
