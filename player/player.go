package player

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/stemplay/stemplay"
)

// Player owns the output stream lifecycle and drives the mixer once per
// device-requested block. The transport is a three-state machine:
// stopped (no stream), playing, and paused (stream held open, callbacks
// suspended). TogglePlay moves between playing and paused; Stop
// releases the stream entirely.
//
// All lifecycle methods are called from the control context and
// serialized by a mutex. The device callback never takes that mutex; it
// talks to the control side only through atomics and broker channels.
type Player struct {
	store  *stemplay.Store
	mixer  *stemplay.Mixer
	broker *Broker

	context stemplay.AudioContext

	mu      sync.Mutex
	stream  stemplay.Stream
	playing atomic.Bool
}

func New(store *stemplay.Store, context stemplay.AudioContext, broker *Broker) *Player {
	return &Player{
		store:   store,
		mixer:   stemplay.NewMixer(store),
		broker:  broker,
		context: context,
	}
}

// TogglePlay starts playback, or pauses it when already playing. The
// stream is opened on first use and kept open across pauses so resume
// is instant. Does nothing when the store is empty. If the device
// cannot be opened the error is returned and the transport stays
// stopped; the caller must not flip its own state optimistically.
func (p *Player) TogglePlay() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.store.Len() == 0 {
		return nil
	}
	if p.playing.Load() {
		p.stream.Pause()
		p.playing.Store(false)
		return nil
	}
	if p.stream == nil {
		stream, err := p.context.Play(p.Process)
		if err != nil {
			return fmt.Errorf("cannot open output stream: %w", err)
		}
		p.stream = stream
	} else {
		p.stream.Resume()
	}
	p.playing.Store(true)
	return nil
}

// Stop releases the stream and returns the transport to stopped. It
// does not return before an in-flight block has completed, so track
// data may be swapped out safely afterwards. Positions are left where
// they are; Seek(0) rewinds explicitly.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing.Store(false)
	if p.stream == nil {
		return nil
	}
	err := p.stream.Close()
	p.stream = nil
	if err != nil {
		return fmt.Errorf("cannot close output stream: %w", err)
	}
	return nil
}

// Seek moves the transport to percent. While playing the request is
// handed to the device callback and takes effect on the next block;
// the callback is the only writer of cursors during playback. While
// stopped or paused it is applied immediately.
func (p *Player) Seek(percent float64) {
	if p.playing.Load() {
		TrySend[any](p.broker.ToPlayer, SeekMsg{Percent: percent})
		return
	}
	p.store.Seek(percent)
}

func (p *Player) Playing() bool { return p.playing.Load() }

// Position returns the master transport position in percent.
func (p *Player) Position() float64 { return p.store.Percent() }

// Process is the device callback: drain pending control messages, mix
// one block, push a snapshot to observers. It must never fail upwards;
// if mixing panics the block is zeroed and the failure is reported
// through the broker instead, where the control context can log it.
func (p *Player) Process(buf stemplay.AudioBuffer) error {
	defer func() {
		if r := recover(); r != nil {
			// whatever broke the mix pass must not be touched again here
			clear(buf)
			TrySend(p.broker.ToUI, MsgToUI{
				Playing: p.playing.Load(),
				Err:     fmt.Errorf("block silenced: %v", r),
			})
		}
	}()
	p.processMessages()
	p.mixer.MixBlock(buf)
	TrySend(p.broker.ToUI, MsgToUI{Playing: p.playing.Load(), Percent: p.store.Percent()})
	return nil
}

func (p *Player) processMessages() {
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			switch m := msg.(type) {
			case SeekMsg:
				p.store.Seek(m.Percent)
			default:
				// ignore unknown messages
			}
		default:
			return
		}
	}
}
