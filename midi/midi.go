//go:build cgo

// Package midi turns a hardware MIDI controller into a mixer control
// surface: one CC per stem gain fader, one note pair per stem for mute
// and solo. It only performs single-field state updates on the store,
// the same ones the rest of the control surface does, so it is safe to
// run concurrently with playback.
package midi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/stemplay/stemplay"
)

// gainCCBase maps CC 1..5 onto the stem vocabulary; muteNoteBase maps
// note pairs starting at C1 (24): even offsets toggle mute, odd ones
// solo.
const (
	gainCCBase   = 1
	muteNoteBase = 24
)

type Context struct {
	driver *rtmididrv.Driver
	in     drivers.In
	stop   func()
	store  *stemplay.Store
	log    *logrus.Logger
}

// NewContext opens the MIDI driver. A machine without one is not an
// error; the context just has no devices to offer.
func NewContext(store *stemplay.Store, log *logrus.Logger) *Context {
	c := &Context{store: store, log: log}
	// nil driver = MIDI unavailable
	c.driver, _ = rtmididrv.New()
	return c
}

// TryOpenByPrefix opens the first input device whose name starts with
// prefix and starts listening on it.
func (c *Context) TryOpenByPrefix(prefix string) error {
	if c.driver == nil {
		return errors.New("no MIDI driver available")
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return fmt.Errorf("cannot list MIDI inputs: %w", err)
	}
	for _, in := range ins {
		if strings.HasPrefix(in.String(), prefix) {
			return c.open(in)
		}
	}
	return fmt.Errorf("no MIDI input found with prefix %q", prefix)
}

func (c *Context) open(in drivers.In) error {
	if err := in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(in, c.handleMessage)
	if err != nil {
		in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	c.in = in
	c.stop = stop
	c.log.WithField("device", in.String()).Info("MIDI control surface connected")
	return nil
}

func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity, cc, value uint8
	switch {
	case msg.GetControlChange(&channel, &cc, &value):
		if idx := int(cc) - gainCCBase; idx >= 0 && idx < len(stemplay.TrackNames) {
			c.store.SetGain(stemplay.TrackNames[idx], float32(value)/127)
		}
	case msg.GetNoteOn(&channel, &key, &velocity):
		offset := int(key) - muteNoteBase
		if offset < 0 || offset >= 2*len(stemplay.TrackNames) {
			return
		}
		name := stemplay.TrackNames[offset/2]
		if offset%2 == 0 {
			c.store.ToggleMute(name)
		} else {
			c.store.ToggleSolo(name)
		}
	}
}

func (c *Context) Close() {
	if c.stop != nil {
		c.stop()
	}
	if c.in != nil && c.in.IsOpen() {
		c.in.Close()
	}
	if c.driver != nil {
		c.driver.Close()
	}
}
