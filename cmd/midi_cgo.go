//go:build cgo

package cmd

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/stemplay/stemplay"
	"github.com/stemplay/stemplay/midi"
)

var errNoMidi = errors.New("MIDI support not available")

func NewMidiContext(store *stemplay.Store, log *logrus.Logger) MidiContext {
	return midi.NewContext(store, log)
}
