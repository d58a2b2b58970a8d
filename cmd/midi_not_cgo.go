//go:build !cgo

package cmd

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/stemplay/stemplay"
)

var errNoMidi = errors.New("MIDI support requires a cgo build")

func NewMidiContext(store *stemplay.Store, log *logrus.Logger) MidiContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return NullMidiContext{}
}
