// Package cmd holds wiring shared by the command line binaries,
// including the cgo-gated MIDI control surface construction.
package cmd

// MidiContext is the control surface handle the binaries hold: either
// a real MIDI listener or a null implementation when MIDI is
// unavailable.
type MidiContext interface {
	TryOpenByPrefix(prefix string) error
	Close()
}

// NullMidiContext is used when the build has no MIDI support.
type NullMidiContext struct{}

func (NullMidiContext) TryOpenByPrefix(prefix string) error { return errNoMidi }
func (NullMidiContext) Close()                              {}
