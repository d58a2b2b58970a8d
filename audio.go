package stemplay

type (
	// AudioBuffer is one block of mono float32 frames the device asks to
	// be filled.
	AudioBuffer []float32

	// AudioContext represents the low-level audio device. There should
	// be at most one AudioContext at a time. Play opens an output stream
	// and registers the callback the device pulls blocks through. The
	// callback runs on the device goroutine: it must not block, and any
	// failure inside it must surface as a silent block, never as a
	// stream abort.
	AudioContext interface {
		Play(callback func(buf AudioBuffer) error) (Stream, error)
		SampleRate() int
		Close() error
	}

	// Stream is a started output stream. Pause stops callback
	// invocations but keeps the device open so playback resumes without
	// renegotiation; Close releases the device and does not return
	// before any in-flight callback has completed.
	Stream interface {
		Pause()
		Resume()
		Close() error
	}
)
