package player

type (
	// Broker carries messages between the control surface and the
	// device callback. Control-to-callback messages go through ToPlayer
	// and are drained at the start of every block, so the callback is
	// the only goroutine writing cursors while a stream runs.
	// Callback-to-observer messages go through ToUI and are always sent
	// with TrySend, so the callback can never stall on a slow observer.
	Broker struct {
		ToPlayer chan any
		ToUI     chan MsgToUI
	}

	// MsgToUI is a transport snapshot pushed to observers once per
	// block. Err is non-nil when a block had to be silenced.
	MsgToUI struct {
		Playing bool
		Percent float64
		Err     error
	}

	// SeekMsg asks the callback to move the transport to a percentage
	// of the song.
	SeekMsg struct {
		Percent float64
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToPlayer: make(chan any, 64),
		ToUI:     make(chan MsgToUI, 64),
	}
}

// TrySend sends v to c unless the channel is full. It is guaranteed to
// be non-blocking; the return value tells whether the value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}
