package player

import "time"

// DefaultReportInterval is the usual UI redraw period.
const DefaultReportInterval = 20 * time.Millisecond

// Reporter polls the transport at a fixed interval and hands a
// snapshot to an observer, the way a UI redraw timer would. It only
// reads atomically published state, so it never blocks the device
// callback; a snapshot may be one block stale, which is fine for
// display.
type Reporter struct {
	player   *Player
	interval time.Duration
	done     chan struct{}
}

func NewReporter(p *Player, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &Reporter{player: p, interval: interval, done: make(chan struct{})}
}

// Run calls observe once per tick until Close. Blocks; run it in its
// own goroutine.
func (r *Reporter) Run(observe func(playing bool, percent float64)) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			observe(r.player.Playing(), r.player.Position())
		case <-r.done:
			return
		}
	}
}

func (r *Reporter) Close() {
	close(r.done)
}
