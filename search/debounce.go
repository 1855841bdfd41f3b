package search

import "time"

// debouncer keeps at most one live timer. Each trigger replaces the pending
// one, so only the last trigger in a quiet window fires. It is owned by the
// orchestrator's event loop and is not safe for concurrent use.
type debouncer struct {
	interval time.Duration
	timer    *time.Timer
	seq      uint64
	fire     func(seq uint64)
}

func newDebouncer(interval time.Duration, fire func(seq uint64)) *debouncer {
	return &debouncer{interval: interval, fire: fire}
}

// trigger schedules fire after the interval, replacing any pending timer.
func (d *debouncer) trigger() uint64 {
	d.stop()
	seq := d.seq
	d.timer = time.AfterFunc(d.interval, func() { d.fire(seq) })
	return seq
}

// stop cancels the pending timer. A timer that already fired is invalidated
// through the sequence number.
func (d *debouncer) stop() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fired reports whether seq belongs to the live trigger and consumes it.
func (d *debouncer) fired(seq uint64) bool {
	if d.timer == nil || seq != d.seq {
		return false
	}
	d.timer = nil
	return true
}
