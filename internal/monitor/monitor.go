// Package monitor drives the consumer side of the pipeline: a periodic tick
// that drains every channel queue, scrolls the rolling windows and hands the
// results to a display sink and the recorder.
package monitor

import (
	"sync"
	"time"

	"serial-scope/internal/channel"
	"serial-scope/internal/recorder"
)

// DefaultInterval is the consumer tick period, roughly display refresh rate.
const DefaultInterval = 16 * time.Millisecond

// Sink receives window updates for display. Update is called once per channel
// per tick, only when that channel produced a new sample. values is the
// window's backing slice and must not be retained.
type Sink interface {
	Update(id channel.ID, values []float64, pos int)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(id channel.ID, values []float64, pos int)

func (f SinkFunc) Update(id channel.ID, values []float64, pos int) {
	f(id, values, pos)
}

// Monitor owns all consumer-side state. Windows are mutated only from its
// tick, so they need no locking; the queues provide the synchronization with
// the acquisition side.
type Monitor struct {
	set      *channel.Set
	rec      *recorder.Recorder
	sink     Sink
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func New(set *channel.Set, rec *recorder.Recorder, sink Sink, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		set:      set,
		rec:      rec,
		sink:     sink,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the tick loop.
func (m *Monitor) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stopChan:
				return
			case <-ticker.C:
				m.Tick()
			}
		}
	}()
}

// Stop halts the tick loop and waits for it to exit.
func (m *Monitor) Stop() {
	close(m.stopChan)
	m.wg.Wait()
}

// Tick performs one consumer pass: per channel, coalesce the queue backlog to
// its latest value, push it into the window and notify the sink. If at least
// one channel updated and recording is active, a row is appended. Returns
// true when any channel updated; a tick with no new samples changes nothing.
func (m *Monitor) Tick() bool {
	var row recorder.Row
	updated := false

	for id := channel.ID(0); id < channel.NumChannels; id++ {
		ch := m.set.Channel(id)
		v, ok := ch.Queue.DrainLatest()
		if !ok {
			continue
		}
		pos := ch.Window.Push(v)
		if m.sink != nil {
			m.sink.Update(id, ch.Window.Values(), pos)
		}
		row.Values[id] = v
		row.Present[id] = true
		updated = true
	}

	if updated && m.rec != nil && m.rec.Active() {
		row.At = time.Now()
		m.rec.Append(row)
	}
	return updated
}
