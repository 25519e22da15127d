// Package acquisition runs the transport read loop that feeds the channel
// pipeline.
package acquisition

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"serial-scope/internal/channel"
	"serial-scope/internal/protocol"
)

// State is the acquisition loop lifecycle state.
type State int32

const (
	Idle State = iota
	Running
	Faulted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Stats is a snapshot of the loop's counters.
type Stats struct {
	Frames      uint64 // frames decoded and routed
	UnknownTags uint64 // frames with a tag outside the node table
	ShortFrames uint64 // frames rejected by the decoder
}

// Loop owns the transport handle exclusively and is the only writer into the
// channel queues. Decode and route failures are dropped on the floor; only a
// transport error is surfaced, as a transition to Faulted. The loop does not
// reconnect on its own.
type Loop struct {
	transport io.ReadCloser
	set       *channel.Set

	state   atomic.Int32
	running atomic.Bool
	wg      sync.WaitGroup

	frames      atomic.Uint64
	unknownTags atomic.Uint64
	shortFrames atomic.Uint64
}

func New(transport io.ReadCloser, set *channel.Set) *Loop {
	return &Loop{transport: transport, set: set}
}

// Start launches the read loop. It fails if the loop is already running or
// has faulted; a faulted loop must be rebuilt with a fresh transport.
func (l *Loop) Start() error {
	switch l.State() {
	case Running:
		return fmt.Errorf("acquisition already running")
	case Faulted:
		return fmt.Errorf("acquisition faulted; reconnect required")
	}
	l.running.Store(true)
	l.state.Store(int32(Running))

	l.wg.Add(1)
	go l.run()
	return nil
}

func (l *Loop) run() {
	defer l.wg.Done()

	scanner := protocol.NewFrameScanner(l.transport)
	for l.running.Load() && scanner.Scan() {
		tag, value, ok := protocol.Decode(scanner.Bytes())
		if !ok {
			l.shortFrames.Add(1)
			continue
		}
		id, ok := channel.Route(tag)
		if !ok {
			l.unknownTags.Add(1)
			continue
		}
		l.set.Enqueue(id, value)
		l.frames.Add(1)
	}

	if err := scanner.Err(); err != nil && l.running.Load() {
		log.Printf("acquisition: transport error: %v", err)
		l.running.Store(false)
		l.state.Store(int32(Faulted))
		return
	}
	l.state.Store(int32(Idle))
}

// Stop asks the loop to exit and closes the transport so a blocked read
// returns. It waits for the read goroutine to finish.
func (l *Loop) Stop() error {
	l.running.Store(false)
	err := l.transport.Close()
	l.wg.Wait()
	return err
}

// Wait blocks until the read loop exits on its own (fault or end of stream).
func (l *Loop) Wait() {
	l.wg.Wait()
}

// State reports the current lifecycle state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Stats snapshots the loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Frames:      l.frames.Load(),
		UnknownTags: l.unknownTags.Load(),
		ShortFrames: l.shortFrames.Load(),
	}
}
