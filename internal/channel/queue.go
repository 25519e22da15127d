package channel

import "sync/atomic"

// DefaultQueueCapacity matches the device's worst-case burst between consumer
// ticks with plenty of headroom.
const DefaultQueueCapacity = 5000

// Queue is a bounded FIFO between the acquisition goroutine and the consumer
// tick. It is safe for exactly one producer and one consumer. The producer
// never blocks: once the queue is full new values are dropped, so acquisition
// throughput is never limited by consumer pace.
type Queue struct {
	ch      chan float64
	dropped atomic.Uint64
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{ch: make(chan float64, capacity)}
}

// TryEnqueue offers a value to the queue. It returns false if the queue is
// full and the value was discarded.
func (q *Queue) TryEnqueue(v float64) bool {
	select {
	case q.ch <- v:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// DrainLatest consumes every pending value and returns the most recent one.
// Values superseded within the same tick are discarded; the consumer only
// ever needs the newest sample per channel per tick. Returns ok == false when
// nothing was pending.
func (q *Queue) DrainLatest() (v float64, ok bool) {
	for {
		select {
		case pending := <-q.ch:
			v, ok = pending, true
		default:
			return v, ok
		}
	}
}

// Dropped reports how many values have been discarded due to overflow.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
