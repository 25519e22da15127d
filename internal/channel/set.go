package channel

import (
	"fmt"
	"sync"
)

// defaultColors are the default curve colors per channel, in display order.
var defaultColors = [NumChannels]string{
	"#00ffe7", "#ff2d78", "#39ff14", "#ffe600", "#bf5fff", "#ff8c00",
}

// Metadata is the presentation info a display collaborator attaches to a
// channel. The core stores and reports it; rendering is someone else's job.
type Metadata struct {
	Name  string
	Color string
}

// Channel bundles the pipeline state for one logical channel.
type Channel struct {
	Queue  *Queue
	Window *Window
}

// Set owns the buffer, window and metadata for every channel. It is built
// once and shared by reference between the acquisition and consumer contexts;
// the queues are the only part touched from both sides.
type Set struct {
	channels [NumChannels]Channel

	mu   sync.RWMutex
	meta [NumChannels]Metadata
}

// NewSet allocates all per-channel state up front. windowSize is the rolling
// window length, queueCapacity the bounded queue depth (0 for the default).
func NewSet(windowSize, queueCapacity int) *Set {
	s := &Set{}
	for i := range s.channels {
		s.channels[i] = Channel{
			Queue:  NewQueue(queueCapacity),
			Window: NewWindow(windowSize),
		}
		s.meta[i] = Metadata{
			Name:  fmt.Sprintf("CH%d", i+1),
			Color: defaultColors[i],
		}
	}
	return s
}

// Channel returns the pipeline state for id.
func (s *Set) Channel(id ID) Channel {
	return s.channels[id]
}

// Enqueue offers a value to the channel's queue. Producer side only.
func (s *Set) Enqueue(id ID, v float64) bool {
	return s.channels[id].Queue.TryEnqueue(v)
}

// Metadata returns the current name and color for id.
func (s *Set) Metadata(id ID) Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta[id]
}

// SetMetadata renames and recolors a channel. Empty fields keep their current
// value.
func (s *Set) SetMetadata(id ID, name, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.meta[id].Name = name
	}
	if color != "" {
		s.meta[id].Color = color
	}
}

// Names returns the current display names in channel order, for the
// recording header.
func (s *Set) Names() [NumChannels]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names [NumChannels]string
	for i, m := range s.meta {
		names[i] = m.Name
	}
	return names
}

// Dropped sums the overflow drop counters across all channels.
func (s *Set) Dropped() uint64 {
	var n uint64
	for i := range s.channels {
		n += s.channels[i].Queue.Dropped()
	}
	return n
}
