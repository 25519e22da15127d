// Package demo feeds three synthetic channels into the pipeline so the
// display and recording paths can be exercised without hardware.
package demo

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"serial-scope/internal/channel"
)

// DefaultInterval paces the synthetic signals at 50 Hz.
const DefaultInterval = 20 * time.Millisecond

// signals are the three synthetic waveforms, one per channel starting at
// channel 1.
var signals = []func(x float64) float64{
	func(x float64) float64 { return math.Sin(x) + math.Sin(2*x) + 0.1*rand.NormFloat64() },
	func(x float64) float64 { return math.Sin(0.5*x) + 0.3*rand.NormFloat64() },
	func(x float64) float64 { return 0.7*math.Cos(x) + 0.4*math.Sin(3*x) + 0.1*rand.NormFloat64() },
}

// Generator enqueues synthetic samples on a fixed interval, standing in for
// the acquisition loop as the producer side of the queues.
type Generator struct {
	set      *channel.Set
	interval time.Duration
	phase    float64

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewGenerator(set *channel.Set, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Generator{
		set:      set,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the signal ticker.
func (g *Generator) Start() {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()
		for {
			select {
			case <-g.stopChan:
				return
			case <-ticker.C:
				g.step()
			}
		}
	}()
}

func (g *Generator) step() {
	x := g.phase
	g.phase += 0.08
	for i, fn := range signals {
		g.set.Enqueue(channel.ID(i), fn(x))
	}
}

// Stop halts the generator and waits for it to exit.
func (g *Generator) Stop() {
	close(g.stopChan)
	g.wg.Wait()
}
