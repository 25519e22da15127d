package demo

import (
	"testing"

	"serial-scope/internal/channel"
)

func TestGeneratorFeedsFirstThreeChannels(t *testing.T) {
	set := channel.NewSet(10, 16)
	g := NewGenerator(set, 0)

	for i := 0; i < 5; i++ {
		g.step()
	}

	for id := channel.ID(0); id < 3; id++ {
		if _, ok := set.Channel(id).Queue.DrainLatest(); !ok {
			t.Errorf("channel %d received no demo samples", id+1)
		}
	}
	for id := channel.ID(3); id < channel.NumChannels; id++ {
		if _, ok := set.Channel(id).Queue.DrainLatest(); ok {
			t.Errorf("channel %d received demo samples, want none", id+1)
		}
	}
}

func TestGeneratorStartStop(t *testing.T) {
	set := channel.NewSet(10, 64)
	g := NewGenerator(set, DefaultInterval)
	g.Start()
	g.Stop()
}
