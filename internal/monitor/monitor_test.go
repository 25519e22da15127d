package monitor

import (
	"testing"

	"serial-scope/internal/channel"
	"serial-scope/internal/recorder"
)

func TestTickUpdatesOnlyChannelsWithData(t *testing.T) {
	set := channel.NewSet(4, 16)
	var updates []channel.ID
	sink := SinkFunc(func(id channel.ID, values []float64, pos int) {
		updates = append(updates, id)
	})
	m := New(set, nil, sink, 0)

	set.Enqueue(0, 1.0)
	set.Enqueue(1, 2.0)

	if !m.Tick() {
		t.Fatal("Tick reported no update")
	}
	if len(updates) != 2 || updates[0] != 0 || updates[1] != 1 {
		t.Fatalf("updates = %v, want [0 1]", updates)
	}

	w := set.Channel(0).Window
	if got := w.Values()[w.Size()-1]; got != 1.0 {
		t.Errorf("channel 1 window tail = %v, want 1", got)
	}
	for id := channel.ID(2); id < channel.NumChannels; id++ {
		if set.Channel(id).Window.Position() != -4 {
			t.Errorf("channel %d window moved without data", id+1)
		}
	}
}

func TestTickIdempotentWithoutData(t *testing.T) {
	set := channel.NewSet(4, 16)
	m := New(set, nil, nil, 0)

	set.Enqueue(0, 7.0)
	m.Tick()
	before := set.Channel(0).Window.Position()

	if m.Tick() {
		t.Error("Tick with no new samples reported an update")
	}
	if got := set.Channel(0).Window.Position(); got != before {
		t.Errorf("window position changed %d -> %d on empty tick", before, got)
	}
}

func TestTickCoalescesBacklogToLatest(t *testing.T) {
	set := channel.NewSet(4, 16)
	m := New(set, nil, nil, 0)

	for _, v := range []float64{1, 2, 3, 4, 5} {
		set.Enqueue(2, v)
	}
	m.Tick()

	w := set.Channel(2).Window
	if got := w.Values()[w.Size()-1]; got != 5 {
		t.Errorf("window tail = %v, want 5 (latest of backlog)", got)
	}
	if got := w.Position(); got != -3 {
		t.Errorf("position = %d, want -3 (single push per tick)", got)
	}
}

func TestTickRecordsRowWithBlanks(t *testing.T) {
	set := channel.NewSet(4, 16)
	rec := recorder.New()
	m := New(set, rec, nil, 0)

	rec.Start()
	set.Enqueue(1, 42)
	m.Tick()

	// No updates this tick: nothing is appended.
	m.Tick()

	rows := rec.Stop()
	if len(rows) != 1 {
		t.Fatalf("recorded %d rows, want 1", len(rows))
	}
	row := rows[0]
	if !row.Present[1] || row.Values[1] != 42 {
		t.Errorf("row channel 2 = (%v, %v), want (42, true)", row.Values[1], row.Present[1])
	}
	for _, id := range []int{0, 2, 3, 4, 5} {
		if row.Present[id] {
			t.Errorf("row channel %d present, want blank", id+1)
		}
	}
	if row.At.IsZero() {
		t.Error("row timestamp not set")
	}
}

func TestTickSkipsRecorderWhenInactive(t *testing.T) {
	set := channel.NewSet(4, 16)
	rec := recorder.New()
	m := New(set, rec, nil, 0)

	set.Enqueue(0, 1)
	m.Tick()

	rec.Start()
	if got := rec.Len(); got != 0 {
		t.Errorf("rows = %d, want 0 (tick before Start must not record)", got)
	}
}
