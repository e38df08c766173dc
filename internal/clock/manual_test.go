package clock

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string

	m.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(200*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(250 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("after 250ms (-want +got):\n%s", diff)
	}

	m.Advance(50 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("after 300ms (-want +got):\n%s", diff)
	}
}

func TestManual_EqualDueFiresInScheduleOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		m.AfterFunc(time.Second, func() { got = append(got, i) })
	}
	m.Advance(time.Second)
	if diff := cmp.Diff([]int{0, 1, 2}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestManual_NowTracksCallbackTime(t *testing.T) {
	m := NewManual(epoch)
	var at time.Time
	m.AfterFunc(400*time.Millisecond, func() { at = m.Now() })

	m.Advance(time.Second)
	if want := epoch.Add(400 * time.Millisecond); !at.Equal(want) {
		t.Errorf("callback saw %v, want %v", at, want)
	}
	if want := epoch.Add(time.Second); !m.Now().Equal(want) {
		t.Errorf("now = %v, want %v", m.Now(), want)
	}
}

func TestManual_CallbackCanReschedule(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		m.AfterFunc(time.Second, tick)
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(3500 * time.Millisecond)
	if count != 3 {
		t.Errorf("expected 3 ticks, got %d", count)
	}
	if m.Pending() != 1 {
		t.Errorf("expected 1 pending timer, got %d", m.Pending())
	}
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("first Stop should report the timer was pending")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}

	m.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestManual_StopAfterFire(t *testing.T) {
	m := NewManual(epoch)
	timer := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)
	if timer.Stop() {
		t.Error("Stop after fire should report false")
	}
}
