package wizard

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_RunsOnlyLastScheduled(t *testing.T) {
	clock := newMockClock()
	d := NewDebouncer(clock, 300*time.Millisecond)

	var runs, last atomic.Int32
	for i := 1; i <= 3; i++ {
		d.Schedule(func() {
			runs.Add(1)
			last.Store(int32(i))
		})
		clock.Advance(100 * time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)
	require.Zero(t, runs.Load(), "superseded timers must not fire")

	clock.Advance(300 * time.Millisecond)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	require.Equal(t, int32(1), runs.Load())
	require.Equal(t, int32(3), last.Load())
	require.False(t, d.Pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	clock := newMockClock()
	d := NewDebouncer(clock, 300*time.Millisecond)

	var runs atomic.Int32
	d.Schedule(func() { runs.Add(1) })
	require.True(t, d.Pending())

	d.Cancel()
	require.False(t, d.Pending())

	clock.Advance(time.Second)
	time.Sleep(10 * time.Millisecond)
	require.Zero(t, runs.Load())
}

func TestDebouncer_ZeroDelayRunsInline(t *testing.T) {
	d := NewDebouncer(nil, 0)

	ran := false
	d.Schedule(func() { ran = true })
	require.True(t, ran)
}

func TestDebouncer_RealClock(t *testing.T) {
	d := NewDebouncer(RealClock{}, 5*time.Millisecond)

	done := make(chan struct{})
	d.Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function did not run")
	}
}
