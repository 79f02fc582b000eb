package listctl

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	d := NewDebouncer(MinDebounce)
	var fired atomic.Int32

	for i := 0; i < 5; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(MinDebounce + 100*time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestDebouncer_LastFunctionWins(t *testing.T) {
	d := NewDebouncer(MinDebounce)
	var got atomic.Value

	d.Trigger(func() { got.Store("first") })
	d.Trigger(func() { got.Store("second") })

	time.Sleep(MinDebounce + 100*time.Millisecond)
	if v := got.Load(); v != "second" {
		t.Errorf("ran %v, want second", v)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(MinDebounce)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(MinDebounce + 100*time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after Stop, want 0", got)
	}
}

func TestNewDebouncer_ClampsWindow(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{0, DefaultDebounce},
		{50 * time.Millisecond, MinDebounce},
		{time.Second, MaxDebounce},
		{400 * time.Millisecond, 400 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := NewDebouncer(tc.in).window; got != tc.want {
			t.Errorf("NewDebouncer(%v).window = %v, want %v", tc.in, got, tc.want)
		}
	}
}
