package countdown

import (
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kickoff = time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		target string
		now    time.Time
		want   Remaining
	}{
		{
			name:   "one of each unit",
			target: "2026-03-07T15:00:00Z",
			now:    kickoff.Add(-(24*time.Hour + time.Hour + time.Minute + time.Second)),
			want:   Remaining{Days: "01", Hours: "01", Minutes: "01", Seconds: "01"},
		},
		{
			name:   "sub-second remainder is floored",
			target: "2026-03-07T15:00:00Z",
			now:    kickoff.Add(-1999 * time.Millisecond),
			want:   Remaining{Days: "00", Hours: "00", Minutes: "00", Seconds: "01"},
		},
		{
			name:   "days are not wrapped",
			target: "2026-03-07T15:00:00Z",
			now:    kickoff.Add(-123 * 24 * time.Hour),
			want:   Remaining{Days: "123", Hours: "00", Minutes: "00", Seconds: "00"},
		},
		{
			name:   "less than a second left",
			target: "2026-03-07T15:00:00Z",
			now:    kickoff.Add(-500 * time.Millisecond),
			want:   Zero,
		},
		{
			name:   "target reached",
			target: "2026-03-07T15:00:00Z",
			now:    kickoff,
			want:   Zero,
		},
		{
			name:   "target passed",
			target: "2026-03-07T15:00:00Z",
			now:    kickoff.Add(time.Hour),
			want:   Zero,
		},
		{name: "empty target", target: "", now: kickoff, want: Zero},
		{name: "unparsable target", target: "kick-off soon", now: kickoff, want: Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.target, tt.now))
		})
	}
}

func TestUntil_SumsToWholeSeconds(t *testing.T) {
	offsets := []time.Duration{
		time.Second,
		59 * time.Second,
		time.Hour + 1500*time.Millisecond,
		23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond,
		400*24*time.Hour + 7*time.Minute,
	}

	for _, d := range offsets {
		now := kickoff.Add(-d)
		r := Until(kickoff, now)

		total := atoi(t, r.Days)*86400 + atoi(t, r.Hours)*3600 + atoi(t, r.Minutes)*60 + atoi(t, r.Seconds)
		assert.Equal(t, int64(d/time.Second), total, "offset %s", d)
		assert.Len(t, r.Hours, 2)
		assert.Len(t, r.Minutes, 2)
		assert.Len(t, r.Seconds, 2)
	}
}

func TestRemaining_String(t *testing.T) {
	r := Remaining{Days: "02", Hours: "03", Minutes: "04", Seconds: "05"}
	assert.Equal(t, "02d 03:04:05", r.String())
	assert.False(t, r.IsZero())
	assert.True(t, Zero.IsZero())
}

func TestEngine_TicksEverySecond(t *testing.T) {
	clock := clockwork.NewFakeClockAt(kickoff.Add(-90 * time.Second))
	ticks := make(chan Remaining, 16)
	e := NewEngine(clock, func(r Remaining) { ticks <- r })
	defer e.Stop()

	e.SetTarget("2026-03-07T15:00:00Z")
	assert.Equal(t, Remaining{Days: "00", Hours: "00", Minutes: "01", Seconds: "30"}, receive(t, ticks))

	clock.Advance(time.Second)
	assert.Equal(t, Remaining{Days: "00", Hours: "00", Minutes: "01", Seconds: "29"}, receive(t, ticks))

	clock.Advance(time.Second)
	assert.Equal(t, Remaining{Days: "00", Hours: "00", Minutes: "01", Seconds: "28"}, receive(t, ticks))
	assert.Equal(t, "28", e.Current().Seconds)
	assertNoTick(t, ticks)
}

func TestEngine_TargetChangeResetsCadence(t *testing.T) {
	clock := clockwork.NewFakeClockAt(kickoff.Add(-time.Hour))
	ticks := make(chan Remaining, 16)
	e := NewEngine(clock, func(r Remaining) { ticks <- r })
	defer e.Stop()

	e.SetTarget("2026-03-07T15:00:00Z")
	receive(t, ticks)

	clock.Advance(500 * time.Millisecond)
	e.SetTarget("2026-03-07T16:00:00Z")
	assert.Equal(t, "01", receive(t, ticks).Hours, "new target is computed immediately")

	// The old schedule would have fired here.
	clock.Advance(500 * time.Millisecond)
	assertNoTick(t, ticks)

	clock.Advance(500 * time.Millisecond)
	got := receive(t, ticks)
	assert.Equal(t, Remaining{Days: "00", Hours: "01", Minutes: "59", Seconds: "58"}, got)
	assertNoTick(t, ticks)
}

func TestEngine_SameTargetIsNoop(t *testing.T) {
	clock := clockwork.NewFakeClockAt(kickoff.Add(-time.Minute))
	ticks := make(chan Remaining, 16)
	e := NewEngine(clock, func(r Remaining) { ticks <- r })
	defer e.Stop()

	e.SetTarget("2026-03-07T15:00:00Z")
	receive(t, ticks)

	clock.Advance(700 * time.Millisecond)
	e.SetTarget("2026-03-07T15:00:00Z")
	assertNoTick(t, ticks)

	// Still on the original schedule.
	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, "59", receive(t, ticks).Seconds)
}

func TestEngine_StopReleasesTicker(t *testing.T) {
	clock := clockwork.NewFakeClockAt(kickoff.Add(-time.Minute))
	ticks := make(chan Remaining, 16)
	e := NewEngine(clock, func(r Remaining) { ticks <- r })

	assert.False(t, e.Running())
	e.SetTarget("2026-03-07T15:00:00Z")
	receive(t, ticks)
	assert.True(t, e.Running())

	e.Stop()
	e.Stop()
	assert.False(t, e.Running())

	clock.Advance(5 * time.Second)
	assertNoTick(t, ticks)
}

func TestEngine_InvalidTargetStaysZero(t *testing.T) {
	clock := clockwork.NewFakeClockAt(kickoff)
	ticks := make(chan Remaining, 16)
	e := NewEngine(clock, func(r Remaining) { ticks <- r })
	defer e.Stop()

	e.SetTarget("not a date")
	assert.Equal(t, Zero, receive(t, ticks))

	clock.Advance(time.Second)
	assert.Equal(t, Zero, receive(t, ticks))
}

func receive(t *testing.T, ch <-chan Remaining) Remaining {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for tick")
		return Remaining{}
	}
}

func assertNoTick(t *testing.T, ch <-chan Remaining) {
	t.Helper()
	select {
	case r := <-ch:
		assert.Fail(t, "unexpected tick", "got %v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func atoi(t *testing.T, s string) int64 {
	t.Helper()
	n, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	return n
}
