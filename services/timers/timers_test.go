package timers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleFires(t *testing.T) {
	reg := NewRegistry()

	var fired atomic.Int32
	reg.Schedule("ROOM1", TimerNext, 10*time.Millisecond, func() {
		fired.Add(1)
	})

	assert.True(t, reg.Active("ROOM1", TimerNext))

	assert.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, reg.Active("ROOM1", TimerNext))
}

func TestScheduleReplacesPrevious(t *testing.T) {
	reg := NewRegistry()

	var first, second atomic.Int32
	reg.Schedule("ROOM1", TimerHide, 20*time.Millisecond, func() {
		first.Add(1)
	})
	reg.Schedule("ROOM1", TimerHide, 20*time.Millisecond, func() {
		second.Add(1)
	})

	assert.Eventually(t, func() bool {
		return second.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// The replaced timer must never run
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestCancel(t *testing.T) {
	reg := NewRegistry()

	var fired atomic.Int32
	reg.Schedule("ROOM1", TimerCoin, 20*time.Millisecond, func() {
		fired.Add(1)
	})
	reg.Cancel("ROOM1", TimerCoin)

	assert.False(t, reg.Active("ROOM1", TimerCoin))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestCancelRoom(t *testing.T) {
	reg := NewRegistry()

	var fired atomic.Int32
	cb := func() { fired.Add(1) }
	reg.Schedule("ROOM1", TimerNext, 20*time.Millisecond, cb)
	reg.Schedule("ROOM1", TimerHide, 20*time.Millisecond, cb)
	reg.Schedule("ROOM1", DisconnectTimer("conn-1"), 20*time.Millisecond, cb)
	reg.Schedule("ROOM2", TimerNext, 20*time.Millisecond, cb)

	reg.CancelRoom("ROOM1")

	assert.False(t, reg.Active("ROOM1", TimerNext))
	assert.False(t, reg.Active("ROOM1", TimerHide))
	assert.False(t, reg.Active("ROOM1", DisconnectTimer("conn-1")))

	// The other room's timer survives
	assert.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestTimersAreIndependentAcrossNames(t *testing.T) {
	reg := NewRegistry()

	var a, b atomic.Int32
	reg.Schedule("ROOM1", TimerNext, 10*time.Millisecond, func() { a.Add(1) })
	reg.Schedule("ROOM1", TimerHide, 10*time.Millisecond, func() { b.Add(1) })

	assert.Eventually(t, func() bool {
		return a.Load() == 1 && b.Load() == 1
	}, time.Second, 5*time.Millisecond)
}
