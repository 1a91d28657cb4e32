package timers

import (
	"strings"
	"sync"
	"time"
)

// Timer names used by the game flow. At most one live timer exists per
// (room, name); scheduling a name again replaces the previous timer.
const (
	TimerNext = "next" // round_end countdown -> next round or game over
	TimerHide = "hide" // select_ring timeout -> random ring placement
	TimerCoin = "coin" // coin_result delay -> select_ring
)

// DisconnectTimer builds the per-player grace timer name.
func DisconnectTimer(playerID string) string {
	return "dc:" + playerID
}

// Registry holds the named single-shot timers of all rooms, keyed
// (roomCode, name). Callbacks fire on their own goroutine and must
// re-validate room state before mutating: the state may have moved on
// since the timer was armed.
type Registry struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewRegistry() *Registry {
	return &Registry{timers: make(map[string]*time.Timer)}
}

func key(code, name string) string {
	return code + "/" + name
}

// Schedule arms fn to run after d, cancelling any previous timer armed
// under the same (code, name).
func (reg *Registry) Schedule(code, name string, d time.Duration, fn func()) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	k := key(code, name)
	if t, ok := reg.timers[k]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		reg.mu.Lock()
		// A replacement may have been armed after this fired; only the
		// current holder of the key gets to run.
		if reg.timers[k] == t {
			delete(reg.timers, k)
			reg.mu.Unlock()
			fn()
			return
		}
		reg.mu.Unlock()
	})
	reg.timers[k] = t
}

// Cancel stops the (code, name) timer if armed.
func (reg *Registry) Cancel(code, name string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	k := key(code, name)
	if t, ok := reg.timers[k]; ok {
		t.Stop()
		delete(reg.timers, k)
	}
}

// CancelRoom stops every timer of the room, grace timers included.
// Used when a room is destroyed.
func (reg *Registry) CancelRoom(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	prefix := code + "/"
	for k, t := range reg.timers {
		if strings.HasPrefix(k, prefix) {
			t.Stop()
			delete(reg.timers, k)
		}
	}
}

// Active reports whether a (code, name) timer is currently armed.
func (reg *Registry) Active(code, name string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	_, ok := reg.timers[key(code, name)]
	return ok
}
