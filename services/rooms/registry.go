package rooms

import (
	"sync"
	"time"

	game_constants "Mheibes/constants/game"
	"Mheibes/models/game"

	"golang.org/x/exp/rand"
)

// Room code alphabet; codes are short and typed by hand, so uppercase only.
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registry owns every live room of the process. It replaces the
// external lobby store with a plain in-memory map: rooms never outlive
// the process and are never shared across processes.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room
	rng   *rand.Rand
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*game.Room),
		rng:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

// CreateRoom allocates a room under a code not currently in use.
func (reg *Registry) CreateRoom() *game.Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	// Regenerate on collision; the code space is large enough that this
	// loop terminates almost immediately.
	for {
		code := reg.generateCode(game_constants.RoomCodeLength)
		if _, exists := reg.rooms[code]; exists {
			continue
		}
		room := game.NewRoom(code)
		reg.rooms[code] = room
		return room
	}
}

// GetRoom looks a room up by code.
func (reg *Registry) GetRoom(code string) (*game.Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	return room, ok
}

// DeleteRoom drops the room; looking it up afterwards misses.
func (reg *Registry) DeleteRoom(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, code)
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

func (reg *Registry) generateCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = codeCharset[reg.rng.Intn(len(codeCharset))]
	}
	return string(b)
}
