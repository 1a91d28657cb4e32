package rooms

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateRoomCodeFormat(t *testing.T) {
	reg := NewRegistry()

	codePattern := regexp.MustCompile(`^[A-Z0-9]{5}$`)
	room := reg.CreateRoom()

	assert.NotNil(t, room)
	assert.Regexp(t, codePattern, room.Code)
	assert.Equal(t, 1, reg.Count())
}

func TestCreateRoomUniqueCodes(t *testing.T) {
	reg := NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		room := reg.CreateRoom()
		assert.False(t, seen[room.Code], "duplicate code %s", room.Code)
		seen[room.Code] = true
	}
	assert.Equal(t, 200, reg.Count())
}

func TestGetRoom(t *testing.T) {
	reg := NewRegistry()
	room := reg.CreateRoom()

	found, ok := reg.GetRoom(room.Code)
	assert.True(t, ok)
	assert.Same(t, room, found)

	_, ok = reg.GetRoom("ZZZZZ")
	assert.False(t, ok)
}

func TestDeleteRoom(t *testing.T) {
	reg := NewRegistry()
	room := reg.CreateRoom()

	reg.DeleteRoom(room.Code)

	_, ok := reg.GetRoom(room.Code)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Count())
}
