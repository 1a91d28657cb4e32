package game_flow

import (
	"log"
	"strings"

	game_constants "Mheibes/constants/game"
	"Mheibes/models/game"
	"Mheibes/services/timers"
)

// CreateRoom allocates a room with the caller as sole player, leader of
// team A and host. The caller broadcasts once its socket joined the
// multicast room.
func (gf *GameFlow) CreateRoom(connID, name string) *game.Room {
	room := gf.Rooms.CreateRoom()
	room.Mu.Lock()
	defer room.Mu.Unlock()

	room.AddPlayer(&game.Player{
		ID:       connID,
		Name:     sanitizeName(name),
		Team:     game.TeamA,
		IsLeader: true,
	})
	room.Host = connID

	log.Printf("[CREATE] Room %s created by %s", room.Code, connID)
	return room
}

// JoinRoom adds the caller to a lobby-phase room on the less populated
// team. Leadership is granted only when the destination team had none.
func (gf *GameFlow) JoinRoom(connID, name, code string) (*game.Room, *GameError) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseLobby {
		return nil, ErrStarted
	}

	team := game.TeamA
	if len(room.PlayersOnTeam(game.TeamA)) > len(room.PlayersOnTeam(game.TeamB)) {
		team = game.TeamB
	}

	room.AddPlayer(&game.Player{
		ID:   connID,
		Name: sanitizeName(name),
		Team: team,
	})
	gf.ensureTeamLeadersLocked(room)

	log.Printf("[JOIN] Player %s joined room %s on team %s", connID, code, team)
	return room, nil
}

// TryRejoin restores a disconnected player's seat under a fresh
// connection identity. Matching is by previous connection id first,
// then by display name among the room's disconnected players; every
// role pointer that still references the old id is remapped.
func (gf *GameFlow) TryRejoin(connID, name, code, oldConnID string) (*game.Room, bool) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return nil, false
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	var player *game.Player
	if p, exists := room.Players[oldConnID]; exists && p.Disconnected {
		player = p
	} else {
		// Name fallback: first disconnected member with a matching name
		// wins. Ambiguous when two disconnected players shared a name.
		for _, p := range room.PlayersInOrder() {
			if p.Disconnected && p.Name == name {
				player = p
				break
			}
		}
	}
	if player == nil {
		return nil, false
	}

	oldID := player.ID
	gf.Timers.Cancel(code, timers.DisconnectTimer(oldID))

	delete(room.Players, oldID)
	player.ID = connID
	player.Disconnected = false
	room.Players[connID] = player

	if room.Host == oldID {
		room.Host = connID
	}
	if room.Tayer == oldID {
		room.Tayer = connID
	}
	if room.RingOwner == oldID {
		room.RingOwner = connID
	}
	if hp, exists := room.Hands[oldID]; exists {
		delete(room.Hands, oldID)
		room.Hands[connID] = hp
	}
	for _, h := range []game.Hand{game.HandLeft, game.HandRight} {
		if room.OpenHands[game.OpenHandKey(oldID, h)] {
			delete(room.OpenHands, game.OpenHandKey(oldID, h))
			room.OpenHands[game.OpenHandKey(connID, h)] = true
		}
	}

	gf.ensureTeamLeadersLocked(room)
	gf.ensureHostLocked(room)

	log.Printf("[REJOIN] Player %s restored as %s in room %s", oldID, connID, code)
	return room, true
}

// Disconnect marks the player's seat reserved instead of removing it.
// Privileged roles move to a connected player immediately so the game
// is never blocked on an absent authority; the designated tayer is
// deliberately not reassigned.
func (gf *GameFlow) Disconnect(code, connID string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	player, exists := room.Players[connID]
	if !exists || player.Disconnected {
		return
	}

	player.Disconnected = true
	player.IsLeader = false
	gf.ensureTeamLeadersLocked(room)
	gf.ensureHostLocked(room)

	gf.Timers.Schedule(code, timers.DisconnectTimer(connID), gf.Grace, func() {
		gf.removeDisconnected(code, connID)
	})

	log.Printf("[DISCONNECT] Player %s disconnected from room %s, seat reserved", connID, code)
	gf.Out.BroadcastRoom(room)
}

// removeDisconnected is the grace timer callback: the seat is released
// for good unless the player rejoined in the meantime.
func (gf *GameFlow) removeDisconnected(code, playerID string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	player, exists := room.Players[playerID]
	if !exists || !player.Disconnected {
		log.Printf("[GRACE] Player %s in room %s reconnected or gone, ignoring stale timer", playerID, code)
		return
	}

	log.Printf("[GRACE] Grace period expired for player %s in room %s, removing", playerID, code)
	if gf.removePlayerLocked(room, playerID) {
		return // room destroyed
	}
	gf.Out.BroadcastRoom(room)
}

// KickPlayer removes a player at the host's request. The returned id is
// non-empty when the kick happened, so the caller can notify the
// removed connection and sever its binding.
func (gf *GameFlow) KickPlayer(code, actorID, targetID string) (string, bool) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return "", false
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if actorID != room.Host || targetID == actorID {
		return "", false
	}
	if _, exists := room.Players[targetID]; !exists {
		return "", false
	}

	log.Printf("[KICK] Host %s kicked %s from room %s", actorID, targetID, code)
	if gf.removePlayerLocked(room, targetID) {
		return targetID, true
	}
	gf.Out.BroadcastRoom(room)
	return targetID, true
}

// TransferHost hands the administrative role to a connected player.
func (gf *GameFlow) TransferHost(code, actorID, targetID string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if actorID != room.Host {
		return
	}
	target, exists := room.Players[targetID]
	if !exists || target.Disconnected {
		return
	}

	room.Host = targetID
	log.Printf("[HOST] Room %s host transferred from %s to %s", code, actorID, targetID)
	gf.Out.BroadcastRoom(room)
}

// SwitchTeam moves the caller to the other team while in the lobby.
func (gf *GameFlow) SwitchTeam(code, actorID string, team game.TeamID) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	player, exists := room.Players[actorID]
	if room.Phase != game.PhaseLobby || !exists || !team.Valid() || player.Team == team {
		return
	}

	player.Team = team
	player.IsLeader = false
	gf.ensureTeamLeadersLocked(room)

	gf.Out.BroadcastRoom(room)
}

// RenameTeam sets a team's display name. Leader of that team only.
func (gf *GameFlow) RenameTeam(code, actorID string, team game.TeamID, newName string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseLobby || !team.Valid() {
		return
	}
	leader := room.LeaderOf(team)
	if leader == nil || leader.ID != actorID {
		return
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return
	}
	room.Teams[team].Name = capRunes(newName, game_constants.MaxTeamNameLength)

	gf.Out.BroadcastRoom(room)
}

// SetSettings updates the session configuration, clamped to sane
// bounds. Host only, lobby only.
func (gf *GameFlow) SetSettings(code, actorID string, maxRounds, countdownSecs, hideTimerSecs int) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseLobby || actorID != room.Host {
		return
	}

	room.MaxRounds = clamp(maxRounds, 0, game_constants.MaxRoundsCap)
	room.CountdownSecs = clamp(countdownSecs, game_constants.CountdownMinSecs, game_constants.CountdownMaxSecs)
	room.HideTimerSecs = clamp(hideTimerSecs, 0, game_constants.HideTimerMaxSecs)

	log.Printf("[SETTINGS] Room %s settings: max_rounds=%d countdown=%ds hide_timer=%ds",
		code, room.MaxRounds, room.CountdownSecs, room.HideTimerSecs)
	gf.Out.BroadcastRoom(room)
}

// removePlayerLocked deletes a player for good: seat, hand entry and
// any vacated role pointer. Reports true when the room emptied and was
// destroyed along with its timers.
func (gf *GameFlow) removePlayerLocked(room *game.Room, playerID string) bool {
	delete(room.Players, playerID)
	delete(room.Hands, playerID)
	delete(room.OpenHands, game.OpenHandKey(playerID, game.HandLeft))
	delete(room.OpenHands, game.OpenHandKey(playerID, game.HandRight))
	gf.Timers.Cancel(room.Code, timers.DisconnectTimer(playerID))

	// Vacated active roles are released, not reassigned; a stalled
	// search is resolved by the remaining players, not by the server.
	if room.Tayer == playerID {
		room.Tayer = ""
	}
	if room.RingOwner == playerID {
		room.RingOwner = ""
		room.RingHand = ""
	}

	if len(room.Players) == 0 {
		log.Printf("[ROOM] Room %s empty, destroying", room.Code)
		gf.Timers.CancelRoom(room.Code)
		gf.Rooms.DeleteRoom(room.Code)
		return true
	}

	if room.Host == playerID {
		room.Host = ""
		gf.ensureHostLocked(room)
	}
	gf.ensureTeamLeadersLocked(room)
	return false
}

// ensureTeamLeadersLocked restores the leader invariant after any
// membership change: every team with at least one connected member has
// exactly one leader, and that leader is connected.
func (gf *GameFlow) ensureTeamLeadersLocked(room *game.Room) {
	for _, team := range []game.TeamID{game.TeamA, game.TeamB} {
		connected := room.ConnectedPlayersOnTeam(team)

		var leader *game.Player
		for _, p := range connected {
			if p.IsLeader && leader == nil {
				leader = p
			} else if p.IsLeader {
				p.IsLeader = false
			}
		}
		if leader == nil && len(connected) > 0 {
			connected[0].IsLeader = true
		}
	}
}

// ensureHostLocked moves the host role to a connected player whenever
// the current host is gone or disconnected.
func (gf *GameFlow) ensureHostLocked(room *game.Room) {
	if host, exists := room.Players[room.Host]; exists && !host.Disconnected {
		return
	}
	for _, p := range room.PlayersInOrder() {
		if !p.Disconnected {
			room.Host = p.ID
			log.Printf("[HOST] Room %s host reassigned to %s", room.Code, p.ID)
			return
		}
	}
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Player"
	}
	return capRunes(name, game_constants.MaxPlayerNameLength)
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
