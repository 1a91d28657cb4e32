package game_flow

import (
	"log"
	"sync"
	"time"

	game_constants "Mheibes/constants/game"
	"Mheibes/models/game"
	"Mheibes/services/rooms"
	"Mheibes/services/timers"

	"golang.org/x/exp/rand"
)

// Broadcaster pushes each member's sanitized view of a room to their
// connection. Implementations are called with the room lock held and
// must not call back into the flow.
type Broadcaster interface {
	BroadcastRoom(room *game.Room)
}

// GameFlow drives every room mutation: inbound events enter through its
// methods, timer callbacks re-enter through the same guarded paths. One
// instance serves all rooms; per-room serialization comes from the room
// lock each method takes for its whole read-validate-mutate-broadcast
// cycle.
type GameFlow struct {
	Rooms  *rooms.Registry
	Timers *timers.Registry
	Out    Broadcaster

	// Grace is how long a disconnected player's seat stays reserved.
	Grace time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewGameFlow(registry *rooms.Registry, timerReg *timers.Registry, out Broadcaster) *GameFlow {
	return &GameFlow{
		Rooms:  registry,
		Timers: timerReg,
		Out:    out,
		Grace:  game_constants.DefaultDisconnectGrace,
		rng:    rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (gf *GameFlow) randIntn(n int) int {
	gf.rngMu.Lock()
	defer gf.rngMu.Unlock()
	return gf.rng.Intn(n)
}

// BroadcastRoom pushes the current state to every member. Used by
// handlers after membership changes that also touch socket rooms.
func (gf *GameFlow) BroadcastRoom(code string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	gf.Out.BroadcastRoom(room)
}

// ---------------------------------------------------------------
// Gameplay events (phase state machine)
// ---------------------------------------------------------------

// StartGame moves a lobby into the coin toss. Host only; needs at least
// two players and a non-empty roster on both teams.
func (gf *GameFlow) StartGame(code, actorID string) *GameError {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return ErrRoomNotFound
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseLobby || actorID != room.Host {
		return nil
	}
	// Seats reserved for disconnected players do not count; starting
	// needs people who are actually there.
	connectedA := len(room.ConnectedPlayersOnTeam(game.TeamA))
	connectedB := len(room.ConnectedPlayersOnTeam(game.TeamB))
	if connectedA+connectedB < game_constants.MinPlayersToStart {
		return ErrMinPlayers
	}
	if connectedA == 0 || connectedB == 0 {
		return ErrNeedBothTeams
	}

	room.Phase = game.PhaseCoinToss
	log.Printf("[START] Room %s entering coin toss (%d players)", code, len(room.Players))
	gf.Out.BroadcastRoom(room)
	return nil
}

// CoinToss flips the coin. The winning team gets the hiding role and
// the room auto-advances into select_ring after a fixed delay.
func (gf *GameFlow) CoinToss(code, actorID string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseCoinToss || actorID != room.Host {
		return
	}

	winner := game.TeamA
	if gf.randIntn(2) == 1 {
		winner = game.TeamB
	}
	room.CoinWinner = winner
	room.RingTeam = winner
	// Roles are known from the flip on, not just from round start
	room.HidingTeam = winner
	room.SearchingTeam = winner.Opposite()
	room.Phase = game.PhaseCoinResult

	gf.Timers.Schedule(code, timers.TimerCoin, game_constants.CoinResultDelay, func() {
		gf.coinAdvance(code)
	})

	log.Printf("[COIN] Room %s coin toss won by team %s", code, winner)
	gf.Out.BroadcastRoom(room)
}

// coinAdvance is the coin timer callback: leave coin_result for the
// first round unless an event already moved the room elsewhere.
func (gf *GameFlow) coinAdvance(code string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseCoinResult {
		log.Printf("[COIN-ADVANCE] Room %s no longer in coin_result, ignoring stale timer", code)
		return
	}
	gf.startRoundLocked(room)
	gf.Out.BroadcastRoom(room)
}

// startRoundLocked resets the per-round state and enters select_ring.
// The ring team from the previous resolution (or the coin toss) hides.
func (gf *GameFlow) startRoundLocked(room *game.Room) {
	room.HidingTeam = room.RingTeam
	room.SearchingTeam = room.RingTeam.Opposite()
	room.RoundNumber++
	room.Phase = game.PhaseSelectRing
	room.RingOwner = ""
	room.RingHand = ""
	room.Tayer = ""
	room.RoundResult = nil
	room.CountdownEndsAt = nil

	room.Hands = make(map[string]*game.HandPair)
	room.OpenHands = make(map[string]bool)
	for _, p := range room.PlayersOnTeam(room.HidingTeam) {
		room.Hands[p.ID] = game.NewHandPair()
	}

	if room.HideTimerSecs > 0 {
		d := time.Duration(room.HideTimerSecs) * time.Second
		deadline := time.Now().Add(d)
		room.HideTimerEndsAt = &deadline
		code := room.Code
		gf.Timers.Schedule(code, timers.TimerHide, d, func() {
			gf.autoHide(code)
		})
	} else {
		room.HideTimerEndsAt = nil
	}

	log.Printf("[ROUND] Room %s round %d: team %s hides, team %s searches",
		room.Code, room.RoundNumber, room.HidingTeam, room.SearchingTeam)
}

// autoHide is the hide timer callback: if the leader never picked, the
// ring goes into a uniformly random hiding-team hand.
func (gf *GameFlow) autoHide(code string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseSelectRing {
		log.Printf("[HIDE-TIMER] Room %s no longer in select_ring, ignoring stale timer", code)
		return
	}

	candidates := room.ConnectedPlayersOnTeam(room.HidingTeam)
	if len(candidates) == 0 {
		candidates = room.PlayersOnTeam(room.HidingTeam)
	}
	if len(candidates) == 0 {
		return
	}

	target := candidates[gf.randIntn(len(candidates))]
	hand := game.HandLeft
	if gf.randIntn(2) == 1 {
		hand = game.HandRight
	}
	room.RingOwner = target.ID
	room.RingHand = hand
	room.HideTimerEndsAt = nil
	room.Phase = game.PhaseBat

	log.Printf("[HIDE-TIMER] Room %s hide timeout, ring auto-placed", code)
	gf.Out.BroadcastRoom(room)
}

// SelectRing lets the hiding-team leader pick the holder and hand.
// Re-invoking it before bat overwrites the previous selection.
func (gf *GameFlow) SelectRing(code, actorID, targetID string, hand game.Hand) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseSelectRing && room.Phase != game.PhaseBat {
		return
	}
	leader := room.LeaderOf(room.HidingTeam)
	if leader == nil || leader.ID != actorID {
		return
	}
	if _, member := room.Hands[targetID]; !member || !hand.Valid() {
		return
	}

	room.RingOwner = targetID
	room.RingHand = hand
	if room.Phase == game.PhaseSelectRing {
		gf.Timers.Cancel(code, timers.TimerHide)
		room.HideTimerEndsAt = nil
		room.Phase = game.PhaseBat
	}

	gf.Out.BroadcastRoom(room)
}

// Bat confirms the ring is hidden and hands the turn to the searchers.
func (gf *GameFlow) Bat(code, actorID string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseBat || room.RingOwner == "" {
		return
	}
	leader := room.LeaderOf(room.HidingTeam)
	if leader == nil || leader.ID != actorID {
		return
	}

	room.Phase = game.PhaseSelectTayer
	gf.Out.BroadcastRoom(room)
}

// SelectTayer lets the searching-team leader designate the one player
// allowed to probe hands.
func (gf *GameFlow) SelectTayer(code, actorID, targetID string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseSelectTayer {
		return
	}
	leader := room.LeaderOf(room.SearchingTeam)
	if leader == nil || leader.ID != actorID {
		return
	}
	target, exists := room.Players[targetID]
	if !exists || target.Team != room.SearchingTeam || target.Disconnected {
		return
	}

	room.Tayer = targetID
	room.Phase = game.PhaseSearch
	gf.Out.BroadcastRoom(room)
}

// Tak is a strike on one (player, hand). Hitting the ring hand scores
// the hiding team and ends the round; a miss just opens that hand and
// the search continues.
func (gf *GameFlow) Tak(code, actorID, targetID string, hand game.Hand) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	hp, valid := gf.searchTarget(room, actorID, targetID, hand)
	if !valid || hp.Get(hand) == game.HandOpen {
		return
	}

	hp.Set(hand, game.HandOpen)
	room.OpenHands[game.OpenHandKey(targetID, hand)] = true

	if targetID == room.RingOwner && hand == room.RingHand {
		log.Printf("[TAK] Room %s: ring struck on %s/%s, hiding team %s scores",
			code, targetID, hand, room.HidingTeam)
		gf.endRoundLocked(room, room.HidingTeam, game.ReasonTakRing)
	}
	gf.Out.BroadcastRoom(room)
}

// Jeeba is the final accusation: it always ends the round, scoring
// whichever team the guess favors. The scoring team hides next round.
func (gf *GameFlow) Jeeba(code, actorID, targetID string, hand game.Hand) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if _, valid := gf.searchTarget(room, actorID, targetID, hand); !valid {
		return
	}

	// Reveal the true holder's hand regardless of the guess.
	if hp, exists := room.Hands[room.RingOwner]; exists {
		hp.Set(room.RingHand, game.HandOpen)
		room.OpenHands[game.OpenHandKey(room.RingOwner, room.RingHand)] = true
	}

	if targetID == room.RingOwner && hand == room.RingHand {
		log.Printf("[JEEBA] Room %s: correct accusation, searching team %s scores",
			code, room.SearchingTeam)
		gf.endRoundLocked(room, room.SearchingTeam, game.ReasonJeebaCorrect)
	} else {
		log.Printf("[JEEBA] Room %s: wrong accusation, hiding team %s scores",
			code, room.HidingTeam)
		gf.endRoundLocked(room, room.HidingTeam, game.ReasonJeebaWrong)
	}
	gf.Out.BroadcastRoom(room)
}

// searchTarget validates a probe/guess: search phase, acting player is
// the designated tayer, target is a hiding-team member with a hands
// entry and a valid hand slot.
func (gf *GameFlow) searchTarget(room *game.Room, actorID, targetID string, hand game.Hand) (*game.HandPair, bool) {
	if room.Phase != game.PhaseSearch || actorID != room.Tayer || !hand.Valid() {
		return nil, false
	}
	hp, member := room.Hands[targetID]
	if !member {
		return nil, false
	}
	return hp, true
}

// endRoundLocked resolves the round: score, reveal, arm the countdown.
// The winner keeps or gains the hiding role for the next round.
func (gf *GameFlow) endRoundLocked(room *game.Room, winner game.TeamID, reason string) {
	room.Scores[winner]++
	room.RingTeam = winner
	room.RoundResult = &game.RoundResult{
		WinningTeam: winner,
		Reason:      reason,
		RingOwner:   room.RingOwner,
		RingHand:    room.RingHand,
	}
	room.RingOwner = ""
	room.RingHand = ""
	room.Tayer = ""
	room.Phase = game.PhaseRoundEnd
	room.HideTimerEndsAt = nil
	gf.Timers.Cancel(room.Code, timers.TimerHide)

	d := time.Duration(room.CountdownSecs) * time.Second
	deadline := time.Now().Add(d)
	room.CountdownEndsAt = &deadline
	code := room.Code
	gf.Timers.Schedule(code, timers.TimerNext, d, func() {
		gf.advanceRound(code)
	})
}

// advanceRound is the round_end countdown callback: either the game is
// over or the next round starts with roles swapped per the ring team.
func (gf *GameFlow) advanceRound(code string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseRoundEnd {
		log.Printf("[NEXT-ROUND] Room %s no longer in round_end, ignoring stale timer", code)
		return
	}
	room.CountdownEndsAt = nil

	if winner, over := gameWinner(room); over {
		room.Phase = game.PhaseGameOver
		room.Winner = winner
		log.Printf("[GAME-END] Room %s game over, team %s wins %d-%d",
			code, winner, room.Scores[game.TeamA], room.Scores[game.TeamB])
	} else {
		gf.startRoundLocked(room)
	}
	gf.Out.BroadcastRoom(room)
}

// gameWinner checks the end conditions: the score threshold or the
// round limit. Ties resolve in favor of team A.
func gameWinner(room *game.Room) (game.TeamID, bool) {
	reached := room.Scores[game.TeamA] >= game_constants.WinningScore ||
		room.Scores[game.TeamB] >= game_constants.WinningScore
	exhausted := room.MaxRounds > 0 && room.RoundNumber >= room.MaxRounds
	if !reached && !exhausted {
		return "", false
	}
	if room.Scores[game.TeamB] > room.Scores[game.TeamA] {
		return game.TeamB, true
	}
	return game.TeamA, true
}

// PlayAgain resets a finished game back to the lobby, keeping the
// roster and team names but clearing all round and score state.
func (gf *GameFlow) PlayAgain(code, actorID string) {
	room, ok := gf.Rooms.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != game.PhaseGameOver || actorID != room.Host {
		return
	}

	gf.Timers.Cancel(code, timers.TimerNext)
	gf.Timers.Cancel(code, timers.TimerHide)
	gf.Timers.Cancel(code, timers.TimerCoin)

	room.Phase = game.PhaseLobby
	room.Scores = map[game.TeamID]int{game.TeamA: 0, game.TeamB: 0}
	room.RingTeam = ""
	room.HidingTeam = ""
	room.SearchingTeam = ""
	room.RingOwner = ""
	room.RingHand = ""
	room.Tayer = ""
	room.Hands = make(map[string]*game.HandPair)
	room.OpenHands = make(map[string]bool)
	room.RoundNumber = 0
	room.RoundResult = nil
	room.CoinWinner = ""
	room.Winner = ""
	room.CountdownEndsAt = nil
	room.HideTimerEndsAt = nil

	log.Printf("[PLAY-AGAIN] Room %s reset to lobby", code)
	gf.Out.BroadcastRoom(room)
}
