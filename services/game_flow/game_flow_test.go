package game_flow

import (
	"sync"
	"testing"

	"Mheibes/models/game"
	"Mheibes/services/rooms"
	"Mheibes/services/timers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBroadcaster counts pushes instead of touching sockets.
type recordingBroadcaster struct {
	mu    sync.Mutex
	count int
}

func (b *recordingBroadcaster) BroadcastRoom(room *game.Room) {
	b.mu.Lock()
	b.count++
	b.mu.Unlock()
}

func (b *recordingBroadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func newTestFlow() (*GameFlow, *recordingBroadcaster) {
	out := &recordingBroadcaster{}
	gf := NewGameFlow(rooms.NewRegistry(), timers.NewRegistry(), out)
	return gf, out
}

// twoVsTwo builds a lobby room with a1 (host, leader) and a2 on team A,
// b1 (leader) and b2 on team B.
func twoVsTwo(gf *GameFlow) *game.Room {
	room := gf.Rooms.CreateRoom()
	room.AddPlayer(&game.Player{ID: "a1", Name: "Aya", Team: game.TeamA, IsLeader: true})
	room.AddPlayer(&game.Player{ID: "a2", Name: "Amir", Team: game.TeamA})
	room.AddPlayer(&game.Player{ID: "b1", Name: "Badr", Team: game.TeamB, IsLeader: true})
	room.AddPlayer(&game.Player{ID: "b2", Name: "Buthaina", Team: game.TeamB})
	room.Host = "a1"
	return room
}

// enterSearch drives the room into the search phase with team A hiding,
// ring on a2's left hand and b2 as the tayer.
func enterSearch(gf *GameFlow, room *game.Room) {
	room.RingTeam = game.TeamA
	room.Mu.Lock()
	gf.startRoundLocked(room)
	room.Mu.Unlock()
	gf.SelectRing(room.Code, "a1", "a2", game.HandLeft)
	gf.Bat(room.Code, "a1")
	gf.SelectTayer(room.Code, "b1", "b2")
}

func TestStartGameValidation(t *testing.T) {
	gf, _ := newTestFlow()

	assert.Equal(t, ErrRoomNotFound, gf.StartGame("NOPE1", "a1"))

	room := gf.Rooms.CreateRoom()
	room.AddPlayer(&game.Player{ID: "a1", Name: "Aya", Team: game.TeamA, IsLeader: true})
	room.Host = "a1"
	assert.Equal(t, ErrMinPlayers, gf.StartGame(room.Code, "a1"))

	room.AddPlayer(&game.Player{ID: "a2", Name: "Amir", Team: game.TeamA})
	assert.Equal(t, ErrNeedBothTeams, gf.StartGame(room.Code, "a1"))

	room.Players["a2"].Team = game.TeamB
	assert.Nil(t, gf.StartGame(room.Code, "a1"))
	assert.Equal(t, game.PhaseCoinToss, room.Phase)
}

func TestStartGameCountsOnlyConnected(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)

	// Team B is fully mid-grace: no connected searcher, no start
	room.Players["b1"].Disconnected = true
	room.Players["b2"].Disconnected = true
	assert.Equal(t, ErrNeedBothTeams, gf.StartGame(room.Code, "a1"))
	assert.Equal(t, game.PhaseLobby, room.Phase)

	// Not enough connected players overall
	room.Players["a2"].Disconnected = true
	assert.Equal(t, ErrMinPlayers, gf.StartGame(room.Code, "a1"))

	room.Players["b1"].Disconnected = false
	room.Players["a2"].Disconnected = false
	assert.Nil(t, gf.StartGame(room.Code, "a1"))
	assert.Equal(t, game.PhaseCoinToss, room.Phase)
}

func TestStartGameSilentGuards(t *testing.T) {
	gf, out := newTestFlow()
	room := twoVsTwo(gf)

	// Not the host: silent no-op, no error surfaced
	assert.Nil(t, gf.StartGame(room.Code, "a2"))
	assert.Equal(t, game.PhaseLobby, room.Phase)
	assert.Equal(t, 0, out.Count())

	// Already started: silent again
	require.Nil(t, gf.StartGame(room.Code, "a1"))
	assert.Nil(t, gf.StartGame(room.Code, "a1"))
	assert.Equal(t, game.PhaseCoinToss, room.Phase)
}

func TestCoinTossAndAdvance(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	require.Nil(t, gf.StartGame(room.Code, "a1"))

	// Only the host flips
	gf.CoinToss(room.Code, "b1")
	assert.Equal(t, game.PhaseCoinToss, room.Phase)

	gf.CoinToss(room.Code, "a1")
	assert.Equal(t, game.PhaseCoinResult, room.Phase)
	assert.True(t, room.CoinWinner.Valid())
	assert.Equal(t, room.CoinWinner, room.RingTeam)
	// Roles are already defined while the coin result is on screen
	assert.Equal(t, room.CoinWinner, room.HidingTeam)
	assert.Equal(t, room.CoinWinner.Opposite(), room.SearchingTeam)
	assert.True(t, gf.Timers.Active(room.Code, timers.TimerCoin))

	gf.Timers.Cancel(room.Code, timers.TimerCoin)
	gf.coinAdvance(room.Code)

	assert.Equal(t, game.PhaseSelectRing, room.Phase)
	assert.Equal(t, 1, room.RoundNumber)
	assert.Equal(t, room.RingTeam, room.HidingTeam)
	assert.Equal(t, room.RingTeam.Opposite(), room.SearchingTeam)
	assert.Len(t, room.Hands, 2)
	for _, p := range room.PlayersOnTeam(room.HidingTeam) {
		assert.Contains(t, room.Hands, p.ID)
	}
}

func TestCoinAdvanceStaleTimerIgnored(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.Phase = game.PhaseLobby

	gf.coinAdvance(room.Code)
	assert.Equal(t, game.PhaseLobby, room.Phase)
	assert.Equal(t, 0, room.RoundNumber)
}

func TestSelectRingAndOverwrite(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.RingTeam = game.TeamA
	room.Mu.Lock()
	gf.startRoundLocked(room)
	room.Mu.Unlock()

	// Non-leader and searching-team calls are ignored
	gf.SelectRing(room.Code, "a2", "a1", game.HandLeft)
	gf.SelectRing(room.Code, "b1", "a1", game.HandLeft)
	assert.Equal(t, game.PhaseSelectRing, room.Phase)
	assert.Empty(t, room.RingOwner)

	// A searcher is not a valid holder
	gf.SelectRing(room.Code, "a1", "b1", game.HandLeft)
	assert.Empty(t, room.RingOwner)

	gf.SelectRing(room.Code, "a1", "a2", game.HandLeft)
	assert.Equal(t, game.PhaseBat, room.Phase)
	assert.Equal(t, "a2", room.RingOwner)
	assert.Equal(t, game.HandLeft, room.RingHand)

	// Overwriting during bat keeps the phase
	gf.SelectRing(room.Code, "a1", "a1", game.HandRight)
	assert.Equal(t, game.PhaseBat, room.Phase)
	assert.Equal(t, "a1", room.RingOwner)
	assert.Equal(t, game.HandRight, room.RingHand)
}

func TestAutoHidePlacesRing(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.RingTeam = game.TeamA
	room.Mu.Lock()
	gf.startRoundLocked(room)
	room.Mu.Unlock()

	gf.autoHide(room.Code)

	assert.Equal(t, game.PhaseBat, room.Phase)
	assert.Contains(t, room.Hands, room.RingOwner)
	assert.True(t, room.RingHand.Valid())
	assert.Nil(t, room.HideTimerEndsAt)
}

func TestHideTimerArmedAndCancelledBySelect(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.RingTeam = game.TeamA
	room.HideTimerSecs = 60
	room.Mu.Lock()
	gf.startRoundLocked(room)
	room.Mu.Unlock()

	assert.True(t, gf.Timers.Active(room.Code, timers.TimerHide))
	assert.NotNil(t, room.HideTimerEndsAt)

	gf.SelectRing(room.Code, "a1", "a2", game.HandLeft)

	assert.False(t, gf.Timers.Active(room.Code, timers.TimerHide))
	assert.Nil(t, room.HideTimerEndsAt)
}

func TestBatRequiresPlacedRing(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.RingTeam = game.TeamA
	room.Mu.Lock()
	gf.startRoundLocked(room)
	room.Mu.Unlock()

	room.Phase = game.PhaseBat // ring never placed
	gf.Bat(room.Code, "a1")
	assert.Equal(t, game.PhaseBat, room.Phase)
}

func TestSelectTayerValidation(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	enterSearch(gf, room)
	room.Phase = game.PhaseSelectTayer
	room.Tayer = ""

	// Hiding-team member as tayer: rejected
	gf.SelectTayer(room.Code, "b1", "a2")
	assert.Empty(t, room.Tayer)

	// Disconnected searcher: rejected
	room.Players["b2"].Disconnected = true
	gf.SelectTayer(room.Code, "b1", "b2")
	assert.Empty(t, room.Tayer)

	room.Players["b2"].Disconnected = false
	gf.SelectTayer(room.Code, "b1", "b2")
	assert.Equal(t, "b2", room.Tayer)
	assert.Equal(t, game.PhaseSearch, room.Phase)
}

func TestTakMissOpensHandAndContinues(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	enterSearch(gf, room)

	gf.Tak(room.Code, "b2", "a2", game.HandRight)

	assert.Equal(t, game.PhaseSearch, room.Phase)
	assert.Equal(t, game.HandOpen, room.Hands["a2"].Right)
	assert.True(t, room.OpenHands[game.OpenHandKey("a2", game.HandRight)])
	assert.Equal(t, 0, room.Scores[game.TeamA])
	assert.Equal(t, 0, room.Scores[game.TeamB])

	// Probing an already open hand is a no-op
	gf.Tak(room.Code, "b2", "a2", game.HandRight)
	assert.Equal(t, game.PhaseSearch, room.Phase)
}

func TestTakHitScoresHidingTeam(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	enterSearch(gf, room)

	gf.Tak(room.Code, "b2", "a2", game.HandLeft)

	assert.Equal(t, game.PhaseRoundEnd, room.Phase)
	assert.Equal(t, 1, room.Scores[game.TeamA])
	require.NotNil(t, room.RoundResult)
	assert.Equal(t, game.TeamA, room.RoundResult.WinningTeam)
	assert.Equal(t, game.ReasonTakRing, room.RoundResult.Reason)
	assert.Equal(t, "a2", room.RoundResult.RingOwner)
	assert.Equal(t, game.HandLeft, room.RoundResult.RingHand)
	assert.Equal(t, game.TeamA, room.RingTeam)
	assert.Empty(t, room.Tayer)
	assert.NotNil(t, room.CountdownEndsAt)
	assert.True(t, gf.Timers.Active(room.Code, timers.TimerNext))
}

func TestTakGuards(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	enterSearch(gf, room)

	// Only the designated tayer strikes
	gf.Tak(room.Code, "b1", "a2", game.HandLeft)
	assert.Equal(t, game.PhaseSearch, room.Phase)

	// Targets outside the hiding roster are ignored
	gf.Tak(room.Code, "b2", "b1", game.HandLeft)
	assert.Equal(t, game.PhaseSearch, room.Phase)
	assert.Equal(t, 0, room.Scores[game.TeamA])
}

func TestJeebaCorrectScoresSearchers(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	enterSearch(gf, room)

	gf.Jeeba(room.Code, "b2", "a2", game.HandLeft)

	assert.Equal(t, game.PhaseRoundEnd, room.Phase)
	assert.Equal(t, 1, room.Scores[game.TeamB])
	require.NotNil(t, room.RoundResult)
	assert.Equal(t, game.TeamB, room.RoundResult.WinningTeam)
	assert.Equal(t, game.ReasonJeebaCorrect, room.RoundResult.Reason)
	assert.Equal(t, game.TeamB, room.RingTeam)
}

func TestJeebaWrongScoresHidersAndRevealsRing(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	enterSearch(gf, room)

	gf.Jeeba(room.Code, "b2", "a1", game.HandRight)

	assert.Equal(t, game.PhaseRoundEnd, room.Phase)
	assert.Equal(t, 1, room.Scores[game.TeamA])
	require.NotNil(t, room.RoundResult)
	assert.Equal(t, game.ReasonJeebaWrong, room.RoundResult.Reason)
	assert.Equal(t, "a2", room.RoundResult.RingOwner)
	// The true ring hand is revealed even on a wrong guess
	assert.Equal(t, game.HandOpen, room.Hands["a2"].Left)
	assert.True(t, room.OpenHands[game.OpenHandKey("a2", game.HandLeft)])
}

func TestAdvanceRoundStartsNextWithWinnerHiding(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	enterSearch(gf, room)
	gf.Jeeba(room.Code, "b2", "a2", game.HandLeft) // team B scores

	gf.Timers.Cancel(room.Code, timers.TimerNext)
	gf.advanceRound(room.Code)

	assert.Equal(t, game.PhaseSelectRing, room.Phase)
	assert.Equal(t, 2, room.RoundNumber)
	assert.Equal(t, game.TeamB, room.HidingTeam)
	assert.Equal(t, game.TeamA, room.SearchingTeam)
	assert.Nil(t, room.RoundResult)
	assert.Empty(t, room.RingOwner)
	assert.Empty(t, room.OpenHands)
	// Fresh closed hands for the new hiding team
	assert.Contains(t, room.Hands, "b1")
	assert.Contains(t, room.Hands, "b2")
	assert.NotContains(t, room.Hands, "a1")
}

func TestAdvanceRoundStaleTimerIgnored(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	enterSearch(gf, room)

	gf.advanceRound(room.Code)
	assert.Equal(t, game.PhaseSearch, room.Phase)
}

func TestGameOverAtWinningScore(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.Phase = game.PhaseRoundEnd
	room.Scores[game.TeamB] = 20
	room.RoundNumber = 25

	gf.advanceRound(room.Code)

	assert.Equal(t, game.PhaseGameOver, room.Phase)
	assert.Equal(t, game.TeamB, room.Winner)
}

func TestGameOverAtRoundLimit(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.Phase = game.PhaseRoundEnd
	room.MaxRounds = 3
	room.RoundNumber = 3
	room.Scores[game.TeamA] = 2
	room.Scores[game.TeamB] = 1

	gf.advanceRound(room.Code)

	assert.Equal(t, game.PhaseGameOver, room.Phase)
	assert.Equal(t, game.TeamA, room.Winner)
}

func TestGameOverTieFavorsTeamA(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.Phase = game.PhaseRoundEnd
	room.MaxRounds = 4
	room.RoundNumber = 4
	room.Scores[game.TeamA] = 2
	room.Scores[game.TeamB] = 2

	gf.advanceRound(room.Code)

	assert.Equal(t, game.PhaseGameOver, room.Phase)
	assert.Equal(t, game.TeamA, room.Winner)
}

func TestUnlimitedRoundsNeverExhaust(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.Phase = game.PhaseRoundEnd
	room.RingTeam = game.TeamA
	room.MaxRounds = 0
	room.RoundNumber = 500
	room.Scores[game.TeamA] = 5

	gf.advanceRound(room.Code)

	assert.Equal(t, game.PhaseSelectRing, room.Phase)
}

func TestPlayAgainResetsToLobby(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.Teams[game.TeamA].Name = "Falcons"
	enterSearch(gf, room)
	gf.Tak(room.Code, "b2", "a2", game.HandLeft)
	room.Phase = game.PhaseGameOver
	room.Winner = game.TeamA

	// Host only
	gf.PlayAgain(room.Code, "b1")
	assert.Equal(t, game.PhaseGameOver, room.Phase)

	gf.PlayAgain(room.Code, "a1")

	assert.Equal(t, game.PhaseLobby, room.Phase)
	assert.Equal(t, 0, room.Scores[game.TeamA])
	assert.Equal(t, 0, room.Scores[game.TeamB])
	assert.Equal(t, 0, room.RoundNumber)
	assert.Empty(t, room.Winner)
	assert.Empty(t, room.CoinWinner)
	assert.Nil(t, room.RoundResult)
	assert.Empty(t, room.Hands)
	assert.Len(t, room.Players, 4)
	assert.Equal(t, "Falcons", room.Teams[game.TeamA].Name)
	assert.False(t, gf.Timers.Active(room.Code, timers.TimerNext))
}

func TestHidingAndSearchingComplementary(t *testing.T) {
	gf, _ := newTestFlow()
	room := twoVsTwo(gf)
	room.RingTeam = game.TeamB
	room.Mu.Lock()
	gf.startRoundLocked(room)
	room.Mu.Unlock()

	assert.Equal(t, game.TeamB, room.HidingTeam)
	assert.Equal(t, game.TeamA, room.SearchingTeam)
	assert.Equal(t, room.HidingTeam.Opposite(), room.SearchingTeam)
}
