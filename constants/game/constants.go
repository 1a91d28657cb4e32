package game_constants

import "time"

const WinningScore = 20
const MinPlayersToStart = 2
const RoomCodeLength = 5

// Defaults applied when a room is created; the host can change them
// through set_settings while the room is still in the lobby.
const DefaultMaxRounds = 0 // 0 = unlimited
const DefaultCountdownSecs = 10
const DefaultHideTimerSecs = 0 // 0 = no hide timeout

// Clamping bounds for host-provided settings
const (
	MaxRoundsCap     = 100
	CountdownMinSecs = 3
	CountdownMaxSecs = 60
	HideTimerMaxSecs = 300
)

const MaxTeamNameLength = 24
const MaxPlayerNameLength = 24

// Delay before the coin_result phase auto-advances into select_ring
const CoinResultDelay = 2500 * time.Millisecond

// How long a disconnected player's seat and role bindings stay reserved
const DefaultDisconnectGrace = 60 * time.Second
