package game

import (
	"sort"
	"sync"
	"time"

	game_constants "Mheibes/constants/game"
)

// Phase is the current step of a room's game loop.
type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhaseCoinToss    Phase = "coin_toss"
	PhaseCoinResult  Phase = "coin_result"
	PhaseSelectRing  Phase = "select_ring"
	PhaseBat         Phase = "bat"
	PhaseSelectTayer Phase = "select_tayer"
	PhaseSearch      Phase = "search"
	PhaseRoundEnd    Phase = "round_end"
	PhaseGameOver    Phase = "game_over"
)

// Round end reasons
const (
	ReasonTakRing      = "tak_ring"
	ReasonJeebaCorrect = "jeeba_correct"
	ReasonJeebaWrong   = "jeeba_wrong"
)

// Team holds the mutable per-team metadata.
type Team struct {
	Name string `json:"name"`
}

// RoundResult records how the last round was resolved. It also reveals
// the true ring location, which is public once the round is over.
type RoundResult struct {
	WinningTeam TeamID `json:"winning_team"`
	Reason      string `json:"reason"`
	RingOwner   string `json:"ring_owner"`
	RingHand    Hand   `json:"ring_hand"`
}

// Room is the authoritative state of one game session. All reads and
// writes happen with Mu held; every inbound event and timer callback
// runs to completion under that lock, which keeps the per-room logic
// strictly serialized.
type Room struct {
	Mu sync.Mutex `json:"-"`

	Code    string             `json:"code"`
	Phase   Phase              `json:"phase"`
	Host    string             `json:"host"`
	Players map[string]*Player `json:"players"`

	Teams  map[TeamID]*Team `json:"teams"`
	Scores map[TeamID]int   `json:"scores"`

	// RingTeam is the team that will hide (or keeps hiding) next round.
	RingTeam      TeamID `json:"ring_team,omitempty"`
	HidingTeam    TeamID `json:"hiding_team,omitempty"`
	SearchingTeam TeamID `json:"searching_team,omitempty"`

	RingOwner string `json:"ring_owner,omitempty"`
	RingHand  Hand   `json:"ring_hand,omitempty"`
	Tayer     string `json:"tayer,omitempty"`

	// Hands exists only for current hiding-team members; reset every round.
	Hands map[string]*HandPair `json:"hands"`
	// OpenHands tracks hands opened by a probe this round ("<playerID>:<hand>").
	// Probe results are public; everything else about hands is not.
	OpenHands map[string]bool `json:"-"`

	RoundNumber   int `json:"round_number"`
	MaxRounds     int `json:"max_rounds"`
	CountdownSecs int `json:"countdown_secs"`
	HideTimerSecs int `json:"hide_timer_secs"`

	RoundResult *RoundResult `json:"round_result,omitempty"`
	CoinWinner  TeamID       `json:"coin_winner,omitempty"`
	Winner      TeamID       `json:"winner,omitempty"`

	// Absolute deadlines mirrored to clients for local countdown display
	CountdownEndsAt *time.Time `json:"countdown_ends_at,omitempty"`
	HideTimerEndsAt *time.Time `json:"hide_timer_ends_at,omitempty"`

	NextJoinOrder int `json:"-"`
}

// NewRoom builds an empty lobby-phase room with default settings.
func NewRoom(code string) *Room {
	return &Room{
		Code:    code,
		Phase:   PhaseLobby,
		Players: make(map[string]*Player),
		Teams: map[TeamID]*Team{
			TeamA: {Name: "Team A"},
			TeamB: {Name: "Team B"},
		},
		Scores:        map[TeamID]int{TeamA: 0, TeamB: 0},
		Hands:         make(map[string]*HandPair),
		OpenHands:     make(map[string]bool),
		MaxRounds:     game_constants.DefaultMaxRounds,
		CountdownSecs: game_constants.DefaultCountdownSecs,
		HideTimerSecs: game_constants.DefaultHideTimerSecs,
	}
}

// AddPlayer inserts p with the next join-order counter.
func (r *Room) AddPlayer(p *Player) {
	p.JoinOrder = r.NextJoinOrder
	r.NextJoinOrder++
	r.Players[p.ID] = p
}

// PlayersInOrder returns all players sorted by join order.
func (r *Room) PlayersInOrder() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinOrder < out[j].JoinOrder })
	return out
}

// PlayersOnTeam returns the members of team t sorted by join order.
func (r *Room) PlayersOnTeam(t TeamID) []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.PlayersInOrder() {
		if p.Team == t {
			out = append(out, p)
		}
	}
	return out
}

// ConnectedPlayersOnTeam returns the non-disconnected members of team t.
func (r *Room) ConnectedPlayersOnTeam(t TeamID) []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.PlayersOnTeam(t) {
		if !p.Disconnected {
			out = append(out, p)
		}
	}
	return out
}

// LeaderOf returns the leader of team t, or nil if the team has none.
func (r *Room) LeaderOf(t TeamID) *Player {
	for _, p := range r.PlayersOnTeam(t) {
		if p.IsLeader {
			return p
		}
	}
	return nil
}

// SecretPhase reports whether the ring location is currently secret and
// must be withheld from everyone outside the hiding team.
func (r *Room) SecretPhase() bool {
	switch r.Phase {
	case PhaseSelectRing, PhaseBat, PhaseSelectTayer, PhaseSearch:
		return true
	}
	return false
}

// OpenHandKey builds the OpenHands key for a (player, hand) pair.
func OpenHandKey(playerID string, h Hand) string {
	return playerID + ":" + string(h)
}
