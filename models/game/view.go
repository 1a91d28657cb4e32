package game

import "time"

// RoomView is the per-viewer projection of a Room that gets pushed as
// the room_update payload. It mirrors the canonical state except that
// the ring location and the unprobed hand states are withheld from
// viewers outside the hiding team while the ring is still secret.
type RoomView struct {
	Code    string    `json:"code"`
	Phase   Phase     `json:"phase"`
	Host    string    `json:"host"`
	You     string    `json:"you"`
	Players []*Player `json:"players"`

	Teams  map[TeamID]*Team `json:"teams"`
	Scores map[TeamID]int   `json:"scores"`

	RingTeam      TeamID `json:"ring_team,omitempty"`
	HidingTeam    TeamID `json:"hiding_team,omitempty"`
	SearchingTeam TeamID `json:"searching_team,omitempty"`

	RingOwner string `json:"ring_owner,omitempty"`
	RingHand  Hand   `json:"ring_hand,omitempty"`
	Tayer     string `json:"tayer,omitempty"`

	Hands map[string]*HandPair `json:"hands"`

	RoundNumber   int `json:"round_number"`
	MaxRounds     int `json:"max_rounds"`
	CountdownSecs int `json:"countdown_secs"`
	HideTimerSecs int `json:"hide_timer_secs"`

	RoundResult *RoundResult `json:"round_result,omitempty"`
	CoinWinner  TeamID       `json:"coin_winner,omitempty"`
	Winner      TeamID       `json:"winner,omitempty"`

	CountdownEndsAt *time.Time `json:"countdown_ends_at,omitempty"`
	HideTimerEndsAt *time.Time `json:"hide_timer_ends_at,omitempty"`
}

// BuildRoomView projects r into what the given viewer is allowed to see.
// It is a pure function of the room state; callers must hold r.Mu. The
// result is an independent snapshot: players, teams, scores and hands
// are copied, so the view stays valid after the lock is released even
// if the room mutates while the transport is still serializing it.
//
// While the ring location is secret (select_ring through search), a
// viewer outside the hiding team gets ring_owner/ring_hand withheld and
// every hiding-team hand reported closed unless that hand was opened by
// a probe this round. Probe results are public knowledge, so those stay
// open for everyone.
func BuildRoomView(r *Room, viewerID string) *RoomView {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.PlayersInOrder() {
		cp := *p
		players = append(players, &cp)
	}
	teams := make(map[TeamID]*Team, len(r.Teams))
	for id, team := range r.Teams {
		cp := *team
		teams[id] = &cp
	}
	scores := make(map[TeamID]int, len(r.Scores))
	for id, score := range r.Scores {
		scores[id] = score
	}
	hands := make(map[string]*HandPair, len(r.Hands))
	for id, hp := range r.Hands {
		cp := *hp
		hands[id] = &cp
	}

	view := &RoomView{
		Code:            r.Code,
		Phase:           r.Phase,
		Host:            r.Host,
		You:             viewerID,
		Players:         players,
		Teams:           teams,
		Scores:          scores,
		RingTeam:        r.RingTeam,
		HidingTeam:      r.HidingTeam,
		SearchingTeam:   r.SearchingTeam,
		RingOwner:       r.RingOwner,
		RingHand:        r.RingHand,
		Tayer:           r.Tayer,
		Hands:           hands,
		RoundNumber:     r.RoundNumber,
		MaxRounds:       r.MaxRounds,
		CountdownSecs:   r.CountdownSecs,
		HideTimerSecs:   r.HideTimerSecs,
		RoundResult:     r.RoundResult,
		CoinWinner:      r.CoinWinner,
		Winner:          r.Winner,
		CountdownEndsAt: r.CountdownEndsAt,
		HideTimerEndsAt: r.HideTimerEndsAt,
	}

	if !r.SecretPhase() {
		return view
	}

	viewer, ok := r.Players[viewerID]
	if ok && viewer.Team == r.HidingTeam {
		return view
	}

	view.RingOwner = ""
	view.RingHand = ""
	view.Hands = make(map[string]*HandPair, len(r.Hands))
	for id := range r.Hands {
		hp := NewHandPair()
		if r.OpenHands[OpenHandKey(id, HandLeft)] {
			hp.Left = HandOpen
		}
		if r.OpenHands[OpenHandKey(id, HandRight)] {
			hp.Right = HandOpen
		}
		view.Hands[id] = hp
	}
	return view
}
