package game_flow

// GameError is a user-surfaced validation failure. The code travels to
// the requester as the error_msg payload. Everything else (wrong role,
// wrong phase, bad target) is a silent no-op.
type GameError struct {
	Code string
}

func (e *GameError) Error() string {
	return e.Code
}

var (
	ErrRoomNotFound  = &GameError{Code: "not_found"}
	ErrStarted       = &GameError{Code: "started"}
	ErrMinPlayers    = &GameError{Code: "min_players"}
	ErrNeedBothTeams = &GameError{Code: "need_both_teams"}
)
