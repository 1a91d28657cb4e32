package game

// TeamID identifies one of the two fixed teams of a room.
type TeamID string

const (
	TeamA TeamID = "A"
	TeamB TeamID = "B"
)

// Opposite returns the other team.
func (t TeamID) Opposite() TeamID {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Valid reports whether t is one of the two playable teams.
func (t TeamID) Valid() bool {
	return t == TeamA || t == TeamB
}

// Hand identifies one of the two hand slots of a hiding-team player.
type Hand string

const (
	HandLeft  Hand = "left"
	HandRight Hand = "right"
)

func (h Hand) Valid() bool {
	return h == HandLeft || h == HandRight
}

// HandState is the publicly meaningful state of a single hand.
type HandState string

const (
	HandClosed HandState = "closed"
	HandOpen   HandState = "open"
)

// HandPair holds the state of both hands of one hiding-team player.
type HandPair struct {
	Left  HandState `json:"left"`
	Right HandState `json:"right"`
}

func NewHandPair() *HandPair {
	return &HandPair{Left: HandClosed, Right: HandClosed}
}

func (hp *HandPair) Get(h Hand) HandState {
	if h == HandLeft {
		return hp.Left
	}
	return hp.Right
}

func (hp *HandPair) Set(h Hand, s HandState) {
	if h == HandLeft {
		hp.Left = s
	} else {
		hp.Right = s
	}
}

// Player represents one participant of a room. The ID is the socket
// connection identity and gets re-keyed when the player rejoins on a
// new connection.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Team         TeamID `json:"team"`
	IsLeader     bool   `json:"is_leader"`
	Disconnected bool   `json:"disconnected"`
	JoinOrder    int    `json:"-"` // Insertion counter, used for deterministic promotion
}
