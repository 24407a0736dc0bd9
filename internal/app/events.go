package app

import "secrethitler/internal/domain"

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventGameStarted         EventKind = "game_started"
	EventPhaseChanged        EventKind = "phase_changed"
	EventYourTurn            EventKind = "your_turn"
	EventVoteCast            EventKind = "vote_cast"
	EventVoteResults         EventKind = "vote_results"
	EventPolicyEnacted       EventKind = "policy_enacted"
	EventChaos               EventKind = "chaos"
	EventVetoRequested       EventKind = "veto_requested"
	EventVetoApproved        EventKind = "veto_approved"
	EventVetoRejected        EventKind = "veto_rejected"
	EventSpecialElection     EventKind = "special_election"
	EventInvestigationResult EventKind = "investigation_result"
	EventInvestigationDone   EventKind = "investigation_complete"
	EventPolicyPeek          EventKind = "policy_peek"
	EventPolicyPeekDone      EventKind = "policy_peek_complete"
	EventExecutionDone       EventKind = "execution_complete"
	EventExecuted            EventKind = "you_were_executed"
	EventGameOver            EventKind = "game_over"
	EventReturnToLobby       EventKind = "return_to_lobby"
)

// Event is a game event with optional targeted recipients. Secret payloads
// (role deals, investigation results, policy peeks) are always targeted;
// an empty Recipients list means broadcast to the whole room.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// PlayerRef is the public identity of a player inside payloads.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FascistRef identifies a fellow fascist in the game-start reveal.
type FascistRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsHitler bool   `json:"is_hitler,omitempty"`
}

// GameStartedPayload is delivered privately per player at game start.
// KnownFascists is populated only for recipients entitled to the reveal.
type GameStartedPayload struct {
	Role          domain.Role  `json:"role,omitempty"`
	Team          domain.Team  `json:"team,omitempty"`
	KnownFascists []FascistRef `json:"known_fascists,omitempty"`
	PlayerCount   int          `json:"player_count,omitempty"`
	IsSpectator   bool         `json:"is_spectator,omitempty"`
}

// PhaseChangedPayload drives the host display.
type PhaseChangedPayload struct {
	Phase               domain.Phase `json:"phase"`
	President           *PlayerRef   `json:"president,omitempty"`
	Chancellor          *PlayerRef   `json:"chancellor,omitempty"`
	EligibleChancellors []string     `json:"eligible_chancellors,omitempty"`
	Power               domain.Power `json:"power,omitempty"`
	ElectionTracker     int          `json:"election_tracker"`
	DeckCount           int          `json:"deck_count,omitempty"`
	PlayerCount         int          `json:"player_count,omitempty"`
}

// YourTurnPayload prompts a single player device for its pending action.
type YourTurnPayload struct {
	Action          string          `json:"action"`
	EligiblePlayers []PlayerRef     `json:"eligible_players,omitempty"`
	Policies        []domain.Policy `json:"policies,omitempty"`
	VetoEnabled     bool            `json:"veto_enabled,omitempty"`
	President       string          `json:"president,omitempty"`
	Chancellor      string          `json:"chancellor,omitempty"`
}

// VoteCastPayload reports voting progress to the host display.
type VoteCastPayload struct {
	VoterID      string `json:"voter_id"`
	TotalVotes   int    `json:"total_votes"`
	TotalPlayers int    `json:"total_players"`
}

// Ballot is one revealed vote in the election results.
type Ballot struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Vote domain.Vote `json:"vote"`
}

type VoteResultsPayload struct {
	Votes  []Ballot `json:"votes"`
	Ja     int      `json:"ja"`
	Nein   int      `json:"nein"`
	Passed bool     `json:"passed"`
}

type PolicyEnactedPayload struct {
	Policy          domain.Policy `json:"policy"`
	LiberalPolicies int           `json:"liberal_policies"`
	FascistPolicies int           `json:"fascist_policies"`
}

// ChaosPayload announces a forced top-of-deck enactment.
type ChaosPayload struct {
	Policy          domain.Policy `json:"policy"`
	LiberalPolicies int           `json:"liberal_policies"`
	FascistPolicies int           `json:"fascist_policies"`
}

type VetoRequestedPayload struct {
	Chancellor PlayerRef `json:"chancellor"`
}

type VetoApprovedPayload struct {
	ElectionTracker int `json:"election_tracker"`
}

type SpecialElectionPayload struct {
	NewPresident PlayerRef `json:"new_president"`
}

// InvestigationResultPayload is for the investigating president only.
type InvestigationResultPayload struct {
	Target PlayerRef   `json:"target"`
	Team   domain.Team `json:"team"`
}

type InvestigationDonePayload struct {
	Investigator string `json:"investigator"`
	Target       string `json:"target"`
}

// PolicyPeekPayload is for the peeking president only.
type PolicyPeekPayload struct {
	Policies []domain.Policy `json:"policies"`
}

type PolicyPeekDonePayload struct {
	President string `json:"president"`
}

type ExecutionDonePayload struct {
	ExecutedPlayer PlayerRef `json:"executed_player"`
}

// RevealedPlayer is a full role reveal at game over.
type RevealedPlayer struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
	Team domain.Team `json:"team"`
}

type GameOverPayload struct {
	Winner         domain.Team      `json:"winner"`
	Reason         string           `json:"reason"`
	ExecutedPlayer *PlayerRef       `json:"executed_player,omitempty"`
	Players        []RevealedPlayer `json:"players"`
}
