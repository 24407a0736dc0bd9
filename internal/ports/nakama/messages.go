package nakama

// Client request payloads. All opcode payloads are JSON.

type NominateRequest struct {
	ChancellorID string `json:"chancellor_id"`
}

type CastVoteRequest struct {
	Vote string `json:"vote"`
}

type DiscardPolicyRequest struct {
	Index int `json:"index"`
}

// ChancellorActionRequest is either an enactment of the card at Index or a
// veto request.
type ChancellorActionRequest struct {
	Action string `json:"action"` // "enact" or "veto"
	Index  int    `json:"index"`
}

type VetoDecisionRequest struct {
	Approve bool `json:"approve"`
}

type ExecutiveActionRequest struct {
	TargetID string `json:"target_id"`
}

// Server payloads not originating from app events.

// RoomPlayer is one roster entry in the room state snapshot.
type RoomPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsSpectator bool   `json:"is_spectator"`
	Connected   bool   `json:"connected"`
}

// RoomStateMessage is broadcast after every join/leave so the host display
// and late joiners can render the roster.
type RoomStateMessage struct {
	Code    string       `json:"code"`
	Phase   string       `json:"phase"`
	Players []RoomPlayer `json:"players"`
}

// GameErrorMessage reports a rejected action to its sender only.
type GameErrorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchLabel is the advertised match label, queried by the room RPCs.
type MatchLabel struct {
	Code    string `json:"code"`
	Phase   string `json:"phase"`
	Open    int    `json:"open"`
	Players int    `json:"players"`
}
