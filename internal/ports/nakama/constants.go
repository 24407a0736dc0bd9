package nakama

const (
	// RpcCreateRoom creates a room and returns its human-typeable code.
	RpcIdCreateRoom = "create_room"
	// RpcJoinRoom resolves a room code to a match id.
	RpcIdJoinRoom = "join_room"
	// RpcVoiceToken issues a voice-channel access token for the caller.
	RpcIdVoiceToken = "voice_token"

	// MatchName is the authoritative match handler name registered with Nakama.
	MatchName = "secrethitler_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame        int64 = 1
	OpNominate         int64 = 2
	OpCastVote         int64 = 3
	OpDiscardPolicy    int64 = 4
	OpChancellorAction int64 = 5
	OpVetoDecision     int64 = 6
	OpExecutiveAction  int64 = 7
	OpNightComplete    int64 = 8
	OpPlayAgain        int64 = 9

	// Server -> Client events
	OpRoomState           int64 = 101
	OpGameStarted         int64 = 102 // sent privately, carries the secret role
	OpPhaseChanged        int64 = 103
	OpYourTurn            int64 = 104 // sent privately to the acting player
	OpVoteCast            int64 = 105
	OpVoteResults         int64 = 106
	OpPolicyEnacted       int64 = 107
	OpChaos               int64 = 108
	OpVetoRequested       int64 = 109
	OpVetoApproved        int64 = 110
	OpVetoRejected        int64 = 111
	OpSpecialElection     int64 = 112
	OpInvestigationResult int64 = 113 // president only
	OpInvestigationDone   int64 = 114
	OpPolicyPeek          int64 = 115 // president only
	OpPolicyPeekDone      int64 = 116
	OpExecutionDone       int64 = 117
	OpExecuted            int64 = 118 // executed player only
	OpGameOver            int64 = 119
	OpReturnToLobby       int64 = 120

	OpGameError int64 = 150
)
