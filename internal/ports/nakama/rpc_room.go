package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Room codes avoid 0/O/1/I so they survive being read aloud.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 4
)

var roomCodeRng = rand.New(rand.NewSource(time.Now().UnixNano()))

// CreateRoomResponse is returned by RpcCreateRoom.
type CreateRoomResponse struct {
	RoomCode string `json:"room_code"`
	MatchID  string `json:"match_id"`
}

// JoinRoomRequest resolves a typed-in room code.
type JoinRoomRequest struct {
	RoomCode string `json:"room_code"`
}

// JoinRoomResponse is returned by RpcJoinRoom.
type JoinRoomResponse struct {
	MatchID string `json:"match_id"`
}

// RpcCreateRoom creates an authoritative match for a new room. The caller
// becomes the room host: the shared display that sees lobby progress and
// public board state but holds no seat at the table.
func RpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("unauthenticated", 16)
	}

	code := generateRoomCode(roomCodeRng)
	matchID, err := nk.MatchCreate(ctx, MatchName, map[string]interface{}{
		"code":    code,
		"host_id": userID,
	})
	if err != nil {
		logger.Error("RpcCreateRoom [User:%s]: failed to create match: %v", userID, err)
		return "", runtime.NewError("failed to create room", 13)
	}

	logger.Info("RpcCreateRoom [User:%s]: created room %s (%s)", userID, code, matchID)
	b, _ := json.Marshal(CreateRoomResponse{RoomCode: code, MatchID: matchID})
	return string(b), nil
}

// RpcJoinRoom looks up the match advertising the given room code. The
// client then joins the returned match over its realtime socket.
func RpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req JoinRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	code := strings.ToUpper(strings.TrimSpace(req.RoomCode))
	if len(code) != roomCodeLength {
		return "", runtime.NewError("invalid room code", 3)
	}

	limit := 1
	authoritative := true
	query := fmt.Sprintf("+label.code:%s", code)

	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, query)
	if err != nil {
		logger.Error("RpcJoinRoom: failed to list matches: %v", err)
		return "", runtime.NewError("failed to look up room", 13)
	}
	if len(matches) == 0 {
		return "", runtime.NewError("room not found", 5)
	}

	b, _ := json.Marshal(JoinRoomResponse{MatchID: matches[0].MatchId})
	return string(b), nil
}

func generateRoomCode(rng *rand.Rand) string {
	var sb strings.Builder
	for i := 0; i < roomCodeLength; i++ {
		sb.WriteByte(roomCodeAlphabet[rng.Intn(len(roomCodeAlphabet))])
	}
	return sb.String()
}
