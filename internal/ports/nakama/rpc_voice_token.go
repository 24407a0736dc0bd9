package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"

	"secrethitler/internal/app"
)

// VoiceTokenRequest asks for a voice channel access token. Action is
// "login" or "join"; RoomCode is required for "join" and names the room
// whose voice channel the caller wants.
type VoiceTokenRequest struct {
	Action   string `json:"action"`
	RoomCode string `json:"room_code"`
}

// VoiceTokenResponse carries the signed token back to the client.
type VoiceTokenResponse struct {
	Token string `json:"token"`
}

// RpcVoiceToken issues a signed voice access token for the calling user.
// Credentials come from the Nakama runtime env (voice_secret, voice_issuer,
// voice_domain), so tokens are minted server-side and the signing secret
// never reaches clients.
func RpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("unauthenticated", 16)
	}

	var req VoiceTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}

	env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if !ok {
		return "", runtime.NewError("voice service not configured", 13)
	}
	secret := env["voice_secret"]
	issuer := env["voice_issuer"]
	domain := env["voice_domain"]
	if secret == "" || issuer == "" || domain == "" {
		logger.Error("RpcVoiceToken: voice credentials missing from runtime env")
		return "", runtime.NewError("voice service not configured", 13)
	}

	svc := app.NewVoiceService(secret, issuer, domain)
	token, err := svc.GenerateToken(userID, req.Action, req.RoomCode)
	if err != nil {
		logger.Error("RpcVoiceToken [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to generate token", 3)
	}

	b, _ := json.Marshal(VoiceTokenResponse{Token: token})
	return string(b), nil
}
