package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"secrethitler/internal/ports"
)

// ScoreAdapter implements ports.ScorePort on Nakama's wallet system. Points
// live under the "points" wallet key.
type ScoreAdapter struct {
	nk runtime.NakamaModule
}

// NewScoreAdapter creates a new score adapter.
func NewScoreAdapter(nk runtime.NakamaModule) *ScoreAdapter {
	return &ScoreAdapter{nk: nk}
}

// GetScore retrieves the current point balance for a user.
func (a *ScoreAdapter) GetScore(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	var wallet map[string]int64
	if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return wallet["points"], nil
}

// UpdateScores applies multiple point changes.
func (a *ScoreAdapter) UpdateScores(ctx context.Context, updates []ports.ScoreUpdate) error {
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}

		changes := map[string]int64{
			"points": update.Amount,
		}

		_, _, err := a.nk.WalletUpdate(ctx, update.UserID, changes, update.Metadata, true)
		if err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", update.UserID, err)
		}
	}
	return nil
}

var _ ports.ScorePort = (*ScoreAdapter)(nil)
