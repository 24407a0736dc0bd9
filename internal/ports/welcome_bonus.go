package ports

import "context"

// WelcomeBonusPort grants the one-time starting points for new accounts.
type WelcomeBonusPort interface {
	// GrantWelcomeBonusOnce attempts to grant the starting points.
	// Returns granted=false when they were already granted.
	GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error)
}
