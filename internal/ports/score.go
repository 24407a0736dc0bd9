package ports

import "context"

// ScoreUpdate represents a single point change for a user.
type ScoreUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// ScorePort defines the interface for the persistent player score.
type ScorePort interface {
	// GetScore retrieves the current point balance for a user.
	GetScore(ctx context.Context, userID string) (int64, error)

	// UpdateScores applies multiple point changes.
	// Used at game over to credit the winning team.
	UpdateScores(ctx context.Context, updates []ScoreUpdate) error
}
