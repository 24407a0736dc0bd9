package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds tunables loaded from the Nakama data directory.
type GameConfig struct {
	// WinPoints is credited to each member of the winning team at game over.
	WinPoints int64 `json:"win_points"`
	// BotsEnabled allows lobby autofill agents.
	BotsEnabled bool `json:"bots_enabled"`
	// BotMinDelaySeconds / BotMaxDelaySeconds bound how long a bot waits
	// before acting on its turn.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds is how long a short-handed lobby waits before
	// bots fill the remaining seats up to the minimum player count.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetWinPoints returns the configured winner credit, or a safe default.
func GetWinPoints() int64 {
	if cfg == nil || cfg.WinPoints <= 0 {
		return 10
	}
	return cfg.WinPoints
}
