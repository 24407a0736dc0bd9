package domain

import "fmt"

// MinPlayers and MaxPlayers bound the non-spectator roster for a game.
const (
	MinPlayers = 5
	MaxPlayers = 10
)

// roleDistribution is the fixed liberal/fascist split per player count.
// Every game has exactly one Hitler on top of the listed fascists.
var roleDistribution = map[int]struct {
	Liberals int
	Fascists int
}{
	5:  {Liberals: 3, Fascists: 1},
	6:  {Liberals: 4, Fascists: 1},
	7:  {Liberals: 4, Fascists: 2},
	8:  {Liberals: 5, Fascists: 2},
	9:  {Liberals: 5, Fascists: 3},
	10: {Liberals: 6, Fascists: 3},
}

// RolePool returns the unshuffled role cards for the given player count.
func RolePool(playerCount int) ([]Role, error) {
	dist, ok := roleDistribution[playerCount]
	if !ok {
		return nil, fmt.Errorf("no role distribution for %d players", playerCount)
	}
	pool := make([]Role, 0, playerCount)
	for i := 0; i < dist.Liberals; i++ {
		pool = append(pool, RoleLiberal)
	}
	for i := 0; i < dist.Fascists; i++ {
		pool = append(pool, RoleFascist)
	}
	pool = append(pool, RoleHitler)
	return pool, nil
}

// HitlerKnowsFascists reports whether Hitler is shown the other fascists
// at game start. Only in small games.
func HitlerKnowsFascists(playerCount int) bool {
	return playerCount <= 6
}
