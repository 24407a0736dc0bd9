package domain

// NextPresident walks the fixed rotation starting after the sitting
// president and returns the first living non-spectator player, wrapping as
// needed. The rotation itself never changes as players die.
func (r *Room) NextPresident() string {
	g := r.Game
	start := 0
	for i, id := range g.PresidentOrder {
		if id == g.PresidentID {
			start = i
			break
		}
	}
	for i := 1; i <= len(g.PresidentOrder); i++ {
		candidate := g.PresidentOrder[(start+i)%len(g.PresidentOrder)]
		if p := r.FindPlayer(candidate); p != nil && p.Alive && !p.IsSpectator {
			return candidate
		}
	}
	return g.PresidentID
}

// EligibleChancellors returns the ids a president may nominate: living
// non-spectators excluding the president, the last chancellor, and - only
// while more than 5 players live - the last president. The relaxed limit
// keeps legal nominations possible in shrunken games.
func (r *Room) EligibleChancellors() []string {
	g := r.Game
	alive := r.AlivePlayers()
	eligible := make([]string, 0, len(alive))
	for _, p := range alive {
		if p.ID == g.PresidentID {
			continue
		}
		if p.ID == g.LastChancellorID {
			continue
		}
		if len(alive) > 5 && p.ID == g.LastPresidentID {
			continue
		}
		eligible = append(eligible, p.ID)
	}
	return eligible
}

// IsEligibleChancellor reports whether id is a legal nomination target.
func (r *Room) IsEligibleChancellor(id string) bool {
	for _, e := range r.EligibleChancellors() {
		if e == id {
			return true
		}
	}
	return false
}
