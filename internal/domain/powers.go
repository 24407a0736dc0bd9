package domain

// PowerTrackFor returns the five-slot presidential power track for the
// given player count. Slot i fires when the (i+1)th fascist policy is
// enacted.
func PowerTrackFor(playerCount int) [5]Power {
	switch {
	case playerCount <= 6:
		return [5]Power{PowerNone, PowerNone, PowerPolicyPeek, PowerExecution, PowerExecution}
	case playerCount <= 8:
		return [5]Power{PowerNone, PowerInvestigate, PowerSpecialElection, PowerExecution, PowerExecution}
	default:
		return [5]Power{PowerInvestigate, PowerInvestigate, PowerSpecialElection, PowerExecution, PowerExecution}
	}
}

// PowerAt returns the power unlocked by reaching the given fascist policy
// count, or PowerNone.
func (g *GameState) PowerAt(fascistPolicies int) Power {
	if fascistPolicies < 1 || fascistPolicies > len(g.PowerTrack) {
		return PowerNone
	}
	return g.PowerTrack[fascistPolicies-1]
}

// EligiblePowerTargets returns the ids the president may target with the
// given power: living non-spectators other than the president, minus
// already-investigated players for the investigation power. Policy peek
// takes no target.
func (r *Room) EligiblePowerTargets(power Power) []string {
	if power == PowerPolicyPeek {
		return nil
	}
	g := r.Game
	targets := make([]string, 0, r.AliveCount())
	for _, p := range r.AlivePlayers() {
		if p.ID == g.PresidentID {
			continue
		}
		if power == PowerInvestigate && g.InvestigatedPlayers[p.ID] {
			continue
		}
		targets = append(targets, p.ID)
	}
	return targets
}
