package app

import "secrethitler/internal/domain"

// beginExecutive suspends normal rotation and routes control to the
// president with the power's eligible target list.
func (s *Service) beginExecutive(room *domain.Room, power domain.Power) []Event {
	g := room.Game
	g.PendingPower = power
	room.Phase = domain.PhaseExecutive

	president := room.FindPlayer(g.PresidentID)
	targets := room.EligiblePowerTargets(power)

	return []Event{
		{
			Kind: EventPhaseChanged,
			Payload: PhaseChangedPayload{
				Phase:     domain.PhaseExecutive,
				Power:     power,
				President: &PlayerRef{ID: president.ID, Name: president.Name},
			},
			Recipients: []string{room.HostID},
		},
		{
			Kind: EventYourTurn,
			Payload: YourTurnPayload{
				Action:          string(power),
				EligiblePlayers: s.playerRefs(room, targets),
			},
			Recipients: []string{president.ID},
		},
	}
}

// ExecutiveAction resolves the pending presidential power against the
// given target. Policy peek takes no target; every other power requires a
// currently eligible one.
func (s *Service) ExecutiveAction(room *domain.Room, actorID, targetID string) ([]Event, error) {
	g, err := requireGame(room)
	if err != nil {
		return nil, err
	}
	if room.Phase != domain.PhaseExecutive {
		return nil, ErrWrongPhase
	}
	if actorID != g.PresidentID {
		return nil, ErrNotPresident
	}

	power := g.PendingPower
	if power == domain.PowerPolicyPeek {
		return s.policyPeek(room)
	}

	if !containsID(room.EligiblePowerTargets(power), targetID) {
		return nil, ErrInvalidTarget
	}
	target := room.FindPlayer(targetID)

	switch power {
	case domain.PowerInvestigate:
		return s.investigate(room, target)
	case domain.PowerSpecialElection:
		return s.specialElection(room, target)
	case domain.PowerExecution:
		return s.execute(room, target)
	}
	return nil, ErrWrongPhase
}

// investigate reveals the target's team to the president only and records
// the target so they cannot be investigated twice in one game.
func (s *Service) investigate(room *domain.Room, target *domain.Player) ([]Event, error) {
	g := room.Game
	g.InvestigatedPlayers[target.ID] = true
	g.PendingPower = domain.PowerNone

	president := room.FindPlayer(g.PresidentID)
	events := []Event{
		{
			Kind: EventInvestigationResult,
			Payload: InvestigationResultPayload{
				Target: PlayerRef{ID: target.ID, Name: target.Name},
				Team:   target.Team,
			},
			Recipients: []string{president.ID},
		},
		{
			Kind: EventInvestigationDone,
			Payload: InvestigationDonePayload{
				Investigator: president.Name,
				Target:       target.Name,
			},
			Recipients: []string{room.HostID},
		},
	}
	return append(events, s.advanceRound(room)...), nil
}

// specialElection transfers the presidency to the target and records where
// normal rotation resumes after the target's term.
func (s *Service) specialElection(room *domain.Room, target *domain.Player) ([]Event, error) {
	g := room.Game
	g.SpecialElectionReturnID = room.NextPresident()
	g.PresidentID = target.ID
	g.ChancellorID = ""
	g.PendingPower = domain.PowerNone
	room.Phase = domain.PhaseNomination

	events := []Event{{
		Kind:       EventSpecialElection,
		Payload:    SpecialElectionPayload{NewPresident: PlayerRef{ID: target.ID, Name: target.Name}},
		Recipients: []string{room.HostID},
	}}
	return append(events, s.nominationEvents(room)...), nil
}

// policyPeek shows the president the top 3 deck cards without moving them.
func (s *Service) policyPeek(room *domain.Room) ([]Event, error) {
	g := room.Game
	g.ReshuffleIfNeeded(s.rng)
	top := append([]domain.Policy(nil), g.PolicyDeck[:3]...)
	g.PendingPower = domain.PowerNone

	president := room.FindPlayer(g.PresidentID)
	events := []Event{
		{
			Kind:       EventPolicyPeek,
			Payload:    PolicyPeekPayload{Policies: top},
			Recipients: []string{president.ID},
		},
		{
			Kind:       EventPolicyPeekDone,
			Payload:    PolicyPeekDonePayload{President: president.Name},
			Recipients: []string{room.HostID},
		},
	}
	return append(events, s.advanceRound(room)...), nil
}

// execute kills the target. Executing Hitler ends the game with a liberal
// win; otherwise the target is individually notified and play continues.
func (s *Service) execute(room *domain.Room, target *domain.Player) ([]Event, error) {
	g := room.Game
	target.Alive = false
	g.ExecutedPlayers = append(g.ExecutedPlayers, target.ID)
	g.PendingPower = domain.PowerNone

	if target.Role == domain.RoleHitler {
		return s.gameOver(room, domain.TeamLiberal, "Hitler has been assassinated!", target), nil
	}

	events := []Event{
		{
			Kind:       EventExecutionDone,
			Payload:    ExecutionDonePayload{ExecutedPlayer: PlayerRef{ID: target.ID, Name: target.Name}},
			Recipients: []string{room.HostID},
		},
		{
			Kind:       EventExecuted,
			Payload:    struct{}{},
			Recipients: []string{target.ID},
		},
	}
	return append(events, s.advanceRound(room)...), nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
