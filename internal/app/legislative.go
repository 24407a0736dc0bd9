package app

import "secrethitler/internal/domain"

// DiscardPolicy is the president discarding one of the 3 drawn policies.
// The remaining 2 pass to the chancellor.
func (s *Service) DiscardPolicy(room *domain.Room, actorID string, index int) ([]Event, error) {
	g, err := requireGame(room)
	if err != nil {
		return nil, err
	}
	if room.Phase != domain.PhasePresidentDiscard {
		return nil, ErrWrongPhase
	}
	if actorID != g.PresidentID {
		return nil, ErrNotPresident
	}
	if index < 0 || index >= len(g.DrawnPolicies) {
		return nil, ErrBadCardIndex
	}

	g.Discard(g.DrawnPolicies[index])
	g.DrawnPolicies = append(g.DrawnPolicies[:index], g.DrawnPolicies[index+1:]...)
	room.Phase = domain.PhaseChancellorEnact

	chancellor := room.FindPlayer(g.ChancellorID)
	return []Event{
		{
			Kind: EventPhaseChanged,
			Payload: PhaseChangedPayload{
				Phase:      domain.PhaseChancellorEnact,
				Chancellor: &PlayerRef{ID: chancellor.ID, Name: chancellor.Name},
			},
			Recipients: []string{room.HostID},
		},
		{
			Kind: EventYourTurn,
			Payload: YourTurnPayload{
				Action:      "enact-policy",
				Policies:    append([]domain.Policy(nil), g.DrawnPolicies...),
				VetoEnabled: g.VetoEnabled && !g.VetoRefused,
			},
			Recipients: []string{chancellor.ID},
		},
	}, nil
}

// EnactPolicy is the chancellor enacting one of the remaining 2 policies.
// The unchosen card goes to the discard pile, then the win condition and
// the executive power track are checked.
func (s *Service) EnactPolicy(room *domain.Room, actorID string, index int) ([]Event, error) {
	g, err := requireGame(room)
	if err != nil {
		return nil, err
	}
	if room.Phase != domain.PhaseChancellorEnact {
		return nil, ErrWrongPhase
	}
	if actorID != g.ChancellorID {
		return nil, ErrNotChancellor
	}
	if index < 0 || index >= len(g.DrawnPolicies) {
		return nil, ErrBadCardIndex
	}

	enacted := g.DrawnPolicies[index]
	for i, p := range g.DrawnPolicies {
		if i != index {
			g.Discard(p)
		}
	}
	g.DrawnPolicies = nil
	g.VetoRefused = false
	s.enact(g, enacted)

	events := []Event{{
		Kind: EventPolicyEnacted,
		Payload: PolicyEnactedPayload{
			Policy:          enacted,
			LiberalPolicies: g.LiberalPolicies,
			FascistPolicies: g.FascistPolicies,
		},
	}}

	if win := domain.CheckPolicyWin(g.LiberalPolicies, g.FascistPolicies); win != nil {
		return append(events, s.gameOver(room, win.Winner, win.Reason, nil)...), nil
	}

	if enacted == domain.PolicyFascist {
		if power := g.PowerAt(g.FascistPolicies); power != domain.PowerNone {
			return append(events, s.beginExecutive(room, power)...), nil
		}
	}
	return append(events, s.advanceRound(room)...), nil
}

// RequestVeto is the chancellor asking to discard both remaining policies.
// Available once per session after the veto power is unlocked; the session
// then awaits the president's decision.
func (s *Service) RequestVeto(room *domain.Room, actorID string) ([]Event, error) {
	g, err := requireGame(room)
	if err != nil {
		return nil, err
	}
	if room.Phase != domain.PhaseChancellorEnact {
		return nil, ErrWrongPhase
	}
	if actorID != g.ChancellorID {
		return nil, ErrNotChancellor
	}
	if !g.VetoEnabled {
		return nil, ErrVetoLocked
	}
	if g.VetoRefused {
		return nil, ErrVetoSpent
	}

	room.Phase = domain.PhaseVetoDecision

	chancellor := room.FindPlayer(g.ChancellorID)
	return []Event{
		{
			Kind:       EventVetoRequested,
			Payload:    VetoRequestedPayload{Chancellor: PlayerRef{ID: chancellor.ID, Name: chancellor.Name}},
			Recipients: []string{room.HostID},
		},
		{
			Kind:       EventYourTurn,
			Payload:    YourTurnPayload{Action: "veto-decision"},
			Recipients: []string{g.PresidentID},
		},
	}, nil
}

// DecideVeto is the president approving or rejecting a pending veto.
// Approval discards both policies and counts as a failed election on the
// tracker; rejection forces the chancellor to enact with vetoing disabled
// for the rest of the session.
func (s *Service) DecideVeto(room *domain.Room, actorID string, approve bool) ([]Event, error) {
	g, err := requireGame(room)
	if err != nil {
		return nil, err
	}
	if room.Phase != domain.PhaseVetoDecision {
		return nil, ErrWrongPhase
	}
	if actorID != g.PresidentID {
		return nil, ErrNotPresident
	}

	if !approve {
		g.VetoRefused = true
		room.Phase = domain.PhaseChancellorEnact

		return []Event{
			{
				Kind:       EventVetoRejected,
				Payload:    struct{}{},
				Recipients: []string{room.HostID},
			},
			{
				Kind: EventYourTurn,
				Payload: YourTurnPayload{
					Action:      "enact-policy",
					Policies:    append([]domain.Policy(nil), g.DrawnPolicies...),
					VetoEnabled: false,
				},
				Recipients: []string{g.ChancellorID},
			},
		}, nil
	}

	for _, p := range g.DrawnPolicies {
		g.Discard(p)
	}
	g.DrawnPolicies = nil
	g.VetoRefused = false
	g.ElectionTracker++

	events := []Event{{
		Kind:       EventVetoApproved,
		Payload:    VetoApprovedPayload{ElectionTracker: g.ElectionTracker},
		Recipients: []string{room.HostID},
	}}

	if g.ElectionTracker >= 3 {
		events = append(events, s.chaosEnact(room))
		if win := domain.CheckPolicyWin(g.LiberalPolicies, g.FascistPolicies); win != nil {
			return append(events, s.gameOver(room, win.Winner, win.Reason, nil)...), nil
		}
	}
	return append(events, s.advanceRound(room)...), nil
}
