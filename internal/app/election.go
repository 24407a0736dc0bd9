package app

import "secrethitler/internal/domain"

// NominateChancellor is the sitting president proposing a chancellor.
// Accepted only during the nomination phase and only for an eligible id;
// any other submission leaves the room unchanged.
func (s *Service) NominateChancellor(room *domain.Room, actorID, chancellorID string) ([]Event, error) {
	g, err := requireGame(room)
	if err != nil {
		return nil, err
	}
	if room.Phase != domain.PhaseNomination {
		return nil, ErrWrongPhase
	}
	if actorID != g.PresidentID {
		return nil, ErrNotPresident
	}
	if !room.IsEligibleChancellor(chancellorID) {
		return nil, ErrIneligibleChancellor
	}

	g.ChancellorID = chancellorID
	g.Votes = make(map[string]domain.Vote)
	room.Phase = domain.PhaseVoting

	president := room.FindPlayer(g.PresidentID)
	chancellor := room.FindPlayer(chancellorID)

	events := []Event{{
		Kind: EventPhaseChanged,
		Payload: PhaseChangedPayload{
			Phase:           domain.PhaseVoting,
			President:       &PlayerRef{ID: president.ID, Name: president.Name},
			Chancellor:      &PlayerRef{ID: chancellor.ID, Name: chancellor.Name},
			ElectionTracker: g.ElectionTracker,
		},
		Recipients: []string{room.HostID},
	}}

	for _, p := range room.AlivePlayers() {
		events = append(events, Event{
			Kind: EventYourTurn,
			Payload: YourTurnPayload{
				Action:     "vote",
				President:  president.Name,
				Chancellor: chancellor.Name,
			},
			Recipients: []string{p.ID},
		})
	}
	return events, nil
}

// CastVote records one living player's ballot. A resubmission overwrites
// the previous ballot. When the ballot count reaches the living count the
// election resolves atomically.
func (s *Service) CastVote(room *domain.Room, actorID string, vote domain.Vote) ([]Event, error) {
	g, err := requireGame(room)
	if err != nil {
		return nil, err
	}
	if room.Phase != domain.PhaseVoting {
		return nil, ErrWrongPhase
	}
	voter := room.FindPlayer(actorID)
	if voter == nil {
		return nil, ErrUnknownPlayer
	}
	if !voter.Alive || voter.IsSpectator {
		return nil, ErrCannotVote
	}
	if vote != domain.VoteJa && vote != domain.VoteNein {
		return nil, ErrInvalidTarget
	}

	g.Votes[actorID] = vote

	alive := room.AlivePlayers()
	events := []Event{{
		Kind: EventVoteCast,
		Payload: VoteCastPayload{
			VoterID:      actorID,
			TotalVotes:   len(g.Votes),
			TotalPlayers: len(alive),
		},
		Recipients: []string{room.HostID},
	}}

	if len(g.Votes) < len(alive) {
		return events, nil
	}
	return append(events, s.resolveElection(room)...), nil
}

// resolveElection tallies all ballots: pass iff ja strictly exceeds nein.
func (s *Service) resolveElection(room *domain.Room) []Event {
	g := room.Game
	alive := room.AlivePlayers()

	ja, nein := 0, 0
	ballots := make([]Ballot, 0, len(alive))
	for _, p := range alive {
		v := g.Votes[p.ID]
		if v == domain.VoteJa {
			ja++
		} else {
			nein++
		}
		ballots = append(ballots, Ballot{ID: p.ID, Name: p.Name, Vote: v})
	}
	passed := ja > nein

	events := []Event{{
		Kind:    EventVoteResults,
		Payload: VoteResultsPayload{Votes: ballots, Ja: ja, Nein: nein, Passed: passed},
	}}

	if passed {
		return append(events, s.electionPassed(room)...)
	}
	return append(events, s.electionFailed(room)...)
}

// electionPassed checks the Hitler-chancellor win, then records term-limit
// memory and opens the legislative session.
func (s *Service) electionPassed(room *domain.Room) []Event {
	g := room.Game

	if g.FascistPolicies >= 3 {
		chancellor := room.FindPlayer(g.ChancellorID)
		if chancellor.Role == domain.RoleHitler {
			return s.gameOver(room, domain.TeamFascist, "Hitler was elected Chancellor!", nil)
		}
	}

	g.LastPresidentID = g.PresidentID
	g.LastChancellorID = g.ChancellorID
	g.ElectionTracker = 0

	g.ReshuffleIfNeeded(s.rng)
	g.DrawnPolicies = g.Draw(3)
	room.Phase = domain.PhasePresidentDiscard

	president := room.FindPlayer(g.PresidentID)
	return []Event{
		{
			Kind: EventPhaseChanged,
			Payload: PhaseChangedPayload{
				Phase:     domain.PhasePresidentDiscard,
				President: &PlayerRef{ID: president.ID, Name: president.Name},
			},
			Recipients: []string{room.HostID},
		},
		{
			Kind: EventYourTurn,
			Payload: YourTurnPayload{
				Action:   "discard-policy",
				Policies: append([]domain.Policy(nil), g.DrawnPolicies...),
			},
			Recipients: []string{president.ID},
		},
	}
}

// electionFailed advances the tracker, forcing a chaos enactment on the
// third consecutive failure, then rotates the presidency.
func (s *Service) electionFailed(room *domain.Room) []Event {
	g := room.Game
	g.ElectionTracker++

	var events []Event
	if g.ElectionTracker >= 3 {
		events = append(events, s.chaosEnact(room))
		if win := domain.CheckPolicyWin(g.LiberalPolicies, g.FascistPolicies); win != nil {
			return append(events, s.gameOver(room, win.Winner, win.Reason, nil)...)
		}
	}
	return append(events, s.advanceRound(room)...)
}
