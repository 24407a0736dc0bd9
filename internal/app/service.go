package app

import (
	"math/rand"
	"time"

	"secrethitler/internal/domain"
)

// Service contains the game use-cases operating on room state. Every
// mutating method validates authority and phase before touching anything,
// so a returned error guarantees the room is unchanged.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. Tests inject a seeded rng for deterministic shuffles.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// StartGame assigns roles, builds the deck and moves the room into the
// night phase. Only the host may start, only from the lobby, and only with
// 5-10 non-spectator players.
func (s *Service) StartGame(room *domain.Room, actorID string) ([]Event, error) {
	if actorID != room.HostID {
		return nil, ErrNotHost
	}
	if room.Phase != domain.PhaseLobby {
		return nil, ErrWrongPhase
	}

	active := room.ActivePlayers()
	if len(active) < domain.MinPlayers || len(active) > domain.MaxPlayers {
		return nil, ErrRosterSize
	}

	pool, err := domain.RolePool(len(active))
	if err != nil {
		return nil, ErrRosterSize
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	order := make([]string, len(active))
	for i, p := range active {
		p.Role = pool[i]
		p.Team = domain.TeamForRole(pool[i])
		p.Alive = true
		order[i] = p.ID
	}

	first := active[s.rng.Intn(len(active))]

	room.Game = &domain.GameState{
		PolicyDeck:          domain.ShufflePolicies(s.rng, domain.NewPolicyDeck()),
		PresidentID:         first.ID,
		PresidentOrder:      order,
		Votes:               make(map[string]domain.Vote),
		PowerTrack:          domain.PowerTrackFor(len(active)),
		InvestigatedPlayers: make(map[string]bool),
	}
	room.Phase = domain.PhaseNight

	events := s.roleRevealEvents(room, active)
	events = append(events, Event{
		Kind: EventPhaseChanged,
		Payload: PhaseChangedPayload{
			Phase:       domain.PhaseNight,
			PlayerCount: len(active),
		},
		Recipients: []string{room.HostID},
	})
	return events, nil
}

// roleRevealEvents computes the one-time private reveal for every player.
func (s *Service) roleRevealEvents(room *domain.Room, active []*domain.Player) []Event {
	events := make([]Event, 0, len(room.Players))
	for _, p := range active {
		events = append(events, Event{
			Kind:       EventGameStarted,
			Payload:    rolePayload(p, active),
			Recipients: []string{p.ID},
		})
	}

	for _, p := range room.Players {
		if !p.IsSpectator {
			continue
		}
		events = append(events, Event{
			Kind:       EventGameStarted,
			Payload:    GameStartedPayload{IsSpectator: true},
			Recipients: []string{p.ID},
		})
	}
	return events
}

// rolePayload builds one player's private reveal. Fascists learn all
// fascist identities including Hitler; Hitler learns the other fascists
// only in small games; liberals and spectators learn nothing beyond their
// own card.
func rolePayload(p *domain.Player, active []*domain.Player) GameStartedPayload {
	fascists := make([]*domain.Player, 0, len(active))
	for _, f := range active {
		if f.Team == domain.TeamFascist {
			fascists = append(fascists, f)
		}
	}

	payload := GameStartedPayload{
		Role:        p.Role,
		Team:        p.Team,
		PlayerCount: len(active),
	}
	switch {
	case p.Role == domain.RoleFascist:
		for _, f := range fascists {
			payload.KnownFascists = append(payload.KnownFascists, FascistRef{
				ID:       f.ID,
				Name:     f.Name,
				IsHitler: f.Role == domain.RoleHitler,
			})
		}
	case p.Role == domain.RoleHitler && domain.HitlerKnowsFascists(len(active)):
		for _, f := range fascists {
			if f.Role == domain.RoleHitler {
				continue
			}
			payload.KnownFascists = append(payload.KnownFascists, FascistRef{ID: f.ID, Name: f.Name})
		}
	}
	return payload
}

// Rejoin re-delivers a reconnecting player's private role data while a
// game is active, so a device swap does not lose the secret reveal.
func (s *Service) Rejoin(room *domain.Room, playerID string) []Event {
	if room.Game == nil {
		return nil
	}
	p := room.FindPlayer(playerID)
	if p == nil || p.Role == "" {
		return nil
	}
	if p.IsSpectator {
		return []Event{{
			Kind:       EventGameStarted,
			Payload:    GameStartedPayload{IsSpectator: true},
			Recipients: []string{playerID},
		}}
	}
	return []Event{{
		Kind:       EventGameStarted,
		Payload:    rolePayload(p, room.ActivePlayers()),
		Recipients: []string{playerID},
	}}
}

// CompleteNight is the host display acknowledging the role-reveal stage,
// which opens the first nomination.
func (s *Service) CompleteNight(room *domain.Room, actorID string) ([]Event, error) {
	if actorID != room.HostID {
		return nil, ErrNotHost
	}
	if room.Phase != domain.PhaseNight {
		return nil, ErrWrongPhase
	}

	room.Phase = domain.PhaseNomination
	return s.nominationEvents(room), nil
}

// PlayAgain resets a finished game back to the lobby, preserving the
// roster and the host binding.
func (s *Service) PlayAgain(room *domain.Room, actorID string) ([]Event, error) {
	if actorID != room.HostID {
		return nil, ErrNotHost
	}
	if room.Phase != domain.PhaseGameOver {
		return nil, ErrWrongPhase
	}

	room.Game = nil
	room.Phase = domain.PhaseLobby
	for _, p := range room.Players {
		p.Team = ""
		p.Role = ""
		p.Alive = true
	}

	return []Event{{Kind: EventReturnToLobby, Payload: struct{}{}}}, nil
}

// enact moves one policy onto the matching track and handles the permanent
// veto unlock at 5 fascist policies.
func (s *Service) enact(g *domain.GameState, p domain.Policy) {
	if p == domain.PolicyLiberal {
		g.LiberalPolicies++
		return
	}
	g.FascistPolicies++
	if g.FascistPolicies >= 5 {
		g.VetoEnabled = true
	}
}

// chaosEnact force-enacts the top card of the deck, clears the term-limit
// memory and resets the tracker. It bypasses legislative choice, veto rules
// and power dispatch.
func (s *Service) chaosEnact(room *domain.Room) Event {
	g := room.Game
	g.ReshuffleIfNeeded(s.rng)
	card := g.Draw(1)[0]
	s.enact(g, card)

	g.ElectionTracker = 0
	g.LastPresidentID = ""
	g.LastChancellorID = ""

	return Event{
		Kind: EventChaos,
		Payload: ChaosPayload{
			Policy:          card,
			LiberalPolicies: g.LiberalPolicies,
			FascistPolicies: g.FascistPolicies,
		},
		Recipients: []string{room.HostID},
	}
}

// advanceRound hands the presidency to the next player (honoring a pending
// special-election override) and re-enters the nomination phase.
func (s *Service) advanceRound(room *domain.Room) []Event {
	g := room.Game
	if g.SpecialElectionReturnID != "" {
		g.PresidentID = g.SpecialElectionReturnID
		g.SpecialElectionReturnID = ""
	} else {
		g.PresidentID = room.NextPresident()
	}
	g.ChancellorID = ""
	room.Phase = domain.PhaseNomination
	return s.nominationEvents(room)
}

// nominationEvents emits the host phase update and the president's prompt
// for the current nomination round.
func (s *Service) nominationEvents(room *domain.Room) []Event {
	g := room.Game
	president := room.FindPlayer(g.PresidentID)
	eligible := room.EligibleChancellors()

	return []Event{
		{
			Kind: EventPhaseChanged,
			Payload: PhaseChangedPayload{
				Phase:               domain.PhaseNomination,
				President:           &PlayerRef{ID: president.ID, Name: president.Name},
				EligibleChancellors: eligible,
				ElectionTracker:     g.ElectionTracker,
				DeckCount:           len(g.PolicyDeck),
			},
			Recipients: []string{room.HostID},
		},
		{
			Kind: EventYourTurn,
			Payload: YourTurnPayload{
				Action:          "nominate-chancellor",
				EligiblePlayers: s.playerRefs(room, eligible),
			},
			Recipients: []string{president.ID},
		},
	}
}

// gameOver moves the room to the terminal phase and reveals every role.
func (s *Service) gameOver(room *domain.Room, winner domain.Team, reason string, executed *domain.Player) []Event {
	room.Phase = domain.PhaseGameOver

	payload := GameOverPayload{Winner: winner, Reason: reason}
	if executed != nil {
		payload.ExecutedPlayer = &PlayerRef{ID: executed.ID, Name: executed.Name}
	}
	for _, p := range room.ActivePlayers() {
		payload.Players = append(payload.Players, RevealedPlayer{
			ID:   p.ID,
			Name: p.Name,
			Role: p.Role,
			Team: p.Team,
		})
	}
	return []Event{{Kind: EventGameOver, Payload: payload}}
}

func (s *Service) playerRefs(room *domain.Room, ids []string) []PlayerRef {
	refs := make([]PlayerRef, 0, len(ids))
	for _, id := range ids {
		if p := room.FindPlayer(id); p != nil {
			refs = append(refs, PlayerRef{ID: p.ID, Name: p.Name})
		}
	}
	return refs
}

// requireGame checks that an active game exists for actions that need one.
func requireGame(room *domain.Room) (*domain.GameState, error) {
	if room.Game == nil {
		return nil, ErrNoActiveGame
	}
	return room.Game, nil
}
