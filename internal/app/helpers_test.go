package app

import (
	"fmt"
	"math/rand"
	"testing"

	"secrethitler/internal/domain"
)

// lobbyRoom builds a room with n connected players waiting in the lobby.
func lobbyRoom(n int) *domain.Room {
	room := &domain.Room{Code: "KXQ2", HostID: "host", Phase: domain.PhaseLobby}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i+1)
		room.Players = append(room.Players, &domain.Player{
			ID:        id,
			Name:      "Player " + id,
			Connected: true,
			Alive:     true,
		})
	}
	return room
}

// gameRoom builds a room mid-game in the nomination phase. roles[i] goes
// to player p(i+1) and p1 is the sitting president.
func gameRoom(roles []domain.Role) *domain.Room {
	room := lobbyRoom(len(roles))
	room.Phase = domain.PhaseNomination

	order := make([]string, len(room.Players))
	for i, p := range room.Players {
		p.Role = roles[i]
		p.Team = domain.TeamForRole(roles[i])
		order[i] = p.ID
	}

	rng := rand.New(rand.NewSource(1))
	room.Game = &domain.GameState{
		PolicyDeck:          domain.ShufflePolicies(rng, domain.NewPolicyDeck()),
		PresidentID:         "p1",
		PresidentOrder:      order,
		Votes:               make(map[string]domain.Vote),
		PowerTrack:          domain.PowerTrackFor(len(roles)),
		InvestigatedPlayers: make(map[string]bool),
	}
	return room
}

// fiveRoles is the minimal composition: 3 liberals, 1 fascist, Hitler.
func fiveRoles() []domain.Role {
	return []domain.Role{
		domain.RoleLiberal, domain.RoleLiberal, domain.RoleLiberal,
		domain.RoleFascist, domain.RoleHitler,
	}
}

func findEvent(t *testing.T, events []Event, kind EventKind) Event {
	t.Helper()
	for _, ev := range events {
		if ev.Kind == kind {
			return ev
		}
	}
	t.Fatalf("no %s event in %d events", kind, len(events))
	return Event{}
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// voteAll drives a full election with every living player voting the same way.
func voteAll(t *testing.T, svc *Service, room *domain.Room, vote domain.Vote) []Event {
	t.Helper()
	var all []Event
	for _, p := range room.AlivePlayers() {
		events, err := svc.CastVote(room, p.ID, vote)
		if err != nil {
			t.Fatalf("vote by %s: %v", p.ID, err)
		}
		all = append(all, events...)
	}
	return all
}
