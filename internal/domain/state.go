package domain

// Phase represents the lifecycle stage of a room.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhaseNight is the role-reveal stage right after game start.
	PhaseNight Phase = "night"
	// PhaseNomination awaits the president's chancellor nomination.
	PhaseNomination Phase = "nomination"
	// PhaseVoting awaits ballots from all living players.
	PhaseVoting Phase = "voting"
	// PhasePresidentDiscard awaits the president's discard from 3 drawn policies.
	PhasePresidentDiscard Phase = "president-discard"
	// PhaseChancellorEnact awaits the chancellor's enactment or veto request.
	PhaseChancellorEnact Phase = "chancellor-enact"
	// PhaseVetoDecision awaits the president's veto approval or rejection.
	PhaseVetoDecision Phase = "veto-decision"
	// PhaseExecutive awaits the president's use of an unlocked power.
	PhaseExecutive Phase = "executive"
	// PhaseGameOver is terminal; only a reset to lobby is accepted.
	PhaseGameOver Phase = "game-over"
)

// Team is the faction a player belongs to.
type Team string

const (
	TeamLiberal Team = "liberal"
	TeamFascist Team = "fascist"
)

// Role is a player's secret role. Hitler is on the fascist team.
type Role string

const (
	RoleLiberal Role = "liberal"
	RoleFascist Role = "fascist"
	RoleHitler  Role = "hitler"
)

// TeamForRole maps a role to its team.
func TeamForRole(r Role) Team {
	if r == RoleLiberal {
		return TeamLiberal
	}
	return TeamFascist
}

// Policy is a single card in the policy deck.
type Policy string

const (
	PolicyLiberal Policy = "liberal"
	PolicyFascist Policy = "fascist"
)

// Vote is a ballot in a chancellor election.
type Vote string

const (
	VoteJa   Vote = "ja"
	VoteNein Vote = "nein"
)

// Power is a presidential power unlocked by fascist policy counts.
// PowerNone marks track slots with no power.
type Power string

const (
	PowerNone            Power = ""
	PowerInvestigate     Power = "investigate"
	PowerSpecialElection Power = "special-election"
	PowerPolicyPeek      Power = "policy-peek"
	PowerExecution       Power = "execution"
)

// Player holds the state for one participant in a room. The ID is the
// stable user id, independent from any transport session.
type Player struct {
	ID          string
	Name        string
	IsSpectator bool
	Connected   bool
	Team        Team
	Role        Role
	Alive       bool
}

// GameState holds all mutable state of an active game. It exists only
// between game start and the return to lobby.
type GameState struct {
	PolicyDeck  []Policy
	DiscardPile []Policy

	LiberalPolicies int
	FascistPolicies int

	ElectionTracker int

	PresidentID      string
	ChancellorID     string
	LastPresidentID  string
	LastChancellorID string

	// PresidentOrder is the cyclic rotation fixed at game start. It never
	// changes; dead players are skipped when walking it.
	PresidentOrder []string

	Votes map[string]Vote

	DrawnPolicies []Policy

	VetoEnabled bool
	// VetoRefused marks that the president rejected a veto this session,
	// forcing the chancellor to enact.
	VetoRefused bool

	PowerTrack   [5]Power
	PendingPower Power

	InvestigatedPlayers map[string]bool
	ExecutedPlayers     []string

	// SpecialElectionReturnID overrides exactly the next presidency handoff.
	SpecialElectionReturnID string
}

// Room is one game room: roster, host authority and the active game if any.
type Room struct {
	Code    string
	HostID  string
	Players []*Player
	Phase   Phase
	Game    *GameState
}

// FindPlayer returns the player with the given id, or nil.
func (r *Room) FindPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindPlayerByName returns the first player with the given display name, or nil.
func (r *Room) FindPlayerByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// RemovePlayer drops the player with the given id from the roster.
func (r *Room) RemovePlayer(id string) {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return
		}
	}
}

// ActivePlayers returns all non-spectator players in join order.
func (r *Room) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.IsSpectator {
			out = append(out, p)
		}
	}
	return out
}

// AlivePlayers returns all living non-spectator players in join order.
func (r *Room) AlivePlayers() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.IsSpectator && p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// AliveCount returns the number of living non-spectator players.
func (r *Room) AliveCount() int {
	return len(r.AlivePlayers())
}
