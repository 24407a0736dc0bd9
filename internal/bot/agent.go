package bot

import (
	"math/rand"

	"secrethitler/internal/domain"
)

// ActionKind identifies what an agent wants to do on its turn.
type ActionKind string

const (
	ActionNominate     ActionKind = "nominate"
	ActionVote         ActionKind = "vote"
	ActionDiscard      ActionKind = "discard"
	ActionEnact        ActionKind = "enact"
	ActionVetoDecision ActionKind = "veto-decision"
	ActionExecutive    ActionKind = "executive"
)

// Action is one move chosen by an agent. Only the fields relevant to the
// Kind are set.
type Action struct {
	Kind     ActionKind
	TargetID string
	Vote     domain.Vote
	Index    int
	Approve  bool
}

// Agent is an autonomous seat-filler that plays uniformly random legal
// moves. It never requests a veto, so it can never stall a session.
type Agent struct {
	ID   string
	Name string
	rng  *rand.Rand
}

// NewAgent constructs an agent from the persona pool.
func NewAgent(id string, rng *rand.Rand) *Agent {
	return &Agent{
		ID:   id,
		Name: GetBotDisplayName(id),
		rng:  rng,
	}
}

// Act inspects the room and returns the agent's pending move, or nil when
// it is not this agent's turn to do anything.
func (a *Agent) Act(room *domain.Room) *Action {
	g := room.Game
	if g == nil {
		return nil
	}

	switch room.Phase {
	case domain.PhaseNomination:
		if g.PresidentID != a.ID {
			return nil
		}
		eligible := room.EligibleChancellors()
		if len(eligible) == 0 {
			return nil
		}
		return &Action{Kind: ActionNominate, TargetID: eligible[a.rng.Intn(len(eligible))]}

	case domain.PhaseVoting:
		me := room.FindPlayer(a.ID)
		if me == nil || !me.Alive || me.IsSpectator {
			return nil
		}
		if _, voted := g.Votes[a.ID]; voted {
			return nil
		}
		// Lean ja so lobbies with several bots rarely chain failed elections.
		vote := domain.VoteJa
		if a.rng.Intn(4) == 0 {
			vote = domain.VoteNein
		}
		return &Action{Kind: ActionVote, Vote: vote}

	case domain.PhasePresidentDiscard:
		if g.PresidentID != a.ID {
			return nil
		}
		return &Action{Kind: ActionDiscard, Index: a.rng.Intn(len(g.DrawnPolicies))}

	case domain.PhaseChancellorEnact:
		if g.ChancellorID != a.ID {
			return nil
		}
		return &Action{Kind: ActionEnact, Index: a.rng.Intn(len(g.DrawnPolicies))}

	case domain.PhaseVetoDecision:
		if g.PresidentID != a.ID {
			return nil
		}
		return &Action{Kind: ActionVetoDecision, Approve: a.rng.Intn(2) == 0}

	case domain.PhaseExecutive:
		if g.PresidentID != a.ID {
			return nil
		}
		if g.PendingPower == domain.PowerPolicyPeek {
			return &Action{Kind: ActionExecutive}
		}
		targets := room.EligiblePowerTargets(g.PendingPower)
		if len(targets) == 0 {
			return nil
		}
		return &Action{Kind: ActionExecutive, TargetID: targets[a.rng.Intn(len(targets))]}
	}
	return nil
}
