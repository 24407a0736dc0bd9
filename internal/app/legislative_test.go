package app

import (
	"math/rand"
	"testing"

	"secrethitler/internal/domain"
)

// legislativeRoom puts a 5-player game straight into the president-discard
// phase with a known drawn hand. The hand is dealt out of the real deck so
// the card count stays intact.
func legislativeRoom(drawn []domain.Policy) *domain.Room {
	room := gameRoom(fiveRoles())
	g := room.Game
	g.ChancellorID = "p3"
	copy(g.PolicyDeck, drawn)
	g.DrawnPolicies = g.Draw(len(drawn))
	room.Phase = domain.PhasePresidentDiscard
	return room
}

func TestDiscardPolicyPassesTwoToChancellor(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	room := legislativeRoom([]domain.Policy{domain.PolicyLiberal, domain.PolicyFascist, domain.PolicyFascist})

	if _, err := svc.DiscardPolicy(room, "p3", 0); err != ErrNotPresident {
		t.Fatalf("chancellor discard: err = %v, want ErrNotPresident", err)
	}
	if _, err := svc.DiscardPolicy(room, "p1", 3); err != ErrBadCardIndex {
		t.Fatalf("out-of-range discard: err = %v, want ErrBadCardIndex", err)
	}

	events, err := svc.DiscardPolicy(room, "p1", 0)
	if err != nil {
		t.Fatalf("discard error: %v", err)
	}
	if room.Phase != domain.PhaseChancellorEnact {
		t.Fatalf("phase = %s, want chancellor-enact", room.Phase)
	}
	if len(room.Game.DrawnPolicies) != 2 || len(room.Game.DiscardPile) != 1 {
		t.Fatalf("drawn=%d discard=%d, want 2/1", len(room.Game.DrawnPolicies), len(room.Game.DiscardPile))
	}

	prompt := findEvent(t, events, EventYourTurn)
	if prompt.Recipients[0] != "p3" {
		t.Fatalf("enact prompt went to %s, not the chancellor", prompt.Recipients[0])
	}
	payload := prompt.Payload.(YourTurnPayload)
	if len(payload.Policies) != 2 {
		t.Fatalf("chancellor sees %d policies, want 2", len(payload.Policies))
	}
}

func TestEnactPolicyAdvancesRound(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	room := legislativeRoom([]domain.Policy{domain.PolicyLiberal, domain.PolicyFascist, domain.PolicyFascist})
	if _, err := svc.DiscardPolicy(room, "p1", 1); err != nil {
		t.Fatalf("discard error: %v", err)
	}

	if _, err := svc.EnactPolicy(room, "p1", 0); err != ErrNotChancellor {
		t.Fatalf("president enact: err = %v, want ErrNotChancellor", err)
	}

	events, err := svc.EnactPolicy(room, "p3", 0) // the liberal card
	if err != nil {
		t.Fatalf("enact error: %v", err)
	}
	g := room.Game
	if g.LiberalPolicies != 1 || g.FascistPolicies != 0 {
		t.Fatalf("tracks = %dL/%dF, want 1L/0F", g.LiberalPolicies, g.FascistPolicies)
	}
	if len(g.DiscardPile) != 2 || g.DrawnPolicies != nil {
		t.Fatalf("unchosen card not discarded")
	}
	if g.CardCount() != domain.TotalPolicyCards {
		t.Fatalf("card count = %d", g.CardCount())
	}

	findEvent(t, events, EventPolicyEnacted)
	if room.Phase != domain.PhaseNomination || g.PresidentID != "p2" {
		t.Fatalf("round should advance to p2's nomination, got %s in %s", g.PresidentID, room.Phase)
	}
}

func TestFifthLiberalPolicyWins(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	room := legislativeRoom([]domain.Policy{domain.PolicyLiberal, domain.PolicyLiberal, domain.PolicyFascist})
	room.Game.LiberalPolicies = 4
	if _, err := svc.DiscardPolicy(room, "p1", 2); err != nil {
		t.Fatalf("discard error: %v", err)
	}

	events, err := svc.EnactPolicy(room, "p3", 0)
	if err != nil {
		t.Fatalf("enact error: %v", err)
	}

	over := findEvent(t, events, EventGameOver).Payload.(GameOverPayload)
	if over.Winner != domain.TeamLiberal {
		t.Fatalf("winner = %s, want liberal", over.Winner)
	}
	if room.Phase != domain.PhaseGameOver {
		t.Fatalf("phase = %s, want game-over", room.Phase)
	}
}

func TestVetoLockedUntilFiveFascistPolicies(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	room := legislativeRoom([]domain.Policy{domain.PolicyFascist, domain.PolicyFascist, domain.PolicyFascist})
	room.Game.FascistPolicies = 4
	if _, err := svc.DiscardPolicy(room, "p1", 0); err != nil {
		t.Fatalf("discard error: %v", err)
	}

	if _, err := svc.RequestVeto(room, "p3"); err != ErrVetoLocked {
		t.Fatalf("early veto: err = %v, want ErrVetoLocked", err)
	}

	// The fifth fascist policy unlocks vetoing permanently.
	if _, err := svc.EnactPolicy(room, "p3", 0); err != nil {
		t.Fatalf("enact error: %v", err)
	}
	if !room.Game.VetoEnabled {
		t.Fatalf("veto should unlock at five fascist policies")
	}
	// Five fascist policies also fire the execution power.
	if room.Phase != domain.PhaseExecutive {
		t.Fatalf("phase = %s, want executive", room.Phase)
	}
}

func TestVetoRejectionForcesEnactment(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	room := legislativeRoom([]domain.Policy{domain.PolicyFascist, domain.PolicyFascist, domain.PolicyLiberal})
	room.Game.VetoEnabled = true
	if _, err := svc.DiscardPolicy(room, "p1", 2); err != nil {
		t.Fatalf("discard error: %v", err)
	}

	if _, err := svc.RequestVeto(room, "p3"); err != nil {
		t.Fatalf("veto request error: %v", err)
	}
	if room.Phase != domain.PhaseVetoDecision {
		t.Fatalf("phase = %s, want veto-decision", room.Phase)
	}

	events, err := svc.DecideVeto(room, "p1", false)
	if err != nil {
		t.Fatalf("veto rejection error: %v", err)
	}
	findEvent(t, events, EventVetoRejected)
	if room.Phase != domain.PhaseChancellorEnact || !room.Game.VetoRefused {
		t.Fatalf("rejection must force the chancellor back to enactment")
	}

	// The spent veto cannot be requested again this session.
	if _, err := svc.RequestVeto(room, "p3"); err != ErrVetoSpent {
		t.Fatalf("second veto: err = %v, want ErrVetoSpent", err)
	}

	// Enacting clears the refusal for the next session.
	if _, err := svc.EnactPolicy(room, "p3", 0); err != nil {
		t.Fatalf("forced enact error: %v", err)
	}
	if room.Game.VetoRefused {
		t.Fatalf("veto refusal must reset after enactment")
	}
}

func TestVetoApprovalDiscardsBothAndAdvancesTracker(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	room := legislativeRoom([]domain.Policy{domain.PolicyFascist, domain.PolicyFascist, domain.PolicyLiberal})
	room.Game.VetoEnabled = true
	if _, err := svc.DiscardPolicy(room, "p1", 2); err != nil {
		t.Fatalf("discard error: %v", err)
	}
	if _, err := svc.RequestVeto(room, "p3"); err != nil {
		t.Fatalf("veto request error: %v", err)
	}

	events, err := svc.DecideVeto(room, "p1", true)
	if err != nil {
		t.Fatalf("veto approval error: %v", err)
	}
	g := room.Game
	findEvent(t, events, EventVetoApproved)
	if g.ElectionTracker != 1 {
		t.Fatalf("tracker = %d, want 1", g.ElectionTracker)
	}
	if len(g.DiscardPile) != 3 || g.DrawnPolicies != nil {
		t.Fatalf("both policies must be discarded, discard=%d", len(g.DiscardPile))
	}
	if g.CardCount() != domain.TotalPolicyCards {
		t.Fatalf("card count = %d", g.CardCount())
	}
	if room.Phase != domain.PhaseNomination {
		t.Fatalf("phase = %s, want nomination", room.Phase)
	}
}

func TestVetoApprovalAtTrackerTwoCausesChaos(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	room := legislativeRoom([]domain.Policy{domain.PolicyFascist, domain.PolicyFascist, domain.PolicyLiberal})
	room.Game.VetoEnabled = true
	room.Game.ElectionTracker = 2
	if _, err := svc.DiscardPolicy(room, "p1", 2); err != nil {
		t.Fatalf("discard error: %v", err)
	}
	if _, err := svc.RequestVeto(room, "p3"); err != nil {
		t.Fatalf("veto request error: %v", err)
	}

	events, err := svc.DecideVeto(room, "p1", true)
	if err != nil {
		t.Fatalf("veto approval error: %v", err)
	}
	if !hasEvent(events, EventChaos) {
		t.Fatalf("approved veto at tracker 2 must trigger chaos")
	}
	if room.Game.ElectionTracker != 0 {
		t.Fatalf("tracker = %d, want reset", room.Game.ElectionTracker)
	}
}
