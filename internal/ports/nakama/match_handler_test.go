package nakama

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"

	"secrethitler/internal/app"
	"secrethitler/internal/bot"
	"secrethitler/internal/domain"
	"secrethitler/internal/ports"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockPresence is a connected client for dispatcher assertions.
type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string                 { return "node" }
func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return true }
func (p mockPresence) GetUsername() string               { return p.username }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }

// mockMatchData is one client message fed into MatchLoop.
type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (d mockMatchData) GetOpCode() int64      { return d.opCode }
func (d mockMatchData) GetData() []byte       { return d.data }
func (d mockMatchData) GetReliable() bool     { return true }
func (d mockMatchData) GetReceiveTime() int64 { return 0 }

type sentMessage struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence // nil means broadcast to everyone
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages     []sentMessage
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{
		opCode:    opCode,
		data:      append([]byte(nil), data...),
		presences: presences,
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) byOpCode(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.messages {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

type mockScore struct {
	updates [][]ports.ScoreUpdate
}

func (ms *mockScore) GetScore(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (ms *mockScore) UpdateScores(ctx context.Context, updates []ports.ScoreUpdate) error {
	ms.updates = append(ms.updates, updates)
	return nil
}

// testMatchState builds a match with n seated connected players and an
// online host display.
func testMatchState(n int) *MatchState {
	s := &MatchState{
		Room: &domain.Room{
			Code:   "KXQ2",
			HostID: "host",
			Phase:  domain.PhaseLobby,
		},
		Presences:         make(map[string]runtime.Presence),
		pendingSpectators: make(map[string]bool),
		App:               app.NewService(rand.New(rand.NewSource(1))),
		Score:             &mockScore{},
		Bots:              make(map[string]*bot.Agent),
		botRng:            rand.New(rand.NewSource(1)),
	}
	s.Presences["host"] = mockPresence{userID: "host", username: "Host"}
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		s.Room.Players = append(s.Room.Players, &domain.Player{
			ID:        id,
			Name:      "Player " + id,
			Connected: true,
			Alive:     true,
		})
		s.Presences[id] = mockPresence{userID: id, username: "Player " + id}
	}
	return s
}

func TestMatchInitRequiresParams(t *testing.T) {
	m := &MatchHandler{}
	state, _, _ := m.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{})
	if state != nil {
		t.Fatalf("init without code/host_id must fail")
	}

	state, tick, label := m.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{
		"code":    "KXQ2",
		"host_id": "host",
	})
	if state == nil || tick != tickRate {
		t.Fatalf("init failed: state=%v tick=%d", state, tick)
	}

	var parsed MatchLabel
	if err := json.Unmarshal([]byte(label), &parsed); err != nil {
		t.Fatalf("label is not JSON: %v", err)
	}
	if parsed.Code != "KXQ2" || parsed.Open != domain.MaxPlayers {
		t.Fatalf("label = %+v, want code KXQ2 with %d open seats", parsed, domain.MaxPlayers)
	}

	s := state.(*MatchState)
	if s.Room.HostID != "host" || s.Room.Phase != domain.PhaseLobby {
		t.Fatalf("room = %+v", s.Room)
	}
}

func TestMatchJoinAttemptRejectsFullRoom(t *testing.T) {
	m := &MatchHandler{}
	s := testMatchState(domain.MaxPlayers)

	_, ok, reason := m.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 0, s,
		mockPresence{userID: "late", username: "Late"}, nil)
	if ok {
		t.Fatalf("11th player admitted")
	}
	if reason == "" {
		t.Fatalf("rejection needs a reason")
	}

	// Spectators are still welcome.
	_, ok, _ = m.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 0, s,
		mockPresence{userID: "watcher", username: "Watcher"}, map[string]string{"spectator": "true"})
	if !ok || !s.pendingSpectators["watcher"] {
		t.Fatalf("spectator join rejected")
	}
}

func TestMatchJoinAttemptRejectsDuplicateName(t *testing.T) {
	m := &MatchHandler{}
	s := testMatchState(3)

	_, ok, _ := m.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 0, s,
		mockPresence{userID: "other", username: "Player a"}, nil)
	if ok {
		t.Fatalf("duplicate connected name admitted")
	}

	// A disconnected player's name can be reused.
	s.Room.FindPlayer("a").Connected = false
	_, ok, _ = m.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 0, s,
		mockPresence{userID: "other", username: "Player a"}, nil)
	if !ok {
		t.Fatalf("name of a disconnected player should be reusable")
	}
}

func TestMatchJoinAttemptForcesSpectatorMidGame(t *testing.T) {
	m := &MatchHandler{}
	s := testMatchState(5)
	s.Room.Game = &domain.GameState{}
	s.Room.Phase = domain.PhaseNomination

	_, ok, _ := m.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 0, s,
		mockPresence{userID: "late", username: "Late"}, nil)
	if !ok {
		t.Fatalf("mid-game watcher rejected")
	}
	if !s.pendingSpectators["late"] {
		t.Fatalf("mid-game joiner must become a spectator")
	}
}

func TestMatchJoinKeepsHostOffRoster(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(0)

	m.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, s, []runtime.Presence{
		mockPresence{userID: "host", username: "Host"},
		mockPresence{userID: "a", username: "Alice"},
	})

	if s.Room.FindPlayer("host") != nil {
		t.Fatalf("host display must not hold a seat")
	}
	if p := s.Room.FindPlayer("a"); p == nil || !p.Connected {
		t.Fatalf("joining player not seated")
	}
	if len(dispatcher.byOpCode(OpRoomState)) == 0 || dispatcher.labelUpdates == 0 {
		t.Fatalf("join must broadcast room state and refresh the label")
	}
}

func TestMatchLeaveLobbyRemovesSeat(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(3)

	out := m.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, s, []runtime.Presence{
		mockPresence{userID: "b", username: "Player b"},
	})
	if out == nil {
		t.Fatalf("player leave must not end the match")
	}
	if s.Room.FindPlayer("b") != nil {
		t.Fatalf("lobby leave should free the seat")
	}
}

func TestMatchLeaveMidGameKeepsSeat(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(5)
	s.Room.Game = &domain.GameState{}
	s.Room.Phase = domain.PhaseVoting

	m.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, s, []runtime.Presence{
		mockPresence{userID: "b", username: "Player b"},
	})
	p := s.Room.FindPlayer("b")
	if p == nil || p.Connected {
		t.Fatalf("mid-game leave must keep the seat marked disconnected")
	}
}

func TestMatchLeaveHostTerminates(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(3)

	out := m.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, s, []runtime.Presence{
		mockPresence{userID: "host", username: "Host"},
	})
	if out != nil {
		t.Fatalf("host leave must terminate the match")
	}
}

func TestMatchLoopStartGameTargetsReveals(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(5)

	m.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, s, []runtime.MatchData{
		mockMatchData{mockPresence: mockPresence{userID: "host"}, opCode: OpStartGame},
	})

	if s.Room.Phase != domain.PhaseNight {
		t.Fatalf("phase = %s, want night", s.Room.Phase)
	}

	reveals := dispatcher.byOpCode(OpGameStarted)
	if len(reveals) != 5 {
		t.Fatalf("role reveals = %d, want 5", len(reveals))
	}
	for _, msg := range reveals {
		if len(msg.presences) != 1 {
			t.Fatalf("role reveal must target exactly one presence, got %d", len(msg.presences))
		}
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatalf("successful action must refresh the label")
	}
}

func TestMatchLoopErrorGoesToSenderOnly(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(5)

	m.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, s, []runtime.MatchData{
		mockMatchData{mockPresence: mockPresence{userID: "a"}, opCode: OpStartGame},
	})

	if s.Room.Game != nil {
		t.Fatalf("non-host start must not begin a game")
	}
	errs := dispatcher.byOpCode(OpGameError)
	if len(errs) != 1 {
		t.Fatalf("errors sent = %d, want 1", len(errs))
	}
	if len(errs[0].presences) != 1 || errs[0].presences[0].GetUserId() != "a" {
		t.Fatalf("error must go to the sender only")
	}

	var msg GameErrorMessage
	if err := json.Unmarshal(errs[0].data, &msg); err != nil {
		t.Fatalf("error payload: %v", err)
	}
	if msg.Code != errCodeUnauthorized {
		t.Fatalf("error code = %d, want %d", msg.Code, errCodeUnauthorized)
	}
}

func TestMatchLoopMalformedPayloadRejected(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(5)

	m.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, s, []runtime.MatchData{
		mockMatchData{mockPresence: mockPresence{userID: "a"}, opCode: OpNominate, data: []byte("not json")},
	})

	errs := dispatcher.byOpCode(OpGameError)
	if len(errs) != 1 {
		t.Fatalf("errors sent = %d, want 1", len(errs))
	}
}

func TestDispatchEventDropsWhenRecipientsOffline(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(2)

	m.dispatchEvent(noopLogger{}, dispatcher, s, app.Event{
		Kind:       app.EventPolicyPeek,
		Payload:    app.PolicyPeekPayload{},
		Recipients: []string{"offline-user"},
	})

	if len(dispatcher.messages) != 0 {
		t.Fatalf("secret payload for an offline recipient must be dropped, not broadcast")
	}
}

func TestDispatchEventBroadcastsWhenUntargeted(t *testing.T) {
	m := &MatchHandler{}
	dispatcher := &mockDispatcher{}
	s := testMatchState(2)

	m.dispatchEvent(noopLogger{}, dispatcher, s, app.Event{
		Kind:    app.EventVoteResults,
		Payload: app.VoteResultsPayload{},
	})

	if len(dispatcher.messages) != 1 || dispatcher.messages[0].presences != nil {
		t.Fatalf("untargeted event must broadcast to the whole match")
	}
}

func TestSettleScoresCreditsWinnersOnce(t *testing.T) {
	m := &MatchHandler{}
	s := testMatchState(5)
	score := s.Score.(*mockScore)

	ev := app.Event{
		Kind: app.EventGameOver,
		Payload: app.GameOverPayload{
			Winner: domain.TeamLiberal,
			Players: []app.RevealedPlayer{
				{ID: "a", Team: domain.TeamLiberal},
				{ID: "b", Team: domain.TeamLiberal},
				{ID: "c", Team: domain.TeamFascist},
			},
		},
	}

	m.settleScores(context.Background(), noopLogger{}, s, ev)
	m.settleScores(context.Background(), noopLogger{}, s, ev)

	if len(score.updates) != 1 {
		t.Fatalf("settlements = %d, want exactly 1", len(score.updates))
	}
	batch := score.updates[0]
	if len(batch) != 2 {
		t.Fatalf("credited = %d players, want the 2 liberals", len(batch))
	}
	for _, u := range batch {
		if u.Amount <= 0 {
			t.Fatalf("credit amount = %d, want positive", u.Amount)
		}
		if u.UserID == "c" {
			t.Fatalf("losing team must not be credited")
		}
	}
}

func TestMakeLabelTracksPhase(t *testing.T) {
	s := testMatchState(3)

	var label MatchLabel
	if err := json.Unmarshal([]byte(makeLabel(s.Room)), &label); err != nil {
		t.Fatalf("label parse: %v", err)
	}
	if label.Open != domain.MaxPlayers-3 || label.Players != 3 {
		t.Fatalf("label = %+v", label)
	}

	s.Room.Game = &domain.GameState{}
	s.Room.Phase = domain.PhaseVoting
	if err := json.Unmarshal([]byte(makeLabel(s.Room)), &label); err != nil {
		t.Fatalf("label parse: %v", err)
	}
	if label.Open != 0 || label.Phase != string(domain.PhaseVoting) {
		t.Fatalf("in-game label must advertise no open seats: %+v", label)
	}
}
