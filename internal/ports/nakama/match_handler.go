package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"secrethitler/internal/app"
	"secrethitler/internal/bot"
	"secrethitler/internal/config"
	"secrethitler/internal/domain"
	"secrethitler/internal/ports"
)

const (
	tickRate = 1 // authoritative loop ticks once per second

	gameConfigPath    = "data/game_config.json"
	botIdentitiesPath = "data/bot_identities.json"
)

// Client error codes carried in GameErrorMessage, mapped from app error kinds.
const (
	errCodeInvalidChoice = 3
	errCodeNotFound      = 5
	errCodeUnauthorized  = 7
	errCodeIllegalState  = 9
)

// MatchHandler wires the rules engine into Nakama's authoritative match
// runtime. One match is one room; Nakama serializes all loop invocations
// for a match, so nothing here needs its own locking.
type MatchHandler struct{}

// MatchState is everything the loop carries between ticks.
type MatchState struct {
	Room      *domain.Room
	Presences map[string]runtime.Presence
	App       *app.Service
	Score     ports.ScorePort

	// pendingSpectators carries the spectator flag from MatchJoinAttempt
	// (where join metadata is visible) to MatchJoin (where it is not).
	pendingSpectators map[string]bool

	BotsEnabled     bool
	BotMinDelay     int
	BotMaxDelay     int
	BotAutoFillWait int
	Bots            map[string]*bot.Agent
	botRng          *rand.Rand

	Tick             int64
	BotActAt         int64 // next tick at which a bot may move, 0 = unscheduled
	ShortHandedSince int64 // first tick the lobby was below the minimum, 0 = not waiting

	scored bool // winning-team points already settled for this game
}

func (m *MatchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	code, _ := params["code"].(string)
	hostID, _ := params["host_id"].(string)
	if code == "" || hostID == "" {
		logger.Error("match created without code/host_id params")
		return nil, 0, ""
	}

	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("game config unavailable, using defaults: %v", err)
	}
	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("bot identities unavailable, autofill disabled: %v", err)
	}
	cfg := config.GetGameConfig()
	if cfg == nil {
		cfg = &config.GameConfig{
			BotsEnabled:             true,
			BotMinDelaySeconds:      1,
			BotMaxDelaySeconds:      3,
			BotAutoFillDelaySeconds: 30,
		}
	}

	state := &MatchState{
		Room: &domain.Room{
			Code:   code,
			HostID: hostID,
			Phase:  domain.PhaseLobby,
		},
		Presences:         make(map[string]runtime.Presence),
		pendingSpectators: make(map[string]bool),
		App:               app.NewService(nil),
		Score:             NewScoreAdapter(nk),
		BotsEnabled:       cfg.BotsEnabled,
		BotMinDelay:       cfg.BotMinDelaySeconds,
		BotMaxDelay:       cfg.BotMaxDelaySeconds,
		BotAutoFillWait:   cfg.BotAutoFillDelaySeconds,
		Bots:              make(map[string]*bot.Agent),
		botRng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	applyEnvOverrides(ctx, state)

	label := makeLabel(state.Room)
	logger.Info("room %s created, host %s", code, hostID)
	return state, tickRate, label
}

// applyEnvOverrides lets the Nakama runtime env toggle bot behavior without
// editing the config file.
func applyEnvOverrides(ctx context.Context, state *MatchState) {
	env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if !ok {
		return
	}
	if v, ok := env["bots_enabled"]; ok {
		state.BotsEnabled = v == "true"
	}
	if v, ok := env["bot_auto_fill_delay_seconds"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			state.BotAutoFillWait = n
		}
	}
}

func (m *MatchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s := state.(*MatchState)
	userID := presence.GetUserId()

	// Host display and reconnecting players are always admitted.
	if userID == s.Room.HostID {
		return s, true, ""
	}
	if s.Room.FindPlayer(userID) != nil {
		return s, true, ""
	}

	spectator := metadata["spectator"] == "true"
	if s.Room.Game != nil {
		// A game in progress only admits watchers.
		spectator = true
	}
	if !spectator {
		if len(s.Room.ActivePlayers()) >= domain.MaxPlayers {
			return s, false, "room is full"
		}
		name := presence.GetUsername()
		if existing := s.Room.FindPlayerByName(name); existing != nil && existing.Connected {
			return s, false, "name already taken"
		}
	}

	s.pendingSpectators[userID] = spectator
	return s, true, ""
}

func (m *MatchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s := state.(*MatchState)

	for _, presence := range presences {
		userID := presence.GetUserId()
		s.Presences[userID] = presence

		if userID == s.Room.HostID {
			continue
		}

		if existing := s.Room.FindPlayer(userID); existing != nil {
			existing.Connected = true
			logger.Info("player %s reconnected to room %s", userID, s.Room.Code)
			m.dispatchEvents(ctx, logger, dispatcher, s, s.App.Rejoin(s.Room, userID))
			continue
		}

		spectator := s.pendingSpectators[userID]
		delete(s.pendingSpectators, userID)
		s.Room.Players = append(s.Room.Players, &domain.Player{
			ID:          userID,
			Name:        presence.GetUsername(),
			IsSpectator: spectator,
			Connected:   true,
			Alive:       true,
		})
		if spectator && s.Room.Game != nil {
			m.dispatchEvents(ctx, logger, dispatcher, s, s.App.Rejoin(s.Room, userID))
		}
	}

	m.broadcastRoomState(logger, dispatcher, s)
	m.updateLabel(logger, dispatcher, s)
	return s
}

func (m *MatchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s := state.(*MatchState)

	for _, presence := range presences {
		userID := presence.GetUserId()
		delete(s.Presences, userID)

		if userID == s.Room.HostID {
			// The host display owns the room. Without it nobody can see
			// the shared board, so the match ends.
			logger.Info("host left, terminating room %s", s.Room.Code)
			return nil
		}

		player := s.Room.FindPlayer(userID)
		if player == nil {
			continue
		}
		if s.Room.Game == nil {
			s.Room.RemovePlayer(userID)
		} else {
			// Mid-game the seat is kept so the player can reconnect.
			player.Connected = false
		}
	}

	m.broadcastRoomState(logger, dispatcher, s)
	m.updateLabel(logger, dispatcher, s)
	return s
}

func (m *MatchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s := state.(*MatchState)
	s.Tick = tick

	for _, msg := range messages {
		events, err := m.applyMessage(s, msg)
		if err != nil {
			m.sendError(logger, dispatcher, s, msg.GetUserId(), err)
			continue
		}
		m.dispatchEvents(ctx, logger, dispatcher, s, events)
		m.updateLabel(logger, dispatcher, s)
	}

	m.processBots(ctx, logger, dispatcher, s)
	return s
}

// applyMessage decodes one client message and runs it against the rules
// engine. The returned events carry their own recipient lists.
func (m *MatchHandler) applyMessage(s *MatchState, msg runtime.MatchData) ([]app.Event, error) {
	sender := msg.GetUserId()

	switch msg.GetOpCode() {
	case OpStartGame:
		return s.App.StartGame(s.Room, sender)

	case OpNightComplete:
		return s.App.CompleteNight(s.Room, sender)

	case OpNominate:
		var req NominateRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return nil, fmt.Errorf("%w: malformed nomination", app.ErrInvalidChoice)
		}
		return s.App.NominateChancellor(s.Room, sender, req.ChancellorID)

	case OpCastVote:
		var req CastVoteRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return nil, fmt.Errorf("%w: malformed ballot", app.ErrInvalidChoice)
		}
		return s.App.CastVote(s.Room, sender, domain.Vote(req.Vote))

	case OpDiscardPolicy:
		var req DiscardPolicyRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return nil, fmt.Errorf("%w: malformed discard", app.ErrInvalidChoice)
		}
		return s.App.DiscardPolicy(s.Room, sender, req.Index)

	case OpChancellorAction:
		var req ChancellorActionRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return nil, fmt.Errorf("%w: malformed chancellor action", app.ErrInvalidChoice)
		}
		if req.Action == "veto" {
			return s.App.RequestVeto(s.Room, sender)
		}
		return s.App.EnactPolicy(s.Room, sender, req.Index)

	case OpVetoDecision:
		var req VetoDecisionRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return nil, fmt.Errorf("%w: malformed veto decision", app.ErrInvalidChoice)
		}
		return s.App.DecideVeto(s.Room, sender, req.Approve)

	case OpExecutiveAction:
		var req ExecutiveActionRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return nil, fmt.Errorf("%w: malformed executive action", app.ErrInvalidChoice)
		}
		return s.App.ExecutiveAction(s.Room, sender, req.TargetID)

	case OpPlayAgain:
		events, err := s.App.PlayAgain(s.Room, sender)
		if err == nil {
			s.scored = false
		}
		return events, err
	}

	return nil, fmt.Errorf("%w: unknown op code %d", app.ErrInvalidChoice, msg.GetOpCode())
}

func (m *MatchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	return state
}

func (m *MatchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// opcodeForEvent maps engine events to wire op codes.
func opcodeForEvent(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventPhaseChanged:
		return OpPhaseChanged, true
	case app.EventYourTurn:
		return OpYourTurn, true
	case app.EventVoteCast:
		return OpVoteCast, true
	case app.EventVoteResults:
		return OpVoteResults, true
	case app.EventPolicyEnacted:
		return OpPolicyEnacted, true
	case app.EventChaos:
		return OpChaos, true
	case app.EventVetoRequested:
		return OpVetoRequested, true
	case app.EventVetoApproved:
		return OpVetoApproved, true
	case app.EventVetoRejected:
		return OpVetoRejected, true
	case app.EventSpecialElection:
		return OpSpecialElection, true
	case app.EventInvestigationResult:
		return OpInvestigationResult, true
	case app.EventInvestigationDone:
		return OpInvestigationDone, true
	case app.EventPolicyPeek:
		return OpPolicyPeek, true
	case app.EventPolicyPeekDone:
		return OpPolicyPeekDone, true
	case app.EventExecutionDone:
		return OpExecutionDone, true
	case app.EventExecuted:
		return OpExecuted, true
	case app.EventGameOver:
		return OpGameOver, true
	case app.EventReturnToLobby:
		return OpReturnToLobby, true
	}
	return 0, false
}

func (m *MatchHandler) dispatchEvents(ctx context.Context, logger runtime.Logger, dispatcher runtime.MatchDispatcher, s *MatchState, events []app.Event) {
	for _, ev := range events {
		m.dispatchEvent(logger, dispatcher, s, ev)
		if ev.Kind == app.EventGameOver {
			m.settleScores(ctx, logger, s, ev)
		}
	}
}

func (m *MatchHandler) dispatchEvent(logger runtime.Logger, dispatcher runtime.MatchDispatcher, s *MatchState, ev app.Event) {
	opCode, ok := opcodeForEvent(ev.Kind)
	if !ok {
		logger.Warn("event %s has no op code, dropped", ev.Kind)
		return
	}

	data, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("failed to marshal %s payload: %v", ev.Kind, err)
		return
	}

	if len(ev.Recipients) == 0 {
		if err := dispatcher.BroadcastMessage(opCode, data, nil, nil, true); err != nil {
			logger.Error("broadcast %s failed: %v", ev.Kind, err)
		}
		return
	}

	targets := make([]runtime.Presence, 0, len(ev.Recipients))
	for _, id := range ev.Recipients {
		if p, online := s.Presences[id]; online {
			targets = append(targets, p)
		}
	}
	// The event named recipients. If they are all offline the payload is
	// dropped: falling back to a broadcast would leak secret data.
	if len(targets) == 0 {
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, targets, nil, true); err != nil {
		logger.Error("targeted send of %s failed: %v", ev.Kind, err)
	}
}

// settleScores credits the winning team once per game. Bots hold seats but
// no wallets.
func (m *MatchHandler) settleScores(ctx context.Context, logger runtime.Logger, s *MatchState, ev app.Event) {
	if s.scored {
		return
	}
	payload, ok := ev.Payload.(app.GameOverPayload)
	if !ok {
		return
	}

	var updates []ports.ScoreUpdate
	for _, p := range payload.Players {
		if p.Team != payload.Winner || bot.IsBot(p.ID) {
			continue
		}
		updates = append(updates, ports.ScoreUpdate{
			UserID: p.ID,
			Amount: config.GetWinPoints(),
			Metadata: map[string]interface{}{
				"room_code": s.Room.Code,
				"reason":    "game_win",
			},
		})
	}
	if len(updates) == 0 {
		s.scored = true
		return
	}
	if err := s.Score.UpdateScores(ctx, updates); err != nil {
		logger.Error("score settlement failed for room %s: %v", s.Room.Code, err)
		return
	}
	s.scored = true
	logger.Info("credited %d winners in room %s", len(updates), s.Room.Code)
}

func (m *MatchHandler) sendError(logger runtime.Logger, dispatcher runtime.MatchDispatcher, s *MatchState, userID string, err error) {
	code := errCodeIllegalState
	switch {
	case errors.Is(err, app.ErrInvalidChoice):
		code = errCodeInvalidChoice
	case errors.Is(err, app.ErrNotFound):
		code = errCodeNotFound
	case errors.Is(err, app.ErrUnauthorized):
		code = errCodeUnauthorized
	}

	data, merr := json.Marshal(GameErrorMessage{Code: code, Message: err.Error()})
	if merr != nil {
		return
	}
	target, online := s.Presences[userID]
	if !online {
		return
	}
	if berr := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{target}, nil, true); berr != nil {
		logger.Error("error send failed: %v", berr)
	}
}

func (m *MatchHandler) broadcastRoomState(logger runtime.Logger, dispatcher runtime.MatchDispatcher, s *MatchState) {
	msg := RoomStateMessage{
		Code:    s.Room.Code,
		Phase:   string(s.Room.Phase),
		Players: make([]RoomPlayer, 0, len(s.Room.Players)),
	}
	for _, p := range s.Room.Players {
		msg.Players = append(msg.Players, RoomPlayer{
			ID:          p.ID,
			Name:        p.Name,
			IsSpectator: p.IsSpectator,
			Connected:   p.Connected,
		})
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal room state: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpRoomState, data, nil, nil, true); err != nil {
		logger.Error("room state broadcast failed: %v", err)
	}
}

func makeLabel(room *domain.Room) string {
	active := len(room.ActivePlayers())
	open := domain.MaxPlayers - active
	if room.Game != nil {
		open = 0
	}
	data, err := json.Marshal(MatchLabel{
		Code:    room.Code,
		Phase:   string(room.Phase),
		Open:    open,
		Players: active,
	})
	if err != nil {
		return ""
	}
	return string(data)
}

func (m *MatchHandler) updateLabel(logger runtime.Logger, dispatcher runtime.MatchDispatcher, s *MatchState) {
	if err := dispatcher.MatchLabelUpdate(makeLabel(s.Room)); err != nil {
		logger.Error("label update failed: %v", err)
	}
}

// processBots runs lobby autofill and at most one bot move per tick. The
// per-move delay keeps bot play legible to humans at the table.
func (m *MatchHandler) processBots(ctx context.Context, logger runtime.Logger, dispatcher runtime.MatchDispatcher, s *MatchState) {
	if !s.BotsEnabled {
		return
	}

	if s.Room.Game == nil && s.Room.Phase == domain.PhaseLobby {
		m.autofillLobby(logger, dispatcher, s)
		return
	}
	if s.Room.Game == nil || s.Room.Phase == domain.PhaseGameOver || len(s.Bots) == 0 {
		return
	}

	if s.BotActAt == 0 {
		delay := s.BotMinDelay
		if s.BotMaxDelay > s.BotMinDelay {
			delay += s.botRng.Intn(s.BotMaxDelay - s.BotMinDelay + 1)
		}
		s.BotActAt = s.Tick + int64(delay)
		return
	}
	if s.Tick < s.BotActAt {
		return
	}
	s.BotActAt = 0

	for _, agent := range s.Bots {
		action := agent.Act(s.Room)
		if action == nil {
			continue
		}
		events, err := m.applyBotAction(s, agent, action)
		if err != nil {
			logger.Warn("bot %s move rejected: %v", agent.ID, err)
			continue
		}
		m.dispatchEvents(ctx, logger, dispatcher, s, events)
		m.updateLabel(logger, dispatcher, s)
		return
	}
}

// autofillLobby seats bots once a short-handed lobby with at least one
// human has waited out the grace period.
func (m *MatchHandler) autofillLobby(logger runtime.Logger, dispatcher runtime.MatchDispatcher, s *MatchState) {
	humans := 0
	for _, p := range s.Room.ActivePlayers() {
		if !bot.IsBot(p.ID) {
			humans++
		}
	}
	active := len(s.Room.ActivePlayers())
	if humans == 0 || active >= domain.MinPlayers {
		s.ShortHandedSince = 0
		return
	}

	if s.ShortHandedSince == 0 {
		s.ShortHandedSince = s.Tick
		return
	}
	if s.Tick-s.ShortHandedSince < int64(s.BotAutoFillWait) {
		return
	}
	s.ShortHandedSince = 0

	for i := 0; active < domain.MinPlayers && i < domain.MaxPlayers*2; i++ {
		identity := bot.GetBotIdentity(i)
		if s.Room.FindPlayer(identity.UserID) != nil {
			continue
		}
		s.Room.Players = append(s.Room.Players, &domain.Player{
			ID:        identity.UserID,
			Name:      identity.DisplayName,
			Connected: true,
			Alive:     true,
		})
		s.Bots[identity.UserID] = bot.NewAgent(identity.UserID, s.botRng)
		active++
	}
	logger.Info("autofilled room %s with bots to %d players", s.Room.Code, active)

	m.broadcastRoomState(logger, dispatcher, s)
	m.updateLabel(logger, dispatcher, s)
}

func (m *MatchHandler) applyBotAction(s *MatchState, agent *bot.Agent, action *bot.Action) ([]app.Event, error) {
	switch action.Kind {
	case bot.ActionNominate:
		return s.App.NominateChancellor(s.Room, agent.ID, action.TargetID)
	case bot.ActionVote:
		return s.App.CastVote(s.Room, agent.ID, action.Vote)
	case bot.ActionDiscard:
		return s.App.DiscardPolicy(s.Room, agent.ID, action.Index)
	case bot.ActionEnact:
		return s.App.EnactPolicy(s.Room, agent.ID, action.Index)
	case bot.ActionVetoDecision:
		return s.App.DecideVeto(s.Room, agent.ID, action.Approve)
	case bot.ActionExecutive:
		return s.App.ExecutiveAction(s.Room, agent.ID, action.TargetID)
	}
	return nil, fmt.Errorf("%w: unknown bot action %q", app.ErrInvalidChoice, action.Kind)
}
