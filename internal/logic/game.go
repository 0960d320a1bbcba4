package logic

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/draftlab/draft-api/internal/models"
)

// banPhases are the positions of the fixed 20-action draft sequence where
// both sides ban instead of pick.
var banPhases = map[int]bool{
	0: true, 1: true, 2: true,
	5: true, 6: true,
	11: true, 12: true,
}

// PhaseAction maps a phase index to its action kind.
func PhaseAction(phase int) models.ActionKind {
	if banPhases[phase] {
		return models.ActionBan
	}
	return models.ActionPick
}

// phaseStage groups phase indices into labeled ban/pick rotations.
func phaseStage(phase int) (label string, ordinal int) {
	switch {
	case phase <= 2:
		return "ban1", phase + 1
	case phase <= 4:
		return "pick1", phase - 2
	case phase <= 6:
		return "ban2", phase - 4
	case phase <= 10:
		return "pick2", phase - 6
	case phase <= 12:
		return "ban3", phase - 10
	default:
		return "pick3", phase - 12
	}
}

// PhaseDescription renders a human-readable description of a phase.
func PhaseDescription(phase int) string {
	label, ordinal := phaseStage(phase)
	names := map[string]string{
		"ban1":  "First Ban Phase",
		"pick1": "First Pick Phase",
		"ban2":  "Second Ban Phase",
		"pick2": "Second Pick Phase",
		"ban3":  "Final Ban Phase",
		"pick3": "Final Pick Phase",
	}
	kind := "Pick"
	if banPhases[phase] {
		kind = "Ban"
	}
	return fmt.Sprintf("%s - %s %d", names[label], kind, ordinal)
}

// availableEntityCap limits the entity list returned to clients; validation
// and recommendations run against the full available set.
const availableEntityCap = 50

// moveTimeLimit is the advisory per-move timer shown to clients, in seconds.
const moveTimeLimit = 30

// SessionEventPublisher receives completed-session notifications for
// downstream analytics. Implementations must tolerate being called from
// request goroutines.
type SessionEventPublisher interface {
	SessionCompleted(sess *models.GameSession, final models.FinalScore)
}

// GameService runs interactive draft sessions against a simulated opponent.
type GameService interface {
	StartSession(playerName, difficulty string) (*models.GameSession, error)
	GetSession(id string) (*models.GameSession, error)
	GetAvailableActions(id string) (*models.AvailableActions, error)
	SubmitMove(ctx context.Context, id, entity string, timeTaken float64) (*models.MoveResult, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type gameService struct {
	assistant AssistantService
	scorer    *Scorer
	store     *SessionStore
	corpus    []models.MatchRecord
	matchIdx  map[string]*models.MatchRecord

	rngMu sync.Mutex
	rng   *rand.Rand

	leaderboard LeaderboardService   // optional
	publisher   SessionEventPublisher // optional
	logger      *zap.SugaredLogger
}

// GameConfig wires a game service. Seed makes opponent behavior
// reproducible; a zero seed falls back to the clock. Leaderboard and
// Publisher may be nil.
type GameConfig struct {
	Assistant   AssistantService
	Store       *SessionStore
	Corpus      []models.MatchRecord
	Seed        int64
	Leaderboard LeaderboardService
	Publisher   SessionEventPublisher
	Logger      *zap.SugaredLogger
}

func NewGameService(cfg GameConfig) GameService {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	idx := make(map[string]*models.MatchRecord, len(cfg.Corpus))
	for i := range cfg.Corpus {
		idx[cfg.Corpus[i].MatchID] = &cfg.Corpus[i]
	}
	return &gameService{
		assistant:   cfg.Assistant,
		scorer:      NewScorer(),
		store:       cfg.Store,
		corpus:      cfg.Corpus,
		matchIdx:    idx,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		leaderboard: cfg.Leaderboard,
		publisher:   cfg.Publisher,
		logger:      cfg.Logger,
	}
}

func (g *gameService) randIntn(n int) int {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return g.rng.Intn(n)
}

// StartSession creates a session referencing a random historical match for
// post-hoc comparison. The player always acts first.
func (g *gameService) StartSession(playerName, difficulty string) (*models.GameSession, error) {
	if len(g.corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	match := &g.corpus[g.randIntn(len(g.corpus))]

	sess := &models.GameSession{
		ID:                uuid.NewString(),
		PlayerName:        playerName,
		Difficulty:        difficulty,
		HistoricalMatchID: match.MatchID,
		CurrentPhase:      0,
		PlayerTurn:        true,
		Achievements:      make(map[string]bool),
		StartedAt:         time.Now().UTC(),
	}
	g.store.Create(sess)

	g.logger.Infow("Session started",
		"session", sess.ID,
		"player", playerName,
		"difficulty", difficulty,
		"reference_match", match.MatchID,
	)

	snapshot, err := g.store.Get(sess.ID)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (g *gameService) GetSession(id string) (*models.GameSession, error) {
	return g.store.Get(id)
}

// playerState views the session as a draft state with the player as side 1.
func playerState(sess *models.GameSession) *models.DraftState {
	label, _ := phaseStage(sess.CurrentPhase)
	if sess.Completed() {
		label = "complete"
	}
	return &models.DraftState{
		Side1Picks: sess.PlayerPicks,
		Side1Bans:  sess.PlayerBans,
		Side2Picks: sess.OpponentPicks,
		Side2Bans:  sess.OpponentBans,
		Phase:      label,
		Turn:       1,
	}
}

// opponentState views the session with the simulated opponent as side 1.
func opponentState(sess *models.GameSession) *models.DraftState {
	label, _ := phaseStage(sess.CurrentPhase)
	return &models.DraftState{
		Side1Picks: sess.OpponentPicks,
		Side1Bans:  sess.OpponentBans,
		Side2Picks: sess.PlayerPicks,
		Side2Bans:  sess.PlayerBans,
		Phase:      label,
		Turn:       1,
	}
}

func hintCount(difficulty string) int {
	switch difficulty {
	case models.DifficultyEasy:
		return 5
	case models.DifficultyMedium:
		return 3
	case models.DifficultyHard:
		return 1
	default: // pro
		return 0
	}
}

// opponentBand returns the size of the top band the simulated opponent
// samples from. Hard and pro always take rank 0.
func opponentBand(difficulty string) int {
	switch difficulty {
	case models.DifficultyEasy:
		return 10
	case models.DifficultyMedium:
		return 5
	default:
		return 1
	}
}

// GetAvailableActions describes the current phase: action kind, the open
// entity pool, and difficulty-gated recommendation hints.
func (g *gameService) GetAvailableActions(id string) (*models.AvailableActions, error) {
	sess, err := g.store.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.Completed() {
		return nil, ErrSessionCompleted
	}

	state := playerState(sess)
	pool := g.assistant.AvailablePool(state)
	action := PhaseAction(sess.CurrentPhase)

	var recs []models.DraftRecommendation
	if action == models.ActionBan {
		recs = g.assistant.Engine().RecommendBan(state, 1, pool)
	} else {
		recs = g.assistant.Engine().RecommendPick(state, 1, pool)
	}

	hints := recs
	if n := hintCount(sess.Difficulty); len(hints) > n {
		hints = hints[:n]
	}

	entities := pool
	if len(entities) > availableEntityCap {
		entities = entities[:availableEntityCap]
	}

	return &models.AvailableActions{
		ActionType:        action,
		AvailableEntities: entities,
		Recommendations:   hints,
		TimeLimit:         moveTimeLimit,
		Phase:             sess.CurrentPhase,
		PhaseDescription:  PhaseDescription(sess.CurrentPhase),
	}, nil
}

// SubmitMove validates and grades the player's move, produces the simulated
// opponent's response for the same phase, and advances the state machine.
// An invalid choice fails without mutating the session. Reaching the final
// phase finalizes the session.
func (g *gameService) SubmitMove(ctx context.Context, id, entity string, timeTaken float64) (*models.MoveResult, error) {
	var result models.MoveResult
	var completed *models.GameSession
	var final models.FinalScore

	err := g.store.Mutate(id, func(sess *models.GameSession) error {
		if sess.Completed() {
			return ErrSessionCompleted
		}

		state := playerState(sess)
		if state.Taken(entity) {
			return &InvalidMoveError{Entity: entity, Reason: "entity already picked or banned"}
		}
		pool := g.assistant.AvailablePool(state)
		if !contains(pool, entity) {
			return &InvalidMoveError{Entity: entity, Reason: "unknown entity"}
		}

		action := PhaseAction(sess.CurrentPhase)

		// Grading always runs against the full ranked list; difficulty
		// only gates hint visibility, never scoring.
		var recs []models.DraftRecommendation
		if action == models.ActionBan {
			recs = g.assistant.Engine().RecommendBan(state, 1, pool)
		} else {
			recs = g.assistant.Engine().RecommendPick(state, 1, pool)
		}

		points, reasoning, breakdown := g.scorer.ScoreMove(entity, recs, timeTaken, sess)

		move := models.GradedMove{
			Phase:     sess.CurrentPhase,
			Action:    action,
			Entity:    entity,
			Points:    points,
			Reasoning: reasoning,
			TimeTaken: timeTaken,
			Breakdown: breakdown,
		}
		sess.Moves = append(sess.Moves, move)
		sess.Score += points

		if action == models.ActionBan {
			sess.PlayerBans = append(sess.PlayerBans, entity)
		} else {
			sess.PlayerPicks = append(sess.PlayerPicks, entity)
		}

		oppMove := g.simulateOpponent(sess, action)
		sess.CurrentPhase++

		result = models.MoveResult{
			PlayerMove:   move,
			OpponentMove: oppMove,
			CurrentScore: sess.Score,
			GameComplete: sess.Completed(),
			Streak:       sess.StreakCount,
			Combo:        sess.ComboCount,
			PerfectMoves: sess.PerfectMoves,
		}

		if sess.Completed() {
			finalResults := g.finalize(sess)
			result.FinalResults = finalResults
			final = finalResults.FinalScore
			snapshot := cloneSession(sess)
			completed = &snapshot
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Archive and publish outside the store lock.
	if completed != nil {
		if g.leaderboard != nil {
			entry := models.LeaderboardEntry{
				SessionID:      completed.ID,
				PlayerName:     completed.PlayerName,
				Score:          final.TotalScore,
				Rating:         final.Rating,
				Difficulty:     completed.Difficulty,
				WinProbability: completed.FinalWinProbability,
				CompletedAt:    *completed.CompletedAt,
			}
			if err := g.leaderboard.Record(ctx, entry); err != nil {
				g.logger.Warnw("Failed to record leaderboard entry", "session", completed.ID, "error", err)
			}
		}
		if g.publisher != nil {
			g.publisher.SessionCompleted(completed, final)
		}
	}

	return &result, nil
}

// simulateOpponent picks the opponent's move for the current phase from its
// own perspective, sampling a rank band by difficulty.
func (g *gameService) simulateOpponent(sess *models.GameSession, action models.ActionKind) models.OpponentMove {
	state := opponentState(sess)
	pool := g.assistant.AvailablePool(state)

	var recs []models.DraftRecommendation
	if action == models.ActionBan {
		recs = g.assistant.Engine().RecommendBan(state, 1, pool)
	} else {
		recs = g.assistant.Engine().RecommendPick(state, 1, pool)
	}

	var entity, reasoning string
	if len(recs) > 0 {
		band := opponentBand(sess.Difficulty)
		if band > len(recs) {
			band = len(recs)
		}
		idx := 0
		if band > 1 {
			idx = g.randIntn(band)
		}
		entity = recs[idx].Entity
		if len(recs[idx].Reasoning) > 0 {
			reasoning = recs[idx].Reasoning[0]
		} else {
			reasoning = "Strategic choice"
		}
	} else if len(pool) > 0 {
		entity = pool[0]
		reasoning = "Strategic choice"
	}

	if action == models.ActionBan {
		sess.OpponentBans = append(sess.OpponentBans, entity)
	} else {
		sess.OpponentPicks = append(sess.OpponentPicks, entity)
	}

	return models.OpponentMove{Entity: entity, Action: action, Reasoning: reasoning}
}

// finalize runs once when the phase index reaches the end of the sequence:
// final win probability, achievement checks, score finalization, and the
// celebration/comparison payload.
func (g *gameService) finalize(sess *models.GameSession) *models.CompletionResult {
	pred := g.assistant.Engine().PredictWinProbability(playerState(sess))
	sess.FinalWinProbability = pred.Side1

	newAchievements := g.scorer.CheckAchievements(sess)
	final := g.scorer.FinalizeScore(sess)

	now := time.Now().UTC()
	sess.CompletedAt = &now

	g.logger.Infow("Session completed",
		"session", sess.ID,
		"player", sess.PlayerName,
		"total_score", final.TotalScore,
		"rating", final.Rating,
		"win_probability", sess.FinalWinProbability,
	)

	return &models.CompletionResult{
		FinalScore:      final,
		WinProbability:  sess.FinalWinProbability,
		PlayerPicks:     append([]string(nil), sess.PlayerPicks...),
		PlayerBans:      append([]string(nil), sess.PlayerBans...),
		OpponentPicks:   append([]string(nil), sess.OpponentPicks...),
		OpponentBans:    append([]string(nil), sess.OpponentBans...),
		Comparison:      g.compareToHistory(sess),
		NewAchievements: newAchievements,
		Celebration:     celebration(final, newAchievements),
		Stats:           sessionStats(sess),
	}
}

// compareToHistory measures the player's picks against the winning roster
// of the session's referenced historical match.
func (g *gameService) compareToHistory(sess *models.GameSession) models.MatchComparison {
	match, ok := g.matchIdx[sess.HistoricalMatchID]
	if !ok {
		return models.MatchComparison{}
	}

	realPicks := match.Side1Picks
	realWon := match.Side1Won
	if match.Side2Won && !match.Side1Won {
		realPicks = match.Side2Picks
		realWon = match.Side2Won
	}

	realSet := make(map[string]bool, len(realPicks))
	for _, e := range realPicks {
		realSet[e] = true
	}
	var shared []string
	for _, e := range sess.PlayerPicks {
		if realSet[e] {
			shared = append(shared, e)
		}
	}

	return models.MatchComparison{
		RealTeamPicks:  realPicks,
		SharedEntities: shared,
		Similarity:     float64(len(shared)) / 5 * 100,
		RealTeamWon:    realWon,
	}
}

func celebration(final models.FinalScore, newAchievements []string) models.Celebration {
	var effects []string
	var message string

	switch score := final.TotalScore; {
	case score >= 3000:
		effects = []string{"fireworks", "gold_rain", "epic_sound"}
		message = "LEGENDARY PERFORMANCE! You are a Draft Master!"
	case score >= 2000:
		effects = []string{"confetti", "sparkles", "victory_sound"}
		message = "OUTSTANDING! Master-level drafting!"
	case score >= 1500:
		effects = []string{"stars", "shimmer"}
		message = "Excellent work! Diamond-tier performance!"
	case score >= 1000:
		effects = []string{"glow"}
		message = "Well played! Solid drafting!"
	default:
		message = "Good effort! Keep practicing!"
	}

	for _, id := range newAchievements {
		switch id {
		case AchFlawless:
			effects = append(effects, "rainbow_burst")
			message = "FLAWLESS VICTORY! Perfect draft!"
		case AchDraftGod:
			effects = append(effects, "lightning")
			message = "DRAFT GOD! 90%+ win probability achieved!"
		}
	}

	return models.Celebration{
		Effects: effects,
		Message: message,
		Rank:    final.Rank,
		Title:   final.Rating,
	}
}

func sessionStats(sess *models.GameSession) models.SessionStats {
	stats := models.SessionStats{
		PerfectMoves: sess.PerfectMoves,
		ComboCount:   sess.ComboCount,
	}
	var totalTime float64
	for _, m := range sess.Moves {
		totalTime += m.TimeTaken
		if m.Breakdown.Streak > stats.BestStreak {
			stats.BestStreak = m.Breakdown.Streak
		}
	}
	if len(sess.Moves) > 0 {
		stats.AverageTime = totalTime / float64(len(sess.Moves))
	}
	return stats
}

// Leaderboard returns the top completed sessions. It prefers the external
// leaderboard service and falls back to ranking the in-memory registry.
func (g *gameService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if g.leaderboard != nil {
		entries, err := g.leaderboard.Top(ctx, limit)
		if err == nil {
			return entries, nil
		}
		g.logger.Warnw("Leaderboard service unavailable, falling back to registry", "error", err)
	}

	var completed []*models.GameSession
	for _, sess := range g.store.List() {
		if sess.CompletedAt != nil {
			completed = append(completed, sess)
		}
	}

	type scored struct {
		sess  *models.GameSession
		final models.FinalScore
	}
	ranked := make([]scored, 0, len(completed))
	for _, sess := range completed {
		ranked = append(ranked, scored{sess: sess, final: g.scorer.FinalizeScore(sess)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].final.TotalScore > ranked[j].final.TotalScore
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	entries := make([]models.LeaderboardEntry, 0, len(ranked))
	for i, r := range ranked {
		entries = append(entries, models.LeaderboardEntry{
			Rank:           i + 1,
			SessionID:      r.sess.ID,
			PlayerName:     r.sess.PlayerName,
			Score:          r.final.TotalScore,
			Rating:         r.final.Rating,
			Difficulty:     r.sess.Difficulty,
			WinProbability: r.sess.FinalWinProbability,
			CompletedAt:    *r.sess.CompletedAt,
		})
	}
	return entries, nil
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
