package logic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/draftlab/draft-api/internal/models"
)

const leaderboardKey = "draft:leaderboard"

// LeaderboardService persists completed-session results and serves the
// ranked top list. The Redis sorted set is the fast path for reads; every
// entry is also archived to Postgres, which serves reads when Redis is
// unavailable.
type LeaderboardService interface {
	Record(ctx context.Context, entry models.LeaderboardEntry) error
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	redis  RedisClient
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewLeaderboardService(redisClient RedisClient, pg PgPool, logger *zap.SugaredLogger) LeaderboardService {
	return &leaderboardService{
		redis:  redisClient,
		pg:     pg,
		logger: logger,
	}
}

// Record archives the entry to Postgres and mirrors it into the Redis
// sorted set keyed by total score. The archive write is authoritative; a
// Redis failure is logged but does not fail the call.
func (s *leaderboardService) Record(ctx context.Context, entry models.LeaderboardEntry) error {
	_, err := s.pg.Exec(ctx, `
		INSERT INTO draft_sessions (session_id, player_name, difficulty, score, rating, win_probability, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO NOTHING`,
		entry.SessionID, entry.PlayerName, entry.Difficulty,
		entry.Score, entry.Rating, entry.WinProbability, entry.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("archiving session %s: %w", entry.SessionID, err)
	}

	member, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding leaderboard entry: %w", err)
	}
	if err := s.redis.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(entry.Score),
		Member: string(member),
	}).Err(); err != nil {
		s.logger.Warnw("Failed to update leaderboard cache", "session", entry.SessionID, "error", err)
	}
	return nil
}

// Top returns the highest-scoring completed sessions, best first, with
// ranks assigned from position.
func (s *leaderboardService) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	members, err := s.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		s.logger.Warnw("Leaderboard cache read failed, reading archive", "error", err)
		return s.topFromArchive(ctx, limit)
	}

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		raw, ok := m.Member.(string)
		if !ok {
			continue
		}
		var entry models.LeaderboardEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			s.logger.Warnw("Skipping malformed leaderboard entry", "error", err)
			continue
		}
		entry.Rank = i + 1
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *leaderboardService) topFromArchive(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT session_id, player_name, difficulty, score, rating, win_probability, completed_at
		FROM draft_sessions
		ORDER BY score DESC, completed_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying session archive: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.SessionID, &entry.PlayerName, &entry.Difficulty,
			&entry.Score, &entry.Rating, &entry.WinProbability, &entry.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning session archive row: %w", err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session archive rows: %w", err)
	}
	return entries, nil
}
