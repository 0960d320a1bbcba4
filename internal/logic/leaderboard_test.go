package logic

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/draftlab/draft-api/internal/models"
)

type mockRedis struct {
	zaddKey     string
	zaddMembers []redis.Z
	zaddErr     error

	rangeResult []redis.Z
	rangeErr    error
}

func (m *mockRedis) ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd {
	m.zaddKey = key
	m.zaddMembers = append(m.zaddMembers, members...)
	if m.zaddErr != nil {
		cmd := redis.NewIntCmd(ctx)
		cmd.SetErr(m.zaddErr)
		return cmd
	}
	return redis.NewIntResult(int64(len(members)), nil)
}

func (m *mockRedis) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd {
	return redis.NewZSliceCmdResult(m.rangeResult, m.rangeErr)
}

type mockPg struct {
	execSQL  []string
	execArgs [][]any
	execErr  error

	queryRows pgx.Rows
	queryErr  error
}

func (m *mockPg) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execSQL = append(m.execSQL, sql)
	m.execArgs = append(m.execArgs, args)
	return pgconn.CommandTag{}, m.execErr
}

func (m *mockPg) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return m.queryRows, m.queryErr
}

func (m *mockPg) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

// mockEntryRows serves archived leaderboard entries as pgx rows.
type mockEntryRows struct {
	entries []models.LeaderboardEntry
	index   int
}

func (m *mockEntryRows) Close()                                       {}
func (m *mockEntryRows) Err() error                                   { return nil }
func (m *mockEntryRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockEntryRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockEntryRows) RawValues() [][]byte                          { return nil }
func (m *mockEntryRows) Conn() *pgx.Conn                              { return nil }

func (m *mockEntryRows) Next() bool {
	return m.index < len(m.entries)
}

func (m *mockEntryRows) Scan(dest ...any) error {
	e := m.entries[m.index]
	m.index++
	*dest[0].(*string) = e.SessionID
	*dest[1].(*string) = e.PlayerName
	*dest[2].(*string) = e.Difficulty
	*dest[3].(*int) = e.Score
	*dest[4].(*string) = e.Rating
	*dest[5].(*float64) = e.WinProbability
	*dest[6].(*time.Time) = e.CompletedAt
	return nil
}

func (m *mockEntryRows) Values() ([]any, error) { return nil, nil }

func testEntry(id string, score int) models.LeaderboardEntry {
	return models.LeaderboardEntry{
		SessionID:      id,
		PlayerName:     "p-" + id,
		Score:          score,
		Rating:         "Gold",
		Difficulty:     models.DifficultyEasy,
		WinProbability: 0.5,
		CompletedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLeaderboardRecord(t *testing.T) {
	rd := &mockRedis{}
	pg := &mockPg{}
	svc := NewLeaderboardService(rd, pg, zap.NewNop().Sugar())

	entry := testEntry("s1", 2400)
	if err := svc.Record(context.Background(), entry); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(pg.execSQL) != 1 {
		t.Fatalf("pg exec calls = %d, want 1", len(pg.execSQL))
	}
	if pg.execArgs[0][0] != "s1" {
		t.Errorf("archived session id = %v, want s1", pg.execArgs[0][0])
	}

	if rd.zaddKey != leaderboardKey {
		t.Errorf("zadd key = %s, want %s", rd.zaddKey, leaderboardKey)
	}
	if len(rd.zaddMembers) != 1 || rd.zaddMembers[0].Score != 2400 {
		t.Fatalf("zadd members = %+v", rd.zaddMembers)
	}
	var decoded models.LeaderboardEntry
	if err := json.Unmarshal([]byte(rd.zaddMembers[0].Member.(string)), &decoded); err != nil {
		t.Fatalf("member is not a JSON entry: %v", err)
	}
	if decoded.SessionID != "s1" {
		t.Errorf("decoded member = %+v", decoded)
	}
}

func TestLeaderboardRecordToleratesRedisFailure(t *testing.T) {
	rd := &mockRedis{zaddErr: errors.New("redis down")}
	pg := &mockPg{}
	svc := NewLeaderboardService(rd, pg, zap.NewNop().Sugar())

	if err := svc.Record(context.Background(), testEntry("s1", 100)); err != nil {
		t.Errorf("Record with redis failure = %v, want nil (archive succeeded)", err)
	}
}

func TestLeaderboardRecordArchiveFailure(t *testing.T) {
	rd := &mockRedis{}
	pg := &mockPg{execErr: errors.New("pg down")}
	svc := NewLeaderboardService(rd, pg, zap.NewNop().Sugar())

	if err := svc.Record(context.Background(), testEntry("s1", 100)); err == nil {
		t.Error("Record with archive failure = nil, want error")
	}
}

func TestLeaderboardTopFromRedis(t *testing.T) {
	first, _ := json.Marshal(testEntry("s1", 3000))
	second, _ := json.Marshal(testEntry("s2", 1000))
	rd := &mockRedis{rangeResult: []redis.Z{
		{Score: 3000, Member: string(first)},
		{Score: 1000, Member: string(second)},
	}}
	svc := NewLeaderboardService(rd, &mockPg{}, zap.NewNop().Sugar())

	entries, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].SessionID != "s1" || entries[0].Rank != 1 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].SessionID != "s2" || entries[1].Rank != 2 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestLeaderboardTopFallsBackToArchive(t *testing.T) {
	rd := &mockRedis{rangeErr: errors.New("redis down")}
	pg := &mockPg{queryRows: &mockEntryRows{entries: []models.LeaderboardEntry{
		testEntry("s1", 2000),
		testEntry("s2", 900),
	}}}
	svc := NewLeaderboardService(rd, pg, zap.NewNop().Sugar())

	entries, err := svc.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].SessionID != "s1" || entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Errorf("fallback entries = %+v", entries)
	}
}
