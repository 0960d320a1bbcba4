package logic

import (
	"testing"
	"time"

	"github.com/draftlab/draft-api/internal/models"
)

func rankedRecs(entities ...string) []models.DraftRecommendation {
	recs := make([]models.DraftRecommendation, len(entities))
	for i, e := range entities {
		recs[i] = models.DraftRecommendation{Entity: e, Reasoning: []string{"Solid option"}}
	}
	return recs
}

func newSession() *models.GameSession {
	return &models.GameSession{
		ID:           "test",
		Achievements: make(map[string]bool),
	}
}

func TestScoreMoveBaseByRank(t *testing.T) {
	recs := rankedRecs("r0", "r1", "r2", "r3", "r4", "r5", "r6")

	tests := []struct {
		chosen string
		base   int
	}{
		{"r0", 100},
		{"r1", 75},
		{"r2", 75},
		{"r3", 50},
		{"r5", 50},
		{"r6", 25},
		{"offlist", 0},
	}
	for _, tt := range tests {
		sc := NewScorer()
		sess := newSession()
		_, _, breakdown := sc.ScoreMove(tt.chosen, recs, 30, sess)
		if breakdown.Base != tt.base {
			t.Errorf("ScoreMove(%s) base = %d, want %d", tt.chosen, breakdown.Base, tt.base)
		}
	}
}

func TestScoreMoveStreakAndCombo(t *testing.T) {
	sc := NewScorer()
	sess := newSession()
	recs := rankedRecs("best", "b", "c")

	// Move 1: 100 base + First Blood 50 + streak 1*25.
	total, _, _ := sc.ScoreMove("best", recs, 30, sess)
	if total != 175 {
		t.Errorf("first optimal move total = %d, want 175", total)
	}
	if sess.StreakCount != 1 || sess.PerfectMoves != 1 {
		t.Errorf("after move 1: streak=%d perfect=%d, want 1/1", sess.StreakCount, sess.PerfectMoves)
	}

	// Move 2: 100 base + streak 2*25.
	total, _, _ = sc.ScoreMove("best", recs, 30, sess)
	if total != 150 {
		t.Errorf("second optimal move total = %d, want 150", total)
	}

	// Move 3 reaches the combo threshold:
	// 100 base + combo 150 + Combo Master 150 + streak 3*25.
	total, _, breakdown := sc.ScoreMove("best", recs, 30, sess)
	if total != 475 {
		t.Errorf("third optimal move total = %d, want 475", total)
	}
	if sess.ComboCount != 1 {
		t.Errorf("combo count = %d, want 1", sess.ComboCount)
	}
	if breakdown.Streak != 3 {
		t.Errorf("breakdown streak = %d, want 3", breakdown.Streak)
	}
}

func TestScoreMoveStreakProgression(t *testing.T) {
	sc := NewScorer()
	sess := newSession()
	recs := rankedRecs("best", "good", "alsoGood", "meh", "e", "f", "bad")

	sc.ScoreMove("best", recs, 30, sess)
	sc.ScoreMove("best", recs, 30, sess)
	if sess.StreakCount != 2 {
		t.Fatalf("streak = %d, want 2", sess.StreakCount)
	}

	// Ranks 1-2 soften the streak by one instead of resetting.
	total, _, _ := sc.ScoreMove("good", recs, 30, sess)
	if sess.StreakCount != 1 {
		t.Errorf("streak after good move = %d, want 1", sess.StreakCount)
	}
	// 75 base + surviving streak 1*25.
	if total != 100 {
		t.Errorf("good move total = %d, want 100", total)
	}

	// Rank 3+ resets the streak outright.
	sc.ScoreMove("meh", recs, 30, sess)
	if sess.StreakCount != 0 {
		t.Errorf("streak after acceptable move = %d, want 0", sess.StreakCount)
	}

	// Off-list also resets.
	sc.ScoreMove("best", recs, 30, sess)
	sc.ScoreMove("unknown", recs, 30, sess)
	if sess.StreakCount != 0 {
		t.Errorf("streak after off-list move = %d, want 0", sess.StreakCount)
	}
}

func TestScoreMoveTimeBonus(t *testing.T) {
	sc := NewScorer()
	recs := rankedRecs("a", "b", "c", "d")

	// 20 seconds remaining pays 200, not surfaced as a named bonus.
	sess := newSession()
	total, _, breakdown := sc.ScoreMove("unknown", recs, 10, sess)
	if breakdown.TimeBonus != 200 {
		t.Errorf("time bonus at 10s = %d, want 200", breakdown.TimeBonus)
	}
	if total != 200 {
		t.Errorf("off-list total at 10s = %d, want 200", total)
	}
	for _, b := range breakdown.Bonuses {
		if b.Name == "Speed Bonus" {
			t.Errorf("Speed Bonus surfaced below the naming threshold")
		}
	}

	// 28 seconds remaining pays 280 and gets named, but is counted once.
	sess = newSession()
	total, _, breakdown = sc.ScoreMove("unknown", recs, 2, sess)
	if total != 280 {
		t.Errorf("off-list total at 2s = %d, want 280 (speed bonus counted once)", total)
	}
	named := false
	for _, b := range breakdown.Bonuses {
		if b.Name == "Speed Bonus" && b.Points == 280 {
			named = true
		}
	}
	if !named {
		t.Errorf("Speed Bonus not surfaced at 2s: %+v", breakdown.Bonuses)
	}

	// Over the window: no bonus, never negative.
	sess = newSession()
	_, _, breakdown = sc.ScoreMove("unknown", recs, 45, sess)
	if breakdown.TimeBonus != 0 {
		t.Errorf("time bonus at 45s = %d, want 0", breakdown.TimeBonus)
	}
}

func TestCheckAchievements(t *testing.T) {
	sc := NewScorer()

	sess := newSession()
	sess.PerfectMoves = 10
	sess.FinalWinProbability = 0.92
	for i := 0; i < 10; i++ {
		sess.Moves = append(sess.Moves, models.GradedMove{TimeTaken: 10})
	}

	unlocked := sc.CheckAchievements(sess)
	want := map[string]bool{AchFlawless: true, AchSpeedster: true, AchDraftGod: true}
	if len(unlocked) != len(want) {
		t.Fatalf("unlocked %v, want %v", unlocked, want)
	}
	for _, id := range unlocked {
		if !want[id] {
			t.Errorf("unexpected achievement %s", id)
		}
	}

	// Second pass unlocks nothing new.
	if again := sc.CheckAchievements(sess); len(again) != 0 {
		t.Errorf("second check unlocked %v, want none", again)
	}
}

func TestCheckAchievementsThresholds(t *testing.T) {
	sc := NewScorer()

	// Slow average blocks speedster even with enough moves.
	sess := newSession()
	for i := 0; i < 10; i++ {
		sess.Moves = append(sess.Moves, models.GradedMove{TimeTaken: 20})
	}
	for _, id := range sc.CheckAchievements(sess) {
		if id == AchSpeedster {
			t.Errorf("speedster unlocked at 20s average")
		}
	}

	// 0.9 exactly qualifies for draft god.
	sess = newSession()
	sess.FinalWinProbability = 0.9
	found := false
	for _, id := range sc.CheckAchievements(sess) {
		if id == AchDraftGod {
			found = true
		}
	}
	if !found {
		t.Errorf("draft god not unlocked at exactly 0.9")
	}
}

func TestFinalizeScore(t *testing.T) {
	sc := NewScorer()

	sess := newSession()
	sess.Moves = []models.GradedMove{{Points: 900}, {Points: 700}}
	sess.FinalWinProbability = 0.92
	sess.Unlock(AchDraftGod)
	sess.PerfectMoves = 5
	sess.ComboCount = 2

	final := sc.FinalizeScore(sess)
	if final.BaseScore != 1600 {
		t.Errorf("base = %d, want 1600", final.BaseScore)
	}
	if final.WinProbabilityBonus != 800 {
		t.Errorf("wp bonus = %d, want 800 for 0.92", final.WinProbabilityBonus)
	}
	if final.AchievementBonus != 300 {
		t.Errorf("achievement bonus = %d, want 300", final.AchievementBonus)
	}
	if final.TotalScore != 2700 {
		t.Errorf("total = %d, want 2700", final.TotalScore)
	}
	if final.Rating != "Master" || final.Rank != "S" {
		t.Errorf("rating = %s/%s, want Master/S", final.Rating, final.Rank)
	}
	if !almost(final.AverageMoveScore, 800) {
		t.Errorf("average move score = %v, want 800", final.AverageMoveScore)
	}
}

func TestFinalizeScoreRatingBands(t *testing.T) {
	sc := NewScorer()

	tests := []struct {
		points int
		wp     float64
		rating string
		rank   string
	}{
		{3200, 0.0, "Legendary", "S+"},
		{2100, 0.0, "Master", "S"},
		{1600, 0.0, "Diamond", "A"},
		{1100, 0.0, "Platinum", "B"},
		{500, 0.0, "Gold", "C"},
		// 950 base + 100 wp bonus crosses into Platinum.
		{950, 0.51, "Platinum", "B"},
	}
	for _, tt := range tests {
		sess := newSession()
		sess.Moves = []models.GradedMove{{Points: tt.points}}
		sess.FinalWinProbability = tt.wp
		final := sc.FinalizeScore(sess)
		if final.Rating != tt.rating || final.Rank != tt.rank {
			t.Errorf("points %d wp %v: rating = %s/%s, want %s/%s",
				tt.points, tt.wp, final.Rating, final.Rank, tt.rating, tt.rank)
		}
	}
}

func TestFinalizeScoreWinProbabilityBands(t *testing.T) {
	sc := NewScorer()

	tests := []struct {
		wp    float64
		bonus int
	}{
		{0.80, 800},
		{0.70, 500},
		{0.60, 300},
		{0.52, 100},
		{0.50, 0},
		{0.30, 0},
	}
	for _, tt := range tests {
		sess := newSession()
		sess.FinalWinProbability = tt.wp
		if final := sc.FinalizeScore(sess); final.WinProbabilityBonus != tt.bonus {
			t.Errorf("wp %v: bonus = %d, want %d", tt.wp, final.WinProbabilityBonus, tt.bonus)
		}
	}
}

func TestFinalizeScoreEmptySession(t *testing.T) {
	sc := NewScorer()
	sess := newSession()
	now := time.Now()
	sess.CompletedAt = &now

	final := sc.FinalizeScore(sess)
	if final.TotalScore != 0 || final.Rating != "Gold" {
		t.Errorf("empty session = %+v, want zero Gold/C", final)
	}
	if final.AverageMoveScore != 0 {
		t.Errorf("average move score = %v, want 0", final.AverageMoveScore)
	}
}
