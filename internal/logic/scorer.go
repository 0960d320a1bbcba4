package logic

import (
	"fmt"

	"github.com/draftlab/draft-api/internal/models"
)

// Achievement identifiers
const (
	AchFirstBlood    = "first_blood"
	AchComboMaster   = "combo_master"
	AchSynergyKing   = "synergy_king"
	AchCounterStrike = "counter_strike"
	AchSpeedster     = "speedster"
	AchFlawless      = "flawless"
	AchComebackKid   = "comeback_kid"
	AchDraftGod      = "draft_god"
)

// achievementRewards are the fixed per-achievement point rewards summed into
// the final score for every unlocked achievement.
var achievementRewards = map[string]int{
	AchFirstBlood:    50,
	AchComboMaster:   150,
	AchSynergyKing:   200,
	AchCounterStrike: 175,
	AchSpeedster:     125,
	AchFlawless:      500,
	AchComebackKid:   250,
	AchDraftGod:      300,
}

// Scoring rule constants
const (
	pointsOptimal    = 100
	pointsGood       = 75
	pointsAcceptable = 50
	pointsSuboptimal = 25
	pointsPoor       = 0

	timeBonusPerSecond = 10
	timeBonusWindow    = 30
	namedSpeedBonusMin = 200

	streakBonusPerMove = 25
	comboStreakMin     = 3
	comboMultiplier    = 1.5
)

// Scorer grades individual moves and finalizes session scores. Move grading
// mutates the session's streak/combo/perfect counters; everything else is
// pure over the session value.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// ScoreMove grades a chosen entity against the ranked recommendation list.
// Base points depend on the chosen rank; rank 0 extends the streak, ranks
// 1-2 soften it by one, anything else resets it. Bonuses are additive: a
// live streak always pays streak*25 even when the combo threshold bonus
// also fires.
func (sc *Scorer) ScoreMove(chosen string, recs []models.DraftRecommendation, timeTaken float64, sess *models.GameSession) (int, string, models.MoveBreakdown) {
	rank := -1
	for i, rec := range recs {
		if rec.Entity == chosen {
			rank = i
			break
		}
	}

	var base int
	var reasoning string
	var bonuses []models.Bonus
	bonusPoints := 0

	switch {
	case rank < 0:
		base = pointsPoor
		reasoning = "Unconventional choice"
		sess.StreakCount = 0
	case rank == 0:
		base = pointsOptimal
		reasoning = "Optimal pick!"
		if len(recs[0].Reasoning) > 0 {
			reasoning += " " + recs[0].Reasoning[0]
		}
		sess.StreakCount++
		sess.PerfectMoves++

		if sess.PerfectMoves == 1 {
			bonuses = append(bonuses, models.Bonus{Name: "First Blood", Points: achievementRewards[AchFirstBlood]})
			bonusPoints += achievementRewards[AchFirstBlood]
		}
		if sess.StreakCount >= comboStreakMin {
			sess.ComboCount++
			combo := int(float64(base) * comboMultiplier)
			bonuses = append(bonuses, models.Bonus{Name: "Combo x3", Points: combo})
			bonusPoints += combo
			if sess.ComboCount == 1 {
				bonuses = append(bonuses, models.Bonus{Name: "Combo Master", Points: achievementRewards[AchComboMaster]})
				bonusPoints += achievementRewards[AchComboMaster]
			}
		}
	case rank <= 2:
		base = pointsGood
		reasoning = fmt.Sprintf("Good pick! Ranked #%d", rank+1)
		if sess.StreakCount > 0 {
			sess.StreakCount--
		}
	case rank <= 5:
		base = pointsAcceptable
		reasoning = "Acceptable pick"
		sess.StreakCount = 0
	default:
		base = pointsSuboptimal
		reasoning = "Suboptimal - better options available"
		sess.StreakCount = 0
	}

	timeBonus := 0
	if remaining := timeBonusWindow - timeTaken; remaining > 0 {
		timeBonus = int(remaining * timeBonusPerSecond)
	}
	if timeBonus > namedSpeedBonusMin {
		// Surfaced in the bonus list but already counted via timeBonus.
		bonuses = append(bonuses, models.Bonus{Name: "Speed Bonus", Points: timeBonus})
	}

	if sess.StreakCount > 0 {
		streakBonus := sess.StreakCount * streakBonusPerMove
		bonuses = append(bonuses, models.Bonus{Name: "Streak", Points: streakBonus})
		bonusPoints += streakBonus
	}

	total := base + timeBonus + bonusPoints

	for _, b := range bonuses {
		reasoning += fmt.Sprintf(" + %s (+%d)", b.Name, b.Points)
	}

	breakdown := models.MoveBreakdown{
		Base:      base,
		TimeBonus: timeBonus,
		Bonuses:   bonuses,
		Streak:    sess.StreakCount,
		Combo:     sess.ComboCount,
	}
	return total, reasoning, breakdown
}

// CheckAchievements unlocks any newly earned session achievements, each
// exactly once, and returns the newly unlocked subset.
func (sc *Scorer) CheckAchievements(sess *models.GameSession) []string {
	var unlocked []string

	if sess.PerfectMoves >= 10 && !sess.HasAchievement(AchFlawless) {
		sess.Unlock(AchFlawless)
		unlocked = append(unlocked, AchFlawless)
	}

	if len(sess.Moves) >= 10 && !sess.HasAchievement(AchSpeedster) {
		var totalTime float64
		for _, m := range sess.Moves {
			totalTime += m.TimeTaken
		}
		if totalTime/float64(len(sess.Moves)) < 15 {
			sess.Unlock(AchSpeedster)
			unlocked = append(unlocked, AchSpeedster)
		}
	}

	if sess.FinalWinProbability >= 0.9 && !sess.HasAchievement(AchDraftGod) {
		sess.Unlock(AchDraftGod)
		unlocked = append(unlocked, AchDraftGod)
	}

	return unlocked
}

// FinalizeScore computes the completed session's total: summed move points,
// a stepped win-probability bonus, and the fixed reward for every unlocked
// achievement, plus a rating/rank label by score band.
func (sc *Scorer) FinalizeScore(sess *models.GameSession) models.FinalScore {
	base := 0
	for _, m := range sess.Moves {
		base += m.Points
	}

	wpBonus := 0
	switch wp := sess.FinalWinProbability; {
	case wp > 0.75:
		wpBonus = 800
	case wp > 0.65:
		wpBonus = 500
	case wp > 0.55:
		wpBonus = 300
	case wp > 0.5:
		wpBonus = 100
	}

	achievementBonus := 0
	for _, id := range sess.AchievementList() {
		achievementBonus += achievementRewards[id]
	}

	total := base + wpBonus + achievementBonus

	var rating, rank string
	switch {
	case total >= 3000:
		rating, rank = "Legendary", "S+"
	case total >= 2000:
		rating, rank = "Master", "S"
	case total >= 1500:
		rating, rank = "Diamond", "A"
	case total >= 1000:
		rating, rank = "Platinum", "B"
	default:
		rating, rank = "Gold", "C"
	}

	avg := 0.0
	if len(sess.Moves) > 0 {
		avg = float64(base) / float64(len(sess.Moves))
	}

	return models.FinalScore{
		BaseScore:           base,
		WinProbabilityBonus: wpBonus,
		AchievementBonus:    achievementBonus,
		TotalScore:          total,
		Rating:              rating,
		Rank:                rank,
		MovesMade:           len(sess.Moves),
		AverageMoveScore:    avg,
		PerfectMoves:        sess.PerfectMoves,
		Combos:              sess.ComboCount,
		Achievements:        sess.AchievementList(),
	}
}
