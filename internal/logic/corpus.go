package logic

import (
	"context"
	"fmt"
	"sort"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"golang.org/x/sync/errgroup"

	"github.com/draftlab/draft-api/internal/models"
)

// CorpusService loads the historical match corpus the relationship model is
// built from.
type CorpusService interface {
	LoadMatches(ctx context.Context) ([]models.MatchRecord, error)
}

type corpusService struct {
	ch driver.Conn
}

func NewCorpusService(ch driver.Conn) CorpusService {
	return &corpusService{ch: ch}
}

type corpusAction struct {
	matchID  string
	sequence uint32
	side     uint8
	action   string
	entity   string
}

type corpusResult struct {
	matchID  string
	side1Won bool
}

// LoadMatches reads draft actions and match results in parallel and joins
// them into complete match records. Matches with actions but no recorded
// result are dropped; the model needs outcomes to learn from. Output is
// ordered by match id so repeated loads produce identical corpora.
func (s *corpusService) LoadMatches(ctx context.Context) ([]models.MatchRecord, error) {
	var actions []corpusAction
	var results []corpusResult

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.ch.Query(gctx, `
			SELECT match_id, sequence, side, action, entity
			FROM draft_actions
			ORDER BY match_id, sequence`)
		if err != nil {
			return fmt.Errorf("querying draft actions: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var a corpusAction
			if err := rows.Scan(&a.matchID, &a.sequence, &a.side, &a.action, &a.entity); err != nil {
				return fmt.Errorf("scanning draft action: %w", err)
			}
			actions = append(actions, a)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := s.ch.Query(gctx, `
			SELECT match_id, side1_won
			FROM match_results`)
		if err != nil {
			return fmt.Errorf("querying match results: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var r corpusResult
			if err := rows.Scan(&r.matchID, &r.side1Won); err != nil {
				return fmt.Errorf("scanning match result: %w", err)
			}
			results = append(results, r)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assembleMatches(actions, results), nil
}

func assembleMatches(actions []corpusAction, results []corpusResult) []models.MatchRecord {
	byMatch := make(map[string]*models.MatchRecord)
	for _, a := range actions {
		rec, ok := byMatch[a.matchID]
		if !ok {
			rec = &models.MatchRecord{MatchID: a.matchID}
			byMatch[a.matchID] = rec
		}

		kind := models.ActionPick
		if a.action == "ban" {
			kind = models.ActionBan
		}
		rec.Actions = append(rec.Actions, models.DraftAction{
			Entity:   a.entity,
			Side:     int(a.side),
			Kind:     kind,
			Sequence: int(a.sequence),
		})

		switch {
		case a.side == 1 && kind == models.ActionPick:
			rec.Side1Picks = append(rec.Side1Picks, a.entity)
		case a.side == 1:
			rec.Side1Bans = append(rec.Side1Bans, a.entity)
		case kind == models.ActionPick:
			rec.Side2Picks = append(rec.Side2Picks, a.entity)
		default:
			rec.Side2Bans = append(rec.Side2Bans, a.entity)
		}
	}

	var matches []models.MatchRecord
	for _, r := range results {
		rec, ok := byMatch[r.matchID]
		if !ok {
			continue
		}
		rec.Side1Won = r.side1Won
		rec.Side2Won = !r.side1Won
		matches = append(matches, *rec)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchID < matches[j].MatchID })
	return matches
}
