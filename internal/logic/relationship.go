package logic

import (
	"sort"

	"github.com/draftlab/draft-api/internal/models"
)

// DefaultMinPairSamples is the minimum number of times a pair must be
// observed before a synergy or counter entry exists for it.
const DefaultMinPairSamples = 3

type pairKey struct {
	a, b string
}

// orderedPair normalizes an unordered teammate pair.
func orderedPair(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// RelationshipModel holds the frequency-derived entity statistics built from
// the historical corpus: per-entity win and pick rates, pairwise teammate
// synergy, and pairwise counter strength. Built once per corpus load and
// read-only thereafter, so it is safe for concurrent readers.
type RelationshipModel struct {
	totalMatches int

	games    map[string]int
	winRates map[string]float64
	pickRate map[string]float64

	// synergy is symmetric on the unordered pair; counter is asymmetric:
	// counters[a][b] is a's win rate specifically when opposing b.
	synergies map[pairKey]float64
	counters  map[string]map[string]float64

	entities []string
}

// BuildRelationshipModel aggregates the corpus into a relationship model.
// Aggregation is commutative, so corpus order does not affect the result.
// Pairs seen fewer than minPairSamples times get no entry and fall back to
// neutral values (0 synergy, 0.5 counter) on lookup.
func BuildRelationshipModel(corpus []models.MatchRecord, minPairSamples int) *RelationshipModel {
	if minPairSamples <= 0 {
		minPairSamples = DefaultMinPairSamples
	}

	m := &RelationshipModel{
		totalMatches: len(corpus),
		games:        make(map[string]int),
		winRates:     make(map[string]float64),
		pickRate:     make(map[string]float64),
		synergies:    make(map[pairKey]float64),
		counters:     make(map[string]map[string]float64),
	}

	pairGames := make(map[pairKey]int)
	pairWins := make(map[pairKey]int)
	matchupGames := make(map[pairKey]int) // ordered (mine, theirs)
	matchupWins := make(map[pairKey]int)
	wins := make(map[string]int)

	for i := range corpus {
		match := &corpus[i]
		for _, side := range []int{1, 2} {
			roster := match.Picks(side)
			won := match.Won(side)

			for _, e := range roster {
				m.games[e]++
				if won {
					wins[e]++
				}
			}

			for i, e1 := range roster {
				for _, e2 := range roster[i+1:] {
					pair := orderedPair(e1, e2)
					pairGames[pair]++
					if won {
						pairWins[pair]++
					}
				}
			}

			opponents := match.Picks(3 - side)
			for _, mine := range roster {
				for _, theirs := range opponents {
					matchup := pairKey{mine, theirs}
					matchupGames[matchup]++
					if won {
						matchupWins[matchup]++
					}
				}
			}
		}
	}

	for e, g := range m.games {
		if g > 0 {
			m.winRates[e] = float64(wins[e]) / float64(g)
		}
		if m.totalMatches > 0 {
			m.pickRate[e] = float64(g) / float64(m.totalMatches)
		}
	}

	// Synergy: deviation of the pair's joint win rate from the pair's
	// individually expected win rate. Needs win rates computed first.
	for pair, count := range pairGames {
		if count < minPairSamples {
			continue
		}
		observed := float64(pairWins[pair]) / float64(count)
		expected := (m.WinRate(pair.a) + m.WinRate(pair.b)) / 2
		m.synergies[pair] = observed - expected
	}

	// Counter: raw conditional win rate, kept asymmetric.
	for matchup, count := range matchupGames {
		if count < minPairSamples {
			continue
		}
		row := m.counters[matchup.a]
		if row == nil {
			row = make(map[string]float64)
			m.counters[matchup.a] = row
		}
		row[matchup.b] = float64(matchupWins[matchup]) / float64(count)
	}

	// Deterministic entity ordering: descending pick rate, then name. This
	// is the default candidate pool order handed to the recommendation
	// engine, which only evaluates a pool prefix.
	m.entities = make([]string, 0, len(m.games))
	for e := range m.games {
		m.entities = append(m.entities, e)
	}
	sort.Slice(m.entities, func(i, j int) bool {
		pi, pj := m.pickRate[m.entities[i]], m.pickRate[m.entities[j]]
		if pi != pj {
			return pi > pj
		}
		return m.entities[i] < m.entities[j]
	})

	return m
}

// TotalMatches returns the corpus size the model was built from.
func (m *RelationshipModel) TotalMatches() int { return m.totalMatches }

// Entities returns all known entities, ordered by descending pick rate.
// Callers must not mutate the returned slice.
func (m *RelationshipModel) Entities() []string { return m.entities }

// Games returns how many corpus matches an entity appeared in.
func (m *RelationshipModel) Games(entity string) int { return m.games[entity] }

// WinRate returns an entity's observed win rate; unknown entities default
// to 0.5.
func (m *RelationshipModel) WinRate(entity string) float64 {
	if wr, ok := m.winRates[entity]; ok {
		return wr
	}
	return 0.5
}

// PickRate returns the fraction of corpus matches an entity appeared in.
func (m *RelationshipModel) PickRate(entity string) float64 {
	return m.pickRate[entity]
}

// Synergy returns the symmetric teammate synergy for a pair; pairs below the
// sample threshold return 0.
func (m *RelationshipModel) Synergy(a, b string) float64 {
	return m.synergies[orderedPair(a, b)]
}

// Counter returns a's win rate when opposing b; matchups below the sample
// threshold return the neutral 0.5.
func (m *RelationshipModel) Counter(a, b string) float64 {
	if row, ok := m.counters[a]; ok {
		if v, ok := row[b]; ok {
			return v
		}
	}
	return 0.5
}

// Power is an entity's composite strength: win rate plus a popularity bonus
// capped at +0.1.
func (m *RelationshipModel) Power(entity string) float64 {
	bonus := m.PickRate(entity) * 0.2
	if bonus > 0.1 {
		bonus = 0.1
	}
	return m.WinRate(entity) + bonus
}

// TeamSynergy is the mean pairwise synergy over a roster; rosters with fewer
// than two members have no pairs and score 0.
func (m *RelationshipModel) TeamSynergy(roster []string) float64 {
	if len(roster) <= 1 {
		return 0
	}
	var total float64
	pairs := 0
	for i, e1 := range roster {
		for _, e2 := range roster[i+1:] {
			total += m.Synergy(e1, e2)
			pairs++
		}
	}
	return total / float64(pairs)
}

// CounterScore measures how well one roster counters another: the mean of
// (counter - 0.5) over all cross pairs, positive meaning "we counter them".
// Either roster being empty scores 0.
func (m *RelationshipModel) CounterScore(mine, theirs []string) float64 {
	if len(mine) == 0 || len(theirs) == 0 {
		return 0
	}
	var total float64
	matchups := 0
	for _, a := range mine {
		for _, b := range theirs {
			total += m.Counter(a, b) - 0.5
			matchups++
		}
	}
	return total / float64(matchups)
}

// Stats returns the per-entity model view for the API.
func (m *RelationshipModel) Stats() []models.EntityStats {
	out := make([]models.EntityStats, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, models.EntityStats{
			Entity:   e,
			WinRate:  m.WinRate(e),
			PickRate: m.PickRate(e),
			Power:    m.Power(e),
			Games:    m.games[e],
		})
	}
	return out
}
