package game

import (
	"math/rand"
	"sort"

	"github.com/rs/zerolog"
)

// usageTracker counts how often each alternate has been used as a
// distractor within one generation call, so reuse spreads evenly.
// Created fresh per call and never shared across calls.
type usageTracker map[string]int

func (t usageTracker) used(id string) int { return t[id] }
func (t usageTracker) mark(id string)     { t[id]++ }

// pickDistractors selects up to count wrong-answer options for a question.
// The exclusion set must contain every subject id used anywhere in the
// batch, so a later question's subject never appears as an earlier
// question's wrong answer. Alternates are preferred, least-used first; the
// main roster fills whatever the pool cannot supply. A short return means
// the pools are genuinely exhausted.
func pickDistractors(members []Member, alternates []AlternateMember, subjectID string, count int, usage usageTracker, excluded map[string]bool, rng *rand.Rand, logger zerolog.Logger) []Option {
	blocked := make(map[string]bool, len(excluded)+1)
	for id := range excluded {
		blocked[id] = true
	}
	blocked[subjectID] = true

	picked := make([]Option, 0, count)

	if len(alternates) > 0 {
		pool := make([]AlternateMember, 0, len(alternates))
		for _, a := range alternates {
			if a.PublicID == "" || blocked[a.PublicID] {
				continue
			}
			pool = append(pool, a)
		}
		// Shuffle before the stable sort so equal usage counts tie-break randomly.
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		sort.SliceStable(pool, func(i, j int) bool {
			return usage.used(pool[i].PublicID) < usage.used(pool[j].PublicID)
		})
		for _, a := range pool {
			if len(picked) == count {
				break
			}
			picked = append(picked, Option{ID: a.PublicID, Name: a.Name, Avatar: a.WaveGifURL})
			blocked[a.PublicID] = true
			usage.mark(a.PublicID)
		}
	}

	if len(picked) < count {
		pool := make([]Member, 0, len(members))
		for _, m := range members {
			if m.PublicID == "" || blocked[m.PublicID] {
				continue
			}
			pool = append(pool, m)
		}
		shuffleMembers(pool, rng)
		for _, m := range pool {
			if len(picked) == count {
				break
			}
			picked = append(picked, Option{ID: m.PublicID, Name: m.Name, Avatar: m.ProfileImage})
			blocked[m.PublicID] = true
		}
	}

	return dedupeOptions(picked, logger)
}

// dedupeOptions is a safety net: duplicates should be impossible given the
// blocked-set bookkeeping above, so finding one is logged as an invariant
// violation and dropped rather than failing the question.
func dedupeOptions(options []Option, logger zerolog.Logger) []Option {
	seen := make(map[string]bool, len(options))
	out := options[:0]
	for _, o := range options {
		if seen[o.ID] {
			logger.Warn().Str("option_id", o.ID).Msg("duplicate distractor dropped")
			continue
		}
		seen[o.ID] = true
		out = append(out, o)
	}
	return out
}
