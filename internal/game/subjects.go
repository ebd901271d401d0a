package game

import (
	"fmt"
	"math/rand"
)

const (
	guessWhoSubjects  = 6
	twoTruthsSubjects = 4
	batchSubjects     = guessWhoSubjects + twoTruthsSubjects
)

// filterEligible keeps members that have at least one answered prompt,
// dropping duplicate public ids along the way.
func filterEligible(members []Member) []Member {
	seen := make(map[string]bool, len(members))
	eligible := make([]Member, 0, len(members))
	for _, m := range members {
		if m.PublicID == "" || seen[m.PublicID] || !m.HasContent() {
			continue
		}
		seen[m.PublicID] = true
		eligible = append(eligible, m)
	}
	return eligible
}

// selectCandidates shuffles the eligible pool and greedily collects up to
// max unique members with verified content. It tolerates a short pool.
func selectCandidates(members []Member, rng *rand.Rand, max int) []Member {
	eligible := filterEligible(members)
	shuffleMembers(eligible, rng)
	if len(eligible) > max {
		eligible = eligible[:max]
	}
	return eligible
}

// selectSubjects partitions the eligible pool into the two disjoint subject
// lists for a full batch. A batch needs exactly 10 unique subjects; a short
// pool is an error rather than a smaller game.
func selectSubjects(members []Member, rng *rand.Rand) (guessWho, twoTruths []Member, err error) {
	picked := selectCandidates(members, rng, batchSubjects)
	if len(picked) < batchSubjects {
		return nil, nil, fmt.Errorf("need %d unique members with content, have %d", batchSubjects, len(picked))
	}
	shuffleMembers(picked, rng)
	return picked[:guessWhoSubjects], picked[guessWhoSubjects:], nil
}

func shuffleMembers(members []Member, rng *rand.Rand) {
	rng.Shuffle(len(members), func(i, j int) {
		members[i], members[j] = members[j], members[i]
	})
}
