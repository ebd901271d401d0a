package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func typedQuestions(truths, guesses int) []Question {
	var out []Question
	for i := 0; i < truths; i++ {
		out = append(out, Question{ID: "t", Type: TypeTwoTruthsLie})
	}
	for i := 0; i < guesses; i++ {
		out = append(out, Question{ID: "g", Type: TypeGuessWho})
	}
	return out
}

func typeCounts(questions []Question) (truths, guesses int) {
	for _, q := range questions {
		if q.Type == TypeTwoTruthsLie {
			truths++
		} else {
			guesses++
		}
	}
	return truths, guesses
}

func TestBalancedShufflePreservesMultiset(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		in := typedQuestions(4, 6)
		out := balancedShuffle(in, rng)

		assert.Len(t, out, 10)
		truths, guesses := typeCounts(out)
		assert.Equal(t, 4, truths)
		assert.Equal(t, 6, guesses)
	}
}

func TestBalancedShuffleSpacing(t *testing.T) {
	// For a 4/6 split no 3 consecutive positions should share a type,
	// regardless of the rotation offset.
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		out := balancedShuffle(typedQuestions(4, 6), rng)
		for i := 2; i < len(out); i++ {
			same := out[i].Type == out[i-1].Type && out[i-1].Type == out[i-2].Type
			assert.False(t, same, "3 consecutive %s at %d (seed %d)", out[i].Type, i, seed)
		}
	}
}

func TestBalancedShuffleDoesNotMutateInput(t *testing.T) {
	in := typedQuestions(2, 3)
	snapshot := append([]Question(nil), in...)

	balancedShuffle(in, rand.New(rand.NewSource(7)))
	assert.Equal(t, snapshot, in)
}

func TestBalancedShuffleSmallInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Empty(t, balancedShuffle(nil, rng))

	single := []Question{{ID: "only", Type: TypeGuessWho}}
	assert.Equal(t, single, balancedShuffle(single, rng))

	oneType := balancedShuffle(typedQuestions(0, 5), rng)
	truths, guesses := typeCounts(oneType)
	assert.Equal(t, 0, truths)
	assert.Equal(t, 5, guesses)
}
