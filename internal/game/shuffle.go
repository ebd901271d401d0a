package game

import "math/rand"

// balancedShuffle reorders questions so the two types are evenly
// interleaved instead of clustered. It partitions by type, shuffles each
// partition, builds a maximally even placement pattern for the
// two-truths-lie positions and rotates it by a random offset so the first
// slot is not biased toward either type. Pure: the input is not mutated.
func balancedShuffle(questions []Question, rng *rand.Rand) []Question {
	if len(questions) < 2 {
		return append([]Question(nil), questions...)
	}

	var truths, guesses []Question
	for _, q := range questions {
		if q.Type == TypeTwoTruthsLie {
			truths = append(truths, q)
		} else {
			guesses = append(guesses, q)
		}
	}
	shuffleQuestions(truths, rng)
	shuffleQuestions(guesses, rng)

	n := len(questions)
	nt := len(truths)

	// pattern[k] is true where a two-truths-lie question goes. Placing one
	// wherever floor(k*nt/n) increases spreads the nt slots evenly.
	pattern := make([]bool, n)
	prev := 0
	for k := 1; k <= n; k++ {
		if cur := k * nt / n; cur > prev {
			pattern[k-1] = true
			prev = cur
		}
	}

	offset := rng.Intn(n)
	out := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		wantTruth := pattern[(i+offset)%n]
		switch {
		case wantTruth && len(truths) > 0:
			out = append(out, truths[0])
			truths = truths[1:]
		case !wantTruth && len(guesses) > 0:
			out = append(out, guesses[0])
			guesses = guesses[1:]
		case len(truths) > 0:
			out = append(out, truths[0])
			truths = truths[1:]
		default:
			out = append(out, guesses[0])
			guesses = guesses[1:]
		}
	}
	return out
}

func shuffleQuestions(questions []Question, rng *rand.Rand) {
	rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

func shuffleOptions(options []Option, rng *rand.Rand) {
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}
