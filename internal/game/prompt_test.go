package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberContextFormat(t *testing.T) {
	m := Member{
		Name:            "Sam Rivera",
		SelectedPrompts: []string{"Favorite place", "Hidden talent", "Unanswered"},
		Answers: map[string]Answer{
			"Favorite place": {Text: "The Dolomites"},
			"Hidden talent":  {Text: "Juggling"},
		},
	}

	block := memberContext(m)
	assert.Equal(t, "Sam Rivera:\nQ: Favorite place\nA: The Dolomites\nQ: Hidden talent\nA: Juggling\n", block)
}

func TestMemberContextTruncatesLongAnswers(t *testing.T) {
	long := strings.Repeat("a", 300)
	m := Member{
		Name:            "Longwinded",
		SelectedPrompts: []string{"p"},
		Answers:         map[string]Answer{"p": {Text: long}},
	}

	block := memberContext(m)
	assert.Contains(t, block, strings.Repeat("a", 200)+"…")
	assert.NotContains(t, block, strings.Repeat("a", 201))
}

func TestContextBlockDropsEmptyMembers(t *testing.T) {
	members := []Member{
		testMember(0),
		{PublicID: "silent", Name: "Silent Type", SelectedPrompts: []string{"p"}},
		testMember(1),
	}

	block, usable := contextBlock(members)
	assert.Equal(t, 2, usable)
	assert.NotContains(t, block, "Silent Type")
	assert.Contains(t, block, "Person Number0:")
	assert.Contains(t, block, "Person Number1:")
}

func TestBuildBatchPromptsNamesSubjects(t *testing.T) {
	roster := testRoster(12)
	guessWho, twoTruths := roster[:6], roster[6:10]

	system, user := buildBatchPrompts(guessWho, twoTruths, roster[10:12])
	assert.NotEmpty(t, system)
	assert.Contains(t, user, "create exactly 6 guess-who questions")
	assert.Contains(t, user, "exactly 4 two-truths-and-a-lie items")
	assert.Contains(t, user, `"guess_who"`)
	assert.Contains(t, user, `"two_truths_lie"`)
	for _, m := range roster {
		assert.Contains(t, user, m.Name)
	}
}

func TestBuildEstimationPromptsRequiresThreeUsableMembers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	system, user := buildEstimationPrompts(testRoster(2), rng)
	assert.Empty(t, system)
	assert.Empty(t, user)

	system, user = buildEstimationPrompts(testRoster(3), rng)
	assert.NotEmpty(t, system)
	assert.NotEmpty(t, user)
}

func TestBuildSinglePromptsTargetsSubject(t *testing.T) {
	roster := testRoster(5)
	subject := roster[0]

	_, user := buildSinglePrompts(subject, TypeGuessWho, roster)
	assert.Contains(t, user, "exactly 1 guess-who question about "+subject.Name)
	require.NotContains(t, user, "two_truths_lie")

	_, user = buildSinglePrompts(subject, TypeTwoTruthsLie, roster)
	assert.Contains(t, user, "exactly 1 two-truths-and-a-lie item about "+subject.Name)
	assert.Contains(t, user, `"emojis"`)
}
