package game

import (
	"fmt"
	"math/rand"
	"strings"
)

// answerExcerptLimit bounds how much of an answer is quoted in the prompt
// so one long-winded teammate cannot crowd out the rest of the roster.
const answerExcerptLimit = 200

const systemPrompt = `You are a creative trivia writer for a team-building game. You turn teammates' welcomepage content into quiz questions that test how well the team knows each other.

Rules:
- Synthesize the information - never repeat a prompt or answer verbatim
- Make questions playful and specific (if someone said "I can do a backflip", ask "Who can invert themselves in the air?")
- Do NOT include the person's name in a guess-who question
- Keep guess-who questions under 100 characters and statements under 60 characters
- Never reuse the same prompt/answer pair for two different items
- For two-truths-and-a-lie items, invent 2 believable lies in the same style as the truth, and pick ONE thematic emoji per statement (never checkmarks or X marks)
- Respond with a single valid JSON object and nothing else`

const batchInstructions = `Using the welcomepage content above, create exactly %d guess-who questions, one for each of these teammates: %s.
Then create exactly %d two-truths-and-a-lie items, one for each of these teammates: %s.
For every teammate pick the single best prompt/answer pair they have.

Return JSON only, with this exact structure:
{
  "guess_who": [
    {"member_name": "...", "question": "...", "prompt": "original prompt used", "answer": "original answer used"}
  ],
  "two_truths_lie": [
    {"member_name": "...", "truth": "...", "lie1": "...", "lie2": "...", "prompt": "original prompt used", "answer": "original answer used", "emojis": {"truth": "...", "lie1": "...", "lie2": "..."}}
  ]
}`

// memberContext renders one member's usable prompt/answer pairs. Returns ""
// when the member has nothing quotable.
func memberContext(m Member) string {
	var b strings.Builder
	for _, prompt := range m.SelectedPrompts {
		answer := m.AnswerText(prompt)
		if answer == "" {
			continue
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", prompt, truncateAnswer(answer))
	}
	if b.Len() == 0 {
		return ""
	}
	return m.Name + ":\n" + b.String()
}

// contextBlock joins member blocks with blank lines, dropping members with
// no usable content. The second return value is how many members made it in.
func contextBlock(members []Member) (string, int) {
	blocks := make([]string, 0, len(members))
	for _, m := range members {
		if block := memberContext(m); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n"), len(blocks)
}

// buildBatchPrompts assembles the system and user prompts for a full batch.
// The context covers the assigned subjects plus any extra candidates; the
// instruction block names who gets which question type.
func buildBatchPrompts(guessWho, twoTruths, extras []Member) (string, string) {
	context, _ := contextBlock(concatMembers(guessWho, twoTruths, extras))
	instructions := fmt.Sprintf(batchInstructions,
		len(guessWho), joinNames(guessWho),
		len(twoTruths), joinNames(twoTruths))
	user := "Here are the team members and their welcomepage content:\n\n" +
		context + "\n\n" + instructions
	return systemPrompt, user
}

// buildEstimationPrompts mirrors the batch prompt for token counting only.
// It selects up to 10 candidates, tolerates fewer, and returns empty
// strings when fewer than 3 members have usable content.
func buildEstimationPrompts(members []Member, rng *rand.Rand) (string, string) {
	candidates := selectCandidates(members, rng, 10)
	context, usable := contextBlock(candidates)
	if usable < 3 {
		return "", ""
	}
	split := len(candidates) * 6 / 10
	instructions := fmt.Sprintf(batchInstructions,
		split, joinNames(candidates[:split]),
		len(candidates)-split, joinNames(candidates[split:]))
	user := "Here are the team members and their welcomepage content:\n\n" +
		context + "\n\n" + instructions
	return systemPrompt, user
}

// buildSinglePrompts targets one subject and one question type. The context
// still covers the surrounding roster so statements stay distinguishable
// from what others already said.
func buildSinglePrompts(subject Member, questionType string, context []Member) (string, string) {
	block, _ := contextBlock(context)
	var instructions string
	if questionType == TypeTwoTruthsLie {
		instructions = fmt.Sprintf(`Using the welcomepage content above, create exactly 1 two-truths-and-a-lie item about %s, based on their single best prompt/answer pair.

Return JSON only, with this exact structure:
{
  "two_truths_lie": [
    {"member_name": "...", "truth": "...", "lie1": "...", "lie2": "...", "prompt": "original prompt used", "answer": "original answer used", "emojis": {"truth": "...", "lie1": "...", "lie2": "..."}}
  ]
}`, subject.Name)
	} else {
		instructions = fmt.Sprintf(`Using the welcomepage content above, create exactly 1 guess-who question about %s, based on their single best prompt/answer pair.

Return JSON only, with this exact structure:
{
  "guess_who": [
    {"member_name": "...", "question": "...", "prompt": "original prompt used", "answer": "original answer used"}
  ]
}`, subject.Name)
	}
	user := "Here are the team members and their welcomepage content:\n\n" +
		block + "\n\n" + instructions
	return systemPrompt, user
}

func truncateAnswer(s string) string {
	runes := []rune(s)
	if len(runes) <= answerExcerptLimit {
		return s
	}
	return string(runes[:answerExcerptLimit]) + "…"
}

func joinNames(members []Member) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}

func concatMembers(groups ...[]Member) []Member {
	var out []Member
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
