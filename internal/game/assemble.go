package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Checkmark-style emoji would telegraph which statement is the truth.
var deniedEmojis = map[string]bool{
	"✅": true, "✓": true, "✔": true,
	"❌": true, "✗": true, "✖": true,
}

const (
	truthFallbackEmoji = "✨"
	lieFallbackEmoji   = "❓"
)

// assembler turns parsed answer units into final questions for one
// generation call. It owns the call-scoped bookkeeping: the batch-wide
// exclusion set, the set of consumed subjects and the alternate usage
// counts.
type assembler struct {
	members    []Member
	alternates []AlternateMember
	subjects   []Member
	usage      usageTracker
	reserved   map[string]bool
	consumed   map[string]bool
	rng        *rand.Rand
	logger     zerolog.Logger
}

func newAssembler(members []Member, alternates []AlternateMember, subjects []Member, extraExcluded []string, rng *rand.Rand, logger zerolog.Logger) *assembler {
	reserved := make(map[string]bool, len(subjects)+len(extraExcluded))
	for _, s := range subjects {
		reserved[s.PublicID] = true
	}
	for _, id := range extraExcluded {
		reserved[id] = true
	}
	return &assembler{
		members:    members,
		alternates: alternates,
		subjects:   subjects,
		usage:      usageTracker{},
		reserved:   reserved,
		consumed:   map[string]bool{},
		rng:        rng,
		logger:     logger,
	}
}

// matchSubject resolves a model-echoed member name against the assigned
// subjects: case-insensitive exact match first, then first name token.
func (a *assembler) matchSubject(name string) (Member, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Member{}, false
	}
	for _, s := range a.subjects {
		if strings.ToLower(s.Name) == needle {
			return s, true
		}
	}
	for _, s := range a.subjects {
		if strings.ToLower(firstToken(s.Name)) == needle || needle == strings.ToLower(s.Nickname) && s.Nickname != "" {
			return s, true
		}
	}
	return Member{}, false
}

// assembleGuessWho builds one guess-who question or reports why it could
// not. A subject whose question fails distractor allocation is released so
// the id does not leak into the exclusion bookkeeping as consumed.
func (a *assembler) assembleGuessWho(unit questionUnit) *Question {
	subject, ok := a.matchSubject(unit.MemberName)
	if !ok {
		a.logger.Warn().Str("member_name", unit.MemberName).Msg("guess-who unit references unknown member")
		return nil
	}
	if a.consumed[subject.PublicID] {
		a.logger.Warn().Str("member", subject.PublicID).Msg("duplicate guess-who subject skipped")
		return nil
	}
	if strings.TrimSpace(unit.Question) == "" {
		a.logger.Warn().Str("member", subject.PublicID).Msg("guess-who unit missing question text")
		return nil
	}

	prompt, answer := resolveSource(subject, unit)
	if answer == "" {
		a.logger.Warn().Str("member", subject.PublicID).Msg("no usable prompt/answer pair for subject")
		return nil
	}

	distractors := pickDistractors(a.members, a.alternates, subject.PublicID, 2, a.usage, a.reserved, a.rng, a.logger)
	if len(distractors) < 2 {
		a.logger.Warn().Str("member", subject.PublicID).Int("got", len(distractors)).Msg("insufficient distractors, dropping question")
		return nil
	}

	options := append([]Option{{
		ID:     subject.PublicID,
		Name:   subject.Name,
		Avatar: subject.ProfileImage,
	}}, distractors...)
	shuffleOptions(options, a.rng)
	for i, o := range options {
		if o.ID == subject.PublicID {
			a.logger.Debug().Int("correct_index", i).Str("member", subject.PublicID).Msg("guess-who options shuffled")
			break
		}
	}

	a.consumed[subject.PublicID] = true
	return &Question{
		ID:              newQuestionID(TypeGuessWho, subject.PublicID),
		Type:            TypeGuessWho,
		Question:        strings.Trim(strings.TrimSpace(unit.Question), `"'`),
		CorrectAnswer:   subject.Name,
		CorrectAnswerID: subject.PublicID,
		Options:         options,
		PromptText:      prompt,
		AnswerText:      answer,
		AdditionalInfo:  fmt.Sprintf("%s said: %q", subject.Name, prompt+": "+answer),
	}
}

// assembleTwoTruths builds one two-truths-and-a-lie question. Statements
// are self-contained, so no distractor allocation happens here.
func (a *assembler) assembleTwoTruths(unit questionUnit) *Question {
	subject, ok := a.matchSubject(unit.MemberName)
	if !ok {
		a.logger.Warn().Str("member_name", unit.MemberName).Msg("two-truths unit references unknown member")
		return nil
	}
	if a.consumed[subject.PublicID] {
		a.logger.Warn().Str("member", subject.PublicID).Msg("duplicate two-truths subject skipped")
		return nil
	}
	if unit.Truth == "" || unit.Lie1 == "" || unit.Lie2 == "" {
		a.logger.Warn().Str("member", subject.PublicID).Msg("two-truths unit missing statements")
		return nil
	}

	prompt, answer := resolveSource(subject, unit)
	displayName := subject.DisplayName()

	options := []Option{
		{ID: "truth", Name: unit.Truth},
		{ID: "lie1", Name: unit.Lie1},
		{ID: "lie2", Name: unit.Lie2},
	}
	shuffleOptions(options, a.rng)

	a.consumed[subject.PublicID] = true
	return &Question{
		ID:              newQuestionID(TypeTwoTruthsLie, subject.PublicID),
		Type:            TypeTwoTruthsLie,
		Question:        "Two truths and a lie about " + displayName,
		CorrectAnswer:   unit.Truth,
		CorrectAnswerID: "truth",
		Options:         options,
		Emojis: &Emojis{
			Truth: cleanEmoji(unit.Emojis["truth"], truthFallbackEmoji),
			Lie1:  cleanEmoji(unit.Emojis["lie1"], lieFallbackEmoji),
			Lie2:  cleanEmoji(unit.Emojis["lie2"], lieFallbackEmoji),
		},
		PromptText:     prompt,
		AnswerText:     answer,
		AdditionalInfo: subject.Name + ": " + answer,
		MemberPublicID: subject.PublicID,
		MemberNickname: displayName,
	}
}

// resolveSource prefers the prompt/answer pair the model echoed back and
// falls back to the subject's first answered prompt when either half of
// the echo is missing. Echoed pairs are not verified against the member's
// content; the model may paraphrase.
func resolveSource(subject Member, unit questionUnit) (prompt, answer string) {
	if unit.Prompt != "" && unit.Answer != "" {
		return unit.Prompt, unit.Answer
	}
	for _, p := range subject.SelectedPrompts {
		if text := subject.AnswerText(p); text != "" {
			return p, text
		}
	}
	return unit.Prompt, unit.Answer
}

func cleanEmoji(emoji, fallback string) string {
	if emoji == "" || deniedEmojis[emoji] {
		return fallback
	}
	return emoji
}

// newQuestionID combines the subject id, a millisecond timestamp and a
// random salt so ids stay unique across repeated generation calls.
func newQuestionID(questionType, subjectID string) string {
	return fmt.Sprintf("%s-%s-%d-%s", questionType, subjectID, time.Now().UnixMilli(), uuid.NewString()[:8])
}
