package game

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

const (
	batchQuestionTarget = 10
	// Two spare candidates beyond the 10 subjects give the model richer
	// cross-member context without inflating the prompt much.
	candidateBuffer = 2

	completionMaxTokens   = 1500
	completionTemperature = 0.8
)

// Service generates guess-who and two-truths-and-a-lie questions from a
// team's welcomepage content. Calls are independent and safe to run
// concurrently: all mutable state is created per call.
type Service struct {
	completer Completer
	model     string
	logger    zerolog.Logger
	newRand   func() *rand.Rand
}

type ServiceOptions struct {
	// Model is the tokenizer hint for duration estimates. Defaults to the
	// completion client's model when it exposes one.
	Model string
	// Seed fixes the per-call random source; zero means time-seeded.
	Seed int64
}

type modelNamer interface {
	Model() string
}

func NewService(completer Completer, opts ServiceOptions, logger zerolog.Logger) *Service {
	model := opts.Model
	if model == "" {
		if namer, ok := completer.(modelNamer); ok {
			model = namer.Model()
		}
	}
	newRand := func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Seed != 0 {
		seed := opts.Seed
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(seed))
		}
	}
	return &Service{
		completer: completer,
		model:     model,
		logger:    logger.With().Str("component", "game_service").Logger(),
		newRand:   newRand,
	}
}

// GenerateQuestions produces up to 10 questions for a roster: 6 guess-who
// and 4 two-truths-and-a-lie, interleaved. It returns ErrNotConfigured
// when the completion backend has no credentials; every other failure
// degrades to an empty result.
func (s *Service) GenerateQuestions(ctx context.Context, members []Member, alternates []AlternateMember) ([]Question, error) {
	started := time.Now()
	defer func() { generationSeconds.Observe(time.Since(started).Seconds()) }()

	if s.completer == nil || !s.completer.Configured() {
		generationsTotal.WithLabelValues("batch", outcomeNotConfigured).Inc()
		return nil, ErrNotConfigured
	}

	rng := s.newRand()
	eligible := filterEligible(members)
	s.logger.Info().Int("members", len(members)).Int("eligible", len(eligible)).Msg("starting question generation")

	if len(eligible) < 3 {
		s.logger.Warn().Int("eligible", len(eligible)).Msg("not enough eligible members (need at least 3)")
		generationsTotal.WithLabelValues("batch", outcomeInsufficientData).Inc()
		return nil, nil
	}

	guessWho, twoTruths, err := selectSubjects(eligible, rng)
	if err != nil {
		s.logger.Warn().Err(err).Msg("subject selection failed")
		generationsTotal.WithLabelValues("batch", outcomeInsufficientData).Inc()
		return nil, nil
	}
	subjects := concatMembers(guessWho, twoTruths)
	extras := spareCandidates(eligible, subjects, candidateBuffer, rng)

	system, user := buildBatchPrompts(guessWho, twoTruths, extras)
	result, err := s.completer.Complete(ctx, CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			generationsTotal.WithLabelValues("batch", outcomeNotConfigured).Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Msg("completion call failed")
		generationsTotal.WithLabelValues("batch", outcomeUpstreamError).Inc()
		return nil, nil
	}

	payload, err := parseBatchPayload(result.Content)
	if err != nil {
		s.logger.Error().Err(err).Int("completion_tokens", result.CompletionTokens).Msg("unparseable completion payload")
		generationsTotal.WithLabelValues("batch", outcomeParseError).Inc()
		return nil, nil
	}

	asm := newAssembler(members, alternates, subjects, nil, rng, s.logger)
	questions := make([]Question, 0, batchQuestionTarget)
	for _, unit := range payload.GuessWho {
		if q := asm.assembleGuessWho(unit); q != nil {
			questions = append(questions, *q)
		}
	}
	for _, unit := range payload.TwoTruthsLie {
		if q := asm.assembleTwoTruths(unit); q != nil {
			questions = append(questions, *q)
		}
	}

	questions = balancedShuffle(questions, rng)
	if len(questions) > batchQuestionTarget {
		questions = questions[:batchQuestionTarget]
	}

	outcome := outcomeOK
	if len(questions) == 0 {
		outcome = outcomeEmpty
	}
	generationsTotal.WithLabelValues("batch", outcome).Inc()
	questionsReturned.Add(float64(len(questions)))
	s.logger.Info().Int("questions", len(questions)).Int("prompt_tokens", result.PromptTokens).Int("completion_tokens", result.CompletionTokens).Msg("question generation finished")
	return questions, nil
}

// GenerateSingleQuestion produces one question of the requested type,
// skipping subjects the caller already showed. Returns nil (not an error)
// when no eligible subject remains or the model yields nothing usable.
func (s *Service) GenerateSingleQuestion(ctx context.Context, members []Member, excludeSubjects []string, questionType string, alternates []AlternateMember) (*Question, error) {
	started := time.Now()
	defer func() { generationSeconds.Observe(time.Since(started).Seconds()) }()

	if s.completer == nil || !s.completer.Configured() {
		generationsTotal.WithLabelValues("single", outcomeNotConfigured).Inc()
		return nil, ErrNotConfigured
	}
	if questionType != TypeTwoTruthsLie {
		questionType = TypeGuessWho
	}

	rng := s.newRand()
	excluded := make(map[string]bool, len(excludeSubjects))
	for _, id := range excludeSubjects {
		excluded[id] = true
	}
	eligible := make([]Member, 0)
	for _, m := range filterEligible(members) {
		if !excluded[m.PublicID] {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		s.logger.Warn().Int("excluded", len(excludeSubjects)).Msg("no eligible subject left for single question")
		generationsTotal.WithLabelValues("single", outcomeInsufficientData).Inc()
		return nil, nil
	}

	shuffleMembers(eligible, rng)
	subject := eligible[0]
	contextMembers := eligible
	if len(contextMembers) > batchSubjects {
		contextMembers = contextMembers[:batchSubjects]
	}

	system, user := buildSinglePrompts(subject, questionType, contextMembers)
	result, err := s.completer.Complete(ctx, CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			generationsTotal.WithLabelValues("single", outcomeNotConfigured).Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Msg("completion call failed")
		generationsTotal.WithLabelValues("single", outcomeUpstreamError).Inc()
		return nil, nil
	}

	payload, err := parseBatchPayload(result.Content)
	if err != nil {
		s.logger.Error().Err(err).Msg("unparseable completion payload")
		generationsTotal.WithLabelValues("single", outcomeParseError).Inc()
		return nil, nil
	}

	asm := newAssembler(members, alternates, []Member{subject}, excludeSubjects, rng, s.logger)
	var question *Question
	if questionType == TypeTwoTruthsLie {
		for _, unit := range payload.TwoTruthsLie {
			if question = asm.assembleTwoTruths(unit); question != nil {
				break
			}
		}
	} else {
		for _, unit := range payload.GuessWho {
			if question = asm.assembleGuessWho(unit); question != nil {
				break
			}
		}
	}

	if question == nil {
		generationsTotal.WithLabelValues("single", outcomeEmpty).Inc()
		return nil, nil
	}
	generationsTotal.WithLabelValues("single", outcomeOK).Inc()
	questionsReturned.Inc()
	return question, nil
}

// EstimateGenerationTime predicts batch generation duration in seconds
// without calling the model. It never fails: any shortfall returns the
// fixed fallback.
func (s *Service) EstimateGenerationTime(members []Member) (seconds float64) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("estimate recovered")
			seconds = fallbackEstimateSeconds
		}
	}()
	return estimateGenerationTime(members, s.model, s.newRand())
}

// spareCandidates returns up to max eligible members not already assigned
// as subjects, for prompt context only.
func spareCandidates(eligible, subjects []Member, max int, rng *rand.Rand) []Member {
	assigned := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		assigned[s.PublicID] = true
	}
	spare := make([]Member, 0, max)
	pool := append([]Member(nil), eligible...)
	shuffleMembers(pool, rng)
	for _, m := range pool {
		if len(spare) == max {
			break
		}
		if !assigned[m.PublicID] {
			spare = append(spare, m)
		}
	}
	return spare
}
