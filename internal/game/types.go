package game

// Question type constants.
const (
	TypeGuessWho     = "guess-who"
	TypeTwoTruthsLie = "two-truths-lie"
)

// Answer is one prompt response on a member's welcomepage.
type Answer struct {
	Text        string `json:"text"`
	SpecialData any    `json:"specialData,omitempty"`
}

// Member is a teammate eligible to appear in a game. The JSON field names
// mirror the welcomepage payload the frontend already sends, which mixes
// snake_case identity fields with camelCase page content.
type Member struct {
	PublicID        string            `json:"public_id"`
	Name            string            `json:"name"`
	Nickname        string            `json:"nickname,omitempty"`
	Role            string            `json:"role,omitempty"`
	ProfileImage    string            `json:"profile_image,omitempty"`
	WaveGifURL      string            `json:"wave_gif_url,omitempty"`
	SelectedPrompts []string          `json:"selectedPrompts,omitempty"`
	Answers         map[string]Answer `json:"answers,omitempty"`
}

// AnswerText returns the answer text for a prompt, or "" when unanswered.
func (m Member) AnswerText(prompt string) string {
	if m.Answers == nil {
		return ""
	}
	return m.Answers[prompt].Text
}

// HasContent reports whether the member has at least one selected prompt
// with a non-empty answer.
func (m Member) HasContent() bool {
	for _, p := range m.SelectedPrompts {
		if m.AnswerText(p) != "" {
			return true
		}
	}
	return false
}

// DisplayName prefers the nickname, falling back to the first name token.
func (m Member) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return firstToken(m.Name)
}

// AlternateMember carries the minimal data needed to serve as a distractor
// option. Disjoint from Member: alternates have no page content.
type AlternateMember struct {
	PublicID   string `json:"public_id"`
	Name       string `json:"name"`
	WaveGifURL string `json:"wave_gif_url,omitempty"`
}

// Option is one selectable answer shown under a question.
type Option struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Emojis decorates the three statements of a two-truths-lie question.
type Emojis struct {
	Truth string `json:"truth"`
	Lie1  string `json:"lie1"`
	Lie2  string `json:"lie2"`
}

// Question is the final record delivered to clients. Never mutated after
// assembly and never persisted by this service.
type Question struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correctAnswer"`
	CorrectAnswerID string   `json:"correctAnswerId"`
	Options         []Option `json:"options"`
	AdditionalInfo  string   `json:"additionalInfo,omitempty"`
	Emojis          *Emojis  `json:"emojis,omitempty"`
	PromptText      string   `json:"promptText,omitempty"`
	AnswerText      string   `json:"answerText,omitempty"`
	MemberPublicID  string   `json:"memberPublicId,omitempty"`
	MemberNickname  string   `json:"memberNickname,omitempty"`
}

// SubjectID identifies the member a question is about: the correct answer
// for guess-who, the profiled member for two-truths-lie.
func (q Question) SubjectID() string {
	if q.Type == TypeTwoTruthsLie {
		return q.MemberPublicID
	}
	return q.CorrectAnswerID
}

func firstToken(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
