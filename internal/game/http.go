package game

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/welcomepage/teamgame/internal/logging"
	httperrors "github.com/welcomepage/teamgame/pkg/http/errors"
)

// HTTPHandlers exposes the question-generation REST endpoints.
type HTTPHandlers struct {
	svc    *Service
	recent *RecentSubjects
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, recent *RecentSubjects, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		recent: recent,
		logger: logger.With().Str("component", "game_http").Logger(),
	}
}

// log returns the request-scoped logger when the server middleware has
// injected one, otherwise the handler's own.
func (h *HTTPHandlers) log(r *http.Request) zerolog.Logger {
	logger := logging.FromContext(r.Context())
	if logger.GetLevel() == zerolog.Disabled {
		return h.logger
	}
	return logger.With().Str("component", "game_http").Logger()
}

// GenerateQuestionsRequest is the batch generation payload.
type GenerateQuestionsRequest struct {
	Members       []Member          `json:"members"`
	AlternatePool []AlternateMember `json:"alternatePool,omitempty"`
	TeamID        string            `json:"teamId,omitempty"`
}

type GenerateQuestionsResponse struct {
	Questions []Question `json:"questions"`
}

// GenerateSingleQuestionRequest asks for one more question of a given type.
type GenerateSingleQuestionRequest struct {
	Members         []Member          `json:"members"`
	ExcludeSubjects []string          `json:"excludeSubjects,omitempty"`
	QuestionType    string            `json:"questionType"`
	AlternatePool   []AlternateMember `json:"alternatePool,omitempty"`
	TeamID          string            `json:"teamId,omitempty"`
}

type GenerateSingleQuestionResponse struct {
	Question *Question `json:"question"`
}

type EstimateRequest struct {
	Members []Member `json:"members"`
}

type EstimateResponse struct {
	Seconds float64 `json:"seconds"`
}

// HandleGenerateQuestions serves POST /v1/team/game/generate-questions.
func (h *HTTPHandlers) HandleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid request body")
		return
	}
	if len(req.Members) < 3 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "at least 3 team members required")
		return
	}

	questions, err := h.svc.GenerateQuestions(r.Context(), req.Members, req.AlternatePool)
	if err != nil {
		h.respondGenerationError(w, r, err)
		return
	}

	if req.TeamID != "" && len(questions) > 0 {
		ids := make([]string, 0, len(questions))
		for _, q := range questions {
			if id := q.SubjectID(); id != "" && id != "truth" {
				ids = append(ids, id)
			}
		}
		if err := h.recent.Add(r.Context(), req.TeamID, ids...); err != nil {
			logger := h.log(r)
			logger.Warn().Err(err).Str("team", req.TeamID).Msg("recording recent subjects failed")
		}
	}

	if questions == nil {
		questions = []Question{}
	}
	writeJSON(w, http.StatusOK, GenerateQuestionsResponse{Questions: questions})
}

// HandleGenerateSingleQuestion serves POST /v1/team/game/generate-single-question.
// Recently used subjects recorded for the team are merged into the
// caller's exclusion list.
func (h *HTTPHandlers) HandleGenerateSingleQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req GenerateSingleQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid request body")
		return
	}
	if len(req.Members) == 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "members are required")
		return
	}

	exclude := req.ExcludeSubjects
	if req.TeamID != "" {
		if recent, err := h.recent.List(r.Context(), req.TeamID); err != nil {
			logger := h.log(r)
			logger.Warn().Err(err).Str("team", req.TeamID).Msg("recent subject lookup failed")
		} else {
			exclude = append(exclude, recent...)
		}
	}

	question, err := h.svc.GenerateSingleQuestion(r.Context(), req.Members, exclude, req.QuestionType, req.AlternatePool)
	if err != nil {
		h.respondGenerationError(w, r, err)
		return
	}

	if question != nil && req.TeamID != "" {
		if id := question.SubjectID(); id != "" {
			if err := h.recent.Add(r.Context(), req.TeamID, id); err != nil {
				logger := h.log(r)
				logger.Warn().Err(err).Str("team", req.TeamID).Msg("recording recent subject failed")
			}
		}
	}

	writeJSON(w, http.StatusOK, GenerateSingleQuestionResponse{Question: question})
}

// HandleEstimate serves POST /v1/team/game/estimate.
func (h *HTTPHandlers) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, EstimateResponse{Seconds: h.svc.EstimateGenerationTime(req.Members)})
}

func (h *HTTPHandlers) respondGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotConfigured) {
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeGenerationNotConfigured, "game question generation is not configured")
		return
	}
	logger := h.log(r)
	logger.Error().Err(err).Msg("question generation failed")
	httperrors.RespondInternalError(w, "failed to generate game questions")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
