package game

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welcomepage/teamgame/internal/logging"
)

func newTestHandlers(completer Completer) *HTTPHandlers {
	logger := zerolog.New(io.Discard)
	svc := NewService(completer, ServiceOptions{Seed: 9, Model: "gpt-4o-mini"}, logger)
	return NewHTTPHandlers(svc, NewRecentSubjects(nil, 0), logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleGenerateQuestions(t *testing.T) {
	handlers := newTestHandlers(&stubCompleter{configured: true, respond: batchResponder})

	rec := postJSON(t, handlers.HandleGenerateQuestions, GenerateQuestionsRequest{
		Members:       testRoster(12),
		AlternatePool: testAlternates(20),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateQuestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Questions, 10)
}

func TestHandleGenerateQuestionsRejectsSmallRoster(t *testing.T) {
	handlers := newTestHandlers(&stubCompleter{configured: true})

	rec := postJSON(t, handlers.HandleGenerateQuestions, GenerateQuestionsRequest{Members: testRoster(2)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerateQuestionsNotConfigured(t *testing.T) {
	handlers := newTestHandlers(&stubCompleter{configured: false})

	rec := postJSON(t, handlers.HandleGenerateQuestions, GenerateQuestionsRequest{Members: testRoster(12)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "generation_not_configured")
}

func TestHandleGenerateQuestionsEmptyOnUpstreamFailure(t *testing.T) {
	handlers := newTestHandlers(&stubCompleter{configured: true, err: io.ErrUnexpectedEOF})

	rec := postJSON(t, handlers.HandleGenerateQuestions, GenerateQuestionsRequest{Members: testRoster(12)})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateQuestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Questions)
	assert.Contains(t, rec.Body.String(), `"questions":[]`)
}

func TestHandleGenerateSingleQuestion(t *testing.T) {
	handlers := newTestHandlers(&stubCompleter{configured: true, respond: singleResponder})

	rec := postJSON(t, handlers.HandleGenerateSingleQuestion, GenerateSingleQuestionRequest{
		Members:       testRoster(6),
		QuestionType:  TypeTwoTruthsLie,
		AlternatePool: testAlternates(5),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateSingleQuestionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Question)
	assert.Equal(t, TypeTwoTruthsLie, resp.Question.Type)
}

func TestHandleEstimate(t *testing.T) {
	handlers := newTestHandlers(&stubCompleter{configured: true})

	rec := postJSON(t, handlers.HandleEstimate, EstimateRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10.0, resp.Seconds)
}

func TestHandlersRejectNonPost(t *testing.T) {
	handlers := newTestHandlers(&stubCompleter{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handlers.HandleGenerateQuestions(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerLoggerPrefersRequestScope(t *testing.T) {
	handlers := newTestHandlers(&stubCompleter{configured: true})

	var buf bytes.Buffer
	ctxLogger := zerolog.New(&buf).With().Str("request_id", "req-7").Logger()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(logging.IntoContext(req.Context(), ctxLogger))

	scopedLogger := handlers.log(req)
	scopedLogger.Warn().Msg("boom")
	assert.Contains(t, buf.String(), "req-7")
	assert.Contains(t, buf.String(), "game_http")

	bare := httptest.NewRequest(http.MethodPost, "/", nil)
	bareLogger := handlers.log(bare)
	bareLogger.Warn().Msg("quiet")
	assert.NotContains(t, buf.String(), "quiet")
}
