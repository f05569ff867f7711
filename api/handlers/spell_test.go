package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readease/readease-api/internal/models"
	"github.com/readease/readease-api/pkg/logger"
)

type fakeCorrector struct {
	out string
	err error
}

func (f *fakeCorrector) Correct(ctx context.Context, text string) (string, error) {
	return f.out, f.err
}

func spellRouter(t *testing.T, svc SpellCorrector) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewSpellHandler(svc, logger.NewTestLogger())
	r := gin.New()
	r.POST("/api/spell-correct", h.Correct)
	return r
}

func TestSpellCorrect(t *testing.T) {
	r := spellRouter(t, &fakeCorrector{out: "The weather is nice."})

	req := httptest.NewRequest(http.MethodPost, "/api/spell-correct",
		strings.NewReader(`{"text":"The wether is nise."}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SpellCorrectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The weather is nice.", resp.CorrectedText)
	assert.Equal(t, "The wether is nise.", resp.OriginalText)
}

func TestSpellCorrectEmptyText(t *testing.T) {
	// Empty text is valid input; the service echoes it back.
	r := spellRouter(t, &fakeCorrector{out: ""})

	req := httptest.NewRequest(http.MethodPost, "/api/spell-correct",
		strings.NewReader(`{"text":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SpellCorrectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.CorrectedText)
}

func TestSpellCorrectInvalidBody(t *testing.T) {
	r := spellRouter(t, &fakeCorrector{})

	req := httptest.NewRequest(http.MethodPost, "/api/spell-correct",
		strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSpellCorrectServiceError(t *testing.T) {
	r := spellRouter(t, &fakeCorrector{err: errors.New("provider down")})

	req := httptest.NewRequest(http.MethodPost, "/api/spell-correct",
		strings.NewReader(`{"text":"sum text"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to correct text", resp.Message)
	assert.Equal(t, "provider down", resp.Error)
}
