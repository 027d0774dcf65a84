package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathway/internal/audit"
	jwttoken "pathway/internal/jwt_token"
	platformmetrics "pathway/internal/platform/metrics"
	profilemetrics "pathway/internal/profile/metrics"
	"pathway/internal/profile/models"
	"pathway/internal/profile/service"
	"pathway/internal/profile/store"
	"pathway/internal/questionnaire"
	"pathway/internal/questionnaire/controller"
	"pathway/internal/remote"
	id "pathway/pkg/domain"
	"pathway/pkg/testutil"
)

var (
	transportMetrics = platformmetrics.New()
	profMetrics      = profilemetrics.New()
)

type env struct {
	router   http.Handler
	jwt      *jwttoken.JWTService
	profiles *service.Service
}

func newEnv(t *testing.T, cfg controller.Config) *env {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	profiles := service.NewService(store.NewInMemory(), &remote.MockProfileClient{}, audit.NewPublisher(64), profMetrics, logger)
	sessions := controller.New(profiles, cfg, logger)
	jwtService := jwttoken.NewJWTService("handler-test-key", "pathway-test", "pathway-api")

	h := New(sessions, logger, transportMetrics, jwttoken.NewJWTServiceAdapter(jwtService))
	router := chi.NewRouter()
	h.Register(router)

	return &env{router: router, jwt: jwtService, profiles: profiles}
}

func (e *env) request(t *testing.T, method, path string, userID id.UserID) *httptest.ResponseRecorder {
	t.Helper()

	req := testutil.NewJSONRequest(t, method, path, "")
	token, err := e.jwt.GenerateAccessToken(uuid.UUID(userID), time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return testutil.Do(e.router, req)
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) controller.Status {
	t.Helper()
	return testutil.DecodeJSON[controller.Status](t, rec)
}

func testUserID(t *testing.T) id.UserID {
	t.Helper()
	userID, err := id.ParseUserID(uuid.NewString())
	require.NoError(t, err)
	return userID
}

func fillBasicSection(t *testing.T, e *env, userID id.UserID) {
	t.Helper()
	_, err := e.profiles.UpdateSection(context.Background(), userID, models.SectionBasic,
		json.RawMessage(`{"fullName":"Jane Doe","email":"jane@example.com","citizenCountry":"India","residenceCountry":"India"}`))
	require.NoError(t, err)
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t, controller.Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/questionnaire", nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrent(t *testing.T) {
	e := newEnv(t, controller.Config{})
	userID := testUserID(t)

	rec := e.request(t, http.MethodGet, "/v1/questionnaire", userID)
	require.Equal(t, http.StatusOK, rec.Code)

	status := decodeStatus(t, rec)
	assert.Equal(t, questionnaire.First(), status.Step)
	assert.False(t, status.Validation.Valid)
	assert.NotEmpty(t, status.StepInfo.Title)
}

func TestContinueAndBack(t *testing.T) {
	e := newEnv(t, controller.Config{})
	userID := testUserID(t)

	t.Run("continue on an invalid section stays put", func(t *testing.T) {
		rec := e.request(t, http.MethodPost, "/v1/questionnaire/continue", userID)
		require.Equal(t, http.StatusOK, rec.Code)

		status := decodeStatus(t, rec)
		assert.Equal(t, questionnaire.First(), status.Step)
		assert.False(t, status.Advanced)
		assert.NotEmpty(t, status.Validation.FieldErrors)
	})

	t.Run("continue advances once the section is valid", func(t *testing.T) {
		fillBasicSection(t, e, userID)

		rec := e.request(t, http.MethodPost, "/v1/questionnaire/continue", userID)
		require.Equal(t, http.StatusOK, rec.Code)

		status := decodeStatus(t, rec)
		assert.True(t, status.Advanced)
		assert.Equal(t, models.SectionLanguage, status.Step)
	})

	t.Run("back returns to the previous step", func(t *testing.T) {
		rec := e.request(t, http.MethodPost, "/v1/questionnaire/back", userID)
		require.Equal(t, http.StatusOK, rec.Code)

		status := decodeStatus(t, rec)
		assert.Equal(t, questionnaire.First(), status.Step)
		assert.False(t, status.Home)
	})

	t.Run("back from the first step reports home", func(t *testing.T) {
		rec := e.request(t, http.MethodPost, "/v1/questionnaire/back", userID)
		require.Equal(t, http.StatusOK, rec.Code)

		status := decodeStatus(t, rec)
		assert.True(t, status.Home)
	})
}

func TestSave(t *testing.T) {
	t.Run("disabled returns a 400", func(t *testing.T) {
		e := newEnv(t, controller.Config{})

		rec := e.request(t, http.MethodPost, "/v1/questionnaire/save", testUserID(t))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("enabled persists the draft", func(t *testing.T) {
		e := newEnv(t, controller.Config{EnableSave: true})
		userID := testUserID(t)

		rec := e.request(t, http.MethodPost, "/v1/questionnaire/save", userID)
		require.Equal(t, http.StatusOK, rec.Code)

		status := decodeStatus(t, rec)
		assert.Equal(t, questionnaire.First(), status.Step)
	})
}
