package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitness-tracker/internal/config"
	"fitness-tracker/internal/repository/memory"
)

type testAPI struct {
	t      *testing.T
	server *Server
}

func newTestConfig() *config.Config {
	return &config.Config{
		AppEnv:  "test",
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
		JWT: config.JWTConfig{
			Secret:   "server-test-secret-server-test-secret",
			Issuer:   "fitnessTrackerApi",
			Audience: "fitnessTrackerClient",
			TTL:      24 * time.Hour,
		},
		CORS: config.CORSConfig{
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
		Auth:  config.AuthConfig{AllowTrainerSignup: true},
		Admin: config.AdminConfig{Email: "admin@fitnesstracker.com", Password: "AdminP@ss123!"},
	}
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	repos := Repositories{
		Users:       store.Users(),
		Exercises:   store.Exercises(),
		Assignments: store.Assignments(),
	}
	s := NewServerWithRepositories(newTestConfig(), repos, nil, zap.NewNop())
	require.NoError(t, s.SeedAdmin(context.Background()))
	return &testAPI{t: t, server: s}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.server.GetRouter().ServeHTTP(w, req)
	return w
}

func (a *testAPI) decode(w *httptest.ResponseRecorder, v interface{}) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), v))
}

func (a *testAPI) signup(name, email string, trainer bool) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/users", "", map[string]interface{}{
		"name": name, "email": email, "password": "Secret123!", "isTrainer": trainer,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct{ ID string }
	a.decode(w, &resp)
	return resp.ID
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/login", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token      string    `json:"token"`
		Expiration time.Time `json:"expiration"`
	}
	a.decode(w, &resp)
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func (a *testAPI) createExercise(token, name string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/exercises", token, map[string]string{
		"name": name, "description": "desc", "targetMuscleGroup": "Legs",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct{ ID string }
	a.decode(w, &resp)
	return resp.ID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil).Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health/db", "", nil).Code)
}

func TestExerciseCatalog(t *testing.T) {
	api := newTestAPI(t)

	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/exercises", "", map[string]string{"name": "Squat"}).Code)

	api.signup("Ann", "ann@example.com", false)
	userToken := api.login("ann@example.com", "Secret123!")
	api.signup("Tom", "tom@example.com", true)
	trainerToken := api.login("tom@example.com", "Secret123!")

	id := api.createExercise(userToken, "Squat")

	w := api.do(http.MethodGet, "/exercises/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		ID                string `json:"id"`
		Name              string `json:"name"`
		TargetMuscleGroup string `json:"targetMuscleGroup"`
	}
	api.decode(w, &got)
	require.Equal(t, id, got.ID)
	require.Equal(t, "Squat", got.Name)
	require.Equal(t, "Legs", got.TargetMuscleGroup)

	update := map[string]string{"name": "Front Squat"}
	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodPut, "/exercises/"+id, "", update).Code)
	require.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/exercises/"+id, userToken, update).Code)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodPut, "/exercises/"+id, trainerToken, update).Code)

	require.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/exercises/"+id, userToken, nil).Code)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/exercises/"+id, trainerToken, nil).Code)
	require.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/exercises/"+id, "", nil).Code)
	require.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/exercises/not-a-uuid", "", nil).Code)
}

func TestAssignmentFlow(t *testing.T) {
	api := newTestAPI(t)

	userID := api.signup("Ann", "ann@example.com", false)
	token := api.login("ann@example.com", "Secret123!")
	exerciseID := api.createExercise(token, "Squat")
	path := "/users/" + userID + "/exercises/" + exerciseID

	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, path, "", nil).Code)

	require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, path, token, map[string]interface{}{
		"targetSets": 3, "targetReps": 10, "notes": "slow",
	}).Code)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, path, token, map[string]interface{}{
		"targetSets": 4,
	}).Code)

	w := api.do(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var a struct {
		TargetSets *int    `json:"targetSets"`
		TargetReps *int    `json:"targetReps"`
		Notes      *string `json:"notes"`
	}
	api.decode(w, &a)
	require.NotNil(t, a.TargetSets)
	require.Equal(t, 4, *a.TargetSets)
	require.Nil(t, a.TargetReps)
	require.Nil(t, a.Notes)

	w = api.do(http.MethodGet, "/users/"+userID+"/exercises", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var exercises []map[string]interface{}
	api.decode(w, &exercises)
	require.Len(t, exercises, 1)

	w = api.do(http.MethodGet, "/exercises/"+exerciseID+"/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]interface{}
	api.decode(w, &users)
	require.Len(t, users, 1)
	require.Equal(t, userID, users[0]["id"])
	require.NotContains(t, w.Body.String(), "password")

	require.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, path, token, map[string]int{"targetReps": 0}).Code)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, path, token, nil).Code)
	require.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, path, token, nil).Code)

	w = api.do(http.MethodGet, "/exercises/"+exerciseID+"/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestAssign_MissingParent(t *testing.T) {
	api := newTestAPI(t)

	userID := api.signup("Ann", "ann@example.com", false)
	token := api.login("ann@example.com", "Secret123!")

	missing := "/users/" + userID + "/exercises/00000000-0000-0000-0000-000000000001"
	require.Equal(t, http.StatusNotFound, api.do(http.MethodPost, missing, token, nil).Code)

	w := api.do(http.MethodGet, "/users/"+userID+"/exercises", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestUserPolicy(t *testing.T) {
	api := newTestAPI(t)

	annID := api.signup("Ann", "ann@example.com", false)
	bobID := api.signup("Bob", "bob@example.com", false)
	annToken := api.login("ann@example.com", "Secret123!")
	adminToken := api.login("admin@fitnesstracker.com", "AdminP@ss123!")

	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/users", "", nil).Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/users/"+bobID, annToken, nil).Code)

	rename := map[string]string{"name": "Ann B"}
	require.Equal(t, http.StatusNoContent, api.do(http.MethodPut, "/users/"+annID, annToken, rename).Code)
	require.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/users/"+bobID, annToken, rename).Code)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodPut, "/users/"+bobID, adminToken, rename).Code)

	conflict := map[string]string{"email": "bob@example.com"}
	require.Equal(t, http.StatusConflict, api.do(http.MethodPut, "/users/"+annID, annToken, conflict).Code)

	require.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/users/"+bobID, annToken, nil).Code)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/users/"+bobID, adminToken, nil).Code)
	require.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/users/"+bobID, annToken, nil).Code)
}

func TestEmailChangeReleasesOldEmail(t *testing.T) {
	api := newTestAPI(t)

	annID := api.signup("Ann", "ann@example.com", false)
	token := api.login("ann@example.com", "Secret123!")

	w := api.do(http.MethodPut, "/users/"+annID, token, map[string]string{"email": "ann2@example.com"})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/login", "", map[string]string{"username": "ann@example.com", "password": "Secret123!"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	api.signup("Other Ann", "ann@example.com", false)
	api.login("ann2@example.com", "Secret123!")
}

func TestUserDeleteCascadesAssignments(t *testing.T) {
	api := newTestAPI(t)

	bobID := api.signup("Bob", "bob@example.com", false)
	bobToken := api.login("bob@example.com", "Secret123!")
	adminToken := api.login("admin@fitnesstracker.com", "AdminP@ss123!")
	exerciseID := api.createExercise(bobToken, "Row")

	require.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/users/"+bobID+"/exercises/"+exerciseID, bobToken, nil).Code)
	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/users/"+bobID, adminToken, nil).Code)

	w := api.do(http.MethodGet, "/exercises/"+exerciseID+"/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestSignupAndLogin(t *testing.T) {
	api := newTestAPI(t)

	api.signup("Ann", "ann@example.com", false)

	w := api.do(http.MethodPost, "/users", "", map[string]interface{}{
		"name": "Other", "email": "ANN@example.com", "password": "Secret123!",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/users", "", map[string]interface{}{"name": "NoEmail", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	wrongPassword := api.do(http.MethodPost, "/login", "", map[string]string{"username": "ann@example.com", "password": "nope"})
	unknownUser := api.do(http.MethodPost, "/login", "", map[string]string{"username": "ghost", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())

	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/users", "garbage-token", nil).Code)
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.server.SeedAdmin(context.Background()))

	token := api.login("admin@fitnesstracker.com", "AdminP@ss123!")
	w := api.do(http.MethodGet, "/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	api.decode(w, &users)
	require.Len(t, users, 1)
}
